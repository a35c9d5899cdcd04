package simulation

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/steering"
)

// Kind names a steering behavior.
type Kind int

const (
	KindSeek Kind = iota
	KindFlee
	KindArrive
	KindPursue
	KindEvade
	KindAvoidObstacles
	KindWander
	KindFollowPath
	KindFollowFlowFieldSimple
	KindFollowFlowField
	KindFollowLeaderSimple
	KindFollowLeader
	KindSeparate
	KindCohere
	KindAlign
	KindFlock
	KindBoundsConstrain
	KindSphereConstrain
	KindBoundsWrapConstrain
	KindSphereWrapConstrain
)

var kindNames = [...]string{
	KindSeek:                  "seek",
	KindFlee:                  "flee",
	KindArrive:                "arrive",
	KindPursue:                "pursue",
	KindEvade:                 "evade",
	KindAvoidObstacles:        "avoidObstacles",
	KindWander:                "wander",
	KindFollowPath:            "followPath",
	KindFollowFlowFieldSimple: "followFlowFieldSimple",
	KindFollowFlowField:       "followFlowField",
	KindFollowLeaderSimple:    "followLeaderSimple",
	KindFollowLeader:          "followLeader",
	KindSeparate:              "separate",
	KindCohere:                "cohere",
	KindAlign:                 "align",
	KindFlock:                 "flock",
	KindBoundsConstrain:       "boundsConstrain",
	KindSphereConstrain:       "sphereConstrain",
	KindBoundsWrapConstrain:   "boundsWrapConstrain",
	KindSphereWrapConstrain:   "sphereWrapConstrain",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String. Matching ignores case.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown behavior kind %q", s)
}

// Params holds the parameters of one behavior kind. Bindings keep a pointer to
// it so callers can change parameters between ticks.
type Params interface {
	Kind() Kind
}

// Seek heads to Target, or to the boid's own Target when nil.
type Seek struct{ Target *r3.Vec }

// Flee runs from Target, or from the boid's own Target when nil.
type Flee struct{ Target *r3.Vec }

// Arrive is Seek slowing down inside Radius.
type Arrive struct {
	Target *r3.Vec
	Radius float64
}

// Pursue chases where Quarry is going to be.
type Pursue struct{ Quarry steering.Agent }

// Evade runs from where Quarry is going to be.
type Evade struct{ Quarry steering.Agent }

// AvoidObstacles with MaxAvoidForce <= 0 pushes with the resolved maxForce.
type AvoidObstacles struct {
	Obstacles     []steering.Obstacle
	MaxAvoidForce float64
	FixedDistance float64
}

// Wander angles are advanced by the caller, see Scene.Step.
type Wander struct {
	Distance float64
	Radius   float64
	Theta    float64
	Phi      float64
}

type FollowPath struct {
	Path          *steering.Path
	FixedDistance float64
}

type FollowFlowFieldSimple struct{ Field steering.FlowField }

type FollowFlowField struct {
	Field         steering.FlowField
	FixedDistance float64
}

type FollowLeaderSimple struct {
	Leader   steering.Agent
	Distance float64
	Radius   float64
}

type FollowLeader struct {
	Leader      steering.Agent
	Distance    float64
	Radius      float64
	EvadeScale  float64
	ArriveScale float64
}

type Separate struct{ MaxDistance float64 }
type Cohere struct{ MaxDistance float64 }
type Align struct{ MaxDistance float64 }
type Flock struct{ MaxDistance float64 }

type BoundsConstrain struct{ FixedDistance float64 }

// SphereConstrain with Radius <= 0 uses half the smallest bounds component.
type SphereConstrain struct {
	Radius        float64
	FixedDistance float64
}

type BoundsWrapConstrain struct{}

// SphereWrapConstrain with Radius <= 0 uses half the smallest bounds component.
type SphereWrapConstrain struct{ Radius float64 }

func (*Seek) Kind() Kind                  { return KindSeek }
func (*Flee) Kind() Kind                  { return KindFlee }
func (*Arrive) Kind() Kind                { return KindArrive }
func (*Pursue) Kind() Kind                { return KindPursue }
func (*Evade) Kind() Kind                 { return KindEvade }
func (*AvoidObstacles) Kind() Kind        { return KindAvoidObstacles }
func (*Wander) Kind() Kind                { return KindWander }
func (*FollowPath) Kind() Kind            { return KindFollowPath }
func (*FollowFlowFieldSimple) Kind() Kind { return KindFollowFlowFieldSimple }
func (*FollowFlowField) Kind() Kind       { return KindFollowFlowField }
func (*FollowLeaderSimple) Kind() Kind    { return KindFollowLeaderSimple }
func (*FollowLeader) Kind() Kind          { return KindFollowLeader }
func (*Separate) Kind() Kind              { return KindSeparate }
func (*Cohere) Kind() Kind                { return KindCohere }
func (*Align) Kind() Kind                 { return KindAlign }
func (*Flock) Kind() Kind                 { return KindFlock }
func (*BoundsConstrain) Kind() Kind       { return KindBoundsConstrain }
func (*SphereConstrain) Kind() Kind       { return KindSphereConstrain }
func (*BoundsWrapConstrain) Kind() Kind   { return KindBoundsWrapConstrain }
func (*SphereWrapConstrain) Kind() Kind   { return KindSphereWrapConstrain }

// Context is what the System hands every boid for one tick.
type Context struct {
	MaxSpeed float64
	MaxForce float64
	Center   r3.Vec
	Bounds   r3.Vec
	Agents   []steering.Agent
}

// Behavior binds a behavior kind to a boid with its own enable flag, scale and
// overrides of the System context.
type Behavior struct {
	params  Params
	enabled bool
	scale   float64

	maxSpeed, maxForce       float64
	hasMaxSpeed, hasMaxForce bool
	center, bounds           *r3.Vec
}

// BehaviorOption tweaks a binding at construction.
type BehaviorOption func(*Behavior)

// WithScale multiplies the limited force. A scale of 0 mutes the binding.
func WithScale(scale float64) BehaviorOption {
	return func(b *Behavior) { b.scale = scale }
}

// WithMaxSpeed overrides the System maxSpeed seen by this behavior.
func WithMaxSpeed(v float64) BehaviorOption {
	return func(b *Behavior) { b.maxSpeed, b.hasMaxSpeed = v, true }
}

// WithMaxForce overrides both the System and the boid maxForce for this behavior.
func WithMaxForce(v float64) BehaviorOption {
	return func(b *Behavior) { b.maxForce, b.hasMaxForce = v, true }
}

func WithCenter(center r3.Vec) BehaviorOption {
	return func(b *Behavior) { b.center = &center }
}

func WithBounds(bounds r3.Vec) BehaviorOption {
	return func(b *Behavior) { b.bounds = &bounds }
}

// NewBehavior returns an enabled binding with scale 1.
func NewBehavior(params Params, opts ...BehaviorOption) *Behavior {
	b := &Behavior{params: params, enabled: true, scale: 1}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Behavior) Params() Params { return b.params }

func (b *Behavior) Kind() Kind {
	if b.params == nil {
		return -1
	}
	return b.params.Kind()
}

func (b *Behavior) Enabled() bool { return b.enabled }

func (b *Behavior) SetEnabled(enabled bool) { b.enabled = enabled }

func (b *Behavior) Scale() float64 { return b.scale }

func (b *Behavior) SetScale(scale float64) { b.scale = scale }

func (b *Behavior) String() string {
	return fmt.Sprintf("%s(scale=%g enabled=%t)", b.Kind(), b.scale, b.enabled)
}

// inputs is the context after binding and boid overrides were applied.
type inputs struct {
	maxSpeed float64
	maxForce float64
	center   r3.Vec
	bounds   r3.Vec
	agents   []steering.Agent
}

// resolve layers binding overrides over boid overrides over the System context.
func (b *Behavior) resolve(boid *Boid, ctx Context) inputs {
	in := inputs{
		maxSpeed: ctx.MaxSpeed,
		maxForce: ctx.MaxForce,
		center:   ctx.Center,
		bounds:   ctx.Bounds,
		agents:   ctx.Agents,
	}
	if v, ok := boid.MaxForce(); ok {
		in.maxForce = v
	}
	if b.hasMaxForce {
		in.maxForce = b.maxForce
	}
	if b.hasMaxSpeed {
		in.maxSpeed = b.maxSpeed
	}
	if b.center != nil {
		in.center = *b.center
	}
	if b.bounds != nil {
		in.bounds = *b.bounds
	}
	return in
}

// present rejects nil agents, including a nil *Boid stored in the interface.
func present(a steering.Agent) bool {
	if a == nil {
		return false
	}
	if boid, ok := a.(*Boid); ok && boid == nil {
		return false
	}
	return true
}

func targetOf(boid *Boid, target *r3.Vec) r3.Vec {
	if target != nil {
		return *target
	}
	return boid.Target
}

func sphereRadius(radius float64, bounds r3.Vec) float64 {
	if radius > 0 {
		return radius
	}
	return 0.5 * math.Min(bounds.X, math.Min(bounds.Y, bounds.Z))
}

// evaluate dispatches on the params variant. The wrap constraints move the boid
// directly and always report no force.
func (b *Behavior) evaluate(boid *Boid, in inputs) (r3.Vec, bool) {
	pos, vel := boid.Position, boid.Velocity

	switch p := b.params.(type) {
	case *Seek:
		return steering.Seek(pos, targetOf(boid, p.Target), vel, in.maxSpeed), true
	case *Flee:
		return steering.Flee(pos, targetOf(boid, p.Target), vel, in.maxSpeed), true
	case *Arrive:
		return steering.Arrive(pos, targetOf(boid, p.Target), vel, in.maxSpeed, p.Radius), true
	case *Pursue:
		if !present(p.Quarry) {
			return geometry.Zero, false
		}
		qp, qv := p.Quarry.Kinematics()
		return steering.Pursue(pos, qp, vel, qv, in.maxSpeed), true
	case *Evade:
		if !present(p.Quarry) {
			return geometry.Zero, false
		}
		qp, qv := p.Quarry.Kinematics()
		return steering.Evade(pos, qp, vel, qv, in.maxSpeed), true
	case *AvoidObstacles:
		maxAvoid := p.MaxAvoidForce
		if maxAvoid <= 0 {
			maxAvoid = in.maxForce
		}
		return steering.AvoidObstacles(pos, vel, p.Obstacles, in.maxSpeed, maxAvoid, p.FixedDistance), true
	case *Wander:
		return steering.Wander(vel, p.Distance, p.Radius, p.Theta, p.Phi), true
	case *FollowPath:
		return steering.FollowPath(pos, vel, p.Path, in.maxSpeed, p.FixedDistance)
	case *FollowFlowFieldSimple:
		return steering.FollowFlowFieldSimple(pos, vel, p.Field, in.maxSpeed)
	case *FollowFlowField:
		return steering.FollowFlowField(pos, vel, p.Field, in.maxSpeed, p.FixedDistance)
	case *FollowLeaderSimple:
		if !present(p.Leader) {
			return geometry.Zero, false
		}
		return steering.FollowLeaderSimple(pos, vel, p.Leader, in.maxSpeed, p.Distance, p.Radius)
	case *FollowLeader:
		if !present(p.Leader) {
			return geometry.Zero, false
		}
		return steering.FollowLeader(pos, vel, p.Leader, in.maxSpeed, p.Distance, p.Radius, p.EvadeScale, p.ArriveScale)
	case *Separate:
		return steering.Separate(pos, vel, in.agents, p.MaxDistance, in.maxSpeed)
	case *Cohere:
		return steering.Cohere(pos, vel, in.agents, p.MaxDistance, in.maxSpeed)
	case *Align:
		return steering.Align(pos, vel, in.agents, p.MaxDistance, in.maxSpeed)
	case *Flock:
		return steering.Flock(pos, vel, in.agents, p.MaxDistance, in.maxSpeed)
	case *BoundsConstrain:
		return steering.BoundsConstrain(pos, vel, in.center, in.bounds, in.maxSpeed, in.maxForce, p.FixedDistance)
	case *SphereConstrain:
		radius := sphereRadius(p.Radius, in.bounds)
		return steering.SphereConstrain(pos, vel, in.center, radius, in.maxSpeed, in.maxForce, p.FixedDistance)
	case *BoundsWrapConstrain:
		steering.BoundsWrap(&boid.Position, in.center, in.bounds)
		return geometry.Zero, false
	case *SphereWrapConstrain:
		steering.SphereWrap(&boid.Position, in.center, sphereRadius(p.Radius, in.bounds))
		return geometry.Zero, false
	}
	return geometry.Zero, false
}
