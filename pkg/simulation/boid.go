package simulation

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/steering"
)

// Boid is a single steered agent.
type Boid struct {
	ID           string
	Flock        string // name of the flock it was spawned in, empty when built by hand
	Position     r3.Vec
	Velocity     r3.Vec
	Acceleration r3.Vec
	// Target is scratch space for behaviors that aim at a point (Seek, Flee, Arrive
	// with no explicit target). Bindings earlier in the list may move it.
	Target    r3.Vec
	Behaviors []*Behavior

	maxSpeed    float64
	maxForce    float64
	hasMaxSpeed bool
	hasMaxForce bool
}

var _ steering.Agent = (*Boid)(nil)

// NewBoid creates a boid at rest at position with the given behaviors, in order.
func NewBoid(position r3.Vec, behaviors ...*Behavior) *Boid {
	return &Boid{
		ID:        uuid.NewString(),
		Position:  position,
		Behaviors: behaviors,
	}
}

// Kinematics lets other boids see this one through group behaviors.
func (b *Boid) Kinematics() (position, velocity r3.Vec) {
	return b.Position, b.Velocity
}

// SetMaxSpeed overrides the System speed cap for this boid. Zero is a real cap.
func (b *Boid) SetMaxSpeed(v float64) {
	b.maxSpeed, b.hasMaxSpeed = v, true
}

// SetMaxForce overrides the System force cap for this boid. Zero is a real cap.
func (b *Boid) SetMaxForce(v float64) {
	b.maxForce, b.hasMaxForce = v, true
}

// ClearMaxSpeed makes the boid inherit the System speed cap again.
func (b *Boid) ClearMaxSpeed() {
	b.maxSpeed, b.hasMaxSpeed = 0, false
}

// ClearMaxForce makes the boid inherit the System force cap again.
func (b *Boid) ClearMaxForce() {
	b.maxForce, b.hasMaxForce = 0, false
}

// MaxSpeed returns the per-boid override, if any.
func (b *Boid) MaxSpeed() (float64, bool) { return b.maxSpeed, b.hasMaxSpeed }

// MaxForce returns the per-boid override, if any.
func (b *Boid) MaxForce() (float64, bool) { return b.maxForce, b.hasMaxForce }

// speedCap resolves the speed limit used by Integrate.
func (b *Boid) speedCap(system float64) float64 {
	if b.hasMaxSpeed {
		return b.maxSpeed
	}
	return system
}

// AddBehavior appends bindings after the existing ones.
func (b *Boid) AddBehavior(behaviors ...*Behavior) {
	b.Behaviors = append(b.Behaviors, behaviors...)
}

// ApplyForce accumulates a force into the acceleration.
func (b *Boid) ApplyForce(force r3.Vec) {
	b.Acceleration = r3.Add(b.Acceleration, force)
}

// ApplyBehaviors evaluates every enabled binding in order. A force is limited to
// the resolved maxForce, multiplied by the binding scale and accumulated.
// Bindings that produce no force are skipped.
func (b *Boid) ApplyBehaviors(ctx Context) {
	for _, behavior := range b.Behaviors {
		if behavior == nil || !behavior.Enabled() {
			continue
		}
		in := behavior.resolve(b, ctx)
		force, ok := behavior.evaluate(b, in)
		if !ok {
			continue
		}
		force = geometry.Limit(force, in.maxForce)
		b.ApplyForce(r3.Scale(behavior.Scale(), force))
	}
}

// Integrate advances the boid by dt: velocity from acceleration (capped at
// maxSpeed), position from velocity. Acceleration is reset to zero.
func (b *Boid) Integrate(dt, maxSpeed float64) {
	b.Velocity = geometry.Limit(r3.Add(b.Velocity, r3.Scale(dt, b.Acceleration)), maxSpeed)
	b.Position = r3.Add(b.Position, r3.Scale(dt, b.Velocity))
	b.Acceleration = geometry.Zero
}

func (b *Boid) String() string {
	return fmt.Sprintf("boid %s at %s moving %s", b.ID, geometry.String(b.Position), geometry.String(b.Velocity))
}
