package simulation

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/field"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/steering"
)

// Scene is a System populated from a Scenario, plus the caller-side chores the
// steering library leaves out: wander angle jitter and flow field time.
type Scene struct {
	Scenario  *Scenario
	System    *System
	Obstacles []steering.Obstacle
	Paths     map[string]*steering.Path
	Field     *field.Noise // nil when the scenario has no flow field

	flocks  map[string][]*Boid
	wanders []*Wander
	rng     *rand.Rand
	log     *slog.Logger
}

// BuildScene creates the System, spawns every flock at random positions inside
// the bounds and binds their behaviors. The scenario seed drives all
// randomness unless WithRand is given.
func BuildScene(sc *Scenario, opts ...Option) (*Scene, error) {
	if sc == nil {
		return nil, fmt.Errorf("nil scenario")
	}
	seeded := rand.New(rand.NewPCG(sc.Seed, sc.Seed^0x9e3779b97f4a7c15))
	system, err := NewSystem(sc.System, append([]Option{WithRand(seeded)}, opts...)...)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Scenario: sc,
		System:   system,
		Paths:    make(map[string]*steering.Path, len(sc.Paths)),
		flocks:   make(map[string][]*Boid, len(sc.Flocks)),
		rng:      system.rng,
		log:      system.log,
	}

	for _, o := range sc.Obstacles {
		s.Obstacles = append(s.Obstacles, steering.Obstacle{Position: geometry.FromArray(o.Position), Radius: o.Radius})
	}
	for _, p := range sc.Paths {
		if _, dup := s.Paths[p.Name]; dup {
			return nil, fmt.Errorf("duplicate path %q", p.Name)
		}
		path := &steering.Path{Radius: p.Radius}
		for _, pt := range p.Points {
			path.Points = append(path.Points, geometry.FromArray(pt))
		}
		s.Paths[p.Name] = path
	}
	if ff := sc.FlowField; ff != nil {
		frequency := ff.Frequency
		if frequency <= 0 {
			frequency = 1
		}
		s.Field = field.NewNoise(ff.Seed, frequency, system.Center(), system.Bounds())
	}

	// Spawn everybody first so leaders and quarries resolve whatever the flock order.
	for _, fs := range sc.Flocks {
		if _, dup := s.flocks[fs.Name]; dup {
			return nil, fmt.Errorf("duplicate flock %q", fs.Name)
		}
		s.flocks[fs.Name] = s.spawn(fs)
	}
	for _, fs := range sc.Flocks {
		for _, b := range s.flocks[fs.Name] {
			for i, spec := range fs.Behaviors {
				behavior, err := s.bind(spec)
				if err != nil {
					return nil, fmt.Errorf("flock %q behavior %d: %w", fs.Name, i, err)
				}
				b.AddBehavior(behavior)
			}
		}
	}

	s.log.Info("scene built",
		"scenario", sc.Name, "boids", len(system.Boids()), "flocks", len(sc.Flocks),
		"obstacles", len(s.Obstacles), "paths", len(s.Paths), "flowField", s.Field != nil)
	return s, nil
}

func (s *Scene) spawn(fs FlockSpec) []*Boid {
	maxSpeed := s.System.Config().MaxSpeed
	if fs.MaxSpeed != nil {
		maxSpeed = *fs.MaxSpeed
	}
	boids := make([]*Boid, 0, fs.Count)
	for range fs.Count {
		b := NewBoid(s.System.RandomPosition())
		b.Flock = fs.Name
		b.Velocity = r3.Scale(0.5*maxSpeed, s.randomDirection())
		if fs.MaxSpeed != nil {
			b.SetMaxSpeed(*fs.MaxSpeed)
		}
		if fs.MaxForce != nil {
			b.SetMaxForce(*fs.MaxForce)
		}
		s.System.AddBoid(b)
		boids = append(boids, b)
	}
	return boids
}

// randomDirection is uniform on the unit sphere.
func (s *Scene) randomDirection() r3.Vec {
	theta := math.Acos(2*s.rng.Float64() - 1)
	phi := 2 * math.Pi * s.rng.Float64()
	return geometry.NewVectorSpherical(1, theta, phi)
}

// head returns the first boid of a flock, the one others follow or chase.
func (s *Scene) head(flock string) (*Boid, error) {
	boids, ok := s.flocks[flock]
	if !ok {
		return nil, fmt.Errorf("unknown flock %q", flock)
	}
	if len(boids) == 0 {
		return nil, fmt.Errorf("flock %q is empty", flock)
	}
	return boids[0], nil
}

func orOne(v *float64) float64 {
	if v == nil {
		return 1
	}
	return *v
}

func (s *Scene) bind(spec BehaviorSpec) (*Behavior, error) {
	kind, err := ParseKind(spec.Kind)
	if err != nil {
		return nil, err
	}

	var params Params
	switch kind {
	case KindSeek, KindFlee, KindArrive:
		var target *r3.Vec
		if spec.Target != nil {
			t := geometry.FromArray(*spec.Target)
			target = &t
		}
		switch kind {
		case KindSeek:
			params = &Seek{Target: target}
		case KindFlee:
			params = &Flee{Target: target}
		default:
			params = &Arrive{Target: target, Radius: spec.Radius}
		}
	case KindPursue, KindEvade:
		quarry, err := s.head(spec.Quarry)
		if err != nil {
			return nil, fmt.Errorf("%s quarry: %w", kind, err)
		}
		if kind == KindPursue {
			params = &Pursue{Quarry: quarry}
		} else {
			params = &Evade{Quarry: quarry}
		}
	case KindAvoidObstacles:
		params = &AvoidObstacles{Obstacles: s.Obstacles, MaxAvoidForce: spec.MaxAvoidForce, FixedDistance: spec.FixedDistance}
	case KindWander:
		w := &Wander{Distance: spec.Distance, Radius: spec.Radius, Theta: spec.Theta, Phi: spec.Phi}
		s.wanders = append(s.wanders, w)
		params = w
	case KindFollowPath:
		path, ok := s.Paths[spec.Path]
		if !ok {
			return nil, fmt.Errorf("unknown path %q", spec.Path)
		}
		params = &FollowPath{Path: path, FixedDistance: spec.FixedDistance}
	case KindFollowFlowFieldSimple, KindFollowFlowField:
		if s.Field == nil {
			return nil, fmt.Errorf("%s needs a flowField in the scenario", kind)
		}
		if kind == KindFollowFlowField {
			params = &FollowFlowField{Field: s.Field, FixedDistance: spec.FixedDistance}
		} else {
			params = &FollowFlowFieldSimple{Field: s.Field}
		}
	case KindFollowLeaderSimple, KindFollowLeader:
		leader, err := s.head(spec.Leader)
		if err != nil {
			return nil, fmt.Errorf("%s leader: %w", kind, err)
		}
		if kind == KindFollowLeader {
			params = &FollowLeader{
				Leader: leader, Distance: spec.Distance, Radius: spec.Radius,
				EvadeScale: orOne(spec.EvadeScale), ArriveScale: orOne(spec.ArriveScale),
			}
		} else {
			params = &FollowLeaderSimple{Leader: leader, Distance: spec.Distance, Radius: spec.Radius}
		}
	case KindSeparate:
		params = &Separate{MaxDistance: spec.MaxDistance}
	case KindCohere:
		params = &Cohere{MaxDistance: spec.MaxDistance}
	case KindAlign:
		params = &Align{MaxDistance: spec.MaxDistance}
	case KindFlock:
		params = &Flock{MaxDistance: spec.MaxDistance}
	case KindBoundsConstrain:
		params = &BoundsConstrain{FixedDistance: spec.FixedDistance}
	case KindSphereConstrain:
		params = &SphereConstrain{Radius: spec.Radius, FixedDistance: spec.FixedDistance}
	case KindBoundsWrapConstrain:
		params = &BoundsWrapConstrain{}
	case KindSphereWrapConstrain:
		params = &SphereWrapConstrain{Radius: spec.Radius}
	}

	var opts []BehaviorOption
	if spec.Scale != nil {
		opts = append(opts, WithScale(*spec.Scale))
	}
	if spec.MaxSpeed != nil {
		opts = append(opts, WithMaxSpeed(*spec.MaxSpeed))
	}
	if spec.MaxForce != nil {
		opts = append(opts, WithMaxForce(*spec.MaxForce))
	}
	if spec.Center != nil {
		opts = append(opts, WithCenter(geometry.FromArray(*spec.Center)))
	}
	if spec.Bounds != nil {
		opts = append(opts, WithBounds(geometry.FromArray(*spec.Bounds)))
	}
	behavior := NewBehavior(params, opts...)
	if spec.Enabled != nil {
		behavior.SetEnabled(*spec.Enabled)
	}
	return behavior, nil
}

// Flock returns the boids spawned for the named flock.
func (s *Scene) Flock(name string) []*Boid { return s.flocks[name] }

// Step jitters every wander angle by U(-rate/2, rate/2), advances the flow
// field and runs one System tick.
func (s *Scene) Step(dt float64) {
	rate := s.Scenario.WanderRate
	for _, w := range s.wanders {
		w.Theta += (s.rng.Float64() - 0.5) * rate
		w.Phi += (s.rng.Float64() - 0.5) * rate
	}
	if s.Field != nil && s.Scenario.FlowField != nil {
		s.Field.Advance(dt * s.Scenario.FlowField.Drift)
	}
	s.System.Update(dt)
}

// BoidState is the externally visible state of one boid.
type BoidState struct {
	ID       string
	Flock    string
	Position r3.Vec
	Velocity r3.Vec
}

// Snapshot is a copy of the scene after a tick, safe to hand to another goroutine.
type Snapshot struct {
	Tick  uint64
	Boids []BoidState
}

// Snapshot copies the current boid states.
func (s *Scene) Snapshot() *Snapshot {
	boids := s.System.Boids()
	snap := &Snapshot{Tick: s.System.Tick(), Boids: make([]BoidState, len(boids))}
	for i, b := range boids {
		snap.Boids[i] = BoidState{ID: b.ID, Flock: b.Flock, Position: b.Position, Velocity: b.Velocity}
	}
	return snap
}
