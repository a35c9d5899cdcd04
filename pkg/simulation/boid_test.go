package simulation

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/steering"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func unitContext() Context {
	return Context{MaxSpeed: 1, MaxForce: 1, Bounds: r3.Vec{X: 10, Y: 10, Z: 10}}
}

func TestNewBoid(t *testing.T) {
	b := NewBoid(r3.Vec{X: 1}, NewBehavior(&Seek{}))
	if b.ID == "" {
		t.Error("NewBoid() ID is empty")
	}
	if other := NewBoid(r3.Vec{}); other.ID == b.ID {
		t.Errorf("two boids share ID %s", b.ID)
	}
	if len(b.Behaviors) != 1 {
		t.Errorf("len(Behaviors) = %d; want 1", len(b.Behaviors))
	}
	if !geometry.IsZero(b.Velocity) || !geometry.IsZero(b.Acceleration) {
		t.Errorf("NewBoid() should be at rest, got %s", b)
	}
}

func TestBoid_Overrides(t *testing.T) {
	b := NewBoid(r3.Vec{})
	if _, ok := b.MaxSpeed(); ok {
		t.Error("MaxSpeed() set on a new boid")
	}
	b.SetMaxSpeed(0)
	if v, ok := b.MaxSpeed(); !ok || v != 0 {
		t.Errorf("MaxSpeed() = %v, %v; want 0, true", v, ok)
	}
	if got := b.speedCap(5); got != 0 {
		t.Errorf("speedCap(5) = %v; want 0 for an explicit zero override", got)
	}
	b.ClearMaxSpeed()
	if got := b.speedCap(5); got != 5 {
		t.Errorf("speedCap(5) = %v; want 5 after ClearMaxSpeed", got)
	}

	b.SetMaxForce(2)
	if v, ok := b.MaxForce(); !ok || v != 2 {
		t.Errorf("MaxForce() = %v, %v; want 2, true", v, ok)
	}
	b.ClearMaxForce()
	if _, ok := b.MaxForce(); ok {
		t.Error("MaxForce() still set after ClearMaxForce")
	}
}

func TestBoid_Integrate(t *testing.T) {
	tests := []struct {
		name     string
		vel      r3.Vec
		acc      r3.Vec
		dt       float64
		maxSpeed float64
		wantVel  r3.Vec
		wantPos  r3.Vec
	}{
		{"accelerate", r3.Vec{}, r3.Vec{X: 1}, 1, 10, r3.Vec{X: 1}, r3.Vec{X: 1}},
		{"half step", r3.Vec{Y: 2}, r3.Vec{X: 2}, 0.5, 10, r3.Vec{X: 1, Y: 2}, r3.Vec{X: 0.5, Y: 1}},
		{"speed capped", r3.Vec{X: 3}, r3.Vec{X: 3}, 1, 4, r3.Vec{X: 4}, r3.Vec{X: 4}},
		{"zero cap stops", r3.Vec{X: 3}, r3.Vec{}, 1, 0, r3.Vec{}, r3.Vec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoid(r3.Vec{})
			b.Velocity = tt.vel
			b.Acceleration = tt.acc
			b.Integrate(tt.dt, tt.maxSpeed)
			if !geometry.Eq(b.Velocity, tt.wantVel) {
				t.Errorf("Velocity = %s; want %s", geometry.String(b.Velocity), geometry.String(tt.wantVel))
			}
			if !geometry.Eq(b.Position, tt.wantPos) {
				t.Errorf("Position = %s; want %s", geometry.String(b.Position), geometry.String(tt.wantPos))
			}
			if !geometry.IsZero(b.Acceleration) {
				t.Errorf("Acceleration = %s; want zero", geometry.String(b.Acceleration))
			}
		})
	}
}

func TestBoid_ApplyBehaviors(t *testing.T) {
	far := r3.Vec{X: 100}

	tests := []struct {
		name  string
		setup func(b *Boid)
		want  r3.Vec
	}{
		{
			name:  "seek own target",
			setup: func(b *Boid) { b.Target = far; b.AddBehavior(NewBehavior(&Seek{})) },
			want:  r3.Vec{X: 1},
		},
		{
			name:  "explicit target wins over own target",
			setup: func(b *Boid) { b.Target = far; b.AddBehavior(NewBehavior(&Flee{Target: &r3.Vec{Y: 5}})) },
			want:  r3.Vec{Y: -1},
		},
		{
			name:  "scale applied after limit",
			setup: func(b *Boid) { b.AddBehavior(NewBehavior(&Seek{Target: &far}, WithScale(3))) },
			want:  r3.Vec{X: 3},
		},
		{
			name:  "zero scale mutes",
			setup: func(b *Boid) { b.AddBehavior(NewBehavior(&Seek{Target: &far}, WithScale(0))) },
			want:  r3.Vec{},
		},
		{
			name: "disabled binding skipped",
			setup: func(b *Boid) {
				bh := NewBehavior(&Seek{Target: &far})
				bh.SetEnabled(false)
				b.AddBehavior(bh)
			},
			want: r3.Vec{},
		},
		{
			name:  "boid maxForce override clamps",
			setup: func(b *Boid) { b.SetMaxForce(0.25); b.AddBehavior(NewBehavior(&Seek{Target: &far})) },
			want:  r3.Vec{X: 0.25},
		},
		{
			name:  "explicit zero maxForce override clamps to nothing",
			setup: func(b *Boid) { b.SetMaxForce(0); b.AddBehavior(NewBehavior(&Seek{Target: &far})) },
			want:  r3.Vec{},
		},
		{
			name: "binding maxForce wins over boid override",
			setup: func(b *Boid) {
				b.SetMaxForce(0.25)
				b.AddBehavior(NewBehavior(&Seek{Target: &far}, WithMaxForce(0.5)))
			},
			want: r3.Vec{X: 0.5},
		},
		{
			name:  "binding maxSpeed shapes desired velocity",
			setup: func(b *Boid) { b.AddBehavior(NewBehavior(&Seek{Target: &far}, WithMaxSpeed(0.5))) },
			want:  r3.Vec{X: 0.5},
		},
		{
			name: "forces accumulate in order",
			setup: func(b *Boid) {
				b.AddBehavior(
					NewBehavior(&Seek{Target: &far}),
					NewBehavior(&Seek{Target: &r3.Vec{Y: 100}}),
				)
			},
			want: r3.Vec{X: 1, Y: 1},
		},
		{
			name:  "no force for a lone boid",
			setup: func(b *Boid) { b.AddBehavior(NewBehavior(&Separate{MaxDistance: 10})) },
			want:  r3.Vec{},
		},
		{
			name:  "nil quarry is no force",
			setup: func(b *Boid) { b.AddBehavior(NewBehavior(&Pursue{Quarry: (*Boid)(nil)})) },
			want:  r3.Vec{},
		},
		{
			name:  "nil leader is no force",
			setup: func(b *Boid) { b.AddBehavior(NewBehavior(&FollowLeader{Distance: 1, Radius: 1})) },
			want:  r3.Vec{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoid(r3.Vec{})
			tt.setup(b)
			ctx := unitContext()
			ctx.Agents = append(ctx.Agents, b)
			b.ApplyBehaviors(ctx)
			if !geometry.Eq(b.Acceleration, tt.want) {
				t.Errorf("Acceleration = %s; want %s", geometry.String(b.Acceleration), geometry.String(tt.want))
			}
		})
	}
}

func TestBoid_AvoidObstaclesFallsBackToMaxForce(t *testing.T) {
	b := NewBoid(r3.Vec{})
	b.Velocity = r3.Vec{X: 1}
	b.AddBehavior(NewBehavior(&AvoidObstacles{
		Obstacles:     nil,
		FixedDistance: 5,
	}))
	b.ApplyBehaviors(unitContext())
	if !geometry.IsZero(b.Acceleration) {
		t.Errorf("Acceleration = %s; want zero without obstacles", geometry.String(b.Acceleration))
	}

	bh := b.Behaviors[0].Params().(*AvoidObstacles)
	bh.Obstacles = append(bh.Obstacles, steering.Obstacle{Position: r3.Vec{X: 5, Y: -1}, Radius: 2})
	b.ApplyBehaviors(unitContext())
	if got := r3.Norm(b.Acceleration); !floatEquals(got, 1) {
		t.Errorf("|Acceleration| = %v; want the context maxForce 1", got)
	}
	if b.Acceleration.Y <= 0 {
		t.Errorf("Acceleration = %s; want a push away from the obstacle", geometry.String(b.Acceleration))
	}
}

func TestBoundsWrapConstrain(t *testing.T) {
	ctx := unitContext() // bounds 10, center 0
	b := NewBoid(r3.Vec{X: 6, Y: 1, Z: -2})
	b.Velocity = r3.Vec{X: 0.5, Y: 0.25}
	wrap := NewBehavior(&BoundsWrapConstrain{})
	b.AddBehavior(wrap)

	in := wrap.resolve(b, ctx)
	if _, ok := wrap.evaluate(b, in); ok {
		t.Error("boundsWrapConstrain reported a force")
	}
	if !floatEquals(b.Position.X, -5) {
		t.Errorf("Position.X = %v; want -5", b.Position.X)
	}
	if !floatEquals(b.Position.Y, 1) || !floatEquals(b.Position.Z, -2) {
		t.Errorf("Position = %s; other axes should not move", geometry.String(b.Position))
	}
	if !geometry.Eq(b.Velocity, r3.Vec{X: 0.5, Y: 0.25}) {
		t.Errorf("Velocity = %s; want unchanged", geometry.String(b.Velocity))
	}
	if !geometry.IsZero(b.Acceleration) {
		t.Errorf("Acceleration = %s; want zero", geometry.String(b.Acceleration))
	}
}

func TestParseKind(t *testing.T) {
	for k := KindSeek; k <= KindSphereWrapConstrain; k++ {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", k.String(), got, err, k)
		}
	}
	if got, err := ParseKind("FollowLeader"); err != nil || got != KindFollowLeader {
		t.Errorf("ParseKind is expected to ignore case, got %v, %v", got, err)
	}
	if _, err := ParseKind("teleport"); err == nil {
		t.Error("ParseKind(\"teleport\") should fail")
	}
	if s := Kind(99).String(); s != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", s)
	}
}
