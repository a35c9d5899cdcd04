package simulation

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

func newTestSystem(t *testing.T, cfg Config) *System {
	t.Helper()
	s, err := NewSystem(cfg, WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	return s
}

func TestNewSystemDefaults(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want Config
	}{
		{"zero value", Config{}, DefaultConfig()},
		{
			"scale drives the rest",
			Config{Scale: 10},
			Config{Scale: 10, MaxSpeed: 10, MaxForce: 10, Bounds: [3]float64{10, 10, 10}},
		},
		{
			"explicit fields are kept",
			Config{Scale: 2, MaxForce: 0.5, Center: [3]float64{1, 2, 3}},
			Config{Scale: 2, MaxSpeed: 2, MaxForce: 0.5, Center: [3]float64{1, 2, 3}, Bounds: [3]float64{2, 2, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSystem(t, tt.cfg)
			assert.Equal(t, tt.want, s.Config())
			assert.Empty(t, s.Boids())
			assert.Zero(t, s.Tick())
		})
	}
}

func TestNewSystemRejectsInvalidConfig(t *testing.T) {
	_, err := NewSystem(Config{Scale: -1, MaxSpeed: -2, Bounds: [3]float64{1, -1, 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scale")
	assert.Contains(t, err.Error(), "maxSpeed")
	assert.Contains(t, err.Error(), "bounds[1]")

	_, err = NewSystem(Config{}, WithRand(nil))
	assert.Error(t, err)
}

func TestSystemReconfigure(t *testing.T) {
	s := newTestSystem(t, Config{Scale: 10})
	require.NoError(t, s.Reconfigure(Config{Scale: 10, MaxSpeed: 3}))
	assert.Equal(t, 3.0, s.Config().MaxSpeed)

	err := s.Reconfigure(Config{Scale: 10, MaxForce: -1})
	require.Error(t, err)
	assert.Equal(t, 3.0, s.Config().MaxSpeed, "a rejected config leaves the old one in place")
}

func TestRandomPositionStaysInBounds(t *testing.T) {
	s := newTestSystem(t, Config{Scale: 1, Center: [3]float64{10, -5, 0}, Bounds: [3]float64{4, 2, 0}})
	for range 1000 {
		p := s.RandomPosition()
		assert.GreaterOrEqual(t, p.X, 8.0)
		assert.LessOrEqual(t, p.X, 12.0)
		assert.GreaterOrEqual(t, p.Y, -6.0)
		assert.LessOrEqual(t, p.Y, -4.0)
		assert.Equal(t, 0.0, p.Z, "a flat box has no depth")
	}
}

func TestUpdateTwoBoidsSeekEachOther(t *testing.T) {
	s := newTestSystem(t, Config{Scale: 10})

	a := NewBoid(r3.Vec{X: -20}, NewBehavior(&Seek{}))
	b := NewBoid(r3.Vec{X: 20, Y: 5}, NewBehavior(&Seek{}))
	a.Target, b.Target = b.Position, a.Position
	s.AddBoid(a, b)

	before := map[*Boid]float64{
		a: geometry.Distance(a.Position, a.Target),
		b: geometry.Distance(b.Position, b.Target),
	}

	s.Update(1)

	for boid, d := range before {
		assert.Less(t, geometry.Distance(boid.Position, boid.Target), d, "%s did not get closer", boid)
		assert.True(t, geometry.IsZero(boid.Acceleration), "acceleration not reset for %s", boid)
	}
	assert.Equal(t, uint64(1), s.Tick())
}

func TestUpdateIsSequential(t *testing.T) {
	// The second boid coheres towards the first one as it is after its own
	// integration in the same tick.
	s := newTestSystem(t, Config{})
	leader := NewBoid(r3.Vec{}, NewBehavior(&Seek{Target: &r3.Vec{X: 10}}))
	follower := NewBoid(r3.Vec{Y: 5}, NewBehavior(&Cohere{MaxDistance: 100}))
	s.AddBoid(leader, follower)

	s.Update(1)

	require.True(t, geometry.Eq(leader.Position, r3.Vec{X: 1}), "leader at %s", geometry.String(leader.Position))
	want := geometry.Normalize(r3.Vec{X: 1, Y: -5})
	assert.True(t, geometry.EqTol(follower.Velocity, want, 1e-9),
		"follower velocity %s, want %s", geometry.String(follower.Velocity), geometry.String(want))
}

func TestUpdateUsesBoidSpeedOverride(t *testing.T) {
	s := newTestSystem(t, Config{Scale: 10})
	slow := NewBoid(r3.Vec{}, NewBehavior(&Seek{Target: &r3.Vec{X: 100}}))
	slow.SetMaxSpeed(2)
	s.AddBoid(slow)

	s.Update(1)
	assert.InDelta(t, 2, r3.Norm(slow.Velocity), 1e-9)
}

func TestUpdateBoundsWrap(t *testing.T) {
	s := newTestSystem(t, Config{Scale: 10})
	b := NewBoid(r3.Vec{X: 5.5, Y: 1}, NewBehavior(&BoundsWrapConstrain{}))
	b.Velocity = r3.Vec{X: 1}
	s.AddBoid(b)

	s.Update(1)

	// wrapped to -5, then moved by the untouched velocity
	assert.True(t, geometry.Eq(b.Position, r3.Vec{X: -4, Y: 1}), "position %s", geometry.String(b.Position))
	assert.True(t, geometry.Eq(b.Velocity, r3.Vec{X: 1}))
}

func TestSystemLogsConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := NewSystem(Config{Scale: 3}, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "system configured")
	assert.Contains(t, buf.String(), "scale=3")
}
