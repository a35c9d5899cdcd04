package simulation

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/steering"
)

// Config holds the global parameters of a System.
// Zero MaxSpeed, MaxForce and Bounds fall back to Scale-derived defaults.
type Config struct {
	Scale    float64    `json:"scale" yaml:"scale"`
	MaxSpeed float64    `json:"maxSpeed" yaml:"maxSpeed"`
	MaxForce float64    `json:"maxForce" yaml:"maxForce"`
	Center   [3]float64 `json:"center" yaml:"center"`
	Bounds   [3]float64 `json:"bounds" yaml:"bounds"`
}

// DefaultConfig is a unit system centered on the origin.
func DefaultConfig() Config {
	return Config{Scale: 1, MaxSpeed: 1, MaxForce: 1, Bounds: [3]float64{1, 1, 1}}
}

// WithDefaults fills unset fields from Scale.
func (c Config) WithDefaults() Config {
	if c.Scale == 0 {
		c.Scale = 1
	}
	if c.MaxSpeed == 0 {
		c.MaxSpeed = c.Scale
	}
	if c.MaxForce == 0 {
		c.MaxForce = c.Scale
	}
	if c.Bounds == [3]float64{} {
		c.Bounds = [3]float64{c.Scale, c.Scale, c.Scale}
	}
	return c
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %g", c.Scale))
	}
	if c.MaxSpeed < 0 {
		errs = append(errs, fmt.Errorf("maxSpeed must not be negative, got %g", c.MaxSpeed))
	}
	if c.MaxForce < 0 {
		errs = append(errs, fmt.Errorf("maxForce must not be negative, got %g", c.MaxForce))
	}
	for i, b := range c.Bounds {
		if b < 0 {
			errs = append(errs, fmt.Errorf("bounds[%d] must not be negative, got %g", i, b))
		}
	}
	return errors.Join(errs...)
}

// System owns the boids and drives them one tick at a time.
type System struct {
	cfg    Config
	center r3.Vec
	bounds r3.Vec

	boids  []*Boid
	agents []steering.Agent // same boids, as seen by group behaviors
	tick   uint64

	rng *rand.Rand
	log *slog.Logger
}

// Option configures a System.
type Option func(*System)

// WithRand sets the random source used by RandomPosition.
func WithRand(rng *rand.Rand) Option {
	return func(s *System) { s.rng = rng }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *System) { s.log = l }
}

// NewSystem fills cfg defaults, validates it and returns an empty System.
func NewSystem(cfg Config, opts ...Option) (*System, error) {
	s := &System{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.rng == nil {
		return nil, errors.New("nil random source")
	}
	if err := s.Reconfigure(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the effective configuration, defaults included.
func (s *System) Config() Config { return s.cfg }

// Reconfigure replaces the configuration. Call it between ticks only.
func (s *System) Reconfigure(cfg Config) error {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid system config: %w", err)
	}
	s.cfg = cfg
	s.center = r3.Vec{X: cfg.Center[0], Y: cfg.Center[1], Z: cfg.Center[2]}
	s.bounds = r3.Vec{X: cfg.Bounds[0], Y: cfg.Bounds[1], Z: cfg.Bounds[2]}
	s.log.Debug("system configured",
		"scale", cfg.Scale, "maxSpeed", cfg.MaxSpeed, "maxForce", cfg.MaxForce,
		"center", cfg.Center, "bounds", cfg.Bounds)
	return nil
}

// AddBoid appends boids in tick order. There is no duplicate check.
func (s *System) AddBoid(boids ...*Boid) {
	for _, b := range boids {
		s.boids = append(s.boids, b)
		s.agents = append(s.agents, b)
	}
}

// Boids returns the boids in tick order. The slice is shared.
func (s *System) Boids() []*Boid { return s.boids }

// Tick is the number of completed updates.
func (s *System) Tick() uint64 { return s.tick }

// Center of the simulated volume.
func (s *System) Center() r3.Vec { return s.center }

// Bounds is the full extent of the simulated box on each axis.
func (s *System) Bounds() r3.Vec { return s.bounds }

// RandomPosition samples uniformly inside center ± bounds/2.
func (s *System) RandomPosition() r3.Vec {
	return r3.Vec{
		X: (2*s.rng.Float64()-1)*s.bounds.X*0.5 + s.center.X,
		Y: (2*s.rng.Float64()-1)*s.bounds.Y*0.5 + s.center.Y,
		Z: (2*s.rng.Float64()-1)*s.bounds.Z*0.5 + s.center.Z,
	}
}

// context shares the boid pointers, not copies: a boid sees the new state of
// every boid integrated before it in the same tick.
func (s *System) context() Context {
	return Context{
		MaxSpeed: s.cfg.MaxSpeed,
		MaxForce: s.cfg.MaxForce,
		Center:   s.center,
		Bounds:   s.bounds,
		Agents:   s.agents,
	}
}

// Update runs one tick: every boid, in insertion order, applies its behaviors
// and integrates before the next boid is looked at.
func (s *System) Update(dt float64) {
	ctx := s.context()
	for _, b := range s.boids {
		b.ApplyBehaviors(ctx)
		b.Integrate(dt, b.speedCap(s.cfg.MaxSpeed))
	}
	s.tick++
}
