// Package field provides flow fields for the flow-following behaviors.
package field

import (
	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/steering"
)

// Noise is a smooth 3D flow field built from three independent simplex noises,
// one per component, sampled at the scaled position. Time shifts the samples so
// the field can slowly evolve. It is undefined outside center ± bounds/2.
type Noise struct {
	x, y, z   opensimplex.Noise
	frequency float64
	time      float64
	lo, hi    r3.Vec
}

var _ steering.FlowField = (*Noise)(nil)

// NewNoise creates a field for the box center ± bounds/2.
func NewNoise(seed int64, frequency float64, center, bounds r3.Vec) *Noise {
	half := r3.Scale(0.5, bounds)
	return &Noise{
		x:         opensimplex.NewNormalized(seed),
		y:         opensimplex.NewNormalized(seed + 1),
		z:         opensimplex.NewNormalized(seed + 2),
		frequency: frequency,
		lo:        r3.Sub(center, half),
		hi:        r3.Add(center, half),
	}
}

// Advance moves the field forward in time.
func (n *Noise) Advance(dt float64) {
	n.time += dt
}

// Time of the field.
func (n *Noise) Time() float64 { return n.time }

func (n *Noise) contains(p r3.Vec) bool {
	return p.X >= n.lo.X && p.X <= n.hi.X &&
		p.Y >= n.lo.Y && p.Y <= n.hi.Y &&
		p.Z >= n.lo.Z && p.Z <= n.hi.Z
}

// Lookup returns the flow direction at p, each component in [-1, 1].
func (n *Noise) Lookup(p r3.Vec) (r3.Vec, bool) {
	if !n.contains(p) {
		return r3.Vec{}, false
	}
	x, y, z := p.X*n.frequency, p.Y*n.frequency, p.Z*n.frequency
	// normalized noise is in [0, 1]
	return r3.Vec{
		X: 2*n.x.Eval4(x, y, z, n.time) - 1,
		Y: 2*n.y.Eval4(x, y, z, n.time) - 1,
		Z: 2*n.z.Eval4(x, y, z, n.time) - 1,
	}, true
}
