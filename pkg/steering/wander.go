package steering

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

// Wander returns a point on a sphere of the given radius centered distance units
// ahead along the current heading. theta (polar) and phi (azimuth) pick the point;
// the caller nudges them by a small random amount every tick to get a continuous
// random walk. Wander itself is deterministic.
func Wander(velocity r3.Vec, distance, radius, theta, phi float64) r3.Vec {
	center := geometry.WithLength(velocity, distance)
	return r3.Add(center, geometry.NewVectorSpherical(radius, theta, phi))
}
