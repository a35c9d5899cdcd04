package steering

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/geometry"
)

// boxLimits returns center ∓ bounds/2 per axis.
func boxLimits(center, bounds r3.Vec) (lo, hi [3]float64) {
	half := r3.Scale(0.5, bounds)
	return geometry.ToArray(r3.Sub(center, half)), geometry.ToArray(r3.Add(center, half))
}

// BoundsConstrain turns the agent back when its predicted position leaves the box
// center ± bounds/2. Inside the box there is no force.
func BoundsConstrain(position, velocity, center, bounds r3.Vec, maxSpeed, maxForce, fixedDistance float64) (r3.Vec, bool) {
	predicted := geometry.ToArray(PredictPosition(position, velocity, maxSpeed, fixedDistance))
	lo, hi := boxLimits(center, bounds)

	var desired [3]float64
	for i := range desired {
		if predicted[i] > hi[i] {
			desired[i] = -maxSpeed
		}
		if predicted[i] < lo[i] {
			desired[i] = maxSpeed
		}
	}

	d := geometry.FromArray(desired)
	if geometry.IsZero(d) {
		return geometry.Zero, false
	}
	steering := r3.Sub(geometry.WithLength(d, maxSpeed), velocity)
	return geometry.Limit(steering, maxForce), true
}

// SphereConstrain steers back towards center when the predicted position leaves
// the sphere of the given radius.
func SphereConstrain(position, velocity, center r3.Vec, radius, maxSpeed, maxForce, fixedDistance float64) (r3.Vec, bool) {
	predicted := PredictPosition(position, velocity, maxSpeed, fixedDistance)
	if geometry.Distance(center, predicted) <= radius {
		return geometry.Zero, false
	}
	steering := r3.Sub(geometry.WithLength(r3.Sub(center, position), maxSpeed), velocity)
	return geometry.Limit(steering, maxForce), true
}

// BoundsWrap teleports the position to the opposite face of the box on every
// axis it has crossed. Velocity is untouched. Unlike the other behaviors this one
// writes through position and produces no force; it reports whether it wrapped.
func BoundsWrap(position *r3.Vec, center, bounds r3.Vec) bool {
	lo, hi := boxLimits(center, bounds)
	p := geometry.ToArray(*position)

	wrapped := false
	for i := range p {
		switch {
		case p[i] > hi[i]:
			p[i] = lo[i]
			wrapped = true
		case p[i] < lo[i]:
			p[i] = hi[i]
			wrapped = true
		}
	}
	*position = geometry.FromArray(p)
	return wrapped
}

// SphereWrap is the spherical BoundsWrap: an agent outside the sphere reappears just
// inside the opposite side, on the line through the center.
func SphereWrap(position *r3.Vec, center r3.Vec, radius float64) bool {
	if geometry.Distance(center, *position) <= radius {
		return false
	}
	inward := geometry.WithLength(r3.Sub(center, *position), radius*(1-geometry.Epsilon))
	*position = r3.Add(center, inward)
	return true
}
