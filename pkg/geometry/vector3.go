package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon Precision constant.
// Lengths below Epsilon are treated as zero when normalizing.
const (
	Epsilon = 1e-9
)

// Zero is the zero vector. r3.Vec{} works too, this just reads better at call sites.
var Zero = r3.Vec{}

// NewVector creates a new r3.Vec.
func NewVector(x, y, z float64) r3.Vec {
	return r3.Vec{X: x, Y: y, Z: z}
}

// FromArray converts a [3]float64 (the shape used in config files) into a vector.
func FromArray(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

// ToArray is the inverse of FromArray.
func ToArray(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// NewVectorSpherical creates a vector of the given radius from spherical angles.
// theta is the polar angle measured from the +Y axis, phi the azimuth around it.
func NewVectorSpherical(radius, theta, phi float64) r3.Vec {
	sinTheta := math.Sin(theta)
	v := r3.Vec{
		X: radius * sinTheta * math.Sin(phi),
		Y: radius * math.Cos(theta),
		Z: radius * sinTheta * math.Cos(phi),
	}

	// Handle standard floating point precision issues near zero
	if math.Abs(v.X) < Epsilon {
		v.X = 0
	}
	if math.Abs(v.Y) < Epsilon {
		v.Y = 0
	}
	if math.Abs(v.Z) < Epsilon {
		v.Z = 0
	}
	return v
}

// ---------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------

// String formats a vector the same way everywhere in logs and test failures.
func String(v r3.Vec) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// Normalize returns a unit vector in the same direction.
// Returns a zero vector if the length is effectively zero; r3.Unit would return NaNs.
func Normalize(v r3.Vec) r3.Vec {
	l := r3.Norm(v)
	if l < Epsilon {
		return Zero
	}
	return r3.Scale(1/l, v)
}

// WithLength returns v rescaled to the given length, or the zero vector when v has no direction.
func WithLength(v r3.Vec, length float64) r3.Vec {
	return r3.Scale(length, Normalize(v))
}

// Limit clamps the magnitude of v to max, leaving its direction unchanged.
// The squared length is compared first so the square root is only paid when clamping.
// A non-positive max always yields the zero vector.
func Limit(v r3.Vec, max float64) r3.Vec {
	if max <= 0 {
		return Zero
	}
	lenSqr := r3.Norm2(v)
	if lenSqr <= max*max {
		return v
	}
	return r3.Scale(max/math.Sqrt(lenSqr), v)
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// Distance calculates the Euclidean distance between two points.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// DistanceSquared calculates the squared Euclidean distance between two points.
func DistanceSquared(a, b r3.Vec) float64 {
	return r3.Norm2(r3.Sub(a, b))
}

// ProjectOnSegment projects p onto the chord a→b by scalar projection and clamps
// the result to the segment. A degenerate segment (a == b) projects onto a.
func ProjectOnSegment(p, a, b r3.Vec) r3.Vec {
	ab := r3.Sub(b, a)
	lenSqr := r3.Norm2(ab)
	if lenSqr < Epsilon*Epsilon {
		return a
	}
	t := r3.Dot(r3.Sub(p, a), ab) / lenSqr
	t = math.Max(0, math.Min(1, t))
	return r3.Add(a, r3.Scale(t, ab))
}

// IsZero reports whether every component of v is exactly zero.
func IsZero(v r3.Vec) bool {
	return v == Zero
}

// ---------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func Eq(a, b r3.Vec) bool {
	return EqTol(a, b, Epsilon)
}

// EqTol is Eq with a caller supplied tolerance.
func EqTol(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
