package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVector(t *testing.T) {
	v := NewVector(1, 2, 3)
	if v.X != 1 || v.Y != 2 || v.Z != 3 {
		t.Errorf("NewVector(1, 2, 3) = %v; want (1, 2, 3)", String(v))
	}
	if got := ToArray(FromArray([3]float64{4, 5, 6})); got != [3]float64{4, 5, 6} {
		t.Errorf("ToArray(FromArray) = %v; want [4 5 6]", got)
	}
}

func TestNewVectorSpherical(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		phi    float64
		want   r3.Vec
	}{
		{"Zero radius", 0, 1, 1, r3.Vec{}},
		{"Pole (+Y)", 10, 0, 0, r3.Vec{Y: 10}},
		{"Equator facing +Z", 10, math.Pi / 2, 0, r3.Vec{Z: 10}},
		{"Equator facing +X", 10, math.Pi / 2, math.Pi / 2, r3.Vec{X: 10}},
		{"Opposite pole", 2, math.Pi, 0, r3.Vec{Y: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorSpherical(tt.radius, tt.theta, tt.phi)
			if !Eq(got, tt.want) {
				t.Errorf("NewVectorSpherical(%v, %v, %v) = %v; want %v", tt.radius, tt.theta, tt.phi, String(got), String(tt.want))
			}
			if !floatEquals(r3.Norm(got), tt.radius) {
				t.Errorf("length = %v; want %v", r3.Norm(got), tt.radius)
			}
		})
	}
}

func TestString(t *testing.T) {
	v := r3.Vec{X: 1.234, Y: 5.678, Z: -1}
	want := "(1.23, 5.68, -1.00)"
	if got := String(v); got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}

func TestNormalize(t *testing.T) {
	t.Run("Normalize", func(t *testing.T) {
		got := Normalize(r3.Vec{X: 3, Y: 4})
		want := r3.Vec{X: 0.6, Y: 0.8}
		if !Eq(got, want) {
			t.Errorf("Normalize = %v; want %v", String(got), String(want))
		}
		if !floatEquals(r3.Norm(got), 1.0) {
			t.Errorf("Normalize length = %v; want 1", r3.Norm(got))
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		got := Normalize(Zero)
		if !IsZero(got) {
			t.Errorf("Normalize(0) = %v; want zero", String(got))
		}
		if math.IsNaN(got.X) {
			t.Error("Normalize(0) produced NaN")
		}
	})

	t.Run("WithLength", func(t *testing.T) {
		got := WithLength(r3.Vec{Z: 0.5}, 3)
		if !Eq(got, r3.Vec{Z: 3}) {
			t.Errorf("WithLength = %v; want (0, 0, 3)", String(got))
		}
	})
}

func TestLimit(t *testing.T) {
	tests := []struct {
		name string
		v    r3.Vec
		max  float64
		want r3.Vec
	}{
		{"Under limit unchanged", r3.Vec{X: 1, Y: 1}, 5, r3.Vec{X: 1, Y: 1}},
		{"Exactly at limit unchanged", r3.Vec{X: 3, Y: 4}, 5, r3.Vec{X: 3, Y: 4}},
		{"Over limit clamped", r3.Vec{X: 6, Y: 8}, 5, r3.Vec{X: 3, Y: 4}},
		{"Zero vector", r3.Vec{}, 1, r3.Vec{}},
		{"Zero max", r3.Vec{X: 1}, 0, r3.Vec{}},
		{"Negative max", r3.Vec{X: 1}, -2, r3.Vec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Limit(tt.v, tt.max)
			if !Eq(got, tt.want) {
				t.Errorf("Limit(%v, %v) = %v; want %v", String(tt.v), tt.max, String(got), String(tt.want))
			}
		})
	}
}

func TestLimit_PreservesDirection(t *testing.T) {
	vectors := []r3.Vec{
		{X: 10, Y: -3, Z: 7},
		{X: -0.5, Y: 0.2, Z: 100},
		{X: 1e6, Y: 1e6, Z: -1e6},
		{X: 0.1, Y: 0, Z: 0},
	}
	for _, v := range vectors {
		for _, max := range []float64{0.01, 1, 3.5, 1000} {
			got := Limit(v, max)
			if r3.Norm(got) > max+1e-9 {
				t.Errorf("Limit(%v, %v) length %v exceeds max", String(v), max, r3.Norm(got))
			}
			cos := r3.Dot(got, v) / (r3.Norm(got) * r3.Norm(v))
			if !EqTol(r3.Vec{X: cos}, r3.Vec{X: 1}, 1e-9) {
				t.Errorf("Limit(%v, %v) changed direction, cos=%v", String(v), max, cos)
			}
		}
	}
}

func TestDistance(t *testing.T) {
	v1 := r3.Vec{X: 1, Y: 1, Z: 1}
	v2 := r3.Vec{X: 4, Y: 5, Z: 1} // dx=3, dy=4, dist=5

	if got := Distance(v1, v2); got != 5 {
		t.Errorf("Distance = %v; want 5", got)
	}

	if got := DistanceSquared(v1, v2); got != 25 {
		t.Errorf("DistanceSquared = %v; want 25", got)
	}
}

func TestProjectOnSegment(t *testing.T) {
	a := r3.Vec{}
	b := r3.Vec{X: 10}

	tests := []struct {
		name string
		p    r3.Vec
		want r3.Vec
	}{
		{"Above middle", r3.Vec{X: 3, Y: 3}, r3.Vec{X: 3}},
		{"On segment", r3.Vec{X: 7}, r3.Vec{X: 7}},
		{"Before start clamps", r3.Vec{X: -5, Y: 1}, a},
		{"After end clamps", r3.Vec{X: 15, Z: 2}, b},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProjectOnSegment(tt.p, a, b); !Eq(got, tt.want) {
				t.Errorf("ProjectOnSegment(%v) = %v; want %v", String(tt.p), String(got), String(tt.want))
			}
		})
	}

	t.Run("Degenerate segment", func(t *testing.T) {
		if got := ProjectOnSegment(r3.Vec{X: 1}, b, b); !Eq(got, b) {
			t.Errorf("ProjectOnSegment on a point = %v; want %v", String(got), String(b))
		}
	})
}

func TestEq(t *testing.T) {
	v := r3.Vec{X: 1, Y: 2, Z: 3}

	// Exact match
	if !Eq(v, r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Error("Eq exact match failed")
	}

	// Epsilon match
	vClose := r3.Vec{X: 1 + Epsilon/2, Y: 2 - Epsilon/2, Z: 3}
	if !Eq(v, vClose) {
		t.Error("Eq epsilon match failed")
	}

	// No match
	if Eq(v, r3.Vec{X: 1.1, Y: 2, Z: 3}) {
		t.Error("Eq mismatch failed")
	}
}
