package viewer

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// projection maps the XY plane of the simulation box onto a screen area,
// keeping the aspect ratio and centering the box. Screen Y grows down.
type projection struct {
	center       r3.Vec
	scale        float64
	originX      float64
	originY      float64
	screenWidth  float64
	screenHeight float64
}

func newProjection(center, bounds r3.Vec, x, y, width, height float64) projection {
	scale := 1.0
	if bounds.X > 0 && bounds.Y > 0 {
		scale = math.Min(width/bounds.X, height/bounds.Y)
	}
	return projection{
		center:       center,
		scale:        scale,
		originX:      x + width/2,
		originY:      y + height/2,
		screenWidth:  width,
		screenHeight: height,
	}
}

func (p projection) point(v r3.Vec) (float32, float32) {
	return float32(p.originX + (v.X-p.center.X)*p.scale),
		float32(p.originY - (v.Y-p.center.Y)*p.scale)
}

func (p projection) length(l float64) float32 {
	return float32(l * p.scale)
}

// heading is the screen angle of a velocity.
func (p projection) heading(v r3.Vec) float64 {
	return math.Atan2(-v.Y, v.X)
}
