// Package ui holds the few ebiten widgets the viewer needs: sliders,
// checkboxes and buttons stacked in a panel.
package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Widget is anything the Panel can stack.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64
	// place moves the widget to its slot in the panel.
	place(x, y, width float64)
}

var (
	trackColor  = color.RGBA{R: 80, G: 80, B: 80, A: 255}
	fillColor   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	borderColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	checkColor  = color.RGBA{R: 100, G: 200, B: 100, A: 255}
)

type rect struct {
	X, Y, W, H float64
}

func (r rect) contains(x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= r.X && fx <= r.X+r.W && fy >= r.Y && fy <= r.Y+r.H
}

// clicker turns a held mouse button into a single click.
type clicker struct {
	down bool
}

func (c *clicker) clicked(over, pressed bool) bool {
	if over && pressed {
		if c.down {
			return false
		}
		c.down = true
		return true
	}
	c.down = false
	return false
}
