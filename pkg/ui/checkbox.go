package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox toggles a bool on click.
type Checkbox struct {
	Label    string
	Value    bool
	OnToggle func(bool)
	rect
	clicker
}

// NewCheckbox creates a 16px checkbox.
func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{Label: label, Value: value, rect: rect{X: x, Y: y, W: 16, H: 16}}
}

func (c *Checkbox) Update() {
	mx, my := ebiten.CursorPosition()
	if c.clicked(c.contains(mx, my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)) {
		c.Toggle()
	}
}

// Toggle flips the value and notifies OnToggle.
func (c *Checkbox) Toggle() {
	c.Value = !c.Value
	if c.OnToggle != nil {
		c.OnToggle(c.Value)
	}
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen, float32(c.X), float32(c.Y), float32(c.W), float32(c.H), 2, borderColor, true)
	if c.Value {
		vector.FillRect(screen, float32(c.X+2), float32(c.Y+2), float32(c.W-4), float32(c.H-4), checkColor, true)
	}
}

func (c *Checkbox) Height() float64 { return c.H + 5 }

func (c *Checkbox) place(x, y, _ float64) {
	c.X, c.Y = x, y
}
