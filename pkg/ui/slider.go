package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider edits a float in [Min, Max]. OnChange fires only when a drag
// actually moves the value.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	OnChange func(float64)
	rect
}

// NewSlider creates a slider 20px high.
func NewSlider(x, y, width float64, label string, min, max, value float64) *Slider {
	s := &Slider{Label: label, Min: min, Max: max, rect: rect{X: x, Y: y, W: width, H: 20}}
	s.Set(value)
	return s
}

// Set clamps v into range.
func (s *Slider) Set(v float64) {
	s.Value = max(s.Min, min(s.Max, v))
}

// Ratio is the fill fraction of the track.
func (s *Slider) Ratio() float64 {
	if s.Max <= s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if !s.contains(mx, my) {
		return
	}
	s.dragTo(float64(mx))
}

func (s *Slider) dragTo(x float64) {
	old := s.Value
	s.Set(s.Min + (x-s.X)/s.W*(s.Max-s.Min))
	if s.Value != old && s.OnChange != nil {
		s.OnChange(s.Value)
	}
}

func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), trackColor, true)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*s.Ratio()), float32(s.H), fillColor, true)
}

func (s *Slider) Height() float64 { return s.H + 25 }

func (s *Slider) place(x, y, width float64) {
	s.X, s.Y, s.W = x, y, width
}
