package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button runs OnClick once per press.
type Button struct {
	Label   string
	OnClick func()
	rect
	clicker
	hover bool

	BGColor    color.RGBA
	HoverColor color.RGBA
}

// NewButton creates a button with the default colors.
func NewButton(x, y, width, height float64, label string, onClick func()) *Button {
	return &Button{
		Label:      label,
		OnClick:    onClick,
		rect:       rect{X: x, Y: y, W: width, H: height},
		BGColor:    color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor: color.RGBA{R: 100, G: 150, B: 220, A: 255},
	}
}

func (b *Button) Update() {
	mx, my := ebiten.CursorPosition()
	b.hover = b.contains(mx, my)
	if b.clicked(b.hover, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)) && b.OnClick != nil {
		b.OnClick()
	}
}

func (b *Button) Draw(screen *ebiten.Image) {
	bg := b.BGColor
	if b.hover {
		bg = b.HoverColor
	}
	vector.FillRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), bg, true)
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 2, borderColor, true)
	ebitenutil.DebugPrintAt(screen, b.Label, int(b.X+6), int(b.Y+b.H/2-8))
}

func (b *Button) Height() float64 { return b.H + 5 }

func (b *Button) place(x, y, width float64) {
	b.X, b.Y, b.W = x, y, width
}
