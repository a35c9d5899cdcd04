package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelHeight   = 15.0
	margin        = 10.0
)

type entry struct {
	label   string // empty for buttons, which draw their own
	section string // non-empty marks a section header
	widget  Widget
}

// Panel stacks widgets under optional section headers and scrolls with
// the mouse wheel.
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	Scroll        float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	entries []entry
}

// NewPanel creates an empty panel.
func NewPanel(title string, x, y, width, height float64) *Panel {
	return &Panel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// Section starts a new header.
func (p *Panel) Section(title string) {
	p.entries = append(p.entries, entry{section: title})
	p.layout()
}

// AddSlider appends a labelled slider.
func (p *Panel) AddSlider(label string, min, max, value float64, onChange func(float64)) *Slider {
	s := NewSlider(0, 0, 0, label, min, max, value)
	s.OnChange = onChange
	p.add(label, s)
	return s
}

// AddCheckbox appends a labelled checkbox.
func (p *Panel) AddCheckbox(label string, value bool, onToggle func(bool)) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	c.OnToggle = onToggle
	p.add(label, c)
	return c
}

// AddButton appends a full-width button.
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, 0, 22, label, onClick)
	p.add("", b)
	return b
}

func (p *Panel) add(label string, w Widget) {
	p.entries = append(p.entries, entry{label: label, widget: w})
	p.layout()
}

// ContentHeight is the height of everything in the panel, unscrolled.
func (p *Panel) ContentHeight() float64 {
	h := titleHeight
	for _, e := range p.entries {
		h += p.entryHeight(e)
	}
	return h
}

func (p *Panel) entryHeight(e entry) float64 {
	switch {
	case e.widget == nil:
		return sectionHeight
	case e.label != "":
		return labelHeight + e.widget.Height()
	default:
		return e.widget.Height()
	}
}

// layout moves every widget to its scrolled slot.
func (p *Panel) layout() {
	y := p.Y + titleHeight - p.Scroll
	for _, e := range p.entries {
		if e.widget != nil {
			wy := y
			if e.label != "" {
				wy += labelHeight
			}
			e.widget.place(p.X+margin, wy, p.Width-2*margin)
		}
		y += p.entryHeight(e)
	}
}

func (p *Panel) visible(y float64) bool {
	return y >= p.Y+titleHeight-labelHeight && y <= p.Y+p.Height-labelHeight
}

// Contains reports whether the cursor position is over the panel.
func (p *Panel) Contains(x, y int) bool {
	return rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}.contains(x, y)
}

// ScrollBy moves the content, clamped to what overflows.
func (p *Panel) ScrollBy(dy float64) {
	maxScroll := max(0, p.ContentHeight()-p.Height+margin)
	p.Scroll = max(0, min(maxScroll, p.Scroll+dy))
	p.layout()
}

// Update handles input for all widgets
func (p *Panel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		p.ScrollBy(-dy * 20)
	}
	y := p.Y + titleHeight - p.Scroll
	for _, e := range p.entries {
		if e.widget != nil && p.visible(y) {
			e.widget.Update()
		}
		y += p.entryHeight(e)
	}
}

// Draw renders the panel and all widgets
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+margin), int(p.Y+5))

	y := p.Y + titleHeight - p.Scroll
	for _, e := range p.entries {
		if p.visible(y) {
			switch {
			case e.widget == nil:
				vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20,
					color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
				ebitenutil.DebugPrintAt(screen, e.section, int(p.X+margin), int(y+3))
			default:
				if e.label != "" {
					ebitenutil.DebugPrintAt(screen, e.label, int(p.X+margin), int(y))
				}
				e.widget.Draw(screen)
			}
		}
		y += p.entryHeight(e)
	}
}
