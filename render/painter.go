// Package render draws simulation frames: onto pixel canvases, into the
// terminal, or out to subscribers over Redis.
package render

import (
	"errors"
	"image/color"

	"github.com/beka-birhanu/gridbot/sim"
)

var ErrNoCanvas = errors.New("painter has no canvas")

// Canvas is a minimal drawing surface.
type Canvas interface {
	SetColour(color.Color)
	FillRect(x, y, w, h int)
	DrawLine(x1, y1, x2, y2 int)
}

// Colours used by the default palette.
var (
	White  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Black  = color.RGBA{A: 0xff}
	Red    = color.RGBA{R: 0xff, A: 0xff}
	Green  = color.RGBA{G: 0xc8, A: 0xff}
	Blue   = color.RGBA{B: 0xff, A: 0xff}
	Yellow = color.RGBA{R: 0xff, G: 0xd7, A: 0xff}
)

// Palette maps each visual to a fill colour.
type Palette struct {
	Fill   map[sim.Visual]color.Color
	Border color.Color
}

// DefaultPalette paints a carrying robot green, an idle robot yellow, home
// red, markers blue and empty cells white, with black borders.
func DefaultPalette() Palette {
	return Palette{
		Fill: map[sim.Visual]color.Color{
			sim.VisualEmpty:         White,
			sim.VisualRobot:         Yellow,
			sim.VisualRobotCarrying: Green,
			sim.VisualHome:          Red,
			sim.VisualMarker:        Blue,
		},
		Border: Black,
	}
}

// Painter renders frames cell by cell onto a Canvas.
type Painter struct {
	canvas  Canvas
	palette Palette
}

var _ sim.Renderer = &Painter{}

// NewPainter returns a painter drawing onto c with the default palette.
func NewPainter(c Canvas) *Painter {
	return &Painter{canvas: c, palette: DefaultPalette()}
}

// Render fills each cell at (x*size, y*size) and draws its top and left
// borders.
func (p *Painter) Render(f sim.Frame) error {
	if p.canvas == nil {
		return ErrNoCanvas
	}
	size := f.CellPixels

	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			px, py := x*size, y*size

			p.canvas.SetColour(p.fill(f.VisualAt(x, y)))
			p.canvas.FillRect(px, py, size, size)

			p.canvas.SetColour(p.palette.Border)
			p.canvas.DrawLine(px, py, px, py+size)
			p.canvas.DrawLine(px, py, px+size, py)
		}
	}
	return nil
}

func (p *Painter) fill(v sim.Visual) color.Color {
	if c, ok := p.palette.Fill[v]; ok {
		return c
	}
	return White
}
