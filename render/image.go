package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/beka-birhanu/gridbot/sim"
)

// ImageCanvas draws into an in-memory RGBA image.
type ImageCanvas struct {
	img    *image.RGBA
	colour color.Color
}

var _ Canvas = &ImageCanvas{}

// NewImageCanvas allocates a width x height canvas.
func NewImageCanvas(width, height int) *ImageCanvas {
	return &ImageCanvas{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		colour: Black,
	}
}

// SetColour implements Canvas.
func (c *ImageCanvas) SetColour(col color.Color) {
	c.colour = col
}

// FillRect implements Canvas.
func (c *ImageCanvas) FillRect(x, y, w, h int) {
	r := image.Rect(x, y, x+w, y+h).Intersect(c.img.Bounds())
	draw.Draw(c.img, r, image.NewUniform(c.colour), image.Point{}, draw.Src)
}

// DrawLine implements Canvas. Only horizontal and vertical lines are drawn,
// which is all a grid needs.
func (c *ImageCanvas) DrawLine(x1, y1, x2, y2 int) {
	switch {
	case x1 == x2:
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		for y := y1; y < y2; y++ {
			c.img.Set(x1, y, c.colour)
		}
	case y1 == y2:
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		for x := x1; x < x2; x++ {
			c.img.Set(x, y1, c.colour)
		}
	}
}

// EncodePNG writes the canvas as PNG.
func (c *ImageCanvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

// WritePNG renders one frame into a fresh image and writes it as PNG.
func WritePNG(w io.Writer, f sim.Frame) error {
	side := f.Size * f.CellPixels
	canvas := NewImageCanvas(side, side)
	if err := NewPainter(canvas).Render(f); err != nil {
		return err
	}
	return canvas.EncodePNG(w)
}
