package cadmus

import (
	"image"
	"image/color"
	"image/draw"
)

// Grayscale palette. E-ink panels are grayscale; views draw with these
// instead of arbitrary colors so dithering stays predictable.
var (
	Black     = color.Gray{Y: 0x00}
	Gray04    = color.Gray{Y: 0x44}
	Gray08    = color.Gray{Y: 0x88}
	Gray12    = color.Gray{Y: 0xcc}
	White     = color.Gray{Y: 0xff}
	TextLight = color.Gray{Y: 0x66}
)

// Framebuffer is the writable surface views paint into. It is a stdlib
// draw.Image plus an explicit flush: pixel writes change memory only, and
// nothing reaches the panel until the paint pipeline calls Flush. The paint
// pipeline is the sole caller of Flush.
type Framebuffer interface {
	draw.Image

	// Flush pushes the given region to the panel using at least the given
	// refresh mode.
	Flush(rect Rect, mode RefreshMode) error
}

// BorderSpec describes an outline: thickness in pixels and stroke color.
type BorderSpec struct {
	Thickness int
	Color     color.Color
}

// FillRect fills rect with a solid color, clipped to the surface bounds.
func FillRect(fb Framebuffer, rect Rect, c color.Color) {
	clipped := rect.Intersect(FromImage(fb.Bounds()))
	if clipped.IsEmpty() {
		return
	}
	draw.Draw(fb, clipped.Image(), image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawRectOutline strokes the inside edge of rect with the given border.
func DrawRectOutline(fb Framebuffer, rect Rect, border BorderSpec) {
	t := border.Thickness
	if t <= 0 || rect.IsEmpty() {
		return
	}
	if 2*t >= rect.Width || 2*t >= rect.Height {
		FillRect(fb, rect, border.Color)
		return
	}
	FillRect(fb, Rect{rect.X, rect.Y, rect.Width, t}, border.Color)
	FillRect(fb, Rect{rect.X, rect.Y + rect.Height - t, rect.Width, t}, border.Color)
	FillRect(fb, Rect{rect.X, rect.Y + t, t, rect.Height - 2*t}, border.Color)
	FillRect(fb, Rect{rect.X + rect.Width - t, rect.Y + t, t, rect.Height - 2*t}, border.Color)
}

// DrawPanel fills rect with the fill color and strokes its border: the
// standard dialog and notification chrome.
func DrawPanel(fb Framebuffer, rect Rect, border BorderSpec, fill color.Color) {
	FillRect(fb, rect, fill)
	DrawRectOutline(fb, rect, border)
}

// Clipped returns a view of fb whose writes outside clip are discarded.
// Views use it to position chrome by their own bounds while honoring the
// damage region handed to Render.
func Clipped(fb Framebuffer, clip Rect) Framebuffer {
	return &clippedFB{Framebuffer: fb, clip: clip.Image()}
}

// clippedFB restricts writes to a clip rectangle. Reads and Flush pass
// through.
type clippedFB struct {
	Framebuffer
	clip image.Rectangle
}

func (c *clippedFB) Set(x, y int, col color.Color) {
	if (image.Point{X: x, Y: y}).In(c.clip) {
		c.Framebuffer.Set(x, y, col)
	}
}
