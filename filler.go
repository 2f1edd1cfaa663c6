package cadmus

import "image/color"

// Filler is a leaf view that paints its rectangle with a solid color.
// Containers use it to give themselves a visible backdrop that takes part
// in z-order.
type Filler struct {
	baseView
	color color.Color
}

// NewFiller creates a filler over rect.
func NewFiller(rect Rect, c color.Color) *Filler {
	return &Filler{baseView: newBaseView(ViewID{}, rect), color: c}
}

// Render fills the damaged part of the rectangle.
func (f *Filler) Render(fb Framebuffer, rect Rect, _ *Context) {
	FillRect(fb, rect, f.color)
}
