package cadmus

import "image/color"

// Align controls horizontal text placement within a label's rectangle.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Label is a leaf view that draws one line of text, truncated with an
// ellipsis when the rectangle is too narrow.
type Label struct {
	baseView
	text  string
	align Align
	color color.Color
}

// NewLabel creates a label over rect.
func NewLabel(rect Rect, text string, align Align) *Label {
	return &Label{
		baseView: newBaseView(ViewID{}, rect),
		text:     text,
		align:    align,
		color:    Black,
	}
}

// SetText replaces the label text and queues a repaint of its rectangle.
func (l *Label) SetText(text string, rq *RenderQueue) {
	if l.text == text {
		return
	}
	l.text = text
	rq.Add(NewRenderData(l.id, l.rect, RefreshFastMono))
}

// Text returns the current text.
func (l *Label) Text() string { return l.text }

// Render clears the damaged part and draws the baseline-centered text.
func (l *Label) Render(fb Framebuffer, rect Rect, ctx *Context) {
	FillRect(fb, rect, White)

	face := ctx.Fonts.Normal
	padding := Em(face) / 2
	maxWidth := l.rect.Width - 2*padding
	if maxWidth <= 0 {
		return
	}
	text := TruncateToWidth(face, l.text, maxWidth)
	width := TextWidth(face, text)

	var x int
	switch l.align {
	case AlignCenter:
		x = l.rect.X + (l.rect.Width-width)/2
	case AlignRight:
		x = l.rect.X + l.rect.Width - padding - width
	default:
		x = l.rect.X + padding
	}

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	baseline := l.rect.Y + (l.rect.Height+ascent-descent)/2

	DrawText(fb, face, Pt{X: x, Y: baseline}, l.color, rect, text)
}
