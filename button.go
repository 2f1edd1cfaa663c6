package cadmus

// Button is a leaf view that emits a configured event when tapped.
type Button struct {
	baseView
	text     string
	event    Event
	disabled bool
}

// NewButton creates a button over rect that pushes event on the bus when
// tapped.
func NewButton(rect Rect, text string, event Event) *Button {
	return &Button{
		baseView: newBaseView(ViewID{Kind: KindButton, Seq: NextID()}, rect),
		text:     text,
		event:    event,
	}
}

// SetDisabled greys the button out and stops it from emitting.
func (b *Button) SetDisabled(disabled bool, rq *RenderQueue) {
	if b.disabled == disabled {
		return
	}
	b.disabled = disabled
	rq.Add(NewRenderData(b.id, b.rect, RefreshFastMono))
}

// HandleEvent consumes taps and holds inside the button. A tap emits the
// configured event as a follow-up and requests a fast repaint for pressed
// feedback.
func (b *Button) HandleEvent(evt Event, _ Hub, bus *Bus, rq *RenderQueue, _ *Context) bool {
	switch evt.(type) {
	case Tap:
		if !b.disabled {
			bus.Push(b.event)
			rq.Add(NewRenderData(b.id, b.rect, RefreshFastMono))
		}
		return true
	case Hold:
		return true
	}
	return false
}

// Render draws the outlined button chrome and centered text.
func (b *Button) Render(fb Framebuffer, rect Rect, ctx *Context) {
	border := BorderSpec{
		Thickness: ScaleByDPI(ThicknessMedium, ctx.Display.DPI),
		Color:     Black,
	}
	textColor := Black
	if b.disabled {
		border.Color = Gray08
		textColor = TextLight
	}
	DrawPanel(Clipped(fb, rect), b.rect, border, White)

	face := ctx.Fonts.Normal
	text := TruncateToWidth(face, b.text, b.rect.Width-Em(face))
	width := TextWidth(face, text)
	metrics := face.Metrics()
	baseline := b.rect.Y + (b.rect.Height+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	DrawText(fb, face, Pt{X: b.rect.X + (b.rect.Width-width)/2, Y: baseline}, textColor, rect, text)
}
