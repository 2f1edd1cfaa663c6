package cadmus

import "time"

// notificationCloseDelay is how long a non-pinned notification stays up.
const notificationCloseDelay = 4 * time.Second

// Notification is a transient message panel stacked near the top of the
// screen. Slots cycle through a 3x2 grid, alternating sides, so several
// messages can be up at once without overlapping. Non-pinned notifications
// dismiss themselves after notificationCloseDelay; pinned ones stay until a
// Close arrives and may show a progress bar.
type Notification struct {
	baseView
	text     string
	maxWidth int
	slot     uint8
	progress int // percent, negative when hidden
}

// NewNotification creates a notification and queues its first paint. When
// viewID is zero a fresh identity is allocated. For non-pinned notifications
// a timer goroutine sends Close on the hub after the delay; the send is
// dropped harmlessly if the loop has already shut down.
func NewNotification(viewID ViewID, text string, pinned bool, hub Hub, rq *RenderQueue, ctx *Context) *Notification {
	id := NextID()
	if viewID.IsZero() {
		viewID = ViewID{Kind: KindNotification, Seq: id}
	}
	slot := ctx.NextNotificationSlot()

	if !pinned {
		go func() {
			time.Sleep(notificationCloseDelay)
			hub.Send(Close{ViewID: viewID})
		}()
	}

	face := ctx.Fonts.Normal
	padding := Em(face)
	xHeight := face.Metrics().XHeight.Ceil()
	if xHeight <= 0 {
		xHeight = LineHeight(face) / 2
	}
	maxWidth := ctx.Display.Width - 5*padding
	textWidth := TextWidth(face, text)
	if textWidth > maxWidth {
		textWidth = maxWidth
	}

	n := &Notification{
		baseView: baseView{id: id, viewID: viewID},
		text:     text,
		maxWidth: maxWidth,
		slot:     slot,
		progress: -1,
	}
	n.rect = n.slotRect(Rect{Width: textWidth + 3*padding, Height: 7 * xHeight}, padding, ctx)
	rq.Add(NewRenderData(id, n.rect, RefreshPartial))
	return n
}

// slotRect places a panel of the given size into this notification's grid
// slot. Slots 0-2 stack down the right edge, 3-5 down the left.
func (n *Notification) slotRect(size Rect, padding int, ctx *Context) Rect {
	x := padding
	if (n.slot/3)%2 == 0 {
		x = ctx.Display.Width - size.Width - padding
	}
	y := padding + int(n.slot%3)*(size.Height+padding)
	return Rect{X: x, Y: y, Width: size.Width, Height: size.Height}
}

// Text returns the current message.
func (n *Notification) Text() string { return n.text }

// UpdateText replaces the message and queues a repaint. The panel keeps its
// size; longer text is truncated.
func (n *Notification) UpdateText(text string, rq *RenderQueue) {
	n.text = text
	rq.Add(NewRenderData(n.id, n.rect, RefreshPartial))
}

// UpdateProgress sets the progress bar percentage and queues a repaint.
func (n *Notification) UpdateProgress(progress int, rq *RenderQueue) {
	n.progress = progress
	rq.Add(NewRenderData(n.id, n.rect, RefreshPartial))
}

// HandleEvent swallows pointer events over the panel so taps do not fall
// through to whatever the notification covers.
func (n *Notification) HandleEvent(evt Event, _ Hub, _ *Bus, _ *RenderQueue, _ *Context) bool {
	switch evt.(type) {
	case Tap, Hold, Swipe:
		return true
	}
	return false
}

// Render draws the bordered panel, the centered message and, when active,
// the progress bar along the bottom edge.
func (n *Notification) Render(fb Framebuffer, rect Rect, ctx *Context) {
	cfb := Clipped(fb, rect)
	border := BorderSpec{
		Thickness: ScaleByDPI(ThicknessLarge, ctx.Display.DPI),
		Color:     Black,
	}
	DrawPanel(cfb, n.rect, border, White)

	face := ctx.Fonts.Normal
	padding := Em(face)
	text := TruncateToWidth(face, n.text, n.rect.Width-2*padding)
	width := TextWidth(face, text)
	metrics := face.Metrics()
	baseline := n.rect.Y + (n.rect.Height+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	DrawText(fb, face, Pt{X: n.rect.X + (n.rect.Width-width)/2, Y: baseline}, Black, rect, text)

	if n.progress >= 0 {
		progress := n.progress
		if progress > 100 {
			progress = 100
		}
		barHeight := ScaleByDPI(2.0, ctx.Display.DPI)
		barWidth := n.rect.Width - 2*padding
		bar := Rect{
			X:      n.rect.X + padding,
			Y:      n.rect.Y + n.rect.Height - padding - barHeight,
			Width:  barWidth,
			Height: barHeight,
		}
		FillRect(cfb, bar, Gray12)
		bar.Width = barWidth * progress / 100
		FillRect(cfb, bar, Black)
	}
}

// Resize keeps the panel size and recomputes the slot position for the new
// display rectangle.
func (n *Notification) Resize(_ Rect, _ Hub, _ *RenderQueue, ctx *Context) {
	padding := Em(ctx.Fonts.Normal)
	n.rect = n.slotRect(n.rect, padding, ctx)
}
