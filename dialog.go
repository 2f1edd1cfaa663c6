package cadmus

import "strings"

// DialogBuilder accumulates the message and buttons for a Dialog before the
// layout is computed. Obtain one with NewDialog.
type DialogBuilder struct {
	viewID  ViewID
	title   string
	buttons []dialogButton
}

type dialogButton struct {
	text  string
	event Event
}

// NewDialog starts a dialog with the given named identity and message. The
// title may span several lines separated by newlines.
func NewDialog(viewID ViewID, title string) *DialogBuilder {
	return &DialogBuilder{viewID: viewID, title: title}
}

// AddButton appends a button. Buttons appear left to right in the order
// added; tapping one pushes its event as a follow-up.
func (b *DialogBuilder) AddButton(text string, event Event) *DialogBuilder {
	b.buttons = append(b.buttons, dialogButton{text: text, event: event})
	return b
}

// Build computes the panel layout from the display size and font metrics and
// returns the finished dialog, centered on screen.
func (b *DialogBuilder) Build(ctx *Context) *Dialog {
	face := ctx.Fonts.Normal
	display := ctx.Display.Bounds()
	padding := Em(face)
	xHeight := face.Metrics().XHeight.Ceil()
	if xHeight <= 0 {
		xHeight = LineHeight(face) / 2
	}
	lineHeight := LineHeight(face)
	buttonHeight := 4 * xHeight

	lines := strings.Split(b.title, "\n")

	minMessageWidth := display.Width / 2
	maxButtonWidth := display.Width / 5
	maxLineWidth := minMessageWidth
	for _, line := range lines {
		if w := TextWidth(face, line); w > maxLineWidth {
			maxLineWidth = w
		}
	}
	messageWidth := maxLineWidth + 3*padding

	buttonCount := len(b.buttons)
	maxButtonTextWidth := 0
	for _, btn := range b.buttons {
		w := TextWidth(face, btn.text)
		if w > maxButtonWidth {
			w = maxButtonWidth
		}
		if w > maxButtonTextWidth {
			maxButtonTextWidth = w
		}
	}
	buttonWidth := maxButtonTextWidth + padding

	requiredButtonArea := buttonCount*buttonWidth + (buttonCount+1)*padding
	panelWidth := messageWidth
	if requiredButtonArea > panelWidth {
		panelWidth = requiredButtonArea
	}
	panelHeight := len(lines)*lineHeight + buttonHeight + 3*padding

	d := &Dialog{
		baseView:    newBaseView(b.viewID, display),
		lineCount:   len(lines),
		buttonCount: buttonCount,
		buttonWidth: buttonWidth,
		panel: Rect{
			X:      (display.Width - panelWidth) / 2,
			Y:      (display.Height - panelHeight) / 2,
			Width:  panelWidth,
			Height: panelHeight,
		},
	}
	for _, line := range lines {
		d.appendChild(NewLabel(Rect{}, line, AlignCenter))
	}
	for _, btn := range b.buttons {
		d.appendChild(NewButton(Rect{}, btn.text, btn.event))
	}
	d.layoutChildren(ctx)
	return d
}

// Dialog is a modal message panel with a row of buttons. Its rectangle
// covers the whole display so that it is always the frontmost target for
// pointer events; the visible panel is an inner rectangle. Tapping outside
// the panel asks the host to close the dialog, every other gesture is
// swallowed.
type Dialog struct {
	baseView
	panel       Rect
	lineCount   int
	buttonCount int
	buttonWidth int
}

// Panel returns the visible panel rectangle.
func (d *Dialog) Panel() Rect { return d.panel }

// layoutChildren positions the message labels and the button row within the
// current panel. Build and Resize both delegate here.
func (d *Dialog) layoutChildren(ctx *Context) {
	face := ctx.Fonts.Normal
	padding := Em(face)
	xHeight := face.Metrics().XHeight.Ceil()
	if xHeight <= 0 {
		xHeight = LineHeight(face) / 2
	}
	lineHeight := LineHeight(face)
	buttonHeight := 4 * xHeight

	for i := 0; i < d.lineCount; i++ {
		d.children[i].SetRect(Rect{
			X:      d.panel.X + padding,
			Y:      d.panel.Y + padding + i*lineHeight,
			Width:  d.panel.Width - 2*padding,
			Height: lineHeight,
		})
	}

	buttonArea := d.panel.Width - 2*padding
	spacing := 0
	if d.buttonCount > 0 {
		spacing = (buttonArea - d.buttonCount*d.buttonWidth) / (d.buttonCount + 1)
	}
	for i := 0; i < d.buttonCount; i++ {
		x := d.panel.X + padding + (i+1)*spacing + i*d.buttonWidth
		d.children[d.lineCount+i].SetRect(Rect{
			X:      x,
			Y:      d.panel.Y + d.panel.Height - buttonHeight - padding,
			Width:  d.buttonWidth,
			Height: buttonHeight,
		})
	}
}

// HandleEvent closes on a tap outside the panel and swallows every other
// pointer event so nothing reaches the views underneath.
func (d *Dialog) HandleEvent(evt Event, hub Hub, _ *Bus, _ *RenderQueue, _ *Context) bool {
	switch e := evt.(type) {
	case Tap:
		if !d.panel.Contains(e.Center) {
			hub.Send(Close{ViewID: d.viewID})
		}
		return true
	case Hold, Swipe:
		return true
	}
	return false
}

// IsBackground lets the panel chrome draw under the labels and buttons.
func (d *Dialog) IsBackground() bool { return true }

// Render draws the bordered panel. The scrim area is left untouched so the
// obscured content stays visible around the panel.
func (d *Dialog) Render(fb Framebuffer, rect Rect, ctx *Context) {
	border := BorderSpec{
		Thickness: ScaleByDPI(ThicknessLarge, ctx.Display.DPI),
		Color:     Black,
	}
	DrawPanel(Clipped(fb, rect), d.panel, border, White)
}

// Resize re-centers the panel on the new display rectangle, keeping the
// panel's content-derived size.
func (d *Dialog) Resize(rect Rect, hub Hub, rq *RenderQueue, ctx *Context) {
	d.rect = rect
	d.panel.X = rect.X + (rect.Width-d.panel.Width)/2
	d.panel.Y = rect.Y + (rect.Height-d.panel.Height)/2
	d.layoutChildren(ctx)
	for _, child := range d.children {
		child.Resize(child.Rect(), hub, rq, ctx)
	}
}
