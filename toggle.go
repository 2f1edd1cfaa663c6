package cadmus

// selectionBox is a leaf overlay that outlines the currently selected half
// of a toggle. It is the toggle's last child so it draws on top of the
// labels.
type selectionBox struct {
	baseView
	target  Rect
	visible bool
}

func newSelectionBox(rect, target Rect, visible bool) *selectionBox {
	return &selectionBox{baseView: newBaseView(ViewID{}, rect), target: target, visible: visible}
}

func (s *selectionBox) setTarget(target Rect, visible bool) {
	s.target = target
	s.visible = visible
}

func (s *selectionBox) Render(fb Framebuffer, rect Rect, ctx *Context) {
	if !s.visible || rect.Intersect(s.target).IsEmpty() {
		return
	}
	face := ctx.Fonts.Normal
	padding := Em(face) / 2
	xHeight := face.Metrics().XHeight.Ceil()
	if xHeight <= 0 {
		xHeight = LineHeight(face) / 2
	}
	boxHeight := 3 * xHeight
	box := Rect{
		X:      s.target.X + padding,
		Y:      s.target.Y + (s.target.Height-boxHeight)/2,
		Width:  s.target.Width - 2*padding,
		Height: boxHeight,
	}
	border := BorderSpec{
		Thickness: ScaleByDPI(ThicknessSmall, ctx.Display.DPI),
		Color:     Black,
	}
	DrawRectOutline(Clipped(fb, rect), box, border)
}

// Toggle is a binary control showing two options side by side, separated by
// a vertical rule, with the selected option outlined. Tapping the
// unselected half flips the state and emits Toggled as a follow-up.
//
// Children, in z-order: left label, separator filler, right label,
// selection box. Taps land on the labels first and bubble up here unhandled.
type Toggle struct {
	baseView
	enabled   bool
	leftRect  Rect
	rightRect Rect
	box       *selectionBox
}

// NewToggle creates a toggle over rect. onText is the first option, shown
// selected when enabled is true.
func NewToggle(rect Rect, onText, offText string, enabled bool, ctx *Context) *Toggle {
	t := &Toggle{
		baseView: newBaseView(ViewID{Kind: KindToggle, Seq: NextID()}, rect),
		enabled:  enabled,
	}
	separatorWidth := ScaleByDPI(ThicknessMedium, ctx.Display.DPI)
	labelWidth := (rect.Width - separatorWidth) / 2

	t.leftRect = Rect{X: rect.X, Y: rect.Y, Width: labelWidth, Height: rect.Height}
	t.rightRect = Rect{
		X:      rect.X + labelWidth + separatorWidth,
		Y:      rect.Y,
		Width:  rect.Width - labelWidth - separatorWidth,
		Height: rect.Height,
	}
	separatorPadding := rect.Height / 4
	separatorRect := Rect{
		X:      rect.X + labelWidth,
		Y:      rect.Y + separatorPadding,
		Width:  separatorWidth,
		Height: rect.Height - 2*separatorPadding,
	}

	t.appendChild(NewLabel(t.leftRect, onText, AlignCenter))
	t.appendChild(NewFiller(separatorRect, Gray08))
	t.appendChild(NewLabel(t.rightRect, offText, AlignCenter))
	t.box = newSelectionBox(rect, t.selectedRect(), true)
	t.appendChild(t.box)
	return t
}

// Enabled reports whether the first option is selected.
func (t *Toggle) Enabled() bool { return t.enabled }

func (t *Toggle) selectedRect() Rect {
	if t.enabled {
		return t.leftRect
	}
	return t.rightRect
}

// HandleEvent flips the state when a tap lands on the unselected half. The
// tap reaches us by bubbling from the label leaves, which do not consume.
func (t *Toggle) HandleEvent(evt Event, _ Hub, bus *Bus, rq *RenderQueue, _ *Context) bool {
	tap, ok := evt.(Tap)
	if !ok {
		return false
	}
	wantEnabled := t.leftRect.Contains(tap.Center)
	if !wantEnabled && !t.rightRect.Contains(tap.Center) {
		return true
	}
	if wantEnabled != t.enabled {
		t.enabled = wantEnabled
		t.box.setTarget(t.selectedRect(), true)
		rq.Add(NewRenderData(t.id, t.rect, RefreshPartial))
		bus.Push(Toggled{ViewID: t.viewID, Enabled: t.enabled})
	}
	return true
}
