package cadmus

// SettingsEditor is a modal panel for editing the runtime configuration.
// Like Dialog its rectangle covers the whole display so it is always the
// frontmost pointer target; the visible panel holds one row per editable
// setting. Toggles mutate a draft copy; Save emits the draft as a
// SettingsChanged follow-up for the host loop to apply and persist, Cancel
// discards it.
type SettingsEditor struct {
	baseView
	panel Rect
	draft Settings

	title         *Label
	loggingLabel  *Label
	loggingToggle *Toggle
	debugLabel    *Label
	debugToggle   *Toggle
	cancel        *Button
	save          *Button
}

// NewSettingsEditor builds the editor over the full display, seeded with a
// draft copy of the current settings.
func NewSettingsEditor(ctx *Context) *SettingsEditor {
	s := &SettingsEditor{
		baseView: newBaseView(ViewID{Kind: KindSettings}, ctx.Display.Bounds()),
		draft:    ctx.Settings,
	}

	s.title = NewLabel(Rect{}, "Settings", AlignCenter)
	s.loggingLabel = NewLabel(Rect{}, "Logging", AlignLeft)
	s.loggingToggle = NewToggle(s.toggleRect(0, ctx), "On", "Off", s.draft.Logging.Enabled, ctx)
	s.debugLabel = NewLabel(Rect{}, "Debug logs", AlignLeft)
	s.debugToggle = NewToggle(s.toggleRect(1, ctx), "On", "Off", s.draft.Logging.Level == "debug", ctx)
	s.cancel = NewButton(Rect{}, "Cancel", Close{ViewID: s.viewID})
	s.save = NewButton(Rect{}, "Save", Validate{})

	s.appendChild(s.title)
	s.appendChild(s.loggingLabel)
	s.appendChild(s.loggingToggle)
	s.appendChild(s.debugLabel)
	s.appendChild(s.debugToggle)
	s.appendChild(s.cancel)
	s.appendChild(s.save)
	s.layoutChildren(ctx)
	return s
}

// Panel returns the visible panel rectangle.
func (s *SettingsEditor) Panel() Rect { return s.panel }

// Draft returns the settings copy being edited.
func (s *SettingsEditor) Draft() Settings { return s.draft }

func (s *SettingsEditor) metrics(ctx *Context) (padding, lineHeight, rowHeight int) {
	face := ctx.Fonts.Normal
	padding = Em(face)
	lineHeight = LineHeight(face)
	xHeight := face.Metrics().XHeight.Ceil()
	if xHeight <= 0 {
		xHeight = LineHeight(face) / 2
	}
	return padding, lineHeight, 4 * xHeight
}

// toggleRect is the rectangle for the toggle in the given row, relative to
// the current panel. Toggles cannot be repositioned after construction, so
// the panel is computed first.
func (s *SettingsEditor) toggleRect(row int, ctx *Context) Rect {
	s.layoutPanel(ctx)
	padding, lineHeight, rowHeight := s.metrics(ctx)
	rowTop := s.panel.Y + 2*padding + lineHeight + row*(rowHeight+padding/2)
	half := (s.panel.Width - 3*padding) / 2
	return Rect{
		X:      s.panel.X + 2*padding + half,
		Y:      rowTop,
		Width:  half - padding,
		Height: rowHeight,
	}
}

// layoutPanel centers the panel for the current display size.
func (s *SettingsEditor) layoutPanel(ctx *Context) {
	display := ctx.Display.Bounds()
	padding, lineHeight, rowHeight := s.metrics(ctx)
	width := display.Width * 3 / 4
	height := 2*padding + lineHeight + 2*(rowHeight+padding/2) + rowHeight + padding
	s.panel = Rect{
		X:      (display.Width - width) / 2,
		Y:      (display.Height - height) / 2,
		Width:  width,
		Height: height,
	}
}

// layoutChildren positions the title, the setting rows and the button row
// within the current panel.
func (s *SettingsEditor) layoutChildren(ctx *Context) {
	s.layoutPanel(ctx)
	padding, lineHeight, rowHeight := s.metrics(ctx)
	half := (s.panel.Width - 3*padding) / 2

	s.title.SetRect(Rect{
		X:      s.panel.X + padding,
		Y:      s.panel.Y + padding,
		Width:  s.panel.Width - 2*padding,
		Height: lineHeight,
	})

	// Toggles size their children from their construction rect; Resize
	// rebuilds them instead of repositioning, so only the labels move here.
	for i, label := range []*Label{s.loggingLabel, s.debugLabel} {
		rowTop := s.panel.Y + 2*padding + lineHeight + i*(rowHeight+padding/2)
		label.SetRect(Rect{
			X:      s.panel.X + padding,
			Y:      rowTop,
			Width:  half,
			Height: rowHeight,
		})
	}

	buttonWidth := (s.panel.Width - 3*padding) / 2
	buttonTop := s.panel.Y + s.panel.Height - rowHeight - padding
	s.cancel.SetRect(Rect{X: s.panel.X + padding, Y: buttonTop, Width: buttonWidth, Height: rowHeight})
	s.save.SetRect(Rect{X: s.panel.X + 2*padding + buttonWidth, Y: buttonTop, Width: buttonWidth, Height: rowHeight})
}

// HandleEvent applies toggle changes to the draft, emits the draft on Save,
// and swallows pointer events the children declined. A tap outside the
// panel cancels the editor.
func (s *SettingsEditor) HandleEvent(evt Event, hub Hub, bus *Bus, _ *RenderQueue, _ *Context) bool {
	switch e := evt.(type) {
	case Tap:
		if !s.panel.Contains(e.Center) {
			hub.Send(Close{ViewID: s.viewID})
		}
		return true
	case Hold, Swipe:
		return true
	case Toggled:
		switch e.ViewID {
		case s.loggingToggle.ViewID():
			s.draft.Logging.Enabled = e.Enabled
		case s.debugToggle.ViewID():
			if e.Enabled {
				s.draft.Logging.Level = "debug"
			} else {
				s.draft.Logging.Level = "info"
			}
		}
		return false
	case Validate:
		bus.Push(SettingsChanged{Settings: s.draft})
		bus.Push(Close{ViewID: s.viewID})
		return true
	}
	return false
}

// IsBackground lets the panel chrome draw under the rows and buttons.
func (s *SettingsEditor) IsBackground() bool { return true }

// Render draws the bordered panel; the scrim area stays untouched.
func (s *SettingsEditor) Render(fb Framebuffer, rect Rect, ctx *Context) {
	border := BorderSpec{
		Thickness: ScaleByDPI(ThicknessLarge, ctx.Display.DPI),
		Color:     Black,
	}
	DrawPanel(Clipped(fb, rect), s.panel, border, White)
}

// Resize recenters the panel for the new display size. The toggles compute
// their internal geometry from the construction rect, so they are rebuilt
// in place with their current state.
func (s *SettingsEditor) Resize(rect Rect, _ Hub, rq *RenderQueue, ctx *Context) {
	s.rect = rect
	logging := s.loggingToggle.Enabled()
	debug := s.debugToggle.Enabled()
	s.layoutPanel(ctx)
	s.loggingToggle = NewToggle(s.toggleRect(0, ctx), "On", "Off", logging, ctx)
	s.debugToggle = NewToggle(s.toggleRect(1, ctx), "On", "Off", debug, ctx)

	s.children = s.children[:0]
	s.appendChild(s.title)
	s.appendChild(s.loggingLabel)
	s.appendChild(s.loggingToggle)
	s.appendChild(s.debugLabel)
	s.appendChild(s.debugToggle)
	s.appendChild(s.cancel)
	s.appendChild(s.save)
	s.layoutChildren(ctx)
	rq.Add(NewRenderData(s.id, s.rect, RefreshFull))
}
