package cadmus

// Display describes the panel geometry.
type Display struct {
	Width  int
	Height int
	DPI    int
	// Rotation in quarter-turns (0-3). Updated by the host loop when it
	// handles a Rotate event, before the relayout pass.
	Rotation int
}

// Bounds returns the full-screen rectangle.
func (d Display) Bounds() Rect {
	return Rect{Width: d.Width, Height: d.Height}
}

// Context is the shared mutable state threaded through every HandleEvent and
// Render call: the host loop owns it, initializes it at startup, and tears
// it down at shutdown. Views must not retain it beyond the call that
// received it, and must not assume it is unchanged between cycles; other
// views or host-level actions mutate it in between. The single-threaded,
// non-reentrant loop is what makes the single-writer rule hold; there are no
// locks here.
type Context struct {
	Display  Display
	Fonts    *Fonts
	Settings Settings

	// Library is the open book index, nil when browsing is disabled.
	Library *Library

	// Document is the currently open document, nil on the home screen.
	Document Document

	// BatteryPercent is the last reported charge.
	BatteryPercent int

	// notificationIndex cycles notification slots so stacked messages do
	// not overlap.
	notificationIndex uint8
}

// NextNotificationSlot returns the next notification slot index and
// advances the cycle.
func (c *Context) NextNotificationSlot() uint8 {
	slot := c.notificationIndex
	c.notificationIndex++
	return slot
}
