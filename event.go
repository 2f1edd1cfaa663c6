package cadmus

// Event is one occurrence fed through the dispatch engine: a gesture, a key
// press, a device signal, or an application command emitted by a view.
// Events are immutable values and are not retained after dispatch.
type Event interface {
	isEvent()
}

// Located is implemented by events that carry a screen position. Located
// events are routed to the deepest view whose bounds contain the position;
// all other events are broadcast to the whole tree.
type Located interface {
	Event
	Position() Pt
}

// Direction identifies a swipe axis and sense.
type Direction uint8

const (
	DirNorth Direction = iota
	DirSouth
	DirEast
	DirWest
)

// --- Gestures ---

// Tap is a single touch at Center.
type Tap struct {
	Center Pt
}

// Hold is a long press at Center.
type Hold struct {
	Center Pt
}

// Swipe is a directional drag from Start to End.
type Swipe struct {
	Dir        Direction
	Start, End Pt
}

func (Tap) isEvent()   {}
func (Hold) isEvent()  {}
func (Swipe) isEvent() {}

// Position returns the tap center.
func (t Tap) Position() Pt { return t.Center }

// Position returns the press center.
func (h Hold) Position() Pt { return h.Center }

// Position returns the swipe start; the view under the first touch owns the
// whole gesture.
func (s Swipe) Position() Pt { return s.Start }

// --- Keys ---

// KeyPress is a physical button or keyboard event, pre-translated by the
// input source.
type KeyPress struct {
	Key rune
}

func (KeyPress) isEvent() {}

// --- Device signals (broadcast) ---

// Suspend tells every view the device is about to sleep.
type Suspend struct{}

// Wakeup tells every view the device has resumed.
type Wakeup struct{}

// BatteryLevel reports the current charge in percent.
type BatteryLevel struct {
	Percent int
}

// Rotate reports a display rotation to the given quarter-turn (0-3).
// Views relayout on the Resize pass that the host loop runs afterwards.
type Rotate struct {
	Quarter int
}

func (Suspend) isEvent()      {}
func (Wakeup) isEvent()       {}
func (BatteryLevel) isEvent() {}
func (Rotate) isEvent()       {}

// --- Commands (broadcast) ---

// Open asks the host loop to open the document at Path.
type Open struct {
	Path string
}

// Close asks the owner of the named view to remove it from the tree.
type Close struct {
	ViewID ViewID
}

// Browse asks the host loop to show the library browser.
type Browse struct{}

// EditSettings asks the host loop to open the settings editor.
type EditSettings struct{}

// SettingsChanged carries an edited settings snapshot for the host loop to
// apply to the Context and persist.
type SettingsChanged struct {
	Settings Settings
}

// Validate confirms the pending action of the frontmost editor or dialog.
type Validate struct{}

// Toggled reports that a binary control identified by ViewID changed state.
type Toggled struct {
	ViewID  ViewID
	Enabled bool
}

// Notify shows a message notification. When Pinned is set the notification
// stays until explicitly closed and may carry progress updates.
type Notify struct {
	ViewID ViewID // zero value allocates a fresh one
	Text   string
	Pinned bool
}

// NotifyUpdate changes the text or progress of a pinned notification.
// Progress is in percent; negative values leave the bar untouched.
type NotifyUpdate struct {
	ViewID   ViewID
	Text     string
	Progress int
}

// RenderFailed reports that a view's draw routine or a document backend
// failed. It is delivered as a broadcast so a container can show an error
// state; it is never silently dropped by the engine.
type RenderFailed struct {
	ViewID ViewID
	Err    string
}

func (Open) isEvent()            {}
func (Browse) isEvent()          {}
func (EditSettings) isEvent()    {}
func (SettingsChanged) isEvent() {}
func (Close) isEvent()           {}
func (Validate) isEvent()        {}
func (Toggled) isEvent()         {}
func (Notify) isEvent()          {}
func (NotifyUpdate) isEvent()    {}
func (RenderFailed) isEvent()    {}
