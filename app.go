package cadmus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// App is the host loop: it owns the root frame, the shared Context and the
// event queue, and runs the dispatch-then-paint cycle. Exactly one event is
// processed per cycle; follow-ups emitted during the cycle go to the back
// of the queue, so a burst of taps is handled fairly and no pass ever
// observes a half-applied cascade.
//
// The loop is single-threaded and non-reentrant. Asynchronous producers
// (input drivers, timers, download workers) feed it through the Hub; they
// never touch the tree or the Context directly.
type App struct {
	fb      Framebuffer
	root    *Frame
	ctx     *Context
	events  chan Event
	pending []Event
	bus     Bus
	rq      RenderQueue

	// OpenDocument resolves an Open command's path into a document.
	// Defaults to the image-file backend.
	OpenDocument func(path string) (Document, error)

	// SaveSettings persists an edited settings snapshot. Nil means apply
	// to the Context only.
	SaveSettings func(settings Settings) error
}

// NewApp builds the host loop around a framebuffer and an initialized
// context and queues the first full-screen paint.
func NewApp(fb Framebuffer, ctx *Context) *App {
	a := &App{
		fb:           fb,
		root:         NewFrame(ctx.Display.Bounds()),
		ctx:          ctx,
		events:       make(chan Event, 32),
		OpenDocument: openImageDirectory,
	}
	a.rq.Add(NewRenderData(a.root.ID(), a.root.Rect(), RefreshFull))
	return a
}

// Hub returns the send side of the event queue for asynchronous producers.
func (a *App) Hub() Hub { return Hub(a.events) }

// Root returns the root frame.
func (a *App) Root() *Frame { return a.root }

// Run processes events until ctx is cancelled. The first cycle runs before
// any event arrives so the initial frame appears immediately.
func (a *App) Run(ctx context.Context) error {
	if err := a.Flush(); err != nil {
		slog.Error("paint failed", "error", err)
	}

	for {
		var evt Event
		if len(a.pending) > 0 {
			evt = a.pending[0]
			a.pending = a.pending[1:]
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case evt = <-a.events:
			}
		}
		if err := a.Cycle(evt); err != nil {
			slog.Error("paint failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// Cycle runs one full engine cycle for a single event: dispatch through the
// tree, host-level command handling, follow-up collection, then the paint
// pass. The returned error is the paint pass's flush error, after all
// drawing completed. The bus is drained again after the paint pass so
// follow-ups it emits, such as RenderFailed, reach the next cycle instead
// of stranding until unrelated input arrives.
func (a *App) Cycle(evt Event) error {
	Dispatch(a.root, evt, a.Hub(), &a.bus, &a.rq, a.ctx)
	a.handleCommand(evt)
	a.pending = append(a.pending, a.bus.Drain()...)
	err := Paint(a.root, a.fb, &a.rq, &a.bus, a.ctx)
	a.pending = append(a.pending, a.bus.Drain()...)
	return err
}

// Settle processes queued follow-ups without blocking on new input, up to
// max cycles. Used by the script runner and tests to let a cascade land.
// Reports the number of cycles run.
func (a *App) Settle(max int) int {
	var cycles int
	for cycles < max && len(a.pending) > 0 {
		evt := a.pending[0]
		a.pending = a.pending[1:]
		if err := a.Cycle(evt); err != nil {
			slog.Error("paint failed", "error", err)
		}
		cycles++
	}
	return cycles
}

// Flush runs a paint pass for requests queued outside a dispatch cycle,
// such as the initial full-screen paint or direct mutations made by a
// frontend between frames.
func (a *App) Flush() error {
	err := Paint(a.root, a.fb, &a.rq, &a.bus, a.ctx)
	a.pending = append(a.pending, a.bus.Drain()...)
	return err
}

// Pump runs cycles for every event already queued or buffered on the hub
// without blocking, up to max cycles. Frontends that own the render loop
// (the emulator) call this once per frame instead of Run. Reports the
// number of cycles run.
func (a *App) Pump(max int) int {
	var cycles int
	for cycles < max {
		var evt Event
		if len(a.pending) > 0 {
			evt = a.pending[0]
			a.pending = a.pending[1:]
		} else {
			select {
			case evt = <-a.events:
			default:
				return cycles
			}
		}
		if err := a.Cycle(evt); err != nil {
			slog.Error("paint failed", "error", err)
		}
		cycles++
	}
	return cycles
}

// handleCommand applies the host-level side of commands after the tree has
// seen them: structural changes to the frame, context updates, persistence.
func (a *App) handleCommand(evt Event) {
	switch e := evt.(type) {
	case Open:
		a.openDocument(e.Path)
	case Browse:
		a.openLibraryBrowser()
	case EditSettings:
		if LocateViewID(a.root, ViewID{Kind: KindSettings}) == nil {
			editor := NewSettingsEditor(a.ctx)
			a.root.Mount(editor)
			a.rq.Add(NewRenderData(editor.ID(), editor.Panel(), RefreshPartial))
		}
	case SettingsChanged:
		a.applySettings(e.Settings)
	case Close:
		if !a.root.CloseViewID(e.ViewID, &a.rq) {
			slog.Debug("close for unknown view", "kind", e.ViewID.Kind, "seq", e.ViewID.Seq)
		}
	case Notify:
		n := NewNotification(e.ViewID, e.Text, e.Pinned, a.Hub(), &a.rq, a.ctx)
		a.root.Mount(n)
	case NotifyUpdate:
		if v := LocateViewID(a.root, e.ViewID); v != nil {
			if n, ok := v.(*Notification); ok {
				if e.Text != "" {
					n.UpdateText(e.Text, &a.rq)
				}
				if e.Progress >= 0 {
					n.UpdateProgress(e.Progress, &a.rq)
				}
			}
		}
	case RenderFailed:
		a.bus.Push(Notify{Text: "Render failed: " + e.Err})
	case Rotate:
		a.rotate(e.Quarter)
	case BatteryLevel:
		a.ctx.BatteryPercent = e.Percent
	case Suspend:
		a.persistPosition()
	case KeyPress:
		switch e.Key {
		case 'l':
			a.bus.Push(Browse{})
		case 's':
			a.bus.Push(EditSettings{})
		}
	}
}

// openDocument resolves a path, updates the library record and swaps the
// content view. Failures surface as a notification, not a dead screen.
func (a *App) openDocument(path string) {
	doc, err := a.OpenDocument(path)
	if err != nil {
		slog.Error("open document failed", "path", path, "error", err)
		a.bus.Push(Notify{Text: "Cannot open " + filepath.Base(path)})
		return
	}
	a.ctx.Document = doc

	page := 0
	if a.ctx.Library != nil {
		if info, ok, err := a.ctx.Library.ByPath(path); err == nil && ok {
			page = info.CurrentPage
		}
		if err := a.ctx.Library.MarkOpened(path, page); err != nil {
			slog.Warn("library update failed", "path", path, "error", err)
		}
	}
	a.root.SetContent(NewPageView(a.root.Rect(), page), &a.rq)
	slog.Info("document opened", "path", path, "pages", doc.PageCount(), "page", page)
}

// openLibraryBrowser swaps the content view for the book browser.
func (a *App) openLibraryBrowser() {
	if a.ctx.Library == nil {
		a.bus.Push(Notify{Text: "No library configured"})
		return
	}
	browser, err := NewLibraryView(a.root.Rect(), a.ctx.Library)
	if err != nil {
		slog.Error("open library browser failed", "error", err)
		a.bus.Push(Notify{Text: "Cannot read library"})
		return
	}
	a.root.SetContent(browser, &a.rq)
}

// applySettings installs an edited snapshot in the Context and persists it
// through the SaveSettings hook.
func (a *App) applySettings(settings Settings) {
	a.ctx.Settings = settings
	if a.SaveSettings == nil {
		return
	}
	if err := a.SaveSettings(settings); err != nil {
		slog.Error("save settings failed", "error", err)
		a.bus.Push(Notify{Text: "Cannot save settings"})
		return
	}
	slog.Info("settings saved")
}

// rotate swaps the display dimensions for odd quarter-turns and relayouts
// the whole tree.
func (a *App) rotate(quarter int) {
	quarter &= 3
	if (quarter-a.ctx.Display.Rotation)&1 == 1 {
		a.ctx.Display.Width, a.ctx.Display.Height = a.ctx.Display.Height, a.ctx.Display.Width
	}
	a.ctx.Display.Rotation = quarter
	a.root.Resize(a.ctx.Display.Bounds(), a.Hub(), &a.rq, a.ctx)
	slog.Info("display rotated", "quarter", quarter,
		"width", a.ctx.Display.Width, "height", a.ctx.Display.Height)
}

// persistPosition saves the reading position of the open document.
func (a *App) persistPosition() {
	if a.ctx.Library == nil || a.ctx.Document == nil {
		return
	}
	page := 0
	if pv, ok := a.root.Content().(*PageView); ok {
		page = pv.Page()
	}
	if err := a.ctx.Library.MarkOpened(a.ctx.Document.Path(), page); err != nil {
		slog.Warn("library update failed", "path", a.ctx.Document.Path(), "error", err)
	}
}

// openImageDirectory is the default document opener: a directory of image
// files becomes a document with one page per file, a single image file a
// one-page document.
func openImageDirectory(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if !info.IsDir() {
		return OpenImageDocument(path, []string{path})
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	var pages []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			pages = append(pages, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(pages)
	return OpenImageDocument(path, pages)
}
