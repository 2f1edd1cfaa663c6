package cadmus

import (
	"fmt"
	"testing"
)

// probeLog records handle and render order across a tree of probe views.
type probeLog struct {
	handled  []string
	rendered []string
}

// probeView is a scriptable view for engine tests: it records every event
// and render call and can be configured to consume, panic, or act as a
// background.
type probeView struct {
	baseView
	name       string
	consumes   bool
	background bool
	panics     bool
	log        *probeLog
}

func newProbe(name string, rect Rect, log *probeLog) *probeView {
	return &probeView{baseView: newBaseView(ViewID{}, rect), name: name, log: log}
}

func (v *probeView) IsBackground() bool { return v.background }

func (v *probeView) HandleEvent(evt Event, _ Hub, _ *Bus, _ *RenderQueue, _ *Context) bool {
	v.log.handled = append(v.log.handled, v.name)
	return v.consumes
}

func (v *probeView) Render(_ Framebuffer, rect Rect, _ *Context) {
	if v.panics {
		panic("probe render failure")
	}
	v.log.rendered = append(v.log.rendered, fmt.Sprintf("%s@%v", v.name, rect))
}

func newTestContext() *Context {
	return &Context{
		Display: Display{Width: 600, Height: 800, DPI: 167},
		Fonts:   NewFonts(),
	}
}

// --- Identity ---

func TestNextIDUnique(t *testing.T) {
	a, b := NextID(), NextID()
	if a == b {
		t.Errorf("NextID returned %d twice", a)
	}
	if b != a+1 {
		t.Errorf("NextID = %d after %d, want %d", b, a, a+1)
	}
}

func TestViewIDIsZero(t *testing.T) {
	if !(ViewID{}).IsZero() {
		t.Error("zero ViewID should report IsZero")
	}
	if (ViewID{Kind: KindDialog}).IsZero() {
		t.Error("named ViewID should not report IsZero")
	}
}

// --- Child management ---

func TestAppendChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("appendChild(nil) should panic")
		}
	}()
	var log probeLog
	v := newProbe("parent", Rect{Width: 10, Height: 10}, &log)
	v.appendChild(nil)
}

func TestRemoveChildID(t *testing.T) {
	var log probeLog
	parent := newProbe("parent", Rect{Width: 100, Height: 100}, &log)
	child := newProbe("child", Rect{Width: 10, Height: 10}, &log)
	child.viewID = ViewID{Kind: KindDialog, Seq: 7}
	parent.appendChild(child)
	parent.appendChild(newProbe("other", Rect{Width: 10, Height: 10}, &log))

	removed := parent.removeChildID(ViewID{Kind: KindDialog, Seq: 7})
	if removed != View(child) {
		t.Fatal("removeChildID returned wrong view")
	}
	if len(parent.Children()) != 1 {
		t.Errorf("children = %d, want 1", len(parent.Children()))
	}
	if parent.removeChildID(ViewID{Kind: KindDialog, Seq: 7}) != nil {
		t.Error("second removal should return nil")
	}
}

// --- Tree lookups ---

func TestLocateViewID(t *testing.T) {
	var log probeLog
	root := newProbe("root", Rect{Width: 100, Height: 100}, &log)
	mid := newProbe("mid", Rect{Width: 50, Height: 50}, &log)
	leaf := newProbe("leaf", Rect{Width: 10, Height: 10}, &log)
	leaf.viewID = ViewID{Kind: KindNotification, Seq: 3}
	root.appendChild(mid)
	mid.appendChild(leaf)

	if got := LocateViewID(root, ViewID{Kind: KindNotification, Seq: 3}); got != View(leaf) {
		t.Error("LocateViewID did not find nested leaf")
	}
	if LocateViewID(root, ViewID{Kind: KindDialog, Seq: 1}) != nil {
		t.Error("LocateViewID found a view that does not exist")
	}
	if got := LocateID(root, leaf.ID()); got != View(leaf) {
		t.Error("LocateID did not find nested leaf")
	}
}
