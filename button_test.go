package cadmus

import (
	"testing"
)

func TestButtonTapEmitsEventAndRepaints(t *testing.T) {
	b := NewButton(Rect{Width: 80, Height: 30}, "OK", Validate{})
	var bus Bus
	var rq RenderQueue

	if !b.HandleEvent(Tap{Center: Pt{10, 10}}, nil, &bus, &rq, newTestContext()) {
		t.Error("tap should be consumed")
	}
	if len(bus.Drain()) != 1 {
		t.Error("button event not pushed")
	}
	if rq.Len() != 1 {
		t.Errorf("paint requests = %d, want 1", rq.Len())
	}
}

func TestDisabledButtonConsumesWithoutEmitting(t *testing.T) {
	b := NewButton(Rect{Width: 80, Height: 30}, "OK", Validate{})
	var bus Bus
	var rq RenderQueue
	b.SetDisabled(true, &rq)
	rq.drain()

	if !b.HandleEvent(Tap{Center: Pt{10, 10}}, nil, &bus, &rq, newTestContext()) {
		t.Error("disabled button still swallows the tap")
	}
	if bus.Len() != 0 {
		t.Error("disabled button must not emit")
	}
	if rq.Len() != 0 {
		t.Error("disabled button must not request pressed feedback")
	}
}

func TestButtonRenderDrawsInsideOwnBounds(t *testing.T) {
	fb := NewImageFramebuffer(100, 100)
	b := NewButton(Rect{X: 20, Y: 20, Width: 60, Height: 30}, "OK", Validate{})

	// Damage region larger than the button: chrome must stay on the
	// button's own edges.
	b.Render(fb, Rect{Width: 100, Height: 100}, newTestContext())

	if fb.GrayAt(20, 20).Y != Black.Y {
		t.Error("border not drawn at button corner")
	}
	if fb.GrayAt(10, 10).Y != White.Y {
		t.Error("drawing leaked outside the button")
	}
}
