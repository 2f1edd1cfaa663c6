package cadmus

import (
	"testing"
)

func newTestDialog(ctx *Context) *Dialog {
	return NewDialog(ViewID{Kind: KindDialog, Seq: 1}, "Delete this book?").
		AddButton("Cancel", Close{ViewID: ViewID{Kind: KindDialog, Seq: 1}}).
		AddButton("Delete", Validate{}).
		Build(ctx)
}

func TestDialogCoversDisplayPanelCentered(t *testing.T) {
	ctx := newTestContext()
	d := newTestDialog(ctx)

	if d.Rect() != ctx.Display.Bounds() {
		t.Errorf("dialog rect = %v, want full screen %v", d.Rect(), ctx.Display.Bounds())
	}
	panel := d.Panel()
	if !panel.In(d.Rect()) {
		t.Errorf("panel %v escapes the display", panel)
	}
	wantX := (ctx.Display.Width - panel.Width) / 2
	if panel.X != wantX {
		t.Errorf("panel.X = %d, want %d", panel.X, wantX)
	}
}

func TestDialogChildrenLaidOutInsidePanel(t *testing.T) {
	ctx := newTestContext()
	d := newTestDialog(ctx)

	children := d.Children()
	if len(children) != 3 { // one message line, two buttons
		t.Fatalf("children = %d, want 3", len(children))
	}
	for i, c := range children {
		if !c.Rect().In(d.Panel()) {
			t.Errorf("child %d rect %v escapes panel %v", i, c.Rect(), d.Panel())
		}
	}
}

func TestDialogTapOutsidePanelSendsClose(t *testing.T) {
	ctx := newTestContext()
	d := newTestDialog(ctx)
	ch := make(chan Event, 1)
	var bus Bus
	var rq RenderQueue

	outside := Pt{X: 1, Y: 1}
	if d.Panel().Contains(outside) {
		t.Fatal("test point is inside the panel")
	}
	consumed := Dispatch(d, Tap{Center: outside}, Hub(ch), &bus, &rq, ctx)

	if !consumed {
		t.Error("modal dialog must consume the tap")
	}
	select {
	case evt := <-ch:
		closeEvt, ok := evt.(Close)
		if !ok || closeEvt.ViewID != d.ViewID() {
			t.Errorf("hub event = %v, want Close for dialog", evt)
		}
	default:
		t.Error("no Close sent on the hub")
	}
}

func TestDialogButtonTapEmitsItsEvent(t *testing.T) {
	ctx := newTestContext()
	d := newTestDialog(ctx)
	var bus Bus
	var rq RenderQueue

	// Second button carries Validate.
	validate := d.Children()[2]
	consumed := Dispatch(d, Tap{Center: validate.Rect().Center()}, nil, &bus, &rq, ctx)

	if !consumed {
		t.Error("button tap should be consumed")
	}
	followups := bus.Drain()
	if len(followups) != 1 {
		t.Fatalf("follow-ups = %d, want 1", len(followups))
	}
	if _, ok := followups[0].(Validate); !ok {
		t.Errorf("follow-up = %T, want Validate", followups[0])
	}
}

func TestDialogSwallowsGestures(t *testing.T) {
	ctx := newTestContext()
	d := newTestDialog(ctx)
	var bus Bus
	var rq RenderQueue

	swipe := Swipe{Dir: DirWest, Start: Pt{X: 300, Y: 700}, End: Pt{X: 50, Y: 700}}
	if !Dispatch(d, swipe, nil, &bus, &rq, ctx) {
		t.Error("swipe must not pass through a modal dialog")
	}
}

func TestDialogResizeRecentersPanel(t *testing.T) {
	ctx := newTestContext()
	d := newTestDialog(ctx)
	size := d.Panel()

	var rq RenderQueue
	ctx.Display.Width, ctx.Display.Height = ctx.Display.Height, ctx.Display.Width
	d.Resize(ctx.Display.Bounds(), nil, &rq, ctx)

	panel := d.Panel()
	if panel.Width != size.Width || panel.Height != size.Height {
		t.Errorf("panel size changed: %v -> %v", size, panel)
	}
	if panel.X != (ctx.Display.Width-panel.Width)/2 {
		t.Errorf("panel not recentered: %v", panel)
	}
	for i, c := range d.Children() {
		if !c.Rect().In(panel) {
			t.Errorf("child %d rect %v escapes panel %v after resize", i, c.Rect(), panel)
		}
	}
}
