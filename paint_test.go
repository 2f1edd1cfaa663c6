package cadmus

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// --- Queue draining ---

func TestEmptyQueueZeroFlushes(t *testing.T) {
	var log probeLog
	root := newProbe("root", Rect{Width: 100, Height: 100}, &log)
	fb := NewImageFramebuffer(100, 100)
	var rq RenderQueue
	var bus Bus

	if err := Paint(root, fb, &rq, &bus, newTestContext()); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	if len(fb.Flushes()) != 0 {
		t.Errorf("flushes = %d, want 0", len(fb.Flushes()))
	}
	if len(log.rendered) != 0 {
		t.Errorf("renders = %v, want none", log.rendered)
	}
}

// --- Region merging ---

func TestMergeOverlapCoversBothRequests(t *testing.T) {
	requests := []RenderData{
		{Rect: Rect{0, 0, 100, 50}, Mode: RefreshPartial},
		{Rect: Rect{50, 0, 100, 50}, Mode: RefreshPartial},
	}
	merged := mergeDamage(requests)
	if len(merged) != 1 {
		t.Fatalf("merged regions = %d, want 1", len(merged))
	}
	for _, rd := range requests {
		if !rd.Rect.In(merged[0].rect) {
			t.Errorf("request %v not covered by merged %v", rd.Rect, merged[0].rect)
		}
	}
}

func TestMergeKeepsDisjointRegionsSeparate(t *testing.T) {
	merged := mergeDamage([]RenderData{
		{Rect: Rect{0, 0, 10, 10}, Mode: RefreshFastMono},
		{Rect: Rect{50, 50, 10, 10}, Mode: RefreshFull},
	})
	if len(merged) != 2 {
		t.Fatalf("merged regions = %d, want 2", len(merged))
	}
}

func TestMergeChainCollapsesTransitively(t *testing.T) {
	// a overlaps b, b overlaps c: one region even though a and c are disjoint.
	merged := mergeDamage([]RenderData{
		{Rect: Rect{0, 0, 30, 10}, Mode: RefreshFastMono},
		{Rect: Rect{25, 0, 30, 10}, Mode: RefreshFastMono},
		{Rect: Rect{50, 0, 30, 10}, Mode: RefreshFastMono},
	})
	if len(merged) != 1 {
		t.Fatalf("merged regions = %d, want 1", len(merged))
	}
	want := Rect{0, 0, 80, 10}
	if merged[0].rect != want {
		t.Errorf("merged rect = %v, want %v", merged[0].rect, want)
	}
}

// --- Mode selection and flushing ---

func TestOverlappingPartialAndFullFlushOnceAsFull(t *testing.T) {
	var log probeLog
	root := newProbe("root", Rect{Width: 200, Height: 100}, &log)
	fb := NewImageFramebuffer(200, 100)
	var rq RenderQueue
	var bus Bus

	rq.Add(RenderData{Rect: Rect{0, 0, 100, 50}, Mode: RefreshPartial})
	rq.Add(RenderData{Rect: Rect{50, 0, 100, 50}, Mode: RefreshFull})

	if err := Paint(root, fb, &rq, &bus, newTestContext()); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	want := []FlushRecord{{Rect: Rect{0, 0, 150, 50}, Mode: RefreshFull}}
	if diff := cmp.Diff(want, fb.Flushes()); diff != "" {
		t.Errorf("flushes mismatch (-want +got):\n%s", diff)
	}
}

func TestOneFlushPerDistinctMode(t *testing.T) {
	var log probeLog
	root := newProbe("root", Rect{Width: 200, Height: 200}, &log)
	fb := NewImageFramebuffer(200, 200)
	var rq RenderQueue
	var bus Bus

	rq.Add(RenderData{Rect: Rect{0, 0, 10, 10}, Mode: RefreshFastMono})
	rq.Add(RenderData{Rect: Rect{50, 50, 10, 10}, Mode: RefreshFastMono})
	rq.Add(RenderData{Rect: Rect{100, 100, 10, 10}, Mode: RefreshFull})

	if err := Paint(root, fb, &rq, &bus, newTestContext()); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	flushes := fb.Flushes()
	if len(flushes) != 2 {
		t.Fatalf("flushes = %d, want 2 (one per mode)", len(flushes))
	}
	// Same-mode regions flush once, covering their union.
	if flushes[0].Mode != RefreshFastMono || flushes[1].Mode != RefreshFull {
		t.Errorf("flush modes = %v, %v", flushes[0].Mode, flushes[1].Mode)
	}
	union := Rect{0, 0, 60, 60}
	if flushes[0].Rect != union {
		t.Errorf("fastmono flush = %v, want %v", flushes[0].Rect, union)
	}
}

// --- Draw order and clipping ---

func TestPaintDrawsInZOrderClippedToDamage(t *testing.T) {
	var log probeLog
	root := newProbe("root", Rect{Width: 100, Height: 100}, &log)
	root.background = true
	under := newProbe("under", Rect{Width: 40, Height: 40}, &log)
	over := newProbe("over", Rect{X: 20, Y: 20, Width: 40, Height: 40}, &log)
	outside := newProbe("outside", Rect{X: 80, Y: 80, Width: 10, Height: 10}, &log)
	root.appendChild(under)
	root.appendChild(over)
	root.appendChild(outside)

	fb := NewImageFramebuffer(100, 100)
	var rq RenderQueue
	var bus Bus
	rq.Add(RenderData{Rect: Rect{0, 0, 60, 60}, Mode: RefreshPartial})

	if err := Paint(root, fb, &rq, &bus, newTestContext()); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	want := []string{
		"root@{0 0 60 60}",
		"under@{0 0 40 40}",
		"over@{20 20 40 40}",
	}
	if diff := cmp.Diff(want, log.rendered); diff != "" {
		t.Errorf("render order mismatch (-want +got):\n%s", diff)
	}
}

func TestContainerWithChildrenDoesNotRender(t *testing.T) {
	var log probeLog
	root := newProbe("root", Rect{Width: 100, Height: 100}, &log)
	child := newProbe("child", Rect{Width: 50, Height: 50}, &log)
	root.appendChild(child)

	fb := NewImageFramebuffer(100, 100)
	var rq RenderQueue
	var bus Bus
	rq.Add(RenderData{Rect: Rect{0, 0, 100, 100}, Mode: RefreshPartial})

	if err := Paint(root, fb, &rq, &bus, newTestContext()); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	if diff := cmp.Diff([]string{"child@{0 0 50 50}"}, log.rendered); diff != "" {
		t.Errorf("render order mismatch (-want +got):\n%s", diff)
	}
}

// --- Fault isolation ---

func TestRenderPanicIsolated(t *testing.T) {
	var log probeLog
	root := newProbe("root", Rect{Width: 100, Height: 100}, &log)
	bad := newProbe("bad", Rect{Width: 50, Height: 50}, &log)
	bad.panics = true
	bad.viewID = ViewID{Kind: KindPage, Seq: 9}
	good := newProbe("good", Rect{X: 50, Width: 50, Height: 50}, &log)
	root.appendChild(bad)
	root.appendChild(good)

	fb := NewImageFramebuffer(100, 100)
	var rq RenderQueue
	var bus Bus
	rq.Add(RenderData{Rect: Rect{0, 0, 100, 100}, Mode: RefreshPartial})

	if err := Paint(root, fb, &rq, &bus, newTestContext()); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	if diff := cmp.Diff([]string{"good@{50 0 50 50}"}, log.rendered); diff != "" {
		t.Errorf("surviving renders mismatch (-want +got):\n%s", diff)
	}
	followups := bus.Drain()
	if len(followups) != 1 {
		t.Fatalf("follow-ups = %d, want 1", len(followups))
	}
	failed, ok := followups[0].(RenderFailed)
	if !ok {
		t.Fatalf("follow-up = %T, want RenderFailed", followups[0])
	}
	if failed.ViewID != (ViewID{Kind: KindPage, Seq: 9}) {
		t.Errorf("failed view = %v", failed.ViewID)
	}
	if !strings.Contains(failed.Err, "probe render failure") {
		t.Errorf("error text = %q", failed.Err)
	}
	// The flush still happened: the panel must not be left stale.
	if len(fb.Flushes()) != 1 {
		t.Errorf("flushes = %d, want 1", len(fb.Flushes()))
	}
}
