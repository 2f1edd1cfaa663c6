package cadmus

import (
	"testing"
	"time"
)

// seedLibrary indexes n books with ascending open times, so book n-1 is the
// most recently opened.
func seedLibrary(t *testing.T, lib *Library, n int) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := lib.Upsert(BookInfo{
			Path:        "/books/" + string(rune('a'+i)),
			Title:       "Book " + string(rune('A'+i)),
			Pages:       10,
			CurrentPage: i,
			Opened:      base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
}

func newTestLibraryView(t *testing.T, n int) (*LibraryView, *Context) {
	t.Helper()
	lib := openTestLibrary(t)
	seedLibrary(t, lib, n)
	ctx := newTestContext()
	ctx.Library = lib
	lv, err := NewLibraryView(ctx.Display.Bounds(), lib)
	if err != nil {
		t.Fatalf("NewLibraryView() error = %v", err)
	}
	return lv, ctx
}

// rowCenter returns a point inside the given visible row.
func rowCenter(l *LibraryView, row int, ctx *Context) Pt {
	return Pt{
		X: l.rect.X + l.rect.Width/2,
		Y: l.rect.Y + l.headerHeight(ctx) + row*l.rowHeight(ctx) + l.rowHeight(ctx)/2,
	}
}

// --- Ordering ---

func TestLibraryViewOrdersByRecency(t *testing.T) {
	lv, _ := newTestLibraryView(t, 3)

	if got := lv.books[0].Title; got != "Book C" {
		t.Errorf("books[0].Title = %q, want most recently opened first", got)
	}
	if got := lv.books[2].Title; got != "Book A" {
		t.Errorf("books[2].Title = %q, want oldest last", got)
	}
}

// --- Opening ---

func TestLibraryViewTapOpensBook(t *testing.T) {
	lv, ctx := newTestLibraryView(t, 3)
	var bus Bus
	var rq RenderQueue

	consumed := Dispatch(lv, Tap{Center: rowCenter(lv, 0, ctx)}, nil, &bus, &rq, ctx)
	if !consumed {
		t.Fatalf("tap on a row not consumed")
	}
	events := bus.Drain()
	if len(events) != 1 {
		t.Fatalf("follow-ups = %v, want one Open", events)
	}
	open, ok := events[0].(Open)
	if !ok || open.Path != lv.books[0].Path {
		t.Errorf("follow-up = %v, want Open for the first row", events[0])
	}
}

func TestLibraryViewTapOnEmptyAreaConsumesWithoutOpening(t *testing.T) {
	lv, ctx := newTestLibraryView(t, 1)
	var bus Bus
	var rq RenderQueue

	below := rowCenter(lv, 3, ctx)
	if !Dispatch(lv, Tap{Center: below}, nil, &bus, &rq, ctx) {
		t.Fatalf("tap inside the browser not consumed")
	}
	if bus.Len() != 0 {
		t.Errorf("follow-ups = %v, want none for an empty area", bus.Drain())
	}
}

// --- Scrolling ---

func TestLibraryViewSwipeScrollsAndClamps(t *testing.T) {
	lv, ctx := newTestLibraryView(t, 3)
	lv.rect = Rect{Width: 600, Height: lv.headerHeight(ctx) + 2*lv.rowHeight(ctx)}
	var bus Bus
	var rq RenderQueue

	center := lv.rect.Center()
	up := Swipe{Dir: DirNorth, Start: center, End: Pt{X: center.X, Y: center.Y - 100}}
	Dispatch(lv, up, nil, &bus, &rq, ctx)
	if lv.offset != 1 {
		t.Errorf("offset = %d after scroll down, want 1", lv.offset)
	}
	if rq.Len() != 1 {
		t.Errorf("paint requests = %d, want 1", rq.Len())
	}

	// Already at the end; no movement, no repaint.
	Dispatch(lv, up, nil, &bus, &rq, ctx)
	if lv.offset != 1 {
		t.Errorf("offset = %d after clamped scroll, want 1", lv.offset)
	}
	if rq.Len() != 1 {
		t.Errorf("paint requests = %d after clamped scroll, want 1", rq.Len())
	}

	down := Swipe{Dir: DirSouth, Start: center, End: Pt{X: center.X, Y: center.Y + 100}}
	Dispatch(lv, down, nil, &bus, &rq, ctx)
	if lv.offset != 0 {
		t.Errorf("offset = %d after scroll up, want 0", lv.offset)
	}
}

// --- Rendering ---

func TestLibraryViewRenderEmptyLibrary(t *testing.T) {
	lib := openTestLibrary(t)
	ctx := newTestContext()
	lv, err := NewLibraryView(ctx.Display.Bounds(), lib)
	if err != nil {
		t.Fatalf("NewLibraryView() error = %v", err)
	}

	fb := NewImageFramebuffer(600, 800)
	lv.Render(fb, lv.rect, ctx) // must not panic on zero rows
}
