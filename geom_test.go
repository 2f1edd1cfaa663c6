package cadmus

import (
	"image"
	"testing"
)

// --- Construction ---

func TestNewRectClampsNegativeSize(t *testing.T) {
	r := NewRect(10, 20, -5, -1)
	if r.Width != 0 || r.Height != 0 {
		t.Errorf("size = (%d, %d), want (0, 0)", r.Width, r.Height)
	}
	if !r.IsEmpty() {
		t.Error("clamped rect should be empty")
	}
}

func TestIsEmpty(t *testing.T) {
	if (Rect{Width: 10}).IsEmpty() != true {
		t.Error("zero height should be empty")
	}
	if (Rect{Width: 10, Height: 10}).IsEmpty() {
		t.Error("10x10 should not be empty")
	}
}

// --- Containment ---

func TestContainsHalfOpen(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	cases := []struct {
		p    Pt
		want bool
	}{
		{Pt{10, 10}, true},  // top-left edge in
		{Pt{29, 29}, true},  // last interior pixel
		{Pt{30, 10}, false}, // right edge out
		{Pt{10, 30}, false}, // bottom edge out
		{Pt{9, 10}, false},
		{Pt{20, 20}, true},
	}
	for _, tc := range cases {
		if got := r.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

// --- Intersection ---

func TestIntersectsCountsEdgeAdjacency(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 10, Y: 0, Width: 10, Height: 10} // shares right edge
	c := Rect{X: 11, Y: 0, Width: 10, Height: 10} // one pixel gap
	if !a.Intersects(b) {
		t.Error("edge-adjacent rects should intersect")
	}
	if a.Intersects(c) {
		t.Error("separated rects should not intersect")
	}
}

func TestIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	b := Rect{X: 50, Y: 25, Width: 100, Height: 50}
	got := a.Intersect(b)
	want := Rect{X: 50, Y: 25, Width: 50, Height: 25}
	if got != want {
		t.Errorf("Intersect = %v, want %v", got, want)
	}

	disjoint := Rect{X: 200, Y: 200, Width: 10, Height: 10}
	if !a.Intersect(disjoint).IsEmpty() {
		t.Error("disjoint intersection should be empty")
	}
}

// --- Union ---

func TestUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	b := Rect{X: 100, Y: 0, Width: 50, Height: 50}
	got := a.Union(b)
	want := Rect{X: 0, Y: 0, Width: 150, Height: 50}
	if got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
}

func TestUnionEmptyOperandPassthrough(t *testing.T) {
	a := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	if got := a.Union(Rect{}); got != a {
		t.Errorf("Union with empty = %v, want %v", got, a)
	}
	if got := (Rect{}).Union(a); got != a {
		t.Errorf("empty Union = %v, want %v", got, a)
	}
}

// --- Misc ---

func TestIn(t *testing.T) {
	inner := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	outer := Rect{X: 0, Y: 0, Width: 20, Height: 20}
	if !inner.In(outer) {
		t.Error("inner should be in outer")
	}
	if outer.In(inner) {
		t.Error("outer should not be in inner")
	}
}

func TestCenter(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 40}
	if got := r.Center(); got != (Pt{20, 30}) {
		t.Errorf("Center = %v, want (20, 30)", got)
	}
}

func TestImageRoundTrip(t *testing.T) {
	r := Rect{X: 3, Y: 4, Width: 5, Height: 6}
	if got := FromImage(r.Image()); got != r {
		t.Errorf("round trip = %v, want %v", got, r)
	}
	if got := r.Image(); got != image.Rect(3, 4, 8, 10) {
		t.Errorf("Image = %v, want (3,4)-(8,10)", got)
	}
}
