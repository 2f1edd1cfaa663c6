package cadmus

import "image"

// Pt is a point in device pixels. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Pt struct {
	X, Y int
}

// Rect is an axis-aligned rectangle in device pixels.
// Width and Height are never negative on rectangles produced by this package.
type Rect struct {
	X, Y, Width, Height int
}

// NewRect builds a Rect, clamping negative dimensions to zero.
func NewRect(x, y, width, height int) Rect {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// IsEmpty reports whether the rectangle covers no pixels.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside the rectangle. The left and top
// edges are inside, the right and bottom edges are not: a 2x2 rectangle at
// the origin contains (0,0) and (1,1) but not (2,2).
func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects reports whether r and other overlap or touch along an edge.
// Adjacency counts so that region merging coalesces abutting damage.
func (r Rect) Intersects(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Intersect returns the overlapping region of r and other, or an empty Rect
// when they are disjoint.
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest rectangle covering both r and other.
// An empty operand leaves the other unchanged.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x0 := min(r.X, other.X)
	y0 := min(r.Y, other.Y)
	x1 := max(r.X+r.Width, other.X+other.Width)
	y1 := max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// In reports whether r lies entirely inside other.
func (r Rect) In(other Rect) bool {
	if r.IsEmpty() {
		return true
	}
	return r.X >= other.X && r.Y >= other.Y &&
		r.X+r.Width <= other.X+other.Width &&
		r.Y+r.Height <= other.Y+other.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Pt {
	return Pt{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Image converts r to the stdlib representation for surface operations.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// FromImage converts a stdlib rectangle to a Rect.
func FromImage(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
