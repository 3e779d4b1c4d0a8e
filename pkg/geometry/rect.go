package geometry

import "math"

// Rect is an origin and a size in space S.
//
// The side accessors and set operations assume a non-negative Size. A Rect
// with a negative dimension is a caller error; it is neither rejected nor
// clamped here. Use Valid to check rectangles from untrusted sources.
type Rect[S Space] struct {
	Origin Point[S]
	Size   Size[S]
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH[S Space](left, top, width, height float64) Rect[S] {
	return Rect[S]{
		Origin: Point[S]{X: left, Y: top},
		Size:   Size[S]{Width: width, Height: height},
	}
}

// RectFromLTRB constructs a Rect from its edges.
func RectFromLTRB[S Space](left, top, right, bottom float64) Rect[S] {
	return RectFromLTWH[S](left, top, right-left, bottom-top)
}

// Left returns the x coordinate of the left edge.
func (r Rect[S]) Left() float64 { return r.Origin.X }

// Top returns the y coordinate of the top edge.
func (r Rect[S]) Top() float64 { return r.Origin.Y }

// Right returns the x coordinate of the right edge.
func (r Rect[S]) Right() float64 { return r.Origin.X + r.Size.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect[S]) Bottom() float64 { return r.Origin.Y + r.Size.Height }

// Valid reports whether the size is non-negative.
func (r Rect[S]) Valid() bool {
	return r.Size.Valid()
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect[S]) IsEmpty() bool {
	return r.Size.IsEmpty()
}

// Center returns the center point of the rectangle.
func (r Rect[S]) Center() Point[S] {
	return Point[S]{
		X: r.Origin.X + r.Size.Width*0.5,
		Y: r.Origin.Y + r.Size.Height*0.5,
	}
}

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive.
func (r Rect[S]) Contains(p Point[S]) bool {
	return p.X >= r.Left() && p.X < r.Right() && p.Y >= r.Top() && p.Y < r.Bottom()
}

// Translate returns r moved by v.
func (r Rect[S]) Translate(v Vector[S]) Rect[S] {
	r.Origin = r.Origin.Add(v)
	return r
}

// Intersect returns the overlap of r and other. The second result is false,
// and the rect zero, when they do not overlap.
func (r Rect[S]) Intersect(other Rect[S]) (Rect[S], bool) {
	left := math.Max(r.Left(), other.Left())
	top := math.Max(r.Top(), other.Top())
	right := math.Min(r.Right(), other.Right())
	bottom := math.Min(r.Bottom(), other.Bottom())
	if left >= right || top >= bottom {
		return Rect[S]{}, false
	}
	return RectFromLTRB[S](left, top, right, bottom), true
}

// Union returns the smallest rect containing both r and other.
func (r Rect[S]) Union(other Rect[S]) Rect[S] {
	return RectFromLTRB[S](
		math.Min(r.Left(), other.Left()),
		math.Min(r.Top(), other.Top()),
		math.Max(r.Right(), other.Right()),
		math.Max(r.Bottom(), other.Bottom()),
	)
}

// ApproxEqual reports whether r and other match within Epsilon.
func (r Rect[S]) ApproxEqual(other Rect[S]) bool {
	return r.Origin.ApproxEqual(other.Origin) &&
		floatEqual(r.Size.Width, other.Size.Width) &&
		floatEqual(r.Size.Height, other.Size.Height)
}
