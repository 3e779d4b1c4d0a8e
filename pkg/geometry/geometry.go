// Package geometry provides points, vectors, sizes and rectangles tagged with
// the coordinate space they live in.
//
// Layout and event handling work in density-independent pixels ([DIP]); the
// rendering layer works in physical [Device] pixels. The space is a type
// parameter, so passing a Point[DIP] where a Point[Device] is expected does
// not compile. Converting between the two requires a [Scale].
package geometry

import "math"

// Epsilon is the relative tolerance for floating-point comparisons.
const Epsilon = 1e-9

// DIP tags density-independent (logical) coordinates.
type DIP struct{}

// Device tags physical device-pixel coordinates.
type Device struct{}

// Space is the set of coordinate space markers.
type Space interface {
	DIP | Device
}

// Point is a position in space S.
type Point[S Space] struct {
	X float64
	Y float64
}

// Pt returns the point (x, y) in space S.
func Pt[S Space](x, y float64) Point[S] {
	return Point[S]{X: x, Y: y}
}

// Add returns p translated by v.
func (p Point[S]) Add(v Vector[S]) Point[S] {
	return Point[S]{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point[S]) Sub(q Point[S]) Vector[S] {
	return Vector[S]{X: p.X - q.X, Y: p.Y - q.Y}
}

// ApproxEqual reports whether p and q are equal within Epsilon.
func (p Point[S]) ApproxEqual(q Point[S]) bool {
	return floatEqual(p.X, q.X) && floatEqual(p.Y, q.Y)
}

// Vector is a displacement in space S.
type Vector[S Space] struct {
	X float64
	Y float64
}

// Add returns v + w.
func (v Vector[S]) Add(w Vector[S]) Vector[S] {
	return Vector[S]{X: v.X + w.X, Y: v.Y + w.Y}
}

// Mul returns v scaled by f.
func (v Vector[S]) Mul(f float64) Vector[S] {
	return Vector[S]{X: v.X * f, Y: v.Y * f}
}

// Len returns the Euclidean length of v.
func (v Vector[S]) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Size is a width and height in space S.
type Size[S Space] struct {
	Width  float64
	Height float64
}

// Valid reports whether both dimensions are non-negative.
func (s Size[S]) Valid() bool {
	return s.Width >= 0 && s.Height >= 0
}

// IsEmpty reports whether the size has no area.
func (s Size[S]) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// floatEqual reports whether a and b are equal within a relative Epsilon.
func floatEqual(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= Epsilon*scale
}
