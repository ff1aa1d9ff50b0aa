// Package geom provides the plain value types shared by the layer tree:
// points, sizes and rectangles over integer or float scalars, a 4x4 transform
// matrix, and an RGBA color. None of them carry behavior beyond arithmetic.
package geom

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// Scalar is any integer or floating-point coordinate type.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// Point is a 2D position.
type Point[T Scalar] struct {
	X, Y T
}

// Pt is shorthand for Point[T]{x, y}.
func Pt[T Scalar](x, y T) Point[T] {
	return Point[T]{X: x, Y: y}
}

// Add returns p+q.
func (p Point[T]) Add(q Point[T]) Point[T] {
	return Point[T]{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point[T]) Sub(q Point[T]) Point[T] {
	return Point[T]{p.X - q.X, p.Y - q.Y}
}

// Size is a width and height.
type Size[T Scalar] struct {
	Width, Height T
}

// Sz is shorthand for Size[T]{w, h}.
func Sz[T Scalar](w, h T) Size[T] {
	return Size[T]{Width: w, Height: h}
}

// Area returns Width*Height.
func (s Size[T]) Area() T {
	return s.Width * s.Height
}

// IsEmpty reports whether either dimension is zero or negative.
func (s Size[T]) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect[T Scalar] struct {
	Origin Point[T]
	Size   Size[T]
}

// R is shorthand for a rectangle at (x, y) with size (w, h).
func R[T Scalar](x, y, w, h T) Rect[T] {
	return Rect[T]{Origin: Point[T]{x, y}, Size: Size[T]{w, h}}
}

func (r Rect[T]) MinX() T { return r.Origin.X }
func (r Rect[T]) MinY() T { return r.Origin.Y }
func (r Rect[T]) MaxX() T { return r.Origin.X + r.Size.Width }
func (r Rect[T]) MaxY() T { return r.Origin.Y + r.Size.Height }

// IsEmpty reports whether the rectangle encloses no area.
func (r Rect[T]) IsEmpty() bool {
	return r.Size.IsEmpty()
}

// Area returns the enclosed area.
func (r Rect[T]) Area() T {
	return r.Size.Area()
}

// Contains reports whether p lies inside r. The max edges are exclusive.
func (r Rect[T]) Contains(p Point[T]) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() &&
		p.Y >= r.MinY() && p.Y < r.MaxY()
}

// Intersects reports whether r and o share any area.
// Rectangles that only touch along an edge do not intersect.
func (r Rect[T]) Intersects(o Rect[T]) bool {
	return r.MinX() < o.MaxX() && o.MinX() < r.MaxX() &&
		r.MinY() < o.MaxY() && o.MinY() < r.MaxY()
}

// Intersection returns the overlapping area of r and o, or false if they do
// not intersect.
func (r Rect[T]) Intersection(o Rect[T]) (Rect[T], bool) {
	if !r.Intersects(o) {
		return Rect[T]{}, false
	}
	x0 := max(r.MinX(), o.MinX())
	y0 := max(r.MinY(), o.MinY())
	x1 := min(r.MaxX(), o.MaxX())
	y1 := min(r.MaxY(), o.MaxY())
	return R(x0, y0, x1-x0, y1-y0), true
}

// Translate returns r moved by p.
func (r Rect[T]) Translate(p Point[T]) Rect[T] {
	r.Origin = r.Origin.Add(p)
	return r
}

// PixelRect converts a page-space rectangle into screen pixels at the given
// scale. The origin rounds down and the far edge rounds up so the result
// always covers the page rectangle. Negative coordinates clamp to zero.
func PixelRect(r Rect[float32], scale float32) Rect[uint] {
	x0 := math32.Max(0, math32.Floor(r.MinX()*scale))
	y0 := math32.Max(0, math32.Floor(r.MinY()*scale))
	x1 := math32.Max(x0, math32.Ceil(r.MaxX()*scale))
	y1 := math32.Max(y0, math32.Ceil(r.MaxY()*scale))
	return R(uint(x0), uint(y0), uint(x1-x0), uint(y1-y0))
}

// PageRect converts a screen-pixel rectangle back into page space.
func PageRect(r Rect[uint], scale float32) Rect[float32] {
	return R(
		float32(r.MinX())/scale,
		float32(r.MinY())/scale,
		float32(r.Size.Width)/scale,
		float32(r.Size.Height)/scale,
	)
}

// Color is a non-premultiplied RGBA color with components in [0, 1].
type Color struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
	A float32 `yaml:"a"`
}

// ColorWhite and ColorTransparent are the two colors layers default to.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorTransparent = Color{}
)

// RGBA8 returns the color as 8-bit channels.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return unit8(c.R), unit8(c.G), unit8(c.B), unit8(c.A)
}

func unit8(v float32) uint8 {
	return uint8(math32.Min(1, math32.Max(0, v))*255 + 0.5)
}
