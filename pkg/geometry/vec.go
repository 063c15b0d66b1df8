// Package geometry provides the vector and curve math used to draw the
// state diagram: bezier evaluation, arc-length tables, arrowheads, edge and
// self-loop construction, stacked labels and contrast colours.
package geometry

import "math"

// Vec is a 2D point or displacement.
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{x, y}.
func V(x, y float64) Vec {
	return Vec{x, y}
}

func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{v.X - o.X, v.Y - o.Y}
}

// Scale multiplies both components by f.
func (v Vec) Scale(f float64) Vec {
	return Vec{v.X * f, v.Y * f}
}

// Mul multiplies component-wise.
func (v Vec) Mul(o Vec) Vec {
	return Vec{v.X * o.X, v.Y * o.Y}
}

func (v Vec) Neg() Vec {
	return Vec{-v.X, -v.Y}
}

// Len returns the Euclidean length.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vec) Normalized() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// Rot90 rotates by 90 degrees, taking +X to +Y in screen coordinates.
func (v Vec) Rot90() Vec {
	return Vec{-v.Y, v.X}
}

// IsZero reports whether both components are zero.
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vec) float64 {
	return b.Sub(a).Len()
}

// Direction returns the unit vector pointing from a to b, or the zero vector
// when the points coincide.
func Direction(a, b Vec) Vec {
	return b.Sub(a).Normalized()
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Vec) Vec {
	return Vec{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Centroid returns the mean of the points, or the origin for none.
func Centroid(points []Vec) Vec {
	if len(points) == 0 {
		return Vec{}
	}
	var c Vec
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(points)))
}

// Rect is an axis-aligned rectangle given by its centre and full size.
type Rect struct {
	X, Y float64 // Center
	W, H float64 // Full width and height
}

// RectAround returns the rectangle of size w×h centred on c.
func RectAround(c Vec, w, h float64) Rect {
	return Rect{X: c.X, Y: c.Y, W: w, H: h}
}

// Center returns the centre of the rectangle.
func (r Rect) Center() Vec {
	return Vec{r.X, r.Y}
}

// Min returns the top-left corner.
func (r Rect) Min() Vec {
	return Vec{r.X - r.W/2, r.Y - r.H/2}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Vec {
	return Vec{r.X + r.W/2, r.Y + r.H/2}
}

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p Vec) bool {
	return math.Abs(p.X-r.X) <= r.W/2 && math.Abs(p.Y-r.Y) <= r.H/2
}

// RectOverlap returns the overlap area between two rectangles.
// Returns 0 if they don't overlap.
func RectOverlap(a, b Rect) float64 {
	overlapX := (a.W/2 + b.W/2) - math.Abs(a.X-b.X)
	overlapY := (a.H/2 + b.H/2) - math.Abs(a.Y-b.Y)

	if overlapX <= 0 || overlapY <= 0 {
		return 0
	}
	return overlapX * overlapY
}
