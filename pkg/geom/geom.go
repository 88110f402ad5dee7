// Package geom provides the small set of 2-D primitives shared by the
// layout engine and the rendering surfaces: points, axis-aligned
// rectangles and invertible affine transforms.
//
// Pixel space has its origin at the lower-left corner of a figure with y
// growing upward. Sinks that write y-down formats (SVG, raster images)
// flip at export time.
package geom

import "math"

// Point is a location in some coordinate system (data, figure fraction or
// pixels, depending on context).
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned rectangle spanning [Min, Max].
type Rect struct {
	Min, Max Point
}

// RectFromSize builds a rectangle from its lower-left corner and size.
func RectFromSize(x, y, w, h float64) Rect {
	return Rect{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

// RectAround builds a w×h rectangle centred on c.
func RectAround(c Point, w, h float64) Rect {
	return Rect{
		Min: Point{X: c.X - w/2, Y: c.Y - h/2},
		Max: Point{X: c.X + w/2, Y: c.Y + h/2},
	}
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the centre point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// At returns the point at relative position (rx, ry) inside the rectangle,
// where (0, 0) is Min and (1, 1) is Max.
func (r Rect) At(rx, ry float64) Point {
	return Point{X: r.Min.X + rx*r.Width(), Y: r.Min.Y + ry*r.Height()}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Overlaps reports whether two rectangles share interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X < o.Max.X && o.Min.X < r.Max.X && r.Min.Y < o.Max.Y && o.Min.Y < r.Max.Y
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

// RotatedSize returns the width and height of the axis-aligned bounding box
// of a w×h box rotated by deg degrees.
func RotatedSize(w, h, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	c, s := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	return w*c + h*s, w*s + h*c
}
