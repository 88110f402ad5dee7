package geom

import (
	"errors"
	"math"
)

// ErrSingular is returned when inverting a transform that collapses an axis.
var ErrSingular = errors.New("geom: transform is not invertible")

// Transform maps points from one coordinate system to another.
//
// Rendering surfaces hand out transforms for data→pixel and
// figure-fraction→pixel; the inverse direction is obtained with Invert.
type Transform interface {
	Apply(p Point) Point
	Invert() (Transform, error)
}

// Affine is a 2x3 affine transformation matrix.
//
//	[A B TX]
//	[C D TY]
type Affine struct {
	A, B, TX float64
	C, D, TY float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{A: 1, D: 1}
}

// Translation returns a translation transform.
func Translation(tx, ty float64) Affine {
	return Affine{A: 1, D: 1, TX: tx, TY: ty}
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) Affine {
	return Affine{A: sx, D: sy}
}

// BoxMapping returns the transform that maps the rectangle from onto the
// rectangle to, axis by axis. This is how a data range is laid onto an
// axes box in pixel space.
func BoxMapping(from, to Rect) Affine {
	sx, sy := 0.0, 0.0
	if w := from.Width(); w != 0 {
		sx = to.Width() / w
	}
	if h := from.Height(); h != 0 {
		sy = to.Height() / h
	}
	return Affine{
		A: sx, TX: to.Min.X - from.Min.X*sx,
		D: sy, TY: to.Min.Y - from.Min.Y*sy,
	}
}

// Apply applies the transform to a point.
func (t Affine) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// ApplyRect transforms the corners of r and returns their bounding box.
func (t Affine) ApplyRect(r Rect) Rect {
	a := t.Apply(r.Min)
	b := t.Apply(r.Max)
	c := t.Apply(Point{X: r.Min.X, Y: r.Max.Y})
	d := t.Apply(Point{X: r.Max.X, Y: r.Min.Y})
	return Rect{Min: a, Max: a}.Union(Rect{Min: b, Max: b}).Union(Rect{Min: c, Max: c}).Union(Rect{Min: d, Max: d})
}

// Then returns the transform that applies t first and then next.
func (t Affine) Then(next Affine) Affine {
	return next.compose(t)
}

// compose returns t * other (other is applied first).
func (t Affine) compose(other Affine) Affine {
	return Affine{
		A:  t.A*other.A + t.B*other.C,
		B:  t.A*other.B + t.B*other.D,
		TX: t.A*other.TX + t.B*other.TY + t.TX,
		C:  t.C*other.A + t.D*other.C,
		D:  t.C*other.B + t.D*other.D,
		TY: t.C*other.TX + t.D*other.TY + t.TY,
	}
}

// singularEps bounds the determinant relative to the products it is made
// of. Data ranges of any magnitude give tiny scale factors, so an absolute
// threshold would reject valid transforms.
const singularEps = 1e-12

// Inverse returns the inverse transform, if it exists.
func (t Affine) Inverse() (Affine, bool) {
	ad, bc := t.A*t.D, t.B*t.C
	det := ad - bc
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) ||
		math.Abs(det) <= singularEps*max(math.Abs(ad), math.Abs(bc)) {
		return Affine{}, false
	}

	invDet := 1.0 / det
	return Affine{
		A:  t.D * invDet,
		B:  -t.B * invDet,
		TX: (t.B*t.TY - t.D*t.TX) * invDet,
		C:  -t.C * invDet,
		D:  t.A * invDet,
		TY: (t.C*t.TX - t.A*t.TY) * invDet,
	}, true
}

// Invert implements Transform.
func (t Affine) Invert() (Transform, error) {
	inv, ok := t.Inverse()
	if !ok {
		return nil, ErrSingular
	}
	return inv, nil
}
