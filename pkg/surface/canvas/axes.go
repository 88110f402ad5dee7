package canvas

import (
	"math"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/surface"
)

// autoscaleMargin is the fraction of the data span added on each side of
// autoscaled limits.
const autoscaleMargin = 0.05

type polyline struct {
	x, y  []float64
	style surface.LineStyle
}

// Axes is a plotting area on a canvas Figure. It implements surface.Axes.
type Axes struct {
	fig  *Figure
	rect geom.Rect

	lines       []polyline
	annotations []*Annotation
	connectors  []*Connector

	dataLim    geom.Rect
	hasData    bool
	xlim, ylim *[2]float64
}

var _ surface.Axes = (*Axes)(nil)

// Figure implements surface.Axes.
func (a *Axes) Figure() surface.Figure { return a.fig }

// Rect returns the axes rectangle in figure fractions.
func (a *Axes) Rect() geom.Rect { return a.rect }

// Plot implements surface.Axes.
func (a *Axes) Plot(x, y []float64, style surface.LineStyle) error {
	if err := lerrors.ValidateCount("x", len(x), "y", len(y)); err != nil {
		return err
	}
	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)
	a.lines = append(a.lines, polyline{x: xs, y: ys, style: style.Merge(surface.DefaultSpectrumStyle())})

	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		p := geom.Rect{Min: geom.Pt(xs[i], ys[i]), Max: geom.Pt(xs[i], ys[i])}
		if !a.hasData {
			a.dataLim, a.hasData = p, true
			continue
		}
		a.dataLim = a.dataLim.Union(p)
	}
	return nil
}

// Annotate implements surface.Axes.
func (a *Axes) Annotate(text string, xy, xytext geom.Point, style surface.AnnotationStyle) (surface.Annotation, error) {
	return a.NewAnnotation(text, xy, xytext, style)
}

// NewAnnotation is Annotate returning the concrete type.
func (a *Axes) NewAnnotation(text string, xy, xytext geom.Point, style surface.AnnotationStyle) (*Annotation, error) {
	if style.FontSize < 0 {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "font size must not be negative, got %v", style.FontSize)
	}
	ann := &Annotation{
		text:    text,
		xy:      xy,
		xytext:  xytext,
		style:   style.Merge(surface.DefaultAnnotationStyle()),
		visible: true,
	}
	a.annotations = append(a.annotations, ann)
	return ann, nil
}

// Line implements surface.Axes. Connectors do not change the data limits.
func (a *Axes) Line(x0, y0, x1, y1 float64, style surface.LineStyle) (surface.Connector, error) {
	c := &Connector{
		from:    geom.Pt(x0, y0),
		to:      geom.Pt(x1, y1),
		style:   style.Merge(surface.DefaultConnectorStyle()),
		visible: true,
	}
	a.connectors = append(a.connectors, c)
	return c, nil
}

// SetXLim fixes the visible x range.
func (a *Axes) SetXLim(lo, hi float64) { a.xlim = &[2]float64{lo, hi} }

// SetYLim fixes the visible y range.
func (a *Axes) SetYLim(lo, hi float64) { a.ylim = &[2]float64{lo, hi} }

// XBound implements surface.Axes.
func (a *Axes) XBound() (float64, float64) {
	if a.xlim != nil {
		return a.xlim[0], a.xlim[1]
	}
	if !a.hasData {
		return 0, 1
	}
	return autoscale(a.dataLim.Min.X, a.dataLim.Max.X)
}

// YBound implements surface.Axes.
func (a *Axes) YBound() (float64, float64) {
	if a.ylim != nil {
		return a.ylim[0], a.ylim[1]
	}
	if !a.hasData {
		return 0, 1
	}
	return autoscale(a.dataLim.Min.Y, a.dataLim.Max.Y)
}

// ViewLimits returns the visible data rectangle.
func (a *Axes) ViewLimits() geom.Rect {
	x0, x1 := a.XBound()
	y0, y1 := a.YBound()
	return geom.Rect{Min: geom.Pt(x0, y0), Max: geom.Pt(x1, y1)}
}

// PixelRect returns the axes box in figure pixels.
func (a *Axes) PixelRect() geom.Rect { return a.fig.pixelRect(a.rect) }

// DataTransform implements surface.Axes.
func (a *Axes) DataTransform() (geom.Transform, error) {
	return a.dataTransform()
}

func (a *Axes) dataTransform() (geom.Affine, error) {
	if a.fig.width <= 0 || a.fig.height <= 0 {
		return geom.Affine{}, surface.ErrTransformUnavailable
	}
	view := a.ViewLimits()
	if view.Width() == 0 || view.Height() == 0 {
		return geom.Affine{}, surface.ErrTransformUnavailable
	}
	return geom.BoxMapping(view, a.PixelRect()), nil
}

// Annotations implements surface.Axes.
func (a *Axes) Annotations() []surface.Annotation {
	out := make([]surface.Annotation, len(a.annotations))
	for i, ann := range a.annotations {
		out[i] = ann
	}
	return out
}

// Connectors implements surface.Axes.
func (a *Axes) Connectors() []surface.Connector {
	out := make([]surface.Connector, len(a.connectors))
	for i, c := range a.connectors {
		out[i] = c
	}
	return out
}

// autoscale pads [lo, hi] by the autoscale margin and widens a degenerate
// range so that a transform can be built.
func autoscale(lo, hi float64) (float64, float64) {
	if lo == hi {
		d := math.Abs(lo) * autoscaleMargin
		if d == 0 {
			d = 1
		}
		return lo - d, hi + d
	}
	m := (hi - lo) * autoscaleMargin
	return lo - m, hi + m
}
