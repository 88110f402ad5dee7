package gonumplot

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/surface"
)

// Axes wraps a gonum plot. It implements surface.Axes.
type Axes struct {
	fig   *Figure
	rect  geom.Rect
	p     *plot.Plot
	layer *labelLayer

	hasData    bool
	xlim, ylim *[2]float64
}

var _ surface.Axes = (*Axes)(nil)

func newAxes(f *Figure, rect geom.Rect) *Axes {
	p := plot.New()
	p.X.Label.Text = f.xLabel
	p.Y.Label.Text = f.yLabel
	if f.grid {
		grid := plotter.NewGrid()
		grid.Horizontal.Color = color.Gray{Y: 230}
		grid.Vertical.Color = color.Gray{Y: 230}
		p.Add(grid)
	}
	return &Axes{fig: f, rect: rect, p: p, layer: &labelLayer{}}
}

// Figure implements surface.Axes.
func (a *Axes) Figure() surface.Figure { return a.fig }

// GonumPlot returns the underlying plot for further styling. Axis limits
// set on it directly are overridden by SetXLim and SetYLim.
func (a *Axes) GonumPlot() *plot.Plot { return a.p }

// Plot implements surface.Axes by adding a plotter.Line.
func (a *Axes) Plot(x, y []float64, style surface.LineStyle) error {
	if err := lerrors.ValidateCount("x", len(x), "y", len(y)); err != nil {
		return err
	}
	if len(x) == 0 {
		return nil
	}
	xys := make(plotter.XYs, len(x))
	for i := range x {
		xys[i].X, xys[i].Y = x[i], y[i]
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "plot spectrum")
	}
	line.LineStyle = lineStyle(style.Merge(surface.DefaultSpectrumStyle()))
	a.p.Add(line)
	a.hasData = true
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
	a.layer.annotations = append(a.layer.annotations, ann)
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
	a.layer.connectors = append(a.layer.connectors, c)
	return c, nil
}

// SetXLim fixes the visible x range.
func (a *Axes) SetXLim(lo, hi float64) { a.xlim = &[2]float64{lo, hi} }

// SetYLim fixes the visible y range.
func (a *Axes) SetYLim(lo, hi float64) { a.ylim = &[2]float64{lo, hi} }

// XBound implements surface.Axes.
func (a *Axes) XBound() (float64, float64) {
	v := a.view()
	return v.X.Min, v.X.Max
}

// YBound implements surface.Axes.
func (a *Axes) YBound() (float64, float64) {
	v := a.view()
	return v.Y.Min, v.Y.Max
}

// view returns a copy of the plot with the effective limits applied.
// gonum grows axis ranges on every Add, so explicit limits and the
// empty-axes default are applied to a copy instead of the plot itself.
func (a *Axes) view() *plot.Plot {
	v := *a.p
	switch {
	case a.xlim != nil:
		v.X.Min, v.X.Max = a.xlim[0], a.xlim[1]
	case !a.hasData:
		v.X.Min, v.X.Max = 0, 1
	}
	switch {
	case a.ylim != nil:
		v.Y.Min, v.Y.Max = a.ylim[0], a.ylim[1]
	case !a.hasData:
		v.Y.Min, v.Y.Max = 0, 1
	}
	widen(&v.X)
	widen(&v.Y)
	return &v
}

func widen(ax *plot.Axis) {
	if ax.Min == ax.Max {
		ax.Min--
		ax.Max++
	}
}

// DataTransform implements surface.Axes.
func (a *Axes) DataTransform() (geom.Transform, error) {
	return a.dataTransform()
}

func (a *Axes) dataTransform() (geom.Affine, error) {
	if a.fig.width <= 0 || a.fig.height <= 0 {
		return geom.Affine{}, surface.ErrTransformUnavailable
	}
	v := a.view()
	da := v.DataCanvas(draw.Canvas{Rectangle: a.fig.canvasRect(a.rect)})
	if da.Max.X <= da.Min.X || da.Max.Y <= da.Min.Y {
		return geom.Affine{}, surface.ErrTransformUnavailable
	}
	if math.IsInf(v.X.Min, 0) || math.IsInf(v.Y.Min, 0) {
		return geom.Affine{}, surface.ErrTransformUnavailable
	}

	trX, trY := v.Transforms(&da)
	data := geom.Rect{Min: geom.Pt(v.X.Min, v.Y.Min), Max: geom.Pt(v.X.Max, v.Y.Max)}
	pts := geom.Rect{
		Min: geom.Pt(float64(trX(v.X.Min)), float64(trY(v.Y.Min))),
		Max: geom.Pt(float64(trX(v.X.Max)), float64(trY(v.Y.Max))),
	}
	return geom.BoxMapping(data, pts), nil
}

// Annotations implements surface.Axes.
func (a *Axes) Annotations() []surface.Annotation {
	out := make([]surface.Annotation, len(a.layer.annotations))
	for i, ann := range a.layer.annotations {
		out[i] = ann
	}
	return out
}

// Connectors implements surface.Axes.
func (a *Axes) Connectors() []surface.Connector {
	out := make([]surface.Connector, len(a.layer.connectors))
	for i, c := range a.layer.connectors {
		out[i] = c
	}
	return out
}

func lineStyle(s surface.LineStyle) draw.LineStyle {
	ls := draw.LineStyle{
		Color: surface.ColorOr(s.Color, color.RGBA{A: 255}),
		Width: vg.Points(s.Width),
	}
	for _, d := range s.Dashes {
		ls.Dashes = append(ls.Dashes, vg.Points(d*s.Width))
	}
	return ls
}
