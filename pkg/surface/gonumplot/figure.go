// Package gonumplot adapts gonum.org/v1/plot to the surface interfaces.
//
// Each Axes wraps a *plot.Plot. The plot draws the spectrum, axis lines
// and ticks; labels and connectors are drawn by a separate layer on top
// of the data area. All lengths are in points and the transforms returned
// by this package map to figure points with the origin at the lower-left
// corner.
//
// Annotations move horizontally in place through Reposition and are
// remeasured on the next Draw.
package gonumplot

import (
	"image/color"
	"io"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/surface"
)

// Default figure size in points (8x5 inches).
const (
	DefaultWidth  = 8 * 72
	DefaultHeight = 5 * 72
)

// Option configures a Figure.
type Option func(*Figure)

// WithSize sets the figure size in points.
func WithSize(width, height float64) Option {
	return func(f *Figure) { f.width, f.height = width, height }
}

// WithGrid draws a light grid behind the data of every axes.
func WithGrid() Option { return func(f *Figure) { f.grid = true } }

// WithAxisLabels sets the x and y axis captions of axes created later.
func WithAxisLabels(x, y string) Option {
	return func(f *Figure) { f.xLabel, f.yLabel = x, y }
}

// Figure is a set of gonum plots sharing one output canvas. It implements
// surface.Figure.
type Figure struct {
	width, height  float64
	grid           bool
	xLabel, yLabel string
	axes           []*Axes
}

var _ surface.Figure = (*Figure)(nil)

// New creates an empty figure.
func New(opts ...Option) *Figure {
	f := &Figure{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddAxes implements surface.Figure.
func (f *Figure) AddAxes(rect geom.Rect) (surface.Axes, error) {
	return f.NewAxes(rect)
}

// NewAxes is AddAxes returning the concrete type.
func (f *Figure) NewAxes(rect geom.Rect) (*Axes, error) {
	if rect.Empty() {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "axes rectangle %v has no area", rect)
	}
	ax := newAxes(f, rect)
	f.axes = append(f.axes, ax)
	return ax, nil
}

// Axes implements surface.Figure.
func (f *Figure) Axes() []surface.Axes {
	out := make([]surface.Axes, len(f.axes))
	for i, ax := range f.axes {
		out[i] = ax
	}
	return out
}

// Size implements surface.Figure.
func (f *Figure) Size() (float64, float64) { return f.width, f.height }

// FigureTransform implements surface.Figure.
func (f *Figure) FigureTransform() (geom.Transform, error) {
	if f.width <= 0 || f.height <= 0 {
		return nil, surface.ErrTransformUnavailable
	}
	return geom.Scale(f.width, f.height), nil
}

// Draw measures every annotation at its current position.
func (f *Figure) Draw() error {
	if f.width <= 0 || f.height <= 0 {
		return surface.ErrTransformUnavailable
	}
	for _, ax := range f.axes {
		tr, err := ax.dataTransform()
		if err != nil {
			return err
		}
		for _, a := range ax.layer.annotations {
			a.measure(tr)
		}
	}
	return nil
}

// canvasRect returns the axes box in points as a gonum rectangle.
func (f *Figure) canvasRect(r geom.Rect) vg.Rectangle {
	px := geom.Scale(f.width, f.height).ApplyRect(r)
	return vg.Rectangle{
		Min: vg.Point{X: vg.Length(px.Min.X), Y: vg.Length(px.Min.Y)},
		Max: vg.Point{X: vg.Length(px.Max.X), Y: vg.Length(px.Max.Y)},
	}
}

// Encode draws the figure and writes it in the given format. Any format
// accepted by draw.NewFormattedCanvas works: svg, png, pdf, eps, jpg and
// tiff.
func (f *Figure) Encode(w io.Writer, format string) error {
	if err := f.Draw(); err != nil {
		return err
	}
	c, err := draw.NewFormattedCanvas(vg.Length(f.width), vg.Length(f.height), format)
	if err != nil {
		return lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "unsupported format %q", format)
	}

	page := draw.New(c)
	page.SetColor(color.White)
	page.Fill(page.Rectangle.Path())

	for _, ax := range f.axes {
		dc := draw.Canvas{Canvas: c, Rectangle: f.canvasRect(ax.rect)}
		v := ax.view()
		v.Draw(dc)
		ax.layer.Plot(v.DataCanvas(dc), v)
	}

	if _, err := c.WriteTo(w); err != nil {
		return lerrors.Wrap(lerrors.ErrCodeRender, err, "write %s", format)
	}
	return nil
}

// Factory creates gonum figures of a fixed size. It implements
// surface.Factory.
type Factory struct {
	Width, Height float64
	Options       []Option
}

var _ surface.Factory = Factory{}

// NewFigure implements surface.Factory.
func (f Factory) NewFigure() (surface.Figure, error) {
	w, h := f.Width, f.Height
	if w == 0 && h == 0 {
		w, h = DefaultWidth, DefaultHeight
	}
	if w <= 0 || h <= 0 {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "figure size must be positive, got %vx%v", w, h)
	}
	return New(append([]Option{WithSize(w, h)}, f.Options...)...), nil
}
