// Package canvas is an in-memory rendering surface. Figures are measured
// with the embedded Go font and exported to SVG, PNG or PDF.
//
// A canvas figure follows the familiar figure/axes model: axes occupy a
// figure-fraction rectangle, data limits autoscale to the plotted lines
// with a small margin, and annotation extents become available after
// [Figure.Draw].
//
//	fig := canvas.New(canvas.WithSize(800, 500))
//	ax, _ := fig.AddAxes(geom.RectFromSize(0.1, 0.1, 0.85, 0.65))
//	ax.Plot(wave, flux, surface.DefaultSpectrumStyle())
//	...
//	svg := canvas.RenderSVG(fig)
package canvas

import (
	"fmt"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/fonts"
	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/surface"
)

// Default figure size in pixels.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Option configures a Figure.
type Option func(*Figure)

// WithSize sets the figure size in pixels.
func WithSize(width, height float64) Option {
	return func(f *Figure) { f.width, f.height = width, height }
}

// WithBackground sets the figure background colour.
func WithBackground(color string) Option {
	return func(f *Figure) { f.background = color }
}

// Figure is an in-memory figure. It implements surface.Figure.
type Figure struct {
	width, height float64
	background    string
	axes          []*Axes
	draws         int
}

var _ surface.Figure = (*Figure)(nil)

// New creates an empty figure.
func New(opts ...Option) *Figure {
	f := &Figure{width: DefaultWidth, height: DefaultHeight, background: "white"}
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
	ax := &Axes{fig: f, rect: rect}
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

// Draws reports how many draw passes have completed.
func (f *Figure) Draws() int { return f.draws }

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
		for _, a := range ax.annotations {
			if err := a.measure(tr); err != nil {
				return lerrors.Wrap(lerrors.ErrCodeRender, err, "measure %q", a.text)
			}
		}
	}
	f.draws++
	return nil
}

// pixelRect returns the axes box in figure pixels.
func (f *Figure) pixelRect(r geom.Rect) geom.Rect {
	return geom.Scale(f.width, f.height).ApplyRect(r)
}

// measureText returns the unrotated text extent including padding.
func measureText(text string, size float64) (float64, float64, error) {
	m, err := fonts.Measure(text, size)
	if err != nil {
		return 0, 0, fmt.Errorf("measure text: %w", err)
	}
	pad := size * textPadRatio
	return m.Width + 2*pad, m.Height() + 2*pad, nil
}

// textPadRatio is the padding around label text, relative to font size.
const textPadRatio = 0.1
