// Package surface defines the rendering collaborator that the layout
// orchestrator drives: figures, axes, text annotations and connector lines.
//
// The layout engine never draws anything itself. It asks a [Figure] for
// axes, places annotations through [Axes.Annotate], triggers a draw pass to
// learn how wide each label rendered, and finally moves the labels through
// the optional [Repositioner] capability.
//
// Two implementations ship with this module: package canvas (an in-memory
// figure exported to SVG, PNG or PDF) and package gonumplot (backed by
// gonum.org/v1/plot). Any other plotting front end can be adapted by
// implementing these interfaces.
//
// # Coordinate Systems
//
//   - Data: the units of the plotted signal (wavelength, flux).
//   - Figure fraction: (0, 0) is the lower-left and (1, 1) the upper-right
//     corner of the figure.
//   - Pixels: figure pixels with the origin at the lower-left corner.
//
// [Axes.DataTransform] maps data to pixels and [Figure.FigureTransform]
// maps figure fractions to pixels.
package surface

import (
	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/geom"
)

var (
	// ErrNotDrawn is returned by [Annotation.WindowExtent] before the first
	// draw pass.
	ErrNotDrawn = lerrors.New(lerrors.ErrCodeRender, "annotation has not been drawn")

	// ErrTransformUnavailable is returned when a coordinate transform cannot
	// be built yet, for example because the figure has no size.
	ErrTransformUnavailable = lerrors.New(lerrors.ErrCodeTransform, "coordinate transform unavailable")
)

// Figure is a top-level drawing container holding one or more axes.
type Figure interface {
	// AddAxes creates axes occupying rect, given in figure fractions.
	AddAxes(rect geom.Rect) (Axes, error)
	// Axes returns the axes created so far, in creation order.
	Axes() []Axes
	// Size returns the figure size in pixels.
	Size() (width, height float64)
	// FigureTransform maps figure fractions to pixels.
	FigureTransform() (geom.Transform, error)
	// Draw lays out every element synchronously. Annotation extents are
	// available afterwards.
	Draw() error
}

// Axes is a plotting area with its own data coordinate system.
type Axes interface {
	Figure() Figure

	// Plot draws a polyline through the samples and grows the data limits
	// to include them.
	Plot(x, y []float64, style LineStyle) error
	// Annotate places text at xytext with an arrow pointing at xy, both in
	// data coordinates.
	Annotate(text string, xy, xytext geom.Point, style AnnotationStyle) (Annotation, error)
	// Line draws a straight connector between two data points. Connectors
	// never change the data limits.
	Line(x0, y0, x1, y1 float64, style LineStyle) (Connector, error)

	// DataTransform maps data coordinates to pixels.
	DataTransform() (geom.Transform, error)
	// XBound returns the visible x range.
	XBound() (lo, hi float64)
	// YBound returns the visible y range.
	YBound() (lo, hi float64)

	Annotations() []Annotation
	Connectors() []Connector
}

// Annotation is a text label with an optional arrow to an anchor point.
type Annotation interface {
	ID() string
	SetID(id string)

	Text() string
	SetText(text string)

	// Anchor returns the point the arrow points at, in data coordinates.
	Anchor() geom.Point
	// TextPosition returns where the text is placed, in data coordinates.
	TextPosition() geom.Point

	// WindowExtent returns the pixel bounding box of the rendered text as
	// of the last draw pass.
	WindowExtent() (geom.Rect, error)

	SetColor(color string)
	SetArrowColor(color string)
	SetVisible(visible bool)
	SetRotation(degrees float64)
}

// Repositioner is implemented by annotations that can move their text
// horizontally after creation without being recreated.
type Repositioner interface {
	SupportsReposition() bool
	Reposition(x float64) error
}

// TextPositioner is an older, coarser way of moving an annotation: the
// full text position is replaced. Surfaces that cannot offer Repositioner
// may still offer this.
type TextPositioner interface {
	SetTextPosition(p geom.Point) error
}

// Connector is a straight line between two data points.
type Connector interface {
	ID() string
	SetID(id string)

	// Points returns the end points in data coordinates.
	Points() (from, to geom.Point)

	SetColor(color string)
	SetLineStyle(style LineStyle)
	SetVisible(visible bool)
}

// Factory creates fresh figures.
type Factory interface {
	NewFigure() (Figure, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func() (Figure, error)

// NewFigure calls f.
func (f FactoryFunc) NewFigure() (Figure, error) { return f() }
