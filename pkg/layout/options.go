package layout

import (
	"github.com/charmbracelet/log"

	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/lineid"
	"github.com/phn/lineid-plot/pkg/surface"
)

// DefaultBoxAnchorOffset is the default gap between arrow tip and label
// box, in figure-fraction units.
const DefaultBoxAnchorOffset = 0.06

// DefaultAxesRect is the axes rectangle used for new figures: lower-left
// corner (0.1, 0.1), size 0.85 x 0.65 in figure fractions.
var DefaultAxesRect = geom.RectFromSize(0.1, 0.1, 0.85, 0.65)

// Option configures a layout run.
type Option func(*config)

type config struct {
	labelSizes []float64
	extend     []bool
	anchorY    []float64
	boxY       []float64
	boxOffset  float64

	maxIter   int
	factor    float64
	decrement float64
	fdp       float64

	axes     surface.Axes
	figure   surface.Figure
	factory  surface.Factory
	axesRect geom.Rect

	noIDs     bool
	annStyle  surface.AnnotationStyle
	connStyle surface.LineStyle
	logger    *log.Logger
}

func newConfig(opts []Option) config {
	c := config{
		labelSizes: []float64{surface.DefaultFontSize},
		extend:     []bool{true},
		boxOffset:  DefaultBoxAnchorOffset,
		maxIter:    lineid.DefaultMaxIter,
		factor:     lineid.DefaultAdjustFactor,
		decrement:  lineid.DefaultFactorDecrement,
		fdp:        lineid.DefaultFactorDecrementPoint,
		axesRect:   DefaultAxesRect,
		annStyle:   surface.DefaultAnnotationStyle(),
		connStyle:  surface.DefaultConnectorStyle(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLabelSizes sets per-feature font sizes. A single value applies to
// every feature.
func WithLabelSizes(sizes ...float64) Option { return func(c *config) { c.labelSizes = sizes } }

// WithLabelSize sets one font size for every feature.
func WithLabelSize(size float64) Option { return func(c *config) { c.labelSizes = []float64{size} } }

// WithExtend sets per-feature connector flags. A single value applies to
// every feature.
func WithExtend(flags ...bool) Option { return func(c *config) { c.extend = flags } }

// WithExtendAll turns connectors on or off for every feature.
func WithExtendAll(on bool) Option { return func(c *config) { c.extend = []bool{on} } }

// WithAnchorY places every arrow tip at y, in data units.
func WithAnchorY(y float64) Option { return func(c *config) { c.anchorY = []float64{y} } }

// WithAnchorYs sets per-feature arrow tip heights in data units.
func WithAnchorYs(ys ...float64) Option { return func(c *config) { c.anchorY = ys } }

// WithBoxY places every label box at y, in data units.
func WithBoxY(y float64) Option { return func(c *config) { c.boxY = []float64{y} } }

// WithBoxYs sets per-feature label box heights in data units.
func WithBoxYs(ys ...float64) Option { return func(c *config) { c.boxY = ys } }

// WithBoxAnchorOffset sets the figure-fraction gap between arrow tip and
// label box used when no box heights are given.
func WithBoxAnchorOffset(offset float64) Option { return func(c *config) { c.boxOffset = offset } }

func WithMaxIter(n int) Option             { return func(c *config) { c.maxIter = n } }
func WithAdjustFactor(f float64) Option    { return func(c *config) { c.factor = f } }
func WithFactorDecrement(d float64) Option { return func(c *config) { c.decrement = d } }
func WithFdP(p float64) Option             { return func(c *config) { c.fdp = p } }
func WithoutIDs() Option                   { return func(c *config) { c.noIDs = true } }
func WithLogger(l *log.Logger) Option      { return func(c *config) { c.logger = l } }
func WithFactory(f surface.Factory) Option { return func(c *config) { c.factory = f } }
func WithAxesRect(r geom.Rect) Option      { return func(c *config) { c.axesRect = r } }
func WithConnectorStyle(s surface.LineStyle) Option {
	return func(c *config) { c.connStyle = s }
}

// WithAxes places labels on existing axes. The spectrum is assumed to be
// plotted there already.
func WithAxes(ax surface.Axes) Option { return func(c *config) { c.axes = ax } }

// WithFigure adds new axes to an existing figure and plots the spectrum
// on them. Ignored when WithAxes is also given.
func WithFigure(f surface.Figure) Option { return func(c *config) { c.figure = f } }

// WithAnnotationStyle overrides the label style. Unset fields keep the
// defaults of surface.DefaultAnnotationStyle.
func WithAnnotationStyle(s surface.AnnotationStyle) Option {
	return func(c *config) { c.annStyle = s.Merge(surface.DefaultAnnotationStyle()) }
}

func (c config) adjustOptions() []lineid.AdjustOption {
	return []lineid.AdjustOption{
		lineid.WithMaxIter(c.maxIter),
		lineid.WithAdjustFactor(c.factor),
		lineid.WithFactorDecrement(c.decrement),
		lineid.WithFactorDecrementPoint(c.fdp),
	}
}
