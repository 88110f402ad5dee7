package layout

import (
	"cmp"
	"context"
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/floats"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/lineid"
	"github.com/phn/lineid-plot/pkg/observability"
	"github.com/phn/lineid-plot/pkg/surface"
	"github.com/phn/lineid-plot/pkg/surface/canvas"
)

// features holds the normalized per-feature inputs, sorted by position.
type features struct {
	position []float64
	text     []string
	size     []float64
	extend   []bool
	anchorY  []float64 // nil: use the visible upper y bound
	boxY     []float64 // nil: derive from anchorY and the box offset
}

func (f *features) Len() int { return len(f.position) }

// Run labels the features at positions on a plot of the sampled signal
// (x, y) and spreads the labels horizontally so that they do not overlap.
//
// The samples may come in any order; they are sorted by x first. Every
// input is validated before the surface is touched. The returned
// Result keeps the surface handles for further styling and export.
func Run(ctx context.Context, x, y, positions []float64, labels []string, opts ...Option) (res *Result, err error) {
	cfg := newConfig(opts)
	logger := cfg.loggerFor(ctx)

	start := time.Now()
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, len(positions))
	defer func() { hooks.OnLayoutComplete(ctx, len(positions), time.Since(start), err) }()

	x, y = sortSamples(x, y)
	feats, err := normalize(x, y, positions, labels, cfg)
	if err != nil {
		return nil, err
	}
	flux, err := lineid.Interpolate(x, y, feats.position)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fig, ax, err := cfg.resolveSurface(x, y)
	if err != nil {
		return nil, err
	}

	anchorY, boxY, err := placeBoxes(fig, ax, feats, cfg.boxOffset)
	if err != nil {
		return nil, err
	}

	n := feats.Len()
	ids := lineid.UniqueLabels(feats.text)
	res = &Result{
		Figure:     fig,
		Axes:       ax,
		Features:   make([]Feature, n),
		boxes:      make(map[string]surface.Annotation, n),
		connectors: make(map[string]surface.Connector, n),
	}

	for i := range n {
		pos := feats.position[i]
		st := cfg.annStyle
		st.FontSize = feats.size[i]
		ann, err := ax.Annotate(feats.text[i], geom.Pt(pos, anchorY[i]), geom.Pt(pos, boxY[i]), st)
		if err != nil {
			return nil, lerrors.Wrap(lerrors.ErrCodeRender, err, "annotate %q", feats.text[i])
		}
		if !cfg.noIDs {
			ann.SetID(ids[i])
		}
		res.boxes[ids[i]] = ann
		res.annotations = append(res.annotations, ann)

		if feats.extend[i] {
			conn, err := ax.Line(pos, anchorY[i], pos, flux[i], cfg.connStyle)
			if err != nil {
				return nil, lerrors.Wrap(lerrors.ErrCodeRender, err, "connector for %q", feats.text[i])
			}
			if !cfg.noIDs {
				conn.SetID(lineid.ConnectorID(ids[i]))
			}
			res.connectors[lineid.ConnectorID(ids[i])] = conn
		}

		res.Features[i] = Feature{
			ID:       ids[i],
			Text:     feats.text[i],
			Position: pos,
			Flux:     flux[i],
			Size:     feats.size[i],
			Extend:   feats.extend[i],
			AnchorY:  anchorY[i],
			BoxY:     boxY[i],
		}
	}

	if err := fig.Draw(); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeRender, err, "draw provisional labels")
	}

	widths, err := boxWidths(ax, res.annotations)
	if err != nil {
		return nil, err
	}

	adj, err := lineid.AdjustBoxes(feats.position, widths, floats.Min(x), floats.Max(x), cfg.adjustOptions()...)
	if err != nil {
		return nil, err
	}
	hooks.OnAdjustComplete(ctx, adj.Iterations, adj.Converged)
	logger.Debug("adjusted label boxes",
		"features", n, "iterations", adj.Iterations, "changed", adj.Changed, "converged", adj.Converged)
	if !adj.Converged {
		logger.Info("label layout stopped at iteration budget", "max_iter", cfg.maxIter)
	}

	for i, ann := range res.annotations {
		res.Features[i].Width = widths[i]
		res.Features[i].BoxX = feats.position[i]
		if adj.Positions[i] == feats.position[i] {
			continue
		}
		if moveBox(ann, adj.Positions[i], boxY[i], logger) {
			res.Features[i].BoxX = adj.Positions[i]
		}
	}
	res.Iterations = adj.Iterations
	res.Changed = adj.Changed
	res.Converged = adj.Converged

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := fig.Draw(); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeRender, err, "draw final labels")
	}
	return res, nil
}

// LineIDs is Run under the name used by earlier releases.
func LineIDs(ctx context.Context, x, y, positions []float64, labels []string, opts ...Option) (*Result, error) {
	return Run(ctx, x, y, positions, labels, opts...)
}

// sortSamples returns copies of x and y ordered by x. Ties keep their
// input order. Already sorted or mismatched input is returned as is.
func sortSamples(x, y []float64) ([]float64, []float64) {
	if len(x) != len(y) || slices.IsSorted(x) {
		return x, y
	}
	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(x[a], x[b]) })
	return permute(x, order), permute(y, order)
}

// normalize validates and broadcasts the inputs and sorts the features by
// position. The sort is stable so equal positions keep their input order.
func normalize(x, y, positions []float64, labels []string, cfg config) (*features, error) {
	if err := lerrors.ValidateSamples(x, y); err != nil {
		return nil, err
	}
	n := len(positions)
	if err := lerrors.ValidateCount("positions", n, "labels", len(labels)); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	for i, p := range positions {
		if err := lerrors.ValidateFinite("position", p); err != nil {
			return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "feature %d", i)
		}
	}

	sizes, err := lineid.Broadcast("label_size", cfg.labelSizes, n)
	if err != nil {
		return nil, err
	}
	for _, s := range sizes {
		if err := lerrors.ValidatePositive("label_size", s); err != nil {
			return nil, err
		}
	}
	extend, err := lineid.Broadcast("extend", cfg.extend, n)
	if err != nil {
		return nil, err
	}
	var anchorY, boxY []float64
	if cfg.anchorY != nil {
		if anchorY, err = broadcastFinite("anchor_y", cfg.anchorY, n); err != nil {
			return nil, err
		}
	}
	if cfg.boxY != nil {
		if boxY, err = broadcastFinite("box_y", cfg.boxY, n); err != nil {
			return nil, err
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(positions[a], positions[b]) })

	f := &features{
		position: permute(positions, order),
		text:     permute(labels, order),
		size:     permute(sizes, order),
		extend:   permute(extend, order),
	}
	if anchorY != nil {
		f.anchorY = permute(anchorY, order)
	}
	if boxY != nil {
		f.boxY = permute(boxY, order)
	}
	return f, nil
}

func broadcastFinite(name string, vals []float64, n int) ([]float64, error) {
	out, err := lineid.Broadcast(name, vals, n)
	if err != nil {
		return nil, err
	}
	for _, v := range out {
		if err := lerrors.ValidateFinite(name, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func permute[T any](vals []T, order []int) []T {
	out := make([]T, len(order))
	for i, j := range order {
		out[i] = vals[j]
	}
	return out
}

func (c config) validate() error {
	if c.maxIter < 0 {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "max_iter must not be negative, got %d", c.maxIter)
	}
	if err := lerrors.ValidatePositive("adjust_factor", c.factor); err != nil {
		return err
	}
	if err := lerrors.ValidatePositive("factor_decrement", c.decrement); err != nil {
		return err
	}
	if err := lerrors.ValidateFraction("fd_p", c.fdp); err != nil {
		return err
	}
	if err := lerrors.ValidateFinite("box_anchor_offset", c.boxOffset); err != nil {
		return err
	}
	if c.axes == nil && c.axesRect.Empty() {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "axes rectangle %v has no area", c.axesRect)
	}
	return nil
}

func (c config) loggerFor(ctx context.Context) *log.Logger {
	if c.logger != nil {
		return c.logger
	}
	if l, ok := ctx.Value(log.ContextKey).(*log.Logger); ok {
		return l
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// resolveSurface returns the figure and axes to draw on. New axes get the
// spectrum plotted; caller-provided axes are used as they are.
func (c config) resolveSurface(x, y []float64) (surface.Figure, surface.Axes, error) {
	if c.axes != nil {
		return c.axes.Figure(), c.axes, nil
	}
	fig := c.figure
	if fig == nil {
		factory := c.factory
		if factory == nil {
			factory = canvas.Factory{}
		}
		f, err := factory.NewFigure()
		if err != nil {
			return nil, nil, lerrors.Wrap(lerrors.ErrCodeRender, err, "create figure")
		}
		fig = f
	}
	ax, err := fig.AddAxes(c.axesRect)
	if err != nil {
		return nil, nil, err
	}
	if err := ax.Plot(x, y, surface.DefaultSpectrumStyle()); err != nil {
		return nil, nil, lerrors.Wrap(lerrors.ErrCodeRender, err, "plot spectrum")
	}
	return fig, ax, nil
}

// placeBoxes returns the arrow tip and box heights of every feature.
func placeBoxes(fig surface.Figure, ax surface.Axes, f *features, offset float64) ([]float64, []float64, error) {
	n := f.Len()
	anchorY := f.anchorY
	if anchorY == nil {
		_, top := ax.YBound()
		anchorY = make([]float64, n)
		for i := range anchorY {
			anchorY[i] = top
		}
	}
	if f.boxY != nil {
		return anchorY, f.boxY, nil
	}

	data, err := ax.DataTransform()
	if err != nil {
		return nil, nil, err
	}
	figure, err := fig.FigureTransform()
	if err != nil {
		return nil, nil, err
	}
	anchors := make([]geom.Point, n)
	for i := range anchors {
		anchors[i] = geom.Pt(f.position[i], anchorY[i])
	}
	locs, err := lineid.BoxLocations(data, figure, anchors, offset)
	if err != nil {
		return nil, nil, err
	}
	boxY := make([]float64, n)
	for i, p := range locs {
		boxY[i] = p.Y
	}
	return anchorY, boxY, nil
}

// boxWidths converts the rendered label extents to widths in data units.
func boxWidths(ax surface.Axes, anns []surface.Annotation) ([]float64, error) {
	tr, err := ax.DataTransform()
	if err != nil {
		return nil, err
	}
	inv, err := tr.Invert()
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeTransform, err, "invert data transform")
	}
	widths := make([]float64, len(anns))
	for i, a := range anns {
		ext, err := a.WindowExtent()
		if err != nil {
			return nil, lerrors.Wrap(lerrors.ErrCodeRender, err, "extent of %q", a.Text())
		}
		lo, hi := inv.Apply(ext.Min), inv.Apply(ext.Max)
		widths[i] = math.Abs(hi.X - lo.X)
	}
	return widths, nil
}

// moveBox moves the label text to x, keeping its height. Annotations that
// cannot move horizontally in place fall back to replacing the whole text
// position. It reports whether the box moved.
func moveBox(ann surface.Annotation, x, y float64, logger *log.Logger) bool {
	if r, ok := ann.(surface.Repositioner); ok && r.SupportsReposition() {
		if err := r.Reposition(x); err != nil {
			logger.Warn("could not reposition label", "label", ann.Text(), "err", err)
			return false
		}
		return true
	}
	if tp, ok := ann.(surface.TextPositioner); ok {
		logger.Warn("surface cannot reposition labels in place, replacing text position", "label", ann.Text())
		if err := tp.SetTextPosition(geom.Pt(x, y)); err != nil {
			logger.Warn("could not move label", "label", ann.Text(), "err", err)
			return false
		}
		return true
	}
	logger.Warn("surface cannot move labels, leaving label in place", "label", ann.Text())
	return false
}
