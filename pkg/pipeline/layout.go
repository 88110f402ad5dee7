package pipeline

import (
	"context"
	"encoding/json"

	"github.com/phn/lineid-plot/pkg/geom"
	"github.com/phn/lineid-plot/pkg/layout"
	"github.com/phn/lineid-plot/pkg/surface"
	"github.com/phn/lineid-plot/pkg/surface/canvas"
	"github.com/phn/lineid-plot/pkg/surface/gonumplot"
)

// ComputeLayout plots the job's spectrum on a new figure of the selected
// backend and places its labels.
func ComputeLayout(ctx context.Context, job Job, opts Options) (*layout.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	lopts, err := job.lineOptions(opts.LabelSize)
	if err != nil {
		return nil, err
	}
	lopts = append(lopts,
		layout.WithFactory(opts.factory()),
		layout.WithAxesRect(opts.axesRect()),
		layout.WithBoxAnchorOffset(*opts.BoxAnchorOffset),
		layout.WithMaxIter(*opts.MaxIter),
		layout.WithAdjustFactor(opts.AdjustFactor),
		layout.WithFactorDecrement(opts.FactorDecrement),
		layout.WithFdP(*opts.FdP),
		layout.WithLogger(opts.Logger),
	)
	return layout.Run(ctx, job.Wave, job.Flux, job.Positions(), job.Labels(), lopts...)
}

func (o *Options) factory() surface.Factory {
	if o.Backend == BackendGonumPlot {
		var fo []gonumplot.Option
		if o.XLabel != "" || o.YLabel != "" {
			fo = append(fo, gonumplot.WithAxisLabels(o.XLabel, o.YLabel))
		}
		return gonumplot.Factory{Width: o.Width, Height: o.Height, Options: fo}
	}
	return canvas.Factory{Width: o.Width, Height: o.Height}
}

func (o *Options) axesRect() geom.Rect {
	if len(o.AxesRect) != 4 {
		return geom.Rect{}
	}
	r := o.AxesRect
	return geom.RectFromSize(r[0], r[1], r[2], r[3])
}

// Placement is the exported form of one label placement.
type Placement struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Position float64 `json:"position"`
	BoxX     float64 `json:"box_x"`
	BoxY     float64 `json:"box_y"`
	AnchorY  float64 `json:"anchor_y"`
	Width    float64 `json:"width"`
}

// Placements converts layout features to their exported form.
func Placements(features []layout.Feature) []Placement {
	out := make([]Placement, len(features))
	for i, f := range features {
		out[i] = Placement{
			ID:       f.ID,
			Text:     f.Text,
			Position: f.Position,
			BoxX:     f.BoxX,
			BoxY:     f.BoxY,
			AnchorY:  f.AnchorY,
			Width:    f.Width,
		}
	}
	return out
}

// MarshalPlacements encodes the placements of features as indented JSON.
func MarshalPlacements(features []layout.Feature) ([]byte, error) {
	return json.MarshalIndent(Placements(features), "", "  ")
}

// layoutRecord is the cached outcome of the layout stage.
type layoutRecord struct {
	Features   []layout.Feature `json:"features"`
	Iterations int              `json:"iterations"`
	Converged  bool             `json:"converged"`
}
