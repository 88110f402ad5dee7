package pipeline

import (
	"encoding/json"
	"math/rand/v2"

	"github.com/phn/lineid-plot/pkg/cache"
	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/layout"
)

// Line is one feature to label.
type Line struct {
	Position float64 `json:"position" toml:"position"`
	Label    string  `json:"label" toml:"label"`

	// Size is the font size in points; zero uses Options.LabelSize.
	Size float64 `json:"size,omitempty" toml:"size"`

	// Extend draws a connector down to the spectrum. Defaults to true.
	Extend *bool `json:"extend,omitempty" toml:"extend"`

	// AnchorY and BoxY are heights in data units. Either every line sets
	// them or none does.
	AnchorY *float64 `json:"anchor_y,omitempty" toml:"anchor_y"`
	BoxY    *float64 `json:"box_y,omitempty" toml:"box_y"`
}

// Job is a sampled spectrum plus the lines to label on it.
type Job struct {
	Wave  []float64 `json:"wave" toml:"wave"`
	Flux  []float64 `json:"flux" toml:"flux"`
	Lines []Line    `json:"lines" toml:"line"`
}

// Validate checks the shape of the job. Sample ordering and finiteness
// are checked by the layout stage.
func (j Job) Validate() error {
	if len(j.Wave) == 0 {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "job has no spectrum samples")
	}
	if err := lerrors.ValidateCount("wave", len(j.Wave), "flux", len(j.Flux)); err != nil {
		return err
	}
	if len(j.Lines) == 0 {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "job has no lines to label")
	}
	return nil
}

// Hash returns a content hash of the job.
func (j Job) Hash() string {
	data, _ := json.Marshal(j)
	return cache.Hash(data)
}

// Positions returns the line positions in job order.
func (j Job) Positions() []float64 {
	out := make([]float64, len(j.Lines))
	for i, l := range j.Lines {
		out[i] = l.Position
	}
	return out
}

// Labels returns the line labels in job order.
func (j Job) Labels() []string {
	out := make([]string, len(j.Lines))
	for i, l := range j.Lines {
		out[i] = l.Label
	}
	return out
}

// lineOptions turns the per-line settings into layout options.
func (j Job) lineOptions(defaultSize float64) ([]layout.Option, error) {
	n := len(j.Lines)
	sizes := make([]float64, n)
	extend := make([]bool, n)
	var anchors, boxes []float64
	for i, l := range j.Lines {
		sizes[i] = l.Size
		if sizes[i] == 0 {
			sizes[i] = defaultSize
		}
		extend[i] = l.Extend == nil || *l.Extend
		if l.AnchorY != nil {
			anchors = append(anchors, *l.AnchorY)
		}
		if l.BoxY != nil {
			boxes = append(boxes, *l.BoxY)
		}
	}
	if len(anchors) != 0 && len(anchors) != n {
		return nil, lerrors.New(lerrors.ErrCodeInvalidShape, "anchor_y is set on %d of %d lines; set it on every line or none", len(anchors), n)
	}
	if len(boxes) != 0 && len(boxes) != n {
		return nil, lerrors.New(lerrors.ErrCodeInvalidShape, "box_y is set on %d of %d lines; set it on every line or none", len(boxes), n)
	}

	opts := []layout.Option{layout.WithLabelSizes(sizes...), layout.WithExtend(extend...)}
	if anchors != nil {
		opts = append(opts, layout.WithAnchorYs(anchors...))
	}
	if boxes != nil {
		opts = append(opts, layout.WithBoxYs(boxes...))
	}
	return opts, nil
}

// DemoLines are the features of the bundled demo: N V and a crowded Si II
// complex around 1265.
var DemoLines = []Line{
	{Position: 1242.80, Label: "N V"},
	{Position: 1260.42, Label: "Si II"},
	{Position: 1264.74, Label: "Si II"},
	{Position: 1265.00, Label: "Si II"},
	{Position: 1265.2, Label: "Si II"},
	{Position: 1265.3, Label: "Si II"},
	{Position: 1265.35, Label: "Si II"},
}

// DemoSpectrum returns the demo job: 300 samples of unit Gaussian noise
// starting at 1240 with a spacing of 0.1, and DemoLines. The same seed
// always yields the same spectrum.
func DemoSpectrum(seed uint64) Job {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	const n = 300
	wave := make([]float64, n)
	flux := make([]float64, n)
	for i := range n {
		wave[i] = float64(12400+i) / 10
		flux[i] = rng.NormFloat64()
	}
	return Job{Wave: wave, Flux: flux, Lines: append([]Line(nil), DemoLines...)}
}
