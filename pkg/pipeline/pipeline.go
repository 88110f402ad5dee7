// Package pipeline runs a line identification job end to end: the labels
// are laid out on a spectrum plot and the figure is exported in one or
// more formats.
//
// The CLI and the HTTP service share this package so both apply the same
// defaults and validation, and both benefit from the artifact cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	job := pipeline.Job{Wave: wave, Flux: flux, Lines: lines}
//	result, err := runner.Execute(ctx, job, pipeline.Options{Formats: []string{"svg", "json"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	res, err := pipeline.ComputeLayout(ctx, job, opts)
//	artifacts, err := pipeline.Render(ctx, res, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phn/lineid-plot/pkg/cache"
	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/layout"
	"github.com/phn/lineid-plot/pkg/lineid"
	"github.com/phn/lineid-plot/pkg/surface"
	"github.com/phn/lineid-plot/pkg/surface/canvas"
	"github.com/phn/lineid-plot/pkg/surface/gonumplot"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Rendering backends.
const (
	BackendCanvas    = "canvas"
	BackendGonumPlot = "gonumplot"
)

// DefaultBackend is used when Options.Backend is empty.
const DefaultBackend = BackendCanvas

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidBackends is the set of supported rendering backends.
var ValidBackends = map[string]bool{
	BackendCanvas:    true,
	BackendGonumPlot: true,
}

// Options configures a pipeline run. Zero values select defaults; the
// pointer fields distinguish an explicit zero from "unset".
type Options struct {
	// Figure
	Backend  string    `json:"backend,omitempty" toml:"backend"`
	Width    float64   `json:"width,omitempty" toml:"width"`
	Height   float64   `json:"height,omitempty" toml:"height"`
	AxesRect []float64 `json:"axes_rect,omitempty" toml:"axes_rect"` // left, bottom, width, height
	XLabel   string    `json:"x_label,omitempty" toml:"x_label"`
	YLabel   string    `json:"y_label,omitempty" toml:"y_label"`

	// Layout
	LabelSize       float64  `json:"label_size,omitempty" toml:"label_size"`
	BoxAnchorOffset *float64 `json:"box_anchor_offset,omitempty" toml:"box_anchor_offset"`
	MaxIter         *int     `json:"max_iter,omitempty" toml:"max_iter"`
	AdjustFactor    float64  `json:"adjust_factor,omitempty" toml:"adjust_factor"`
	FactorDecrement float64  `json:"factor_decrement,omitempty" toml:"factor_decrement"`
	FdP             *float64 `json:"fd_p,omitempty" toml:"fd_p"`

	// Render
	Formats []string `json:"formats,omitempty" toml:"formats"`
	Refresh bool     `json:"refresh,omitempty" toml:"-"`

	Logger *log.Logger `json:"-" toml:"-"`

	validated bool
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Layout holds the live surface handles. It is nil when the placements
	// came from the cache.
	Layout *layout.Result

	// Features are the final placements, sorted by position.
	Features []layout.Feature

	// JobHash is the content hash of the job.
	JobHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	Features   int           `json:"features"`
	Iterations int           `json:"iterations"`
	Converged  bool          `json:"converged"`
	LayoutTime time.Duration `json:"layout_time"`
	RenderTime time.Duration `json:"render_time"`
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return lerrors.New(lerrors.ErrCodeInvalidFormat, "invalid format %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBackend checks that a backend is supported.
func ValidateBackend(backend string) error {
	if !ValidBackends[backend] {
		return lerrors.New(lerrors.ErrCodeInvalidBackend, "invalid backend %q (must be one of: canvas, gonumplot)", backend)
	}
	return nil
}

// SetDefaults fills unset fields. Figure sizes are pixels for the canvas
// backend and points for gonumplot.
func (o *Options) SetDefaults() {
	if o.Backend == "" {
		o.Backend = DefaultBackend
	}
	if o.Width == 0 && o.Height == 0 {
		if o.Backend == BackendGonumPlot {
			o.Width, o.Height = gonumplot.DefaultWidth, gonumplot.DefaultHeight
		} else {
			o.Width, o.Height = canvas.DefaultWidth, canvas.DefaultHeight
		}
	}
	if len(o.AxesRect) == 0 {
		r := layout.DefaultAxesRect
		o.AxesRect = []float64{r.Min.X, r.Min.Y, r.Width(), r.Height()}
	}
	if o.LabelSize == 0 {
		o.LabelSize = surface.DefaultFontSize
	}
	if o.BoxAnchorOffset == nil {
		o.BoxAnchorOffset = ptr(layout.DefaultBoxAnchorOffset)
	}
	if o.MaxIter == nil {
		o.MaxIter = ptr(lineid.DefaultMaxIter)
	}
	if o.AdjustFactor == 0 {
		o.AdjustFactor = lineid.DefaultAdjustFactor
	}
	if o.FactorDecrement == 0 {
		o.FactorDecrement = lineid.DefaultFactorDecrement
	}
	if o.FdP == nil {
		o.FdP = ptr(lineid.DefaultFactorDecrementPoint)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the figure and render options. Layout tuning values
// are validated by the layout stage.
func (o *Options) Validate() error {
	if err := ValidateBackend(o.Backend); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width <= 0 || o.Height <= 0 {
		return lerrors.New(lerrors.ErrCodeInvalidConfig, "figure size must be positive, got %vx%v", o.Width, o.Height)
	}
	if len(o.AxesRect) != 4 {
		return lerrors.New(lerrors.ErrCodeInvalidConfig, "axes_rect needs 4 values, got %d", len(o.AxesRect))
	}
	if o.axesRect().Empty() {
		return lerrors.New(lerrors.ErrCodeInvalidConfig, "axes_rect %v has no area", o.AxesRect)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

// LayoutKeyOpts returns the cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Backend:         o.Backend,
		Width:           o.Width,
		Height:          o.Height,
		LabelSize:       o.LabelSize,
		AdjustFactor:    o.AdjustFactor,
		FactorDecrement: o.FactorDecrement,
	}
	copy(k.AxesRect[:], o.AxesRect)
	if o.Backend == BackendGonumPlot {
		k.XLabel, k.YLabel = o.XLabel, o.YLabel
	}
	if o.BoxAnchorOffset != nil {
		k.BoxAnchorOffset = *o.BoxAnchorOffset
	}
	if o.MaxIter != nil {
		k.MaxIter = *o.MaxIter
	}
	if o.FdP != nil {
		k.FdP = *o.FdP
	}
	return k
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}

func ptr[T any](v T) *T { return &v }
