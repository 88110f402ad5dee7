package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phn/lineid-plot/pkg/cache"
	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"eps", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !lerrors.Is(err, lerrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, lerrors.GetCode(err))
		}
	}
}

func TestValidateBackend(t *testing.T) {
	for _, b := range []string{"canvas", "gonumplot"} {
		if err := ValidateBackend(b); err != nil {
			t.Errorf("ValidateBackend(%q) = %v", b, err)
		}
	}
	if err := ValidateBackend("matplotlib"); !lerrors.Is(err, lerrors.ErrCodeInvalidBackend) {
		t.Errorf("ValidateBackend(matplotlib) = %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Backend != BackendCanvas || o.Width != 640 || o.Height != 480 {
		t.Errorf("figure defaults = %s %vx%v", o.Backend, o.Width, o.Height)
	}
	if diff := cmp.Diff([]float64{0.1, 0.1, 0.85, 0.65}, o.AxesRect); diff != "" {
		t.Errorf("AxesRect (-want +got):\n%s", diff)
	}
	if *o.MaxIter != 1000 || o.AdjustFactor != 0.35 || o.FactorDecrement != 3 || *o.FdP != 0.75 {
		t.Errorf("tuning defaults = %d %v %v %v", *o.MaxIter, o.AdjustFactor, o.FactorDecrement, *o.FdP)
	}
	if diff := cmp.Diff([]string{"svg"}, o.Formats); diff != "" {
		t.Errorf("Formats (-want +got):\n%s", diff)
	}

	g := Options{Backend: BackendGonumPlot}
	g.SetDefaults()
	if g.Width != 576 || g.Height != 360 {
		t.Errorf("gonumplot size = %vx%v, want 576x360", g.Width, g.Height)
	}

	zero := 0
	z := Options{MaxIter: &zero}
	z.SetDefaults()
	if *z.MaxIter != 0 {
		t.Error("explicit zero budget was overwritten")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code lerrors.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, lerrors.ErrCodeInvalidFormat},
		{"backend", Options{Backend: "tk"}, lerrors.ErrCodeInvalidBackend},
		{"size", Options{Width: -1, Height: 100}, lerrors.ErrCodeInvalidConfig},
		{"rect length", Options{AxesRect: []float64{0, 0, 1}}, lerrors.ErrCodeInvalidConfig},
		{"rect area", Options{AxesRect: []float64{0, 0, 0, 1}}, lerrors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !lerrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestJobValidate(t *testing.T) {
	demo := DemoSpectrum(1)
	tests := []struct {
		name string
		job  Job
		code lerrors.Code
	}{
		{"no samples", Job{Lines: demo.Lines}, lerrors.ErrCodeInvalidInput},
		{"flux length", Job{Wave: demo.Wave, Flux: demo.Flux[:10], Lines: demo.Lines}, lerrors.ErrCodeCountMismatch},
		{"no lines", Job{Wave: demo.Wave, Flux: demo.Flux}, lerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.job.Validate(); !lerrors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
	if err := demo.Validate(); err != nil {
		t.Errorf("demo job invalid: %v", err)
	}
}

func TestLineOptionsPartialHeights(t *testing.T) {
	y := 1.0
	job := Job{Lines: []Line{{Position: 1, Label: "a", AnchorY: &y}, {Position: 2, Label: "b"}}}
	if _, err := job.lineOptions(12); !lerrors.Is(err, lerrors.ErrCodeInvalidShape) {
		t.Errorf("partial anchor_y: %v, want INVALID_SHAPE", err)
	}
	job = Job{Lines: []Line{{Position: 1, Label: "a", BoxY: &y}, {Position: 2, Label: "b"}}}
	if _, err := job.lineOptions(12); !lerrors.Is(err, lerrors.ErrCodeInvalidShape) {
		t.Errorf("partial box_y: %v, want INVALID_SHAPE", err)
	}
}

func TestDemoSpectrum(t *testing.T) {
	a, b := DemoSpectrum(7), DemoSpectrum(7)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed gave different jobs:\n%s", diff)
	}
	if c := DemoSpectrum(8); cmp.Equal(a.Flux, c.Flux) {
		t.Error("different seeds gave the same flux")
	}
	if len(a.Wave) != 300 || a.Wave[0] != 1240 || a.Wave[299] != 1269.9 {
		t.Errorf("wave grid = %d samples, %v..%v", len(a.Wave), a.Wave[0], a.Wave[len(a.Wave)-1])
	}
	if len(a.Lines) != 7 {
		t.Errorf("%d demo lines, want 7", len(a.Lines))
	}
}

func TestComputeLayoutPerLineSettings(t *testing.T) {
	job := DemoSpectrum(3)
	off := false
	job.Lines[0].Extend = &off
	job.Lines[1].Size = 8

	res, err := ComputeLayout(context.Background(), job, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Features[0].Extend {
		t.Error("extend = false was ignored")
	}
	if res.Features[1].Size != 8 || res.Features[2].Size != 12 {
		t.Errorf("sizes = %v, %v; want 8, 12", res.Features[1].Size, res.Features[2].Size)
	}
}

func TestRenderFormats(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		backend string
		format  string
		prefix  []byte
	}{
		{BackendCanvas, FormatSVG, []byte("<?xml")},
		{BackendCanvas, FormatPNG, []byte("\x89PNG")},
		{BackendCanvas, FormatJSON, []byte("[")},
		{BackendGonumPlot, FormatSVG, []byte("<?xml")},
		{BackendGonumPlot, FormatPNG, []byte("\x89PNG")},
		{BackendGonumPlot, FormatPDF, []byte("%PDF")},
	}
	for _, tt := range tests {
		t.Run(tt.backend+"/"+tt.format, func(t *testing.T) {
			opts := Options{Backend: tt.backend, Formats: []string{tt.format}}
			res, err := ComputeLayout(ctx, DemoSpectrum(1), opts)
			if err != nil {
				t.Fatal(err)
			}
			artifacts, err := Render(ctx, res, opts)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(artifacts[tt.format], tt.prefix) {
				t.Errorf("output starts with %q, want %q", head(artifacts[tt.format]), tt.prefix)
			}
		})
	}
}

func TestMarshalPlacements(t *testing.T) {
	res, err := ComputeLayout(context.Background(), DemoSpectrum(1), Options{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := MarshalPlacements(res.Features)
	if err != nil {
		t.Fatal(err)
	}
	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 7 {
		t.Fatalf("%d placements, want 7", len(got))
	}
	for _, key := range []string{"id", "text", "position", "box_x", "box_y", "anchor_y", "width"} {
		if _, ok := got[0][key]; !ok {
			t.Errorf("placement missing %q", key)
		}
	}
	if got[0]["id"] != "N V" {
		t.Errorf("first placement id = %v", got[0]["id"])
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	r := NewRunner(fc, nil, nil)
	defer r.Close()
	job := DemoSpectrum(5)
	opts := Options{Formats: []string{FormatSVG}}

	first, err := r.Execute(ctx, job, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit || first.Layout == nil {
		t.Fatalf("first run should compute, got %+v", first.CacheInfo)
	}
	if hooks.sets != 2 {
		t.Errorf("%d cache writes, want 2 (layout + svg)", hooks.sets)
	}

	second, err := r.Execute(ctx, job, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit || second.Layout != nil {
		t.Errorf("second run should be served from cache, got %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from the rendered one")
	}
	if diff := cmp.Diff(first.Features, second.Features); diff != "" {
		t.Errorf("cached features differ (-first +second):\n%s", diff)
	}

	// JSON is rebuilt from the cached placements.
	third, err := r.Execute(ctx, job, Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.LayoutHit || third.Layout != nil {
		t.Errorf("json run should reuse the cached layout, got %+v", third.CacheInfo)
	}

	refreshed, err := r.Execute(ctx, job, Options{Formats: []string{FormatSVG}, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.RenderHit || refreshed.Layout == nil {
		t.Error("Refresh should bypass the cache")
	}

	other, err := r.Execute(ctx, job, Options{Formats: []string{FormatSVG}, LabelSize: 9})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheInfo.RenderHit {
		t.Error("a different label size should not hit the cache")
	}
}

func TestRunnerAxisCaptionsChangeLayout(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()
	job := DemoSpectrum(4)

	plain := Options{Backend: BackendGonumPlot, Formats: []string{FormatJSON}}
	if _, err := r.Execute(ctx, job, plain); err != nil {
		t.Fatal(err)
	}

	captioned := Options{Backend: BackendGonumPlot, Formats: []string{FormatJSON}, XLabel: "Wavelength", YLabel: "Flux"}
	got, err := r.Execute(ctx, job, captioned)
	if err != nil {
		t.Fatal(err)
	}
	if got.CacheInfo.LayoutHit {
		t.Fatal("axis captions should not reuse placements computed without them")
	}

	fresh, err := ComputeLayout(ctx, job, captioned)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fresh.Features, got.Features); diff != "" {
		t.Errorf("captioned placements differ from a fresh layout (-fresh +got):\n%s", diff)
	}
}

func TestLayoutKeyCaptionsByBackend(t *testing.T) {
	for _, tt := range []struct {
		backend string
		differ  bool
	}{
		{BackendGonumPlot, true},
		{BackendCanvas, false},
	} {
		plain := Options{Backend: tt.backend}
		captioned := Options{Backend: tt.backend, XLabel: "Wavelength"}
		if differ := plain.LayoutKeyOpts() != captioned.LayoutKeyOpts(); differ != tt.differ {
			t.Errorf("%s: captions change layout key = %v, want %v", tt.backend, differ, tt.differ)
		}
	}
}

func TestRunnerRejectsInvalidInput(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Job{}, Options{})
	if !lerrors.Is(err, lerrors.ErrCodeInvalidInput) {
		t.Errorf("empty job: %v", err)
	}
	_, err = r.Execute(context.Background(), DemoSpectrum(1), Options{Formats: []string{"gif"}})
	if !lerrors.Is(err, lerrors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: %v", err)
	}
}

func head(b []byte) []byte {
	if len(b) > 8 {
		return b[:8]
	}
	return b
}
