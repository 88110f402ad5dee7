package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phn/lineid-plot/pkg/cache"
	"github.com/phn/lineid-plot/pkg/observability"
)

// Key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner executes jobs with caching. It holds no per-job state and is
// safe for concurrent use when its Cache is.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil
// keyer selects the DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute lays out the job and renders every requested format. Cached
// artifacts are reused unless opts.Refresh is set.
func (r *Runner) Execute(ctx context.Context, job Job, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}

	result := &Result{JobHash: job.Hash()}
	layoutKey := r.Keyer.LayoutKey(result.JobHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if rec, ok := r.cachedLayout(ctx, layoutKey); ok {
			if artifacts, ok := r.cachedArtifacts(ctx, result.JobHash, rec, opts); ok {
				result.Features = rec.Features
				result.Artifacts = artifacts
				result.Stats = Stats{Features: len(rec.Features), Iterations: rec.Iterations, Converged: rec.Converged}
				result.CacheInfo = CacheInfo{LayoutHit: true, RenderHit: true}
				r.Logger.Info("served from cache", "features", len(rec.Features), "formats", opts.Formats)
				return result, nil
			}
		}
	}

	layoutStart := time.Now()
	res, err := ComputeLayout(ctx, job, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Features = res.Features
	result.Stats.Features = len(res.Features)
	result.Stats.Iterations = res.Iterations
	result.Stats.Converged = res.Converged
	result.Stats.LayoutTime = time.Since(layoutStart)
	r.Logger.Info("placed labels",
		"features", len(res.Features),
		"iterations", res.Iterations,
		"converged", res.Converged,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, err := Render(ctx, res, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)

	rec := layoutRecord{Features: res.Features, Iterations: res.Iterations, Converged: res.Converged}
	if data, err := json.Marshal(rec); err == nil {
		r.store(ctx, keyTypeLayout, layoutKey, data, cache.TTLLayout)
	}
	for format, data := range artifacts {
		r.store(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(result.JobHash, opts.LayoutKeyOpts(), opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return result, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (layoutRecord, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, keyTypeLayout)
		return layoutRecord{}, false
	}
	var rec layoutRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		hooks.OnCacheMiss(ctx, keyTypeLayout)
		return layoutRecord{}, false
	}
	hooks.OnCacheHit(ctx, keyTypeLayout)
	return rec, true
}

// cachedArtifacts returns every requested format from the cache. JSON
// output is rebuilt from the cached placements when it is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, jobHash string, rec layoutRecord, opts Options) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(jobHash, opts.LayoutKeyOpts(), opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
		if format != FormatJSON {
			return nil, false
		}
		data, err := MarshalPlacements(rec.Features)
		if err != nil {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
