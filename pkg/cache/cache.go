// Package cache stores computed placements and rendered artifacts so that
// repeated runs of the same job skip the layout and render stages.
//
// Two backends are provided: [FileCache] keeps entries as JSON files under
// a directory (the CLI uses the XDG cache directory), and [NullCache]
// disables caching. Keys are built by a [Keyer] from a content hash of the
// job and the options that influence the output.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired and
	// corrupt entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts are the options that change the computed placements.
// Axis captions belong here because backends that reserve room for them
// shrink the plot area, which moves and resizes the label boxes.
type LayoutKeyOpts struct {
	Backend         string     `json:"backend"`
	Width           float64    `json:"width"`
	Height          float64    `json:"height"`
	AxesRect        [4]float64 `json:"axes_rect"`
	XLabel          string     `json:"x_label,omitempty"`
	YLabel          string     `json:"y_label,omitempty"`
	LabelSize       float64    `json:"label_size"`
	BoxAnchorOffset float64    `json:"box_anchor_offset"`
	MaxIter         int        `json:"max_iter"`
	AdjustFactor    float64    `json:"adjust_factor"`
	FactorDecrement float64    `json:"factor_decrement"`
	FdP             float64    `json:"fd_p"`
}

// ArtifactKeyOpts are the options that change a rendered artifact on top
// of the placements.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(jobHash string, opts LayoutKeyOpts) string
	ArtifactKey(jobHash string, layout LayoutKeyOpts, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes option structs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(jobHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", jobHash, opts)
}

func (DefaultKeyer) ArtifactKey(jobHash string, layout LayoutKeyOpts, opts ArtifactKeyOpts) string {
	return hashKey("artifact", jobHash, layout, opts)
}
