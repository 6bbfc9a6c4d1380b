// Package cache stores computed layouts and rendered artifacts between runs.
//
// Values are opaque byte slices addressed by string keys. Keys are produced
// by a [Keyer] so that every backend sees the same namespace layout:
//
//	layout:<sha256>    sorted order and packing table for one dataset+metric
//	artifact:<sha256>  rendered SVG or JSON frame for one layout+viewport
//
// Backends:
//
//   - [NullCache] never stores anything (--no-cache)
//   - [MemoryCache] keeps entries in process (the HTTP server default)
//   - [FileCache] writes one JSON file per entry (the CLI default)
//   - [RedisCache] and [MongoCache] share a cache between server replicas
//
// Use [Open] to pick a backend from configuration.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A zero ttl means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys. Implementations must be deterministic.
type Keyer interface {
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a computed layout.
type LayoutKeyOpts struct {
	Metric    string  `json:"metric"`
	Reference *int    `json:"reference,omitempty"`
	GapRatio  float64 `json:"gap_ratio,omitempty"`
	FixedGap  float64 `json:"fixed_gap,omitempty"`
}

// ArtifactKeyOpts are the inputs that change a rendered frame.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Index    float64 `json:"index"`
	Spacing  float64 `json:"spacing"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Unit     float64 `json:"unit,omitempty"`
	Labels   bool    `json:"labels,omitempty"`
	MaxScale float64 `json:"max_scale,omitempty"`
	Zoom     float64 `json:"zoom,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns the key for a layout of the dataset with the given hash.
func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

// ArtifactKey returns the key for a rendering of the given layout.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
