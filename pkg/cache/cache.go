// Package cache stores rendered export artifacts keyed by snapshot content.
//
// Rendering a 64×64 PNG is cheap but not free, and the HTTP server and the
// export command ask for the same artifact repeatedly while a drawing is
// unchanged. Keys are derived from a hash of the snapshot plus the render
// options, so any change to a cell produces a new key and stale entries are
// simply never read again.
//
//	c, _ := cache.NewFileCache(dir)
//	data, hit, err := cache.Artifact(ctx, c, cache.NewDefaultKeyer(), snap, opts, renderFn)
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/etchgrid/pkg/observability"
	"github.com/matzehuels/etchgrid/pkg/sketch"
)

// DefaultTTL bounds how long an artifact stays on disk.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data for ttl (0 means no expiry).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes an entry. Missing entries are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Container float64 `json:"container"`
	GridLines bool    `json:"grid_lines"`
}

// Keyer derives cache keys.
type Keyer interface {
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the snapshot hash together with the options.
func (DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", snapshotHash, opts)
}

// Artifact returns the cached artifact for snap, calling render and storing
// its output on a miss. The bool reports a cache hit. Cache read and write
// failures degrade to rendering; only render errors are returned.
func Artifact(ctx context.Context, c Cache, k Keyer, snap sketch.Snapshot, opts ArtifactKeyOpts, render func() ([]byte, error)) ([]byte, bool, error) {
	if c == nil {
		c = NewNullCache()
	}
	if k == nil {
		k = NewDefaultKeyer()
	}
	key := k.ArtifactKey(SnapshotHash(snap), opts)

	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	data, err := render()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, DefaultTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}
