// Package cache provides pluggable result caching for the optimization
// pipeline.
//
// Cache keys are derived from content hashes of the input network plus the
// options that influence the result, so a cached entry is valid for as long
// as it exists. Backends range from a no-op cache for one-shot CLI runs to
// Redis and MongoDB for the server deployment.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface implemented by all backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// TTLs per cached object class. Keys are content-addressed, so entries never
// go stale; the TTLs only bound storage growth.
const (
	// TTLOptimize is the lifetime of cached optimization results.
	TTLOptimize = 7 * 24 * time.Hour

	// TTLRender is the lifetime of cached render artifacts.
	TTLRender = 30 * 24 * time.Hour
)

// OptimizeKeyOpts are the options that affect an optimization result and
// therefore participate in its cache key.
type OptimizeKeyOpts struct {
	MaxNewNodes int `json:"max_new_nodes"`
	MinSaving   int `json:"min_saving"`
}

// RenderKeyOpts are the options that affect a rendered artifact.
type RenderKeyOpts struct {
	Format string `json:"format"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// OptimizeKey generates a key for an optimization result, derived from
	// the input network's content hash and the optimization options.
	OptimizeKey(networkHash string, opts OptimizeKeyOpts) string

	// RenderKey generates a key for a rendered artifact, derived from the
	// (optimized) network's content hash and the render options.
	RenderKey(networkHash string, opts RenderKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// OptimizeKey generates a key for an optimization result.
func (k *DefaultKeyer) OptimizeKey(networkHash string, opts OptimizeKeyOpts) string {
	return hashKey("optimize", networkHash, opts)
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(networkHash string, opts RenderKeyOpts) string {
	return hashKey("render", networkHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
