package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tkoenig/sopnet/pkg/cache"
	"github.com/tkoenig/sopnet/pkg/errors"
	"github.com/tkoenig/sopnet/pkg/fastx"
	"github.com/tkoenig/sopnet/pkg/network"
	"github.com/tkoenig/sopnet/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → optimize → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	nt, err := network.UnmarshalNetwork(opts.Input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidNetwork, err, "load network")
	}
	if err := nt.Check(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidNetwork, err, "network fails integrity checks")
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.LiteralsBefore = nt.Literals()

	r.Logger.Info("loaded network",
		"nodes", nt.NodeCount(),
		"literals", result.Stats.LiteralsBefore,
		"duration", result.Stats.LoadTime)

	// Stage 2: Optimize
	optStart := time.Now()
	opt, changed, optHit, err := r.OptimizeWithCacheInfo(ctx, nt, opts)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	result.Network = opt
	result.Changed = changed
	result.Stats.OptimizeTime = time.Since(optStart)
	result.Stats.NodeCount = opt.NodeCount()
	result.Stats.LiteralsAfter = opt.Literals()
	result.CacheInfo.OptimizeHit = optHit

	// Compute network hash for cache keys and API responses
	if data, err := network.MarshalNetwork(opt); err == nil {
		result.NetworkHash = cache.Hash(data)
	}

	r.Logger.Info("optimized network",
		"changed", changed,
		"literals", result.Stats.LiteralsAfter,
		"duration", result.Stats.OptimizeTime)

	// Stage 3: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, opt, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported outputs",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// OptimizeWithCacheInfo optimizes a network with caching and returns the
// optimized network, whether it changed, and cache hit info. The input
// network is never mutated; optimization works on a clone.
func (r *Runner) OptimizeWithCacheInfo(ctx context.Context, nt *network.Network, opts Options) (*network.Network, bool, bool, error) {
	opts.SetOptimizeDefaults()
	r.applyLogger(&opts)

	// Compute cache key from the input network's content
	input, err := network.MarshalNetwork(nt)
	if err != nil {
		return nil, false, false, fmt.Errorf("serialize network for cache key: %w", err)
	}
	cacheKey := r.Keyer.OptimizeKey(cache.Hash(input), opts.OptimizeKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := network.UnmarshalNetwork(data)
			if err == nil {
				return cached, !cached.Equal(nt), true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}

	// Optimize
	work := nt.Clone()
	changed, err := fastx.Run(work, opts.Engine, fastx.Options{
		MaxNewNodes: opts.MaxNewNodes,
		Logger:      opts.Logger,
	})
	if err != nil {
		return nil, false, false, err
	}

	// Cache the result
	if data, err := network.MarshalNetwork(work); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLOptimize)
	}

	return work, changed, false, nil // Cache miss
}

// Optimize is a convenience wrapper that calls OptimizeWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Optimize(ctx context.Context, nt *network.Network, opts Options) (*network.Network, bool, error) {
	opt, changed, _, err := r.OptimizeWithCacheInfo(ctx, nt, opts)
	return opt, changed, err
}

// ExportWithCacheInfo generates artifacts with caching and returns cache hit
// info.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, nt *network.Network, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the network's content
	data, err := network.MarshalNetwork(nt)
	if err != nil {
		return nil, false, fmt.Errorf("serialize network for cache key: %w", err)
	}
	networkHash := cache.Hash(data)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.RenderKey(networkHash, opts.ExportKeyOpts(format))
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = cached
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Export all formats
	exported, err := exportFormats(nt, data, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, artifact := range exported {
		cacheKey := r.Keyer.RenderKey(networkHash, opts.ExportKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, artifact, cache.TTLRender)
	}

	return exported, false, nil // Cache miss
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Export(ctx context.Context, nt *network.Network, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, nt, opts)
	return artifacts, err
}

// exportFormats generates every requested format. The serialized network is
// passed in so the JSON format does not re-marshal.
func exportFormats(nt *network.Network, data []byte, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			artifacts[format] = data
		case FormatDOT:
			artifacts[format] = []byte(render.ToDOT(nt, render.Options{Detailed: opts.Detailed}))
		case FormatSVG:
			dot := render.ToDOT(nt, render.Options{Detailed: opts.Detailed})
			svg, err := render.SVG(dot)
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			artifacts[format] = svg
		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
