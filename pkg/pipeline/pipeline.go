// Package pipeline provides the core optimization pipeline for sopnet.
//
// This package implements the complete load → optimize → export pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Deserialize the input network and validate its structure
//  2. Optimize: Run divisor extraction to reduce the literal count
//  3. Export: Generate output in various formats (JSON, DOT, SVG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   networkJSON,
//	    Formats: []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tkoenig/sopnet/pkg/cache"
	"github.com/tkoenig/sopnet/pkg/fastx"
	"github.com/tkoenig/sopnet/pkg/network"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxNewNodes is the ceiling on nodes the optimizer may add in
	// one pass.
	DefaultMaxNewNodes = fastx.DefaultMaxNewNodes

	// DefaultMinSaving is the minimum literal saving required before the
	// optimizer extracts a divisor.
	DefaultMinSaving = 1
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the optimization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input is the serialized network document.
	Input []byte `json:"input,omitempty"`

	// Optimize options
	MaxNewNodes int  `json:"max_new_nodes,omitempty"`
	MinSaving   int  `json:"min_saving,omitempty"`
	Refresh     bool `json:"refresh,omitempty"` // bypass the optimize cache

	// Export options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // verbose node labels in diagrams

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Engine overrides the default greedy extraction engine. Cache keys do
	// not account for a custom engine; pair this with Refresh or a
	// disabled cache.
	Engine fastx.Engine `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Network is the optimized network.
	Network *network.Network

	// NetworkHash is the content hash of the optimized network.
	NetworkHash string

	// Changed reports whether optimization modified the network.
	Changed bool

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount      int
	LiteralsBefore int
	LiteralsAfter  int
	LoadTime       time.Duration
	OptimizeTime   time.Duration
	ExportTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	OptimizeHit bool // Whether the optimized network came from cache
	ExportHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Input) == 0 {
		return fmt.Errorf("input is required")
	}
	o.SetOptimizeDefaults()
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetOptimizeDefaults sets default values for the optimize stage.
func (o *Options) SetOptimizeDefaults() {
	if o.MaxNewNodes == 0 {
		o.MaxNewNodes = DefaultMaxNewNodes
	}
	if o.MinSaving == 0 {
		o.MinSaving = DefaultMinSaving
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Engine == nil {
		o.Engine = &fastx.GreedyEngine{MinSaving: o.MinSaving}
	}
}

// ValidateForExport validates and sets defaults for the export stage.
func (o *Options) ValidateForExport() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// OptimizeKeyOpts returns cache key options for the optimize stage.
func (o *Options) OptimizeKeyOpts() cache.OptimizeKeyOpts {
	return cache.OptimizeKeyOpts{
		MaxNewNodes: o.MaxNewNodes,
		MinSaving:   o.MinSaving,
	}
}

// ExportKeyOpts returns cache key options for one exported format.
func (o *Options) ExportKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{Format: format}
}
