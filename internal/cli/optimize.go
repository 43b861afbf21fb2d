package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tkoenig/sopnet/pkg/pipeline"
)

// optimizeOpts holds the command-line flags for the optimize command.
type optimizeOpts struct {
	output      string // output file path (single format) or base path (multiple)
	maxNewNodes int    // ceiling on nodes added in one pass
	minSaving   int    // minimum literal saving per extracted divisor
	detailed    bool   // verbose node labels in diagram formats
	refresh     bool   // bypass the optimize cache
	noCache     bool   // disable caching entirely
}

// optimizeCommand creates the optimize command. It runs divisor extraction
// on a network file and writes the result in the requested formats.
func (c *CLI) optimizeCommand() *cobra.Command {
	var formatsStr string
	opts := optimizeOpts{}

	cmd := &cobra.Command{
		Use:   "optimize [file]",
		Short: "Extract shared divisors to reduce a network's literal count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runOptimize(cmd, args[0], formats, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg (comma-separated)")
	cmd.Flags().IntVar(&opts.maxNewNodes, "max-new-nodes", c.Config.Optimize.MaxNewNodes, "maximum nodes added in one pass")
	cmd.Flags().IntVar(&opts.minSaving, "min-saving", c.Config.Optimize.MinSaving, "minimum literal saving per divisor")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "verbose node labels in diagrams")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable result caching")

	return cmd
}

func (c *CLI) runOptimize(cmd *cobra.Command, input string, formats []string, opts *optimizeOpts) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(cmd.Context(), "Optimizing "+filepath.Base(input))
	spin.Start()

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Input:       data,
		MaxNewNodes: opts.maxNewNodes,
		MinSaving:   opts.minSaving,
		Formats:     formats,
		Detailed:    opts.detailed,
		Refresh:     opts.refresh,
		Logger:      c.Logger,
	})
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Optimization failed: %v", err))
		return err
	}

	if result.Changed {
		spin.StopWithSuccess(fmt.Sprintf("Reduced literals %d → %d",
			result.Stats.LiteralsBefore, result.Stats.LiteralsAfter))
	} else {
		spin.StopWithSuccess("No beneficial extraction found")
	}
	printStats(result.Stats.NodeCount, result.Stats.LiteralsAfter, result.CacheInfo.OptimizeHit)
	prog.done("Optimized network")

	return writeArtifacts(result.Artifacts, formats, opts.output, input)
}

// writeArtifacts writes each requested format to disk. With a single format
// the output path is used as-is; with several, it becomes the base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) error {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input)) + "_opt"
	} else if len(formats) > 1 {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	for _, format := range formats {
		path := base
		if len(formats) > 1 || output == "" || filepath.Ext(output) == "" {
			path = base + "." + format
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
