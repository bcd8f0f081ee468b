package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmorra/clampgen/pkg/pipeline"
)

// planCommand creates the plan command for routing a clamp cell.
func (c *CLI) planCommand() *cobra.Command {
	var (
		techPath   string
		cellFlag   string
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "plan [cell]",
		Short: "Plan clamp supply routing and render artifacts",
		Long: `Plan clamp supply routing and render artifacts.

The plan command reads a technology file, routes the VDD and VSS supply
nets of the chosen cell type from its pin layer up to the top routing
layer, and writes the rendered artifacts.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Cell = args[0]
			} else {
				opts.Cell = cellFlag
			}
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runPlan(cmd.Context(), techPath, opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&techPath, "tech", "t", "", "technology file (TOML)")
	cmd.Flags().StringVar(&cellFlag, "cell", "", "cell type name (alternative to positional arg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	// Plan flags
	cmd.Flags().IntVar(&opts.TopLayer, "top-layer", 0, "override the routing top layer")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png (comma-separated)")
	cmd.Flags().IntVar(&opts.Scale, "scale", 0, "SVG pixels per grid unit")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "draw net labels on wires")

	_ = cmd.MarkFlagRequired("tech")

	return cmd
}

// runPlan executes the plan pipeline and writes the artifacts.
func (c *CLI) runPlan(ctx context.Context, techPath string, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)

	techData, err := os.ReadFile(techPath)
	if err != nil {
		return fmt.Errorf("read technology file %s: %w", techPath, err)
	}
	logger.Debug("loaded technology", "path", techPath, "bytes", len(techData))
	opts.TechData = techData
	opts.Logger = logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Planning %s...", opts.Cell))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Planning failed")
		return err
	}
	spinner.Stop()

	printSuccess("Planned %s up to M%d", result.Layout.Cell, result.Layout.TopLayer)
	printStats(result.Stats.WireCount, result.Stats.PinCount, result.CacheInfo.PlanHit)

	if err := writeArtifacts(result.Artifacts, opts.Formats, opts.Cell, output); err != nil {
		return err
	}

	if len(opts.Formats) == 1 && opts.Formats[0] == pipeline.FormatSVG {
		printNewline()
		printNextStep("Inspect the plan data", fmt.Sprintf("clampgen plan %s --tech %s -f json", opts.Cell, techPath))
	}
	return nil
}

// writeArtifacts writes each rendered format to its own file.
// With a single format, output names the file directly; with multiple
// formats, output is used as the base path and the format becomes the
// extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, cell, output string) error {
	base := output
	if base == "" {
		base = cell
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))

	for _, format := range formats {
		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
