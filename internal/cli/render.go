package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uniquepaths/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: "svg", "dot", "png", "pdf", "json"
	detailed bool     // component statistics in node labels
	scale    float64  // PNG scale factor
}

// renderCommand creates the render command for drawing the condensation.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      runFlags
		formatsStr string
		opts       renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render <graph>",
		Short: "Draw the condensation of a graph",
		Long: `Count paths from --start to --end, then draw the condensation: one node per
strongly connected component, cyclic components filled, the components of
the start and end node outlined. Edge labels give the number of original
edges between two components with --detailed.`,
		Example: `  uniquepaths render graph.txt -s 1 -e 5
  uniquepaths render graph.txt -s 1 -e 5 -f svg,dot,json --detailed -o out/graph`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			runOpts, err := c.options(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], runOpts, flags.noCache, &opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show component statistics and edge counts")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")

	return cmd
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file for one format. A single format with an
// explicit output is written there unchanged.
func outputPath(format, input string, opts *renderOpts) string {
	if len(opts.formats) == 1 && opts.output != "" {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, runOpts pipeline.Options, noCache bool, opts *renderOpts) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, runOpts)
	if err != nil {
		return err
	}

	artifacts, err := pipeline.Render(ctx, res, runOpts.Start, runOpts.End, pipeline.RenderOptions{
		Formats:  opts.formats,
		Detailed: opts.detailed,
		Scale:    opts.scale,
	})
	if err != nil {
		return err
	}

	printSuccess("%s from %d to %d", formatResult(res.Estimate), runOpts.Start, runOpts.End)
	for _, format := range opts.formats {
		path := outputPath(format, input, opts)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		c.Logger.Debugf("Generated %s: %d bytes", format, len(artifacts[format]))
		printFile(path)
	}
	return nil
}
