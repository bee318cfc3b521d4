package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uniquepaths/pkg/pipeline"
)

// countCommand creates the count command, the main entry point.
func (c *CLI) countCommand() *cobra.Command {
	var (
		flags   runFlags
		exact   bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "count <graph>",
		Short: "Estimate the number of simple paths between two nodes",
		Long: `Estimate the number of simple paths from --start to --end and their average
length. The graph is an edge list ("<from> <to>" per line) or a .json edge
document.

Component statistics are cached by content, so rerunning with a different
pair of nodes on the same graph only samples the entry and exit components.`,
		Example: `  uniquepaths count graph.txt -s 1 -e 5
  uniquepaths count graph.txt -s 1 -e 5 --exact --json
  uniquepaths count graph.txt -s 1 -e 5 --results results.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			opts.Exact = exact
			return c.runCount(cmd.Context(), opts, flags.noCache, jsonOut)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&exact, "exact", false, "also enumerate all paths exhaustively (small graphs only)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) runCount(ctx context.Context, opts pipeline.Options, noCache, jsonOut bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Counting paths from %d to %d...", opts.Start, opts.End))
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Summary())
	}
	printResult(res, opts.Start, opts.End)
	return nil
}
