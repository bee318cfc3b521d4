package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	graphio "github.com/matzehuels/uniquepaths/pkg/io"
	"github.com/matzehuels/uniquepaths/pkg/pipeline"
	"github.com/matzehuels/uniquepaths/pkg/scc"
)

// aggregateCommand creates the aggregate command, the worker side of
// distributed sampling.
func (c *CLI) aggregateCommand() *cobra.Command {
	var (
		flags  estimatorFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "aggregate <units>",
		Short: "Sample work units and write component results",
		Long: `Sample the internal path statistics of every work unit read from <units>
("-" for stdin) and write one result pair per component:

  <component> : <path count>
  <component> : <average length>`,
		Example: `  uniquepaths components graph.txt | uniquepaths aggregate - -o results.txt`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.config.Options()
			opts.Logger = c.Logger
			flags.apply(cmd, &opts)
			return c.runAggregate(cmd.Context(), args[0], output, opts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runAggregate(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	prog := newProgress(c.Logger)

	in, err := openInput(input)
	if err != nil {
		return err
	}
	units, err := graphio.ReadWorkUnits(in)
	in.Close()
	if err != nil {
		return err
	}
	comps := make([]*scc.Component[int], len(units))
	for i, u := range units {
		comps[i] = u.Component()
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	info, err := runner.Aggregate(ctx, comps, opts)
	if err != nil {
		return err
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := graphio.WriteResults(out, comps); err != nil {
		return err
	}

	c.Logger.Debug("aggregated work units", "sampled", info.ComponentMisses, "cached", info.ComponentHits)
	if output != "" {
		prog.done(fmt.Sprintf("Aggregated %d components (%d from cache)", len(comps), info.ComponentHits))
		printFile(output)
		printNextStep("Count with them", fmt.Sprintf("%s count <graph> -s <start> -e <end> --results %s", appName, output))
	}
	return nil
}
