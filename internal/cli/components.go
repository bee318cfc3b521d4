package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	graphio "github.com/matzehuels/uniquepaths/pkg/io"
	"github.com/matzehuels/uniquepaths/pkg/scc"
)

// componentsCommand creates the components command, which splits a graph
// into work units for distributed sampling.
func (c *CLI) componentsCommand() *cobra.Command {
	var (
		output   string
		list     bool
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "components <graph>",
		Short: "Write the cyclic components of a graph as work units",
		Long: `Decompose a graph into strongly connected components and write every cyclic
component as a work unit:

  <unit>: <component> <from> <to> <weight>
  <unit>: <component> in <node>
  <unit>: <component> out <node>

Units can be split across machines, sampled with "aggregate", and the
results fed back with "count --results".`,
		Example: `  uniquepaths components graph.txt -o units.txt
  uniquepaths components graph.txt --list`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-depth") {
				maxDepth = c.config.Traversal.MaxDepth
			}
			return c.runComponents(cmd.Context(), args[0], output, list, maxDepth)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&list, "list", false, "print a table instead of work units")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "bound on the decomposition stack (0 = unbounded)")

	return cmd
}

func (c *CLI) runComponents(_ context.Context, input, output string, list bool, maxDepth int) error {
	prog := newProgress(c.Logger)
	g, err := graphio.Import(input)
	if err != nil {
		return err
	}
	d, err := scc.Decompose(g, &scc.Options{MaxDepth: maxDepth})
	if err != nil {
		return err
	}
	cyclic := cyclicComponents(d.Components)
	c.Logger.Debug("decomposed graph", "components", d.Len(), "cyclic", len(cyclic))

	if list {
		if len(cyclic) == 0 {
			printInfo("%s is acyclic: %d singleton components", input, d.Len())
			return nil
		}
		printComponentTable(cyclic)
		return nil
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := graphio.WriteWorkUnits(out, cyclic); err != nil {
		return err
	}

	if output != "" {
		prog.done(fmt.Sprintf("Wrote %d work units", len(cyclic)))
		printFile(output)
		printNextStep("Sample them", fmt.Sprintf("%s aggregate %s -o results.txt", appName, output))
	}
	return nil
}

// cyclicComponents returns the components with more than one node.
func cyclicComponents(comps []*scc.Component[int]) []*scc.Component[int] {
	var out []*scc.Component[int]
	for _, c := range comps {
		if !c.IsTrivial() {
			out = append(out, c)
		}
	}
	return out
}
