package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uniquepaths/pkg/estimate"
	graphio "github.com/matzehuels/uniquepaths/pkg/io"
	"github.com/matzehuels/uniquepaths/pkg/paths"
	"github.com/matzehuels/uniquepaths/pkg/pipeline"
)

// estimatorFlags are the sampling flags shared by count, render and
// aggregate. Unset flags keep the configured values.
type estimatorFlags struct {
	pilot   int
	samples int
	minBias float64
	seed    uint64
	workers int
	noCache bool
	refresh bool
}

func (f *estimatorFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.pilot, "pilot", 0, "pilot walks per sampled pair (default 2000)")
	flags.IntVar(&f.samples, "samples", 0, "sampling walks per sampled pair (default 50000)")
	flags.Float64Var(&f.minBias, "min-bias", 0, "lower bound on learned edge probabilities (default 0.01)")
	flags.Uint64Var(&f.seed, "seed", 0, "random seed (default 42)")
	flags.IntVar(&f.workers, "workers", 0, "components sampled concurrently (default GOMAXPROCS)")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	flags.BoolVar(&f.refresh, "refresh", false, "ignore cached results and resample")
}

func (f *estimatorFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if flags.Changed("pilot") {
		opts.Estimator.PilotWalks = f.pilot
	}
	if flags.Changed("samples") {
		opts.Estimator.SampleWalks = f.samples
	}
	if flags.Changed("min-bias") {
		opts.Estimator.MinBias = f.minBias
	}
	if flags.Changed("seed") {
		opts.Seed = f.seed
	}
	if flags.Changed("workers") {
		opts.Workers = f.workers
	}
	opts.Refresh = f.refresh
}

// runFlags add the endpoints and traversal settings of a full run.
type runFlags struct {
	estimatorFlags
	start    int
	end      int
	gating   string
	combine  string
	maxDepth int
	results  string
}

func (f *runFlags) register(cmd *cobra.Command) {
	f.estimatorFlags.register(cmd)
	flags := cmd.Flags()
	flags.IntVarP(&f.start, "start", "s", 0, "start node")
	flags.IntVarP(&f.end, "end", "e", 0, "end node")
	flags.StringVar(&f.gating, "gating", "", "component gating: crossed (default), own")
	flags.StringVar(&f.combine, "combine", "", "length combination: additive (default), multiplicative")
	flags.IntVar(&f.maxDepth, "max-depth", 0, "bound on the decomposition stack (0 = unbounded)")
	flags.StringVar(&f.results, "results", "", "precomputed component results (from aggregate)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

// options builds run options for input from the configuration and flags.
func (c *CLI) options(cmd *cobra.Command, input string, f *runFlags) (pipeline.Options, error) {
	opts := c.config.Options()
	opts.Input = input
	opts.Start = f.start
	opts.End = f.end
	opts.Logger = c.Logger
	f.estimatorFlags.apply(cmd, &opts)

	flags := cmd.Flags()
	if flags.Changed("gating") {
		opts.Gating = paths.Gating(f.gating)
	}
	if flags.Changed("combine") {
		opts.Combine = paths.Combine(f.combine)
	}
	if flags.Changed("max-depth") {
		opts.MaxDepth = f.maxDepth
	}
	if f.results != "" {
		results, err := readResults(f.results)
		if err != nil {
			return opts, err
		}
		opts.Results = results
	}
	return opts, opts.ValidateAndSetDefaults()
}

func readResults(path string) (map[int]estimate.Result, error) {
	file, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return graphio.ReadResults(file)
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// openInput returns stdin for "-" and the named file otherwise.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
