package scc

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/uniquepaths/pkg/estimate"
)

// ComputeInternalStatistics estimates the number of simple paths and their
// average length for every (in-node, out-node) pair of c, on c's private
// graph, and aggregates them into the component total.
//
// The total length is the count-weighted mean over all pairs; a component
// with no estimated paths reports (0, 0). A total beyond MaxCount saturates. Trivial components keep the
// pass-through statistic and are not sampled.
func ComputeInternalStatistics[T comparable](c *Component[T], est *estimate.Estimator) error {
	if c.IsTrivial() {
		return nil
	}

	var stats estimate.Result
	var weighted float64
	for _, p := range c.Pairs() {
		r, err := estimate.Estimate(est, c.graph, p.In, p.Out)
		if err != nil {
			return err
		}
		c.pairs[p] = r
		var sat bool
		stats.Count, sat = estimate.AddCounts(stats.Count, r.Count)
		stats.Saturated = stats.Saturated || sat || r.Saturated
		weighted += float64(r.Count) * r.AvgLength
	}

	if stats.Count > 0 {
		stats.AvgLength = weighted / float64(stats.Count)
	}
	c.SetStatistics(stats)
	return nil
}

// AggregateOptions controls [AggregateAll].
type AggregateOptions struct {
	Estimator *estimate.Options
	Seed      uint64
	Workers   int // 0 means GOMAXPROCS

	// Done, when set, is called after each component is estimated. It may
	// be called from several goroutines at once.
	Done func(id int, size int, stats estimate.Result)
}

// ComponentSeed derives the generator seed for one component so that
// parallel runs are reproducible regardless of scheduling.
func ComponentSeed(seed uint64, id int) uint64 {
	return seed ^ (uint64(id)+1)*0x9e3779b97f4a7c15
}

// AggregateAll runs ComputeInternalStatistics for every non-trivial
// component that has no statistics yet. Components are processed
// concurrently; each goroutine works on its own component with its own
// estimator and generator, so no state is shared.
func AggregateAll[T comparable](ctx context.Context, comps []*Component[T], opts *AggregateOptions) error {
	if opts == nil {
		opts = &AggregateOptions{Seed: estimate.DefaultSeed}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, c := range comps {
		if c.Computed() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			est := estimate.New(opts.Estimator, estimate.NewRand(ComponentSeed(opts.Seed, c.ID)))
			if err := ComputeInternalStatistics(c, est); err != nil {
				return err
			}
			if opts.Done != nil {
				opts.Done(c.ID, c.Size(), c.Stats())
			}
			return nil
		})
	}
	return g.Wait()
}
