package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uniquepaths/pkg/cache"
	"github.com/matzehuels/uniquepaths/pkg/estimate"
	"github.com/matzehuels/uniquepaths/pkg/graph"
	graphio "github.com/matzehuels/uniquepaths/pkg/io"
	"github.com/matzehuels/uniquepaths/pkg/observability"
	"github.com/matzehuels/uniquepaths/pkg/paths"
	"github.com/matzehuels/uniquepaths/pkg/scc"
	"github.com/matzehuels/uniquepaths/pkg/store"
)

// retryBase is the first backoff delay for retryable cache writes.
const retryBase = 50 * time.Millisecond

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, store and logger - it
// doesn't keep pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // optional; nil disables run reports
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

// runRecord is the cached form of a whole run.
type runRecord struct {
	Estimate  estimate.Result  `json:"estimate"`
	Exact     *estimate.Result `json:"exact,omitempty"`
	Breakdown paths.Breakdown  `json:"breakdown"`
}

// Execute runs the complete load → decompose → aggregate → contract →
// traverse pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	result, err := r.execute(ctx, &opts)

	var count int64
	if result != nil {
		count = result.Estimate.Count
	}
	observability.Pipeline().OnRunComplete(ctx, count, time.Since(start), err)
	return result, err
}

func (r *Runner) execute(ctx context.Context, opts *Options) (*Result, error) {
	r.applyLogger(opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	start := time.Now()
	result := &Result{}

	// Stage 1: Load
	var err error
	result.Stats.LoadTime, err = stage(ctx, observability.StageLoad, func() error {
		result.Graph, err = r.Load(*opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	g := result.Graph
	result.Stats.NodeCount = g.Size()
	result.Stats.EdgeCount = g.EdgeCount()
	if _, err := g.Node(opts.Start); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if _, err := g.Node(opts.End); err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	result.GraphHash = GraphHash(g)

	logger.Info("loaded graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.LoadTime)

	runKey := r.Keyer.RunKey(result.GraphHash, opts.RunKeyOpts())
	var record runRecord
	if !opts.Refresh && opts.Results == nil {
		record, result.CacheInfo.RunHit = r.lookupRun(ctx, runKey)
	}

	// Stage 2: Decompose
	var d *scc.Decomposition[int]
	result.Stats.DecomposeTime, err = stage(ctx, observability.StageDecompose, func() error {
		d, err = scc.Decompose(g, &scc.Options{MaxDepth: opts.MaxDepth})
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Stats.Components = d.Len()
	for _, c := range d.Components {
		if !c.IsTrivial() {
			result.Stats.CyclicComponents++
		}
		result.Stats.LargestComponent = max(result.Stats.LargestComponent, c.Size())
	}

	logger.Info("decomposed graph",
		"components", result.Stats.Components,
		"cyclic", result.Stats.CyclicComponents,
		"largest", result.Stats.LargestComponent,
		"duration", result.Stats.DecomposeTime)

	if opts.Results != nil {
		if err := graphio.ApplyResults(d.Components, opts.Results); err != nil {
			return nil, fmt.Errorf("apply results: %w", err)
		}
		logger.Info("applied component results", "components", len(opts.Results))
	}

	// Stage 3: Aggregate
	if !result.CacheInfo.RunHit {
		result.Stats.AggregateTime, err = stage(ctx, observability.StageAggregate, func() error {
			info, err := r.Aggregate(ctx, d.Components, *opts)
			result.CacheInfo.ComponentHits = info.ComponentHits
			result.CacheInfo.ComponentMisses = info.ComponentMisses
			return err
		})
		if err != nil {
			return nil, err
		}
		logger.Info("aggregated components",
			"sampled", result.CacheInfo.ComponentMisses,
			"cached", result.CacheInfo.ComponentHits,
			"duration", result.Stats.AggregateTime)
	}

	// Stage 4: Contract
	_, _ = stage(ctx, observability.StageContract, func() error {
		result.Condensation = scc.Contract(d)
		return nil
	})

	if result.CacheInfo.RunHit {
		result.Estimate = record.Estimate
		result.Exact = record.Exact
		result.Breakdown = record.Breakdown
		logger.Info("counted paths", "count", result.Estimate.Count, "avg_length", result.Estimate.AvgLength, "cached", true)
		return result, r.save(ctx, opts, result, time.Since(start))
	}

	// Stage 5: Traverse
	result.Stats.TraverseTime, err = stage(ctx, observability.StageTraverse, func() error {
		result.Breakdown, err = r.traverse(result.Condensation, g, *opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Estimate = result.Breakdown.Total

	logger.Info("counted paths",
		"count", result.Estimate.Count,
		"avg_length", result.Estimate.AvgLength,
		"duration", result.Stats.TraverseTime)
	if result.Estimate.Saturated {
		logger.Warn("path count exceeds int64, reporting the maximum", "count", result.Estimate.Count)
	}

	// Optional exact stage
	if opts.Exact {
		result.Stats.ExactTime, err = stage(ctx, observability.StageExact, func() error {
			exact, err := paths.ExactCount(g, opts.Start, opts.End, &paths.ExactOptions{MaxDepth: opts.ExactMaxDepth})
			result.Exact = &exact
			return err
		})
		if err != nil {
			return nil, err
		}
		logger.Info("enumerated paths",
			"count", result.Exact.Count,
			"avg_length", result.Exact.AvgLength,
			"duration", result.Stats.ExactTime)
	}

	if opts.Results == nil {
		r.storeRun(ctx, runKey, runRecord{
			Estimate:  result.Estimate,
			Exact:     result.Exact,
			Breakdown: result.Breakdown,
		}, logger)
	}

	return result, r.save(ctx, opts, result, time.Since(start))
}

// Load returns opts.Graph or reads opts.Input.
func (r *Runner) Load(opts Options) (*graph.Graph[int], error) {
	if opts.Graph != nil {
		return opts.Graph, nil
	}
	return graphio.Import(opts.Input)
}

// Aggregate fills the statistics of every uncomputed component in comps.
// Statistics cached under the same work unit content and estimator
// settings are reused unless opts.Refresh is set; the rest are sampled
// concurrently and written back to the cache.
func (r *Runner) Aggregate(ctx context.Context, comps []*scc.Component[int], opts Options) (CacheInfo, error) {
	if err := opts.Estimator.ValidateAndSetDefaults(); err != nil {
		return CacheInfo{}, err
	}
	r.applyLogger(&opts)
	opts.SetDefaults()
	logger := opts.Logger
	cacheHooks := observability.Cache()
	keyOpts := opts.ComponentKeyOpts()

	var info CacheInfo
	keys := make(map[int]string)
	var pending []*scc.Component[int]
	for _, c := range comps {
		if c.Computed() {
			continue
		}
		key := r.Keyer.ComponentKey(UnitHash(c), keyOpts)
		if !opts.Refresh {
			stats, hit, err := cache.GetJSON[estimate.Result](ctx, r.Cache, key)
			if err != nil {
				logger.Warn("component cache lookup failed", "component", c.ID, "err", err)
			}
			if hit {
				c.SetStatistics(stats)
				info.ComponentHits++
				cacheHooks.OnCacheHit(ctx, keyTypeComponent)
				continue
			}
		}
		cacheHooks.OnCacheMiss(ctx, keyTypeComponent)
		keys[c.ID] = key
		pending = append(pending, c)
	}
	info.ComponentMisses = len(pending)

	err := scc.AggregateAll(ctx, pending, &scc.AggregateOptions{
		Estimator: &opts.Estimator,
		Seed:      opts.Seed,
		Workers:   opts.Workers,
		Done: func(id, size int, stats estimate.Result) {
			observability.Pipeline().OnComponentAggregated(ctx, size, stats.Count)
			logger.Debug("sampled component",
				"component", id,
				"nodes", size,
				"paths", stats.Count,
				"avg_length", stats.AvgLength)

			err := cache.RetryWithBackoff(ctx, retryBase, func() error {
				return cache.SetJSON(ctx, r.Cache, keys[id], stats, DefaultComponentTTL)
			})
			if err != nil {
				logger.Warn("component cache write failed", "component", id, "err", err)
				return
			}
			cacheHooks.OnCacheSet(ctx, keyTypeComponent, size)
		},
	})
	return info, err
}

// traverse counts paths over the condensation with a generator seeded
// from opts.Seed.
func (r *Runner) traverse(cond *scc.Condensation[int], g *graph.Graph[int], opts Options) (paths.Breakdown, error) {
	first, err := cond.SuperNodeOf(opts.Start)
	if err != nil {
		return paths.Breakdown{}, err
	}
	last, err := cond.SuperNodeOf(opts.End)
	if err != nil {
		return paths.Breakdown{}, err
	}
	to := opts.traversal()
	to.Estimator = estimate.New(&opts.Estimator, estimate.NewRand(opts.Seed))
	return paths.Traverse(g, cond, first.Representative, last.Representative, opts.Start, opts.End, to)
}

func (r *Runner) lookupRun(ctx context.Context, key string) (runRecord, bool) {
	record, hit, err := cache.GetJSON[runRecord](ctx, r.Cache, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeRun)
		return runRecord{}, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeRun)
	return record, true
}

func (r *Runner) storeRun(ctx context.Context, key string, record runRecord, logger *log.Logger) {
	err := cache.RetryWithBackoff(ctx, retryBase, func() error {
		return cache.SetJSON(ctx, r.Cache, key, record, DefaultRunTTL)
	})
	if err != nil {
		logger.Warn("run cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeRun, 0)
}

// save writes the run report when a store is configured.
func (r *Runner) save(ctx context.Context, opts *Options, result *Result, elapsed time.Duration) error {
	if r.Store == nil {
		return nil
	}
	report := &store.Report{
		GraphHash:        result.GraphHash,
		Nodes:            result.Stats.NodeCount,
		Edges:            result.Stats.EdgeCount,
		Start:            opts.Start,
		End:              opts.End,
		Gating:           string(opts.Gating),
		Combine:          string(opts.Combine),
		PilotWalks:       opts.Estimator.PilotWalks,
		SampleWalks:      opts.Estimator.SampleWalks,
		Seed:             int64(opts.Seed),
		Estimate:         result.Estimate,
		Exact:            result.Exact,
		Components:       result.Stats.Components,
		LargestComponent: result.Stats.LargestComponent,
		CachedComponents: result.CacheInfo.ComponentHits,
		Duration:         elapsed,
	}
	if err := r.Store.Save(ctx, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	result.ReportID = report.ID
	return nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(context.Background()); err == nil {
			err = serr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// stage runs fn between the stage hooks and prefixes its error with the
// stage name.
func stage(ctx context.Context, name string, fn func() error) (time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, name, d, err)
	if err != nil {
		return d, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// GraphHash returns the content hash of g over its JSON encoding, which
// keeps isolated nodes and weights.
func GraphHash(g *graph.Graph[int]) string {
	var buf bytes.Buffer
	_ = graphio.WriteJSON(g, &buf)
	return cache.Hash(buf.Bytes())
}

// UnitHash returns the content hash of a component's work unit with its
// index and ID zeroed, so equal components hash equally in any graph.
func UnitHash(c *scc.Component[int]) string {
	u := graphio.NewWorkUnit(0, c)
	u.ComponentID = 0
	return cache.Hash(u.Bytes())
}
