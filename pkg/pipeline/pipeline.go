// Package pipeline provides the counting pipeline shared by the CLI and
// the HTTP server.
//
// This package implements the complete load → decompose → aggregate →
// contract → traverse pipeline. By centralizing this logic, the CLI, the
// server and batch workers apply the same defaults and the same caching.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Load: read the graph from an edge list or JSON file (or take it as is)
//  2. Decompose: split the graph into strongly connected components
//  3. Aggregate: estimate path statistics inside every cyclic component,
//     reusing cached statistics for components seen before
//  4. Contract: collapse components into the acyclic condensation graph
//  5. Traverse: count paths over the condensation and combine the result
//     with the boundary factors of the start and end components
//
// An optional exact stage enumerates every simple path as ground truth.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input: "graph.txt",
//	    Start: 1,
//	    End:   5,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Estimate.Count, result.Estimate.AvgLength)
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uniquepaths/pkg/cache"
	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/estimate"
	"github.com/matzehuels/uniquepaths/pkg/graph"
	"github.com/matzehuels/uniquepaths/pkg/paths"
	"github.com/matzehuels/uniquepaths/pkg/scc"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = estimate.DefaultSeed

	// DefaultGating is the default boundary factor gating.
	DefaultGating = paths.GatingCrossed

	// DefaultCombine is the default way boundary lengths join the DAG average.
	DefaultCombine = paths.CombineAdditive

	// DefaultComponentTTL is how long component statistics stay cached.
	DefaultComponentTTL = 30 * 24 * time.Hour

	// DefaultRunTTL is how long whole-run results stay cached.
	DefaultRunTTL = 7 * 24 * time.Hour
)

// Cache key types reported to observability hooks.
const (
	keyTypeComponent = "component"
	keyTypeRun       = "run"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one counting run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options
	Input string `json:"input,omitempty"` // edge list or .json file
	Start int    `json:"start"`
	End   int    `json:"end"`

	// Estimator options
	Estimator estimate.Options `json:"estimator"`
	Seed      uint64           `json:"seed,omitempty"`
	Workers   int              `json:"workers,omitempty"`

	// Traversal options
	Gating   paths.Gating  `json:"gating,omitempty"`
	Combine  paths.Combine `json:"combine,omitempty"`
	MaxDepth int           `json:"max_depth,omitempty"` // Tarjan frame stack bound

	// Exact runs the exhaustive counter as well.
	Exact         bool `json:"exact,omitempty"`
	ExactMaxDepth int  `json:"exact_max_depth,omitempty"`

	// Refresh ignores cached results (new results are still written).
	Refresh bool `json:"refresh,omitempty"`

	// Results holds precomputed component statistics keyed by component
	// ID, as written by WriteResults. Runs using them bypass the run cache.
	Results map[int]estimate.Result `json:"-"`

	// Runtime options (not serialized)
	Graph  *graph.Graph[int] `json:"-"` // used instead of Input when set
	Logger *log.Logger       `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Estimate is the estimated number of simple paths and their average length.
	Estimate estimate.Result

	// Exact is the exhaustive count, when requested.
	Exact *estimate.Result

	// Breakdown holds the parts Estimate is assembled from.
	Breakdown paths.Breakdown

	// Graph is the input graph.
	Graph *graph.Graph[int]

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Condensation holds the decomposition and its contracted graph.
	Condensation *scc.Condensation[int]

	// ReportID identifies the stored run report, if a store is configured.
	ReportID string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount        int
	EdgeCount        int
	Components       int
	CyclicComponents int
	LargestComponent int
	LoadTime         time.Duration
	DecomposeTime    time.Duration
	AggregateTime    time.Duration
	TraverseTime     time.Duration
	ExactTime        time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RunHit          bool `json:"run_hit"`          // Whether the whole result came from cache
	ComponentHits   int  `json:"component_hits"`   // Components whose statistics came from cache
	ComponentMisses int  `json:"component_misses"` // Components that had to be sampled
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Graph == nil && o.Input == "" {
		return errs.New(errs.ErrCodeInvalidInput, "input graph is required")
	}
	if err := o.Estimator.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if err := o.traversal().ValidateAndSetDefaults(); err != nil {
		return err
	}
	o.SetDefaults()
	o.validated = true
	return nil
}

// SetDefaults fills zero fields without validating.
func (o *Options) SetDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Gating == "" {
		o.Gating = DefaultGating
	}
	if o.Combine == "" {
		o.Combine = DefaultCombine
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func (o *Options) traversal() *paths.TraversalOptions {
	return &paths.TraversalOptions{Gating: o.Gating, Combine: o.Combine}
}

// ComponentKeyOpts returns cache key options for component statistics.
func (o *Options) ComponentKeyOpts() cache.ComponentKeyOpts {
	return cache.ComponentKeyOpts{
		PilotWalks:  o.Estimator.PilotWalks,
		SampleWalks: o.Estimator.SampleWalks,
		MinBias:     o.Estimator.MinBias,
		Seed:        o.Seed,
	}
}

// RunKeyOpts returns cache key options for a whole run.
func (o *Options) RunKeyOpts() cache.RunKeyOpts {
	return cache.RunKeyOpts{
		Start:     o.Start,
		End:       o.End,
		Gating:    string(o.Gating),
		Combine:   string(o.Combine),
		Exact:     o.Exact,
		Component: o.ComponentKeyOpts(),
	}
}
