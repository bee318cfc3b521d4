// Package pkg provides the libraries behind uniquepaths, an estimator for
// the number of simple paths between two nodes of a large directed graph.
//
// # Overview
//
// Counting simple paths exactly is #P-hard, so uniquepaths splits the graph
// into strongly connected components, samples random self-avoiding walks
// inside each cyclic component, and combines the per-component statistics
// with an exact dynamic program over the acyclic condensation:
//
//	Edge list / JSON graph
//	         ↓
//	    [graph] package (arena graph with visited flags)
//	         ↓
//	    [scc] package (Tarjan decomposition, boundary nodes, contraction)
//	         ↓
//	    [estimate] package (pilot run + importance-weighted sampling)
//	         ↓
//	    [paths] package (condensation traversal, exact counter)
//	         ↓
//	    count and average path length
//
// # Quick Start
//
//	g := graph.New[int]()
//	g.AddEdge(1, 3)
//	g.AddEdge(3, 2)
//	g.AddEdge(2, 1)
//	g.AddEdge(1, 4)
//	g.AddEdge(4, 5)
//
//	d, _ := scc.Decompose(g, nil)
//	_ = scc.AggregateAll(ctx, d.Components, nil)
//	cond := scc.Contract(d)
//
//	s, _ := cond.SuperNodeOf(1)
//	e, _ := cond.SuperNodeOf(5)
//	res, _ := paths.CondensationTraversal(g, cond, s.Representative, e.Representative, 1, 5, nil)
//	// res.Count == 1, res.AvgLength == 2
//
// Most callers use [pipeline] instead, which adds caching, run reports and
// rendering on top of the same stages.
//
// # Main Packages
//
// [graph] - Generic directed graph with integer edge weights and per-node
// visited flags used by walks and traversals.
//
// [scc] - Strongly connected components with in/out boundary nodes,
// contraction into a condensation, and concurrent per-component sampling.
//
// [estimate] - The sampling estimator: a pilot run learns edge preferences,
// the sampling run weights each accepted walk by its inverse probability.
//
// [paths] - Exhaustive counting for validation and the condensation
// traversal combining component statistics along a topological order.
//
// [io] - Edge lists, JSON graphs, work units and component results, the
// interchange formats for distributing component sampling.
//
// ## Infrastructure
//
// [pipeline] - Load → decompose → aggregate → contract → traverse, with TOML
// configuration. Used by the CLI and the HTTP server.
//
// [cache] - Component and run results keyed by content hash. File, Redis and
// null backends.
//
// [store] - Run reports in memory or MongoDB.
//
// [observability] - Pipeline, cache and HTTP hooks with a Prometheus
// implementation.
//
// [server] - HTTP API over the pipeline.
//
// [render/nodelink] - Graphviz drawings of the condensation.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/scc/...                # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/uniquepaths/pkg/graph
// [scc]: https://pkg.go.dev/github.com/matzehuels/uniquepaths/pkg/scc
// [estimate]: https://pkg.go.dev/github.com/matzehuels/uniquepaths/pkg/estimate
// [paths]: https://pkg.go.dev/github.com/matzehuels/uniquepaths/pkg/paths
// [io]: https://pkg.go.dev/github.com/matzehuels/uniquepaths/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/uniquepaths/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/uniquepaths/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/uniquepaths/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/uniquepaths/pkg/observability
// [server]: https://pkg.go.dev/github.com/matzehuels/uniquepaths/pkg/server
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/uniquepaths/pkg/render/nodelink
package pkg
