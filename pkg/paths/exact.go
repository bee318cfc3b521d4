package paths

import (
	"fmt"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/estimate"
	"github.com/matzehuels/uniquepaths/pkg/graph"
)

// ExactOptions bounds the exhaustive counter.
type ExactOptions struct {
	// MaxDepth caps the length of the path under construction. Zero means
	// unbounded; exceeding it returns RESOURCE_EXHAUSTED.
	MaxDepth int `json:"max_depth,omitempty" toml:"max_depth"`
}

type frame struct {
	v    graph.NodeID
	next int
}

// ExactCount enumerates every simple path from start to end and returns
// their number and average length in edges. Nodes are marked only while
// they are on the current path. The running time is exponential in the
// worst case; use it as ground truth on small graphs.
//
// start == end yields the empty path (1, 0).
func ExactCount[T comparable](g *graph.Graph[T], start, end T, opts *ExactOptions) (estimate.Result, error) {
	s, err := g.Node(start)
	if err != nil {
		return estimate.Result{}, err
	}
	t, err := g.Node(end)
	if err != nil {
		return estimate.Result{}, err
	}
	if s == t {
		return estimate.Result{Count: 1}, nil
	}
	var maxDepth int
	if opts != nil {
		maxDepth = opts.MaxDepth
	}
	defer g.ResetVisited()

	var count, lengths int64
	calls := []frame{{v: s}}
	g.SetVisited(s, true)
	for len(calls) > 0 {
		f := &calls[len(calls)-1]
		arcs := g.Out(f.v)
		if f.next >= len(arcs) {
			g.SetVisited(f.v, false)
			calls = calls[:len(calls)-1]
			continue
		}
		w := arcs[f.next].To
		f.next++
		switch {
		case w == t:
			count++
			lengths += int64(len(calls))
		case !g.Visited(w):
			if maxDepth > 0 && len(calls) >= maxDepth {
				return estimate.Result{}, fmt.Errorf("exact count: %w", &errs.ResourceExhaustedError{Resource: "path depth", Limit: maxDepth})
			}
			g.SetVisited(w, true)
			calls = append(calls, frame{v: w})
		}
	}

	res := estimate.Result{Count: count}
	if count > 0 {
		res.AvgLength = float64(lengths) / float64(count)
	}
	return res, nil
}
