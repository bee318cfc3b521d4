package paths

import (
	"math"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/estimate"
	"github.com/matzehuels/uniquepaths/pkg/graph"
	"github.com/matzehuels/uniquepaths/pkg/scc"
)

// Gating selects when the entry and exit boundary factors are estimated.
type Gating string

const (
	// GatingCrossed estimates the entry factor only when the exit
	// component has more than one node, and the exit factor only when the
	// entry component does.
	GatingCrossed Gating = "crossed"

	// GatingOwn estimates each factor when its own component has more
	// than one node.
	GatingOwn Gating = "own"
)

// Combine selects how boundary factor lengths join the DAG average.
type Combine string

const (
	// CombineAdditive adds the boundary lengths to the DAG average. A
	// factor that is not estimated contributes zero.
	CombineAdditive Combine = "additive"

	// CombineMultiplicative multiplies the DAG average by the boundary
	// lengths. A factor that is not estimated contributes one.
	CombineMultiplicative Combine = "multiplicative"
)

// TraversalOptions configures CondensationTraversal.
type TraversalOptions struct {
	Gating  Gating  `json:"gating,omitempty" toml:"gating"`
	Combine Combine `json:"combine,omitempty" toml:"combine"`

	// Estimator computes the boundary factors. Nil uses estimate defaults.
	Estimator *estimate.Estimator `json:"-" toml:"-"`
}

// ValidateAndSetDefaults fills empty fields and rejects unknown modes.
func (o *TraversalOptions) ValidateAndSetDefaults() error {
	if o.Gating == "" {
		o.Gating = GatingCrossed
	}
	if o.Combine == "" {
		o.Combine = CombineAdditive
	}
	switch o.Gating {
	case GatingCrossed, GatingOwn:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown gating %q (want %q or %q)", o.Gating, GatingCrossed, GatingOwn)
	}
	switch o.Combine {
	case CombineAdditive, CombineMultiplicative:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown combine mode %q (want %q or %q)", o.Combine, CombineAdditive, CombineMultiplicative)
	}
	return nil
}

// Breakdown exposes the parts a traversal result is assembled from.
type Breakdown struct {
	Entry estimate.Result `json:"entry"`
	Exit  estimate.Result `json:"exit"`
	DAG   estimate.Result `json:"dag"`
	Total estimate.Result `json:"total"`
}

// CondensationTraversal counts simple paths from realStart to realEnd in g
// by dynamic programming over the condensation cond. superStart and
// superEnd are the representatives of the components holding realStart
// and realEnd.
//
// Every super node carries a map from path length to path count. The end
// node is seeded with one path of length zero; nodes are processed in
// reverse topological order and each edge curr → adj adds
// adj[len] * count(curr) to curr[len + hop(curr)]. The start component
// counts as a single hop because its internal segment is covered by the
// entry factor. All visited flags on g and on the condensation graph are
// cleared before returning.
func CondensationTraversal[T comparable](g *graph.Graph[T], cond *scc.Condensation[T], superStart, superEnd, realStart, realEnd T, opts *TraversalOptions) (estimate.Result, error) {
	b, err := Traverse(g, cond, superStart, superEnd, realStart, realEnd, opts)
	return b.Total, err
}

// Traverse is CondensationTraversal returning the full breakdown.
func Traverse[T comparable](g *graph.Graph[T], cond *scc.Condensation[T], superStart, superEnd, realStart, realEnd T, opts *TraversalOptions) (Breakdown, error) {
	o := TraversalOptions{}
	if opts != nil {
		o = *opts
	}
	if err := o.ValidateAndSetDefaults(); err != nil {
		return Breakdown{}, err
	}
	est := o.Estimator
	if est == nil {
		est = estimate.New(nil, nil)
	}

	cg := cond.Graph()
	defer g.ResetVisited()
	defer cg.ResetVisited()

	first, ok := cond.SuperNode(superStart)
	if !ok {
		return Breakdown{}, errs.New(errs.ErrCodeNodeNotFound, "super node %v not in condensation", superStart)
	}
	last, ok := cond.SuperNode(superEnd)
	if !ok {
		return Breakdown{}, errs.New(errs.ErrCodeNodeNotFound, "super node %v not in condensation", superEnd)
	}
	if !first.Component.Contains(realStart) {
		return Breakdown{}, errs.New(errs.ErrCodeInvalidInput, "node %v is not in component %d", realStart, first.Component.ID)
	}
	if !last.Component.Contains(realEnd) {
		return Breakdown{}, errs.New(errs.ErrCodeInvalidInput, "node %v is not in component %d", realEnd, last.Component.ID)
	}

	// A simple path cannot leave a component and come back to it.
	if first == last {
		r, err := estimate.Estimate(est, first.Component.Graph(), realStart, realEnd)
		return Breakdown{Entry: r, Exit: passThrough(o.Combine), DAG: passThrough(o.Combine), Total: r}, err
	}

	entry, exit, err := boundaryFactors(est, first.Component, last.Component, realStart, realEnd, o)
	if err != nil {
		return Breakdown{}, err
	}

	s, _ := cg.Lookup(superStart)
	t, _ := cg.Lookup(superEnd)
	dag, err := countDAG(cg, cond, s, t)
	if err != nil {
		return Breakdown{}, err
	}

	var total estimate.Result
	var sat1, sat2 bool
	total.Count, sat1 = estimate.MulCounts(dag.Count, entry.Count)
	total.Count, sat2 = estimate.MulCounts(total.Count, exit.Count)
	total.Saturated = total.Count > 0 && (sat1 || sat2 || dag.Saturated || entry.Saturated || exit.Saturated)
	if total.Count > 0 {
		switch o.Combine {
		case CombineMultiplicative:
			total.AvgLength = dag.AvgLength * entry.AvgLength * exit.AvgLength
		default:
			total.AvgLength = dag.AvgLength + entry.AvgLength + exit.AvgLength
		}
	}
	return Breakdown{Entry: entry, Exit: exit, DAG: dag, Total: total}, nil
}

func passThrough(c Combine) estimate.Result {
	if c == CombineMultiplicative {
		return estimate.Result{Count: 1, AvgLength: 1}
	}
	return estimate.Result{Count: 1}
}

func boundaryFactors[T comparable](est *estimate.Estimator, first, last *scc.Component[T], realStart, realEnd T, o TraversalOptions) (entry, exit estimate.Result, err error) {
	entry, exit = passThrough(o.Combine), passThrough(o.Combine)

	withEntry, withExit := first.Size() > 1, last.Size() > 1
	if o.Gating == GatingCrossed {
		withEntry, withExit = last.Size() > 1, first.Size() > 1
	}

	if withEntry {
		var acc accumulator
		for _, out := range first.OutNodes() {
			r, err := estimate.Estimate(est, first.Graph(), realStart, out)
			if err != nil {
				return entry, exit, err
			}
			acc.add(r)
		}
		entry = acc.result()
	}
	if withExit {
		var acc accumulator
		for _, in := range last.InNodes() {
			r, err := estimate.Estimate(est, last.Graph(), in, realEnd)
			if err != nil {
				return entry, exit, err
			}
			acc.add(r)
		}
		exit = acc.result()
	}
	return entry, exit, nil
}

// accumulator sums counts and count-weighted lengths. Counts saturate at
// estimate.MaxCount.
type accumulator struct {
	count     int64
	weighted  float64
	saturated bool
}

func (a *accumulator) add(r estimate.Result) {
	var sat bool
	a.count, sat = estimate.AddCounts(a.count, r.Count)
	a.saturated = a.saturated || sat || r.Saturated
	a.weighted += float64(r.Count) * r.AvgLength
}

func (a *accumulator) result() estimate.Result {
	r := estimate.Result{Count: a.count, Saturated: a.saturated}
	if a.count > 0 {
		r.AvgLength = a.weighted / float64(a.count)
	}
	return r
}

// countDAG runs the distance-map DP from s to t over the condensation
// graph cg and returns the path count and count-weighted mean length.
func countDAG[T comparable](cg *graph.Graph[T], cond *scc.Condensation[T], s, t graph.NodeID) (estimate.Result, error) {
	order := finishingOrder(cg, s)

	dist := make([]map[int]int64, cg.Size())
	dist[t] = map[int]int64{0: 1}
	var saturated bool

	// Finishing order visits every successor before its predecessors.
	for _, curr := range order {
		if curr == t {
			continue
		}
		stats, hop, err := hopStats(cond, cg.Key(curr), curr == s)
		if err != nil {
			return estimate.Result{}, err
		}
		saturated = saturated || stats.Saturated
		for _, a := range cg.Out(curr) {
			for l, n := range dist[a.To] {
				if dist[curr] == nil {
					dist[curr] = make(map[int]int64)
				}
				through, sat1 := estimate.MulCounts(n, stats.Count)
				sum, sat2 := estimate.AddCounts(dist[curr][l+hop], through)
				dist[curr][l+hop] = sum
				saturated = saturated || sat1 || sat2
			}
		}
	}

	acc := accumulator{saturated: saturated}
	for l, n := range dist[s] {
		acc.add(estimate.Result{Count: n, AvgLength: float64(l)})
	}
	return acc.result(), nil
}

// hopStats returns the statistics of one super node, whose count
// multiplies every path crossing it, and the hops it adds to their length.
func hopStats[T comparable](cond *scc.Condensation[T], rep T, isStart bool) (estimate.Result, int, error) {
	sn, _ := cond.SuperNode(rep)
	c := sn.Component
	if isStart || c.IsTrivial() {
		return estimate.PassThrough, int(math.Floor(estimate.PassThrough.AvgLength)), nil
	}
	if !c.Computed() {
		return estimate.Result{}, 0, errs.New(errs.ErrCodeInvalidInput, "component %d has no internal statistics", c.ID)
	}
	stats := c.Stats()
	return stats, int(math.Floor(stats.AvgLength)) + 1, nil
}

// finishingOrder returns the nodes reachable from s in DFS finishing
// order, using the graph's visited flags.
func finishingOrder(g graph.Topology, s graph.NodeID) []graph.NodeID {
	var order []graph.NodeID
	calls := []frame{{v: s}}
	g.SetVisited(s, true)
	for len(calls) > 0 {
		f := &calls[len(calls)-1]
		arcs := g.Out(f.v)
		if f.next >= len(arcs) {
			order = append(order, f.v)
			calls = calls[:len(calls)-1]
			continue
		}
		w := arcs[f.next].To
		f.next++
		if !g.Visited(w) {
			g.SetVisited(w, true)
			calls = append(calls, frame{v: w})
		}
	}
	return order
}

// TopologicalOrder returns the condensation nodes reachable from start in
// topological order, computed by reversing DFS finishing times.
func TopologicalOrder[T comparable](cg *graph.Graph[T], start T) ([]T, error) {
	s, err := cg.Node(start)
	if err != nil {
		return nil, err
	}
	defer cg.ResetVisited()
	order := finishingOrder(cg, s)
	out := make([]T, len(order))
	for i, id := range order {
		out[len(order)-1-i] = cg.Key(id)
	}
	return out, nil
}
