package paths

import (
	"math/rand/v2"
	"testing"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/estimate"
	"github.com/matzehuels/uniquepaths/pkg/graph"
	"github.com/matzehuels/uniquepaths/pkg/scc"
)

func build(edges ...[2]int) *graph.Graph[int] {
	g := graph.New[int]()
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	return g
}

func scenario() *graph.Graph[int] {
	return build([2]int{1, 3}, [2]int{3, 2}, [2]int{2, 1}, [2]int{1, 4}, [2]int{4, 5})
}

func randomDAG(seed uint64, nodes, edges int) *graph.Graph[int] {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	g := graph.New[int]()
	for i := range nodes {
		g.AddNode(i)
	}
	for range edges {
		a, b := rng.IntN(nodes), rng.IntN(nodes)
		if a == b {
			continue
		}
		g.AddEdge(min(a, b), max(a, b))
	}
	return g
}

type traversal struct {
	g    *graph.Graph[int]
	cond *scc.Condensation[int]
}

func prepare(t *testing.T, g *graph.Graph[int], opts *estimate.Options) traversal {
	t.Helper()
	d, err := scc.Decompose(g, nil)
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	for _, c := range d.Components {
		if err := scc.ComputeInternalStatistics(c, estimate.New(opts, estimate.NewRand(uint64(c.ID)))); err != nil {
			t.Fatalf("ComputeInternalStatistics() error = %v", err)
		}
	}
	return traversal{g: g, cond: scc.Contract(d)}
}

func (tr traversal) run(t *testing.T, start, end int, opts *TraversalOptions) estimate.Result {
	t.Helper()
	s, err := tr.cond.SuperNodeOf(start)
	if err != nil {
		t.Fatalf("SuperNodeOf(%d) error = %v", start, err)
	}
	e, err := tr.cond.SuperNodeOf(end)
	if err != nil {
		t.Fatalf("SuperNodeOf(%d) error = %v", end, err)
	}
	r, err := CondensationTraversal(tr.g, tr.cond, s.Representative, e.Representative, start, end, opts)
	if err != nil {
		t.Fatalf("CondensationTraversal() error = %v", err)
	}
	return r
}

func TestExactCount(t *testing.T) {
	tests := []struct {
		name       string
		g          *graph.Graph[int]
		start, end int
		want       estimate.Result
	}{
		{"Scenario", scenario(), 1, 5, estimate.Result{Count: 1, AvgLength: 2}},
		{"SameNode", scenario(), 3, 3, estimate.Result{Count: 1, AvgLength: 0}},
		{"Unreachable", scenario(), 5, 1, estimate.Result{}},
		{"Diamond", build([2]int{1, 2}, [2]int{1, 3}, [2]int{2, 4}, [2]int{3, 4}), 1, 4, estimate.Result{Count: 2, AvgLength: 2}},
		{
			name:  "CycleWithChord",
			g:     build([2]int{1, 2}, [2]int{2, 1}, [2]int{1, 3}, [2]int{2, 3}),
			start: 1, end: 3,
			want: estimate.Result{Count: 2, AvgLength: 1.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExactCount(tt.g, tt.start, tt.end, nil)
			if err != nil {
				t.Fatalf("ExactCount() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExactCount() = %+v, want %+v", got, tt.want)
			}
			if tt.g.AnyVisited() {
				t.Error("visited flags left set")
			}
		})
	}
}

func TestExactCount_CompleteGraph(t *testing.T) {
	g := graph.New[int]()
	for i := range 5 {
		for j := range 5 {
			if i != j {
				g.AddEdge(i, j)
			}
		}
	}
	got, err := ExactCount(g, 0, 4, nil)
	if err != nil {
		t.Fatalf("ExactCount() error = %v", err)
	}
	// 1 + 3 + 6 + 6 paths with 1, 2, 3, 4 edges.
	want := estimate.Result{Count: 16, AvgLength: float64(1+6+18+24) / 16}
	if got != want {
		t.Errorf("ExactCount() = %+v, want %+v", got, want)
	}
}

func TestExactCount_Errors(t *testing.T) {
	g := scenario()
	if _, err := ExactCount(g, 1, 99, nil); !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("ExactCount(end=99) error = %v, want NODE_NOT_FOUND", err)
	}

	chain := graph.New[int]()
	for i := range 10 {
		chain.AddEdge(i, i+1)
	}
	_, err := ExactCount(chain, 0, 10, &ExactOptions{MaxDepth: 4})
	if !errs.Is(err, errs.ErrCodeResourceExhausted) {
		t.Errorf("ExactCount(MaxDepth=4) error = %v, want RESOURCE_EXHAUSTED", err)
	}
	if chain.AnyVisited() {
		t.Error("visited flags left set after error")
	}
}

func TestCondensationTraversal_Scenario(t *testing.T) {
	tr := prepare(t, scenario(), nil)
	got := tr.run(t, 1, 5, nil)
	want := estimate.Result{Count: 1, AvgLength: 2}
	if got != want {
		t.Errorf("CondensationTraversal() = %+v, want %+v", got, want)
	}
	if tr.g.AnyVisited() || tr.cond.Graph().AnyVisited() {
		t.Error("visited flags left set")
	}
}

func TestCondensationTraversal_MatchesExactOnDAGs(t *testing.T) {
	for seed := range uint64(15) {
		g := randomDAG(seed, 14, 30)
		tr := prepare(t, g, nil)
		exact, err := ExactCount(g, 0, 13, nil)
		if err != nil {
			t.Fatalf("ExactCount() error = %v", err)
		}
		got := tr.run(t, 0, 13, nil)
		if got.Count != exact.Count {
			t.Errorf("seed %d: Count = %d, want %d", seed, got.Count, exact.Count)
		}
		if diff := got.AvgLength - exact.AvgLength; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("seed %d: AvgLength = %v, want %v", seed, got.AvgLength, exact.AvgLength)
		}
	}
}

func TestCondensationTraversal_Gating(t *testing.T) {
	// {1,2} is a cycle with two exits into 3.
	g := build([2]int{1, 2}, [2]int{2, 1}, [2]int{1, 3}, [2]int{2, 3})

	tests := []struct {
		name string
		opts *TraversalOptions
		want estimate.Result
	}{
		{"Crossed", &TraversalOptions{Gating: GatingCrossed}, estimate.Result{Count: 1, AvgLength: 1}},
		{"Own", &TraversalOptions{Gating: GatingOwn}, estimate.Result{Count: 2, AvgLength: 1.5}},
		{"OwnMultiplicative", &TraversalOptions{Gating: GatingOwn, Combine: CombineMultiplicative}, estimate.Result{Count: 2, AvgLength: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := prepare(t, g, nil)
			if got := tr.run(t, 1, 3, tt.opts); got != tt.want {
				t.Errorf("CondensationTraversal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCondensationTraversal_CombineWithCyclicEnd(t *testing.T) {
	// The only path is 1->4->5->6. The entry factor covers the empty
	// segment inside {1,2,3}; the exit factor covers 5->6.
	g := build([2]int{1, 3}, [2]int{3, 2}, [2]int{2, 1}, [2]int{1, 4},
		[2]int{4, 5}, [2]int{5, 6}, [2]int{6, 5})

	exact, err := ExactCount(g, 1, 6, nil)
	if err != nil {
		t.Fatalf("ExactCount() error = %v", err)
	}
	if exact != (estimate.Result{Count: 1, AvgLength: 3}) {
		t.Fatalf("ExactCount(1, 6) = %+v, want {1 3}", exact)
	}

	tests := []struct {
		name    string
		combine Combine
		want    estimate.Result
	}{
		{"Additive", CombineAdditive, exact},
		{"Multiplicative", CombineMultiplicative, estimate.Result{Count: 1, AvgLength: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := prepare(t, g, nil)
			if got := tr.run(t, 1, 6, &TraversalOptions{Combine: tt.combine}); got != tt.want {
				t.Errorf("CondensationTraversal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCondensationTraversal_SameComponent(t *testing.T) {
	tr := prepare(t, scenario(), nil)
	got := tr.run(t, 1, 2, nil)
	if got != (estimate.Result{Count: 1, AvgLength: 2}) {
		t.Errorf("CondensationTraversal(1, 2) = %+v, want {1 2}", got)
	}
}

func TestCondensationTraversal_Unreachable(t *testing.T) {
	tr := prepare(t, scenario(), nil)
	got := tr.run(t, 5, 1, nil)
	if got != (estimate.Result{}) {
		t.Errorf("CondensationTraversal(5, 1) = %+v, want zero", got)
	}
}

func TestCondensationTraversal_Errors(t *testing.T) {
	tr := prepare(t, scenario(), nil)
	_, err := CondensationTraversal(tr.g, tr.cond, 99, 5, 1, 5, nil)
	if !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("unknown super start error = %v, want NODE_NOT_FOUND", err)
	}
	_, err = CondensationTraversal(tr.g, tr.cond, 2, 5, 4, 5, nil)
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("start outside component error = %v, want INVALID_INPUT", err)
	}
	_, err = CondensationTraversal(tr.g, tr.cond, 2, 5, 1, 5, &TraversalOptions{Gating: "sideways"})
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("bad gating error = %v, want INVALID_CONFIG", err)
	}
}

func TestTopologicalOrder(t *testing.T) {
	g := build([2]int{1, 2}, [2]int{1, 3}, [2]int{2, 4}, [2]int{3, 4}, [2]int{5, 1})
	order, err := TopologicalOrder(g, 1)
	if err != nil {
		t.Fatalf("TopologicalOrder() error = %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("TopologicalOrder() = %v, want 4 reachable nodes", order)
	}
	pos := make(map[int]int)
	for i, k := range order {
		pos[k] = i
	}
	for _, e := range g.EdgeList() {
		if _, ok := pos[e.From]; !ok {
			continue
		}
		if pos[e.From] >= pos[e.To] {
			t.Errorf("edge %v violates order %v", e, order)
		}
	}
	if g.AnyVisited() {
		t.Error("visited flags left set")
	}
}

func TestCondensationTraversal_Saturates(t *testing.T) {
	// 0 -> {1,2} -> {3,4} -> 5; the DP multiplies the two cycle counts.
	tests := []struct {
		name    string
		count   int64
		want    int64
		wantSat bool
	}{
		{"Fits", 1 << 20, 1 << 40, false},
		{"Overflows", 1 << 40, estimate.MaxCount, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 1}, [2]int{2, 3},
				[2]int{3, 4}, [2]int{4, 3}, [2]int{4, 5})
			d, err := scc.Decompose(g, nil)
			if err != nil {
				t.Fatalf("Decompose() error = %v", err)
			}
			for _, key := range []int{1, 3} {
				c, err := d.Component(key)
				if err != nil {
					t.Fatalf("Component(%d) error = %v", key, err)
				}
				c.SetStatistics(estimate.Result{Count: tt.count, AvgLength: 1})
			}
			tr := traversal{g: g, cond: scc.Contract(d)}

			got := tr.run(t, 0, 5, nil)
			if got.Count != tt.want || got.Saturated != tt.wantSat {
				t.Errorf("CondensationTraversal() = %+v, want count %d saturated %v", got, tt.want, tt.wantSat)
			}
			if got.Count <= 0 {
				t.Errorf("CondensationTraversal().Count = %d, want > 0", got.Count)
			}
		})
	}
}

func TestCondensationTraversal_PropagatesSaturation(t *testing.T) {
	g := build([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 1}, [2]int{2, 3})
	d, err := scc.Decompose(g, nil)
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	c, _ := d.Component(1)
	c.SetStatistics(estimate.Result{Count: estimate.MaxCount, AvgLength: 3, Saturated: true})
	tr := traversal{g: g, cond: scc.Contract(d)}

	if got := tr.run(t, 0, 3, nil); !got.Saturated || got.Count != estimate.MaxCount {
		t.Errorf("CondensationTraversal() = %+v, want saturated count", got)
	}
}
