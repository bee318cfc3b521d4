package scc

import (
	"context"
	"sync"
	"testing"

	"github.com/matzehuels/uniquepaths/pkg/estimate"
	"github.com/matzehuels/uniquepaths/pkg/graph"
)

var fastOpts = &estimate.Options{PilotWalks: 300, SampleWalks: 3000}

func TestComputeInternalStatistics_Trivial(t *testing.T) {
	c := NewComponent[int](0)
	c.AddMember(7)
	c.MarkIn(7)
	c.MarkOut(7)
	if err := ComputeInternalStatistics(c, estimate.New(fastOpts, nil)); err != nil {
		t.Fatalf("ComputeInternalStatistics() error = %v", err)
	}
	if c.TotalPathCount() != 1 || c.TotalAvgLength() != 1 {
		t.Errorf("stats = (%d, %v), want (1, 1)", c.TotalPathCount(), c.TotalAvgLength())
	}
	if !c.Computed() {
		t.Error("Computed() = false for trivial component")
	}
}

func TestComputeInternalStatistics_TwoCycle(t *testing.T) {
	c := NewComponent[string](0)
	c.AddInternalEdge("a", "b", 1)
	c.AddInternalEdge("b", "a", 1)
	c.MarkIn("a")
	c.MarkOut("b")
	c.MarkOut("a")

	if err := ComputeInternalStatistics(c, estimate.New(fastOpts, estimate.NewRand(1))); err != nil {
		t.Fatalf("ComputeInternalStatistics() error = %v", err)
	}

	ab, ok := c.PairStat("a", "b")
	if !ok || ab != (estimate.Result{Count: 1, AvgLength: 1}) {
		t.Errorf("PairStat(a, b) = %+v, %v, want {1 1}", ab, ok)
	}
	aa, ok := c.PairStat("a", "a")
	if !ok || aa != (estimate.Result{Count: 1, AvgLength: 0}) {
		t.Errorf("PairStat(a, a) = %+v, %v, want {1 0}", aa, ok)
	}
	// Two paths, lengths 1 and 0.
	if c.TotalPathCount() != 2 || c.TotalAvgLength() != 0.5 {
		t.Errorf("stats = (%d, %v), want (2, 0.5)", c.TotalPathCount(), c.TotalAvgLength())
	}
	if c.Graph().AnyVisited() {
		t.Error("visited flags left set")
	}
}

func TestComputeInternalStatistics_NoBoundary(t *testing.T) {
	d, _ := Decompose(scenario(), nil)
	c := d.Components[2] // no in-nodes
	if err := ComputeInternalStatistics(c, estimate.New(fastOpts, nil)); err != nil {
		t.Fatalf("ComputeInternalStatistics() error = %v", err)
	}
	if c.TotalPathCount() != 0 || c.TotalAvgLength() != 0 {
		t.Errorf("stats = (%d, %v), want (0, 0)", c.TotalPathCount(), c.TotalAvgLength())
	}
}

func ring(offset, n int) [][2]int {
	var edges [][2]int
	for i := range n {
		edges = append(edges, [2]int{offset + i, offset + (i+1)%n})
		edges = append(edges, [2]int{offset + i, offset + (i+2)%n})
	}
	return edges
}

// rings builds several chorded rings joined in a line.
func rings() *graph.Graph[int] {
	g := graph.New[int]()
	for r := range 4 {
		for _, e := range ring(r*10, 5) {
			g.AddEdge(e[0], e[1])
		}
		if r > 0 {
			g.AddEdge((r-1)*10+3, r*10)
		}
	}
	return g
}

func TestAggregateAll_DeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) []estimate.Result {
		d, err := Decompose(rings(), nil)
		if err != nil {
			t.Fatalf("Decompose() error = %v", err)
		}
		var mu sync.Mutex
		done := 0
		err = AggregateAll(context.Background(), d.Components, &AggregateOptions{
			Estimator: fastOpts,
			Seed:      5,
			Workers:   workers,
			Done: func(int, int, estimate.Result) {
				mu.Lock()
				done++
				mu.Unlock()
			},
		})
		if err != nil {
			t.Fatalf("AggregateAll() error = %v", err)
		}
		if done != d.Len() {
			t.Errorf("Done called %d times, want %d", done, d.Len())
		}
		out := make([]estimate.Result, d.Len())
		for i, c := range d.Components {
			out[i] = c.Stats()
		}
		return out
	}

	serial := run(1)
	parallel := run(4)
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Errorf("component %d: serial %+v, parallel %+v", i, serial[i], parallel[i])
		}
	}
}

func TestAggregateAll_SkipsComputed(t *testing.T) {
	d, _ := Decompose(rings(), nil)
	preset := estimate.Result{Count: 42, AvgLength: 3}
	d.Components[0].SetStatistics(preset)
	if err := AggregateAll(context.Background(), d.Components, &AggregateOptions{Estimator: fastOpts}); err != nil {
		t.Fatalf("AggregateAll() error = %v", err)
	}
	if got := d.Components[0].Stats(); got != preset {
		t.Errorf("Stats() = %+v, want preset %+v", got, preset)
	}
}

func TestAggregateAll_Cancelled(t *testing.T) {
	d, _ := Decompose(rings(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := AggregateAll(ctx, d.Components, &AggregateOptions{Estimator: fastOpts}); err == nil {
		t.Error("AggregateAll() with cancelled context = nil, want error")
	}
}

func TestComponent_Clone(t *testing.T) {
	d, _ := Decompose(rings(), nil)
	orig := d.Components[0]
	cp := orig.Clone()
	cp.Graph().AddEdge(1000, 1001)
	if orig.Graph().Has(1000) {
		t.Error("clone shares graph with original")
	}
	if cp.Size() != orig.Size() || len(cp.InNodes()) != len(orig.InNodes()) {
		t.Error("clone lost members or boundaries")
	}
}

func TestComputeInternalStatistics_Saturates(t *testing.T) {
	// A 26-node clique entered at 0 and left from 1.
	g := graph.New[int]()
	for i := range 26 {
		for j := range 26 {
			if i != j {
				g.AddEdge(i, j)
			}
		}
	}
	g.AddEdge(100, 0)
	g.AddEdge(1, 101)

	d, err := Decompose(g, nil)
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	c, err := d.Component(0)
	if err != nil {
		t.Fatalf("Component(0) error = %v", err)
	}
	est := estimate.New(&estimate.Options{PilotWalks: 200, SampleWalks: 2000}, estimate.NewRand(3))
	if err := ComputeInternalStatistics(c, est); err != nil {
		t.Fatalf("ComputeInternalStatistics() error = %v", err)
	}
	stats := c.Stats()
	if !stats.Saturated || stats.Count != estimate.MaxCount {
		t.Errorf("Stats() = %+v, want saturated count", stats)
	}
}
