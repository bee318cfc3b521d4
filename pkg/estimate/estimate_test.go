package estimate

import (
	"math"
	"testing"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/graph"
)

func chain(n int) *graph.Graph[int] {
	g := graph.New[int]()
	for i := range n {
		g.AddEdge(i, i+1)
	}
	return g
}

// complete returns the complete digraph on n nodes.
func complete(n int) *graph.Graph[int] {
	g := graph.New[int]()
	for i := range n {
		for j := range n {
			if i != j {
				g.AddEdge(i, j)
			}
		}
	}
	return g
}

// simplePathsInComplete counts simple paths between two fixed nodes of the
// complete digraph on n nodes: sum over k intermediates of (n-2)!/(n-2-k)!.
func simplePathsInComplete(n int) int64 {
	var total, perm int64 = 0, 1
	for k := 0; k <= n-2; k++ {
		if k > 0 {
			perm *= int64(n - 2 - k + 1)
		}
		total += perm
	}
	return total
}

func TestEstimate_StartEqualsEnd(t *testing.T) {
	g := chain(3)
	got, err := Estimate(New(nil, NewRand(1)), g, 2, 2)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if got != (Result{Count: 1, AvgLength: 0}) {
		t.Errorf("Estimate(2, 2) = %+v, want {1 0}", got)
	}
}

func TestEstimate_Chain(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		g := chain(n)
		est := New(&Options{PilotWalks: 200, SampleWalks: 500}, NewRand(uint64(n)))
		got, err := Estimate(est, g, 0, n)
		if err != nil {
			t.Fatalf("Estimate() error = %v", err)
		}
		if got.Count != 1 {
			t.Errorf("chain(%d) Count = %d, want 1", n, got.Count)
		}
		if got.AvgLength != float64(n) {
			t.Errorf("chain(%d) AvgLength = %v, want %d", n, got.AvgLength, n)
		}
	}
}

func TestEstimate_NoPath(t *testing.T) {
	g := graph.New[int]()
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	g.AddNode(3)

	got, err := Estimate(New(&Options{PilotWalks: 100, SampleWalks: 100}, nil), g, 1, 3)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if got.Count != 0 || got.AvgLength != 0 {
		t.Errorf("Estimate() = %+v, want {0 0}", got)
	}
}

func TestEstimate_NodeNotFound(t *testing.T) {
	g := chain(2)
	est := New(nil, nil)
	if _, err := Estimate(est, g, 0, 99); !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("Estimate(end=99) error = %v, want NODE_NOT_FOUND", err)
	}
	if _, err := Estimate(est, g, 99, 0); !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("Estimate(start=99) error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestEstimate_ResetsVisited(t *testing.T) {
	g := complete(5)
	est := New(&Options{PilotWalks: 100, SampleWalks: 100}, NewRand(3))
	if _, err := Estimate(est, g, 0, 4); err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if g.AnyVisited() {
		t.Error("visited flags left set after Estimate()")
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	g := complete(5)
	opts := &Options{PilotWalks: 300, SampleWalks: 3000}
	a, _ := Estimate(New(opts, NewRand(11)), g, 0, 4)
	b, _ := Estimate(New(opts, NewRand(11)), g, 0, 4)
	if a != b {
		t.Errorf("same seed gave %+v and %+v", a, b)
	}
}

func TestEstimate_StatisticalTolerance(t *testing.T) {
	const (
		tolerance = 0.20
		trials    = 5
		minPass   = 4
	)
	for _, n := range []int{5, 6} {
		g := complete(n)
		want := simplePathsInComplete(n)
		passed := 0
		for seed := range uint64(trials) {
			got, err := Estimate(New(nil, NewRand(seed+100)), g, 0, n-1)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}
			rel := math.Abs(float64(got.Count-want)) / float64(want)
			if rel <= tolerance {
				passed++
			} else {
				t.Logf("K%d seed %d: Count = %d, want %d ±%.0f%%", n, seed, got.Count, want, tolerance*100)
			}
		}
		if passed < minPass {
			t.Errorf("K%d: %d/%d trials within tolerance, want at least %d", n, passed, trials, minPass)
		}
	}
}

func TestPilot_Chain(t *testing.T) {
	g := chain(2)
	v, err := Pilot(New(&Options{PilotWalks: 10, SampleWalks: 1}, nil), g, 0, 2)
	if err != nil {
		t.Fatalf("Pilot() error = %v", err)
	}
	want := []float64{0, 1, 0}
	if len(v) != len(want) {
		t.Fatalf("len(Pilot()) = %d, want %d", len(v), len(want))
	}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("Pilot()[%d] = %v, want %v", i, v[i], want[i])
		}
	}
	if g.AnyVisited() {
		t.Error("visited flags left set after Pilot()")
	}
}

func TestPilot_FullPathWeighting(t *testing.T) {
	// Paths 0->2 and 0->1->2 each carry mass 2, so half the mass at step 0
	// steps straight to 2 and all mass at step 1 does.
	g := graph.New[int]()
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	g.AddEdge(1, 2)

	v, err := Pilot(New(&Options{PilotWalks: 4000}, NewRand(9)), g, 0, 2)
	if err != nil {
		t.Fatalf("Pilot() error = %v", err)
	}
	if math.Abs(v[0]-0.5) > 0.05 {
		t.Errorf("Pilot()[0] = %v, want 0.5 ± 0.05", v[0])
	}
	if v[1] != 1 {
		t.Errorf("Pilot()[1] = %v, want 1", v[1])
	}
	if v[2] != 0 {
		t.Errorf("Pilot()[2] = %v, want 0", v[2])
	}
}

func TestPilot_ValuesAreProbabilities(t *testing.T) {
	g := complete(5)
	v, err := Pilot(New(&Options{PilotWalks: 500}, NewRand(5)), g, 0, 4)
	if err != nil {
		t.Fatalf("Pilot() error = %v", err)
	}
	for i, p := range v {
		if p < 0 || p > 1 {
			t.Errorf("Pilot()[%d] = %v, want value in [0, 1]", i, p)
		}
	}
}

func TestOptions_ValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if o.PilotWalks != DefaultPilotWalks || o.SampleWalks != DefaultSampleWalks {
		t.Errorf("defaults = %+v", o)
	}

	bad := []Options{
		{PilotWalks: -1},
		{SampleWalks: -1},
		{MinBias: 0.7},
	}
	for _, b := range bad {
		if err := b.ValidateAndSetDefaults(); !errs.Is(err, errs.ErrCodeInvalidConfig) {
			t.Errorf("ValidateAndSetDefaults(%+v) error = %v, want INVALID_CONFIG", b, err)
		}
	}
}
