package estimate

import (
	"math/rand/v2"

	"github.com/matzehuels/uniquepaths/pkg/graph"
)

// Walk is one self-avoiding walk. Nodes[i] was visited after i steps and
// Likelihood[i] is the probability that the sampling policy produced the
// prefix Nodes[0..i]. Likelihood[0] is always 1.
type Walk struct {
	Nodes      []graph.NodeID
	Likelihood []float64
	end        graph.NodeID
}

// Reached reports whether the walk ended at its target.
func (w Walk) Reached() bool {
	return len(w.Nodes) > 0 && w.Nodes[len(w.Nodes)-1] == w.end
}

// Length returns the number of edges walked.
func (w Walk) Length() int {
	if len(w.Nodes) == 0 {
		return 0
	}
	return len(w.Nodes) - 1
}

// Step returns the step index at which id was visited.
func (w Walk) Step(id graph.NodeID) (int, bool) {
	for i, n := range w.Nodes {
		if n == id {
			return i, true
		}
	}
	return 0, false
}

// NaiveSimplePath performs one unbiased self-avoiding random walk from start
// on g: at every step it picks uniformly among unvisited successors and
// stops at end or when no unvisited successor remains. The visited flags it
// sets are cleared before it returns.
func NaiveSimplePath[T comparable](g *graph.Graph[T], start, end T, rng *rand.Rand) (Walk, error) {
	s, err := g.Node(start)
	if err != nil {
		return Walk{}, err
	}
	t, err := g.Node(end)
	if err != nil {
		return Walk{}, err
	}
	if rng == nil {
		rng = NewRand(DefaultSeed)
	}
	var buf []graph.NodeID
	return naiveWalk(g, s, t, rng, &buf), nil
}

func naiveWalk(g graph.Topology, start, end graph.NodeID, rng *rand.Rand, buf *[]graph.NodeID) Walk {
	w := Walk{
		Nodes:      []graph.NodeID{start},
		Likelihood: []float64{1},
		end:        end,
	}
	g.SetVisited(start, true)
	defer clearWalk(g, &w)

	curr, like := start, 1.0
	for curr != end {
		cands := unvisited(g, curr, buf)
		if len(cands) == 0 {
			break
		}
		curr = cands[rng.IntN(len(cands))]
		like /= float64(len(cands))
		g.SetVisited(curr, true)
		w.Nodes = append(w.Nodes, curr)
		w.Likelihood = append(w.Likelihood, like)
	}
	return w
}

// unvisited collects the unvisited successors of id into buf.
func unvisited(g graph.Topology, id graph.NodeID, buf *[]graph.NodeID) []graph.NodeID {
	out := (*buf)[:0]
	for _, a := range g.Out(id) {
		if !g.Visited(a.To) {
			out = append(out, a.To)
		}
	}
	*buf = out
	return out
}

func clearWalk(g graph.Topology, w *Walk) {
	for _, n := range w.Nodes {
		g.SetVisited(n, false)
	}
}
