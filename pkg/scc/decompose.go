package scc

import (
	"fmt"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/graph"
)

// Options bounds a decomposition.
type Options struct {
	// MaxDepth caps the DFS frame stack. Zero means unbounded; exceeding a
	// positive bound returns a RESOURCE_EXHAUSTED error.
	MaxDepth int `json:"max_depth,omitempty" toml:"max_depth"`
}

// Decomposition is the partition of a graph into strongly connected
// components, in the order Tarjan emitted them. That order is reverse
// topological: a component appears before every component that reaches it.
type Decomposition[T comparable] struct {
	Graph      *graph.Graph[T]
	Components []*Component[T]

	compOf []int // by node handle
}

// Len returns the number of components.
func (d *Decomposition[T]) Len() int { return len(d.Components) }

// ComponentOf returns the ID of the component containing key.
func (d *Decomposition[T]) ComponentOf(key T) (int, bool) {
	id, ok := d.Graph.Lookup(key)
	if !ok {
		return 0, false
	}
	return d.compOf[id], true
}

// Component returns the component containing key, or NODE_NOT_FOUND.
func (d *Decomposition[T]) Component(key T) (*Component[T], error) {
	id, err := d.Graph.Node(key)
	if err != nil {
		return nil, err
	}
	return d.Components[d.compOf[id]], nil
}

type frame struct {
	v    graph.NodeID
	next int
}

// Decompose runs Tarjan's algorithm over g.
//
// Roots are taken in node insertion order and the DFS uses an explicit
// frame stack. Once every component is known, boundary nodes are
// classified by scanning each member's forward edges and the edges of the
// transposed graph, and internal edges are copied into each component's
// private graph with their weights.
func Decompose[T comparable](g *graph.Graph[T], opts *Options) (*Decomposition[T], error) {
	var maxDepth int
	if opts != nil {
		maxDepth = opts.MaxDepth
	}

	n := g.Size()
	var (
		index   = make([]int, n) // discovery index + 1, 0 = unvisited
		low     = make([]int, n)
		onStack = make([]bool, n)
		compOf  = make([]int, n)
		stack   []graph.NodeID
		calls   []frame
		counter int
		comps   []*Component[T]
	)

	push := func(v graph.NodeID) {
		counter++
		index[v], low[v] = counter, counter
		stack = append(stack, v)
		onStack[v] = true
		calls = append(calls, frame{v: v})
	}

	for root := range n {
		if index[root] != 0 {
			continue
		}
		push(graph.NodeID(root))

		for len(calls) > 0 {
			f := &calls[len(calls)-1]
			v := f.v
			arcs := g.Out(v)
			if f.next < len(arcs) {
				w := arcs[f.next].To
				f.next++
				switch {
				case index[w] == 0:
					if maxDepth > 0 && len(calls) >= maxDepth {
						return nil, fmt.Errorf("decompose: %w", &errs.ResourceExhaustedError{Resource: "dfs depth", Limit: maxDepth})
					}
					push(w)
				case onStack[w]:
					low[v] = min(low[v], index[w])
				}
				continue
			}

			if low[v] == index[v] {
				c := NewComponent[T](len(comps))
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					compOf[w] = c.ID
					c.AddMember(g.Key(w))
					if w == v {
						break
					}
				}
				comps = append(comps, c)
			}
			calls = calls[:len(calls)-1]
			if len(calls) > 0 {
				p := calls[len(calls)-1].v
				low[p] = min(low[p], low[v])
			}
		}
	}

	classifyBoundaries(g, comps, compOf)
	return &Decomposition[T]{Graph: g, Components: comps, compOf: compOf}, nil
}

func classifyBoundaries[T comparable](g *graph.Graph[T], comps []*Component[T], compOf []int) {
	tr := g.Transpose()
	for _, c := range comps {
		for _, key := range c.Members() {
			v, _ := g.Lookup(key)
			for _, a := range g.Out(v) {
				if compOf[a.To] == c.ID {
					c.AddInternalEdge(key, g.Key(a.To), a.Weight)
				} else {
					c.MarkOut(key)
				}
			}
			for _, a := range tr.Out(v) {
				if compOf[a.To] != c.ID {
					c.MarkIn(key)
					break
				}
			}
		}
	}
}
