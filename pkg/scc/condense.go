package scc

import (
	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/graph"
)

// SuperNode is a condensation node standing for one whole component.
// Its key is the component's representative.
type SuperNode[T comparable] struct {
	Representative T
	Component      *Component[T]
}

type link struct{ from, to int }

// Condensation is the acyclic graph obtained by contracting every
// component of a decomposition to a single node.
type Condensation[T comparable] struct {
	decomp *Decomposition[T]
	graph  *graph.Graph[T]
	supers []*SuperNode[T] // by component ID
	byRep  map[T]*SuperNode[T]
	links  map[link][]graph.Edge[T]
}

// Contract builds the condensation of d. Every component becomes one node
// keyed by its representative, and every original edge joining two
// different components becomes one deduplicated edge between their
// representatives.
func Contract[T comparable](d *Decomposition[T]) *Condensation[T] {
	c := &Condensation[T]{
		decomp: d,
		graph:  graph.New[T](),
		supers: make([]*SuperNode[T], len(d.Components)),
		byRep:  make(map[T]*SuperNode[T], len(d.Components)),
		links:  make(map[link][]graph.Edge[T]),
	}
	for i, comp := range d.Components {
		sn := &SuperNode[T]{Representative: comp.Representative(), Component: comp}
		c.supers[i] = sn
		c.byRep[sn.Representative] = sn
		c.graph.AddNode(sn.Representative)
	}
	for _, e := range d.Graph.EdgeList() {
		from, _ := d.ComponentOf(e.From)
		to, _ := d.ComponentOf(e.To)
		if from == to {
			continue
		}
		c.graph.AddEdge(c.supers[from].Representative, c.supers[to].Representative)
		l := link{from, to}
		c.links[l] = append(c.links[l], e)
	}
	return c
}

// Graph returns the condensation graph keyed by representatives.
func (c *Condensation[T]) Graph() *graph.Graph[T] { return c.graph }

// Decomposition returns the decomposition the condensation was built from.
func (c *Condensation[T]) Decomposition() *Decomposition[T] { return c.decomp }

// SuperNodes returns all super nodes in component ID order.
func (c *Condensation[T]) SuperNodes() []*SuperNode[T] { return c.supers }

// SuperNode returns the super node whose representative is rep.
func (c *Condensation[T]) SuperNode(rep T) (*SuperNode[T], bool) {
	sn, ok := c.byRep[rep]
	return sn, ok
}

// SuperNodeOf returns the super node owning an original graph node.
func (c *Condensation[T]) SuperNodeOf(key T) (*SuperNode[T], error) {
	id, ok := c.decomp.ComponentOf(key)
	if !ok {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "node %v not in graph", key)
	}
	return c.supers[id], nil
}

// Links returns the original edges running from component from to
// component to, in original insertion order.
func (c *Condensation[T]) Links(from, to int) []graph.Edge[T] {
	return c.links[link{from, to}]
}

// HasCycle reports whether g contains a directed cycle. Self loops count.
func HasCycle[T comparable](g *graph.Graph[T]) bool {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, g.Size())
	found := false

	var dfs func(v graph.NodeID)
	dfs = func(v graph.NodeID) {
		color[v] = gray
		for _, a := range g.Out(v) {
			switch color[a.To] {
			case white:
				dfs(a.To)
			case gray:
				found = true
			}
			if found {
				return
			}
		}
		color[v] = black
	}

	for v := range g.Size() {
		if color[v] == white {
			dfs(graph.NodeID(v))
		}
		if found {
			return true
		}
	}
	return false
}
