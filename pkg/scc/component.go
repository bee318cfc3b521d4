package scc

import (
	"github.com/matzehuels/uniquepaths/pkg/estimate"
	"github.com/matzehuels/uniquepaths/pkg/graph"
)

// Pair is an ordered (in-node, out-node) pair of one component.
type Pair[T comparable] struct {
	In, Out T
}

// Component is one strongly connected component.
//
// It owns a private graph holding copies of its members and only the edges
// between them, so estimation inside a component never touches the
// original graph. Members are kept in the order Tarjan popped them; the
// first member is the representative used by the condensation.
//
// In-nodes have an edge arriving from another component, out-nodes have an
// edge leaving to another component. Both sets keep insertion order.
type Component[T comparable] struct {
	ID int

	members []T
	graph   *graph.Graph[T]
	in      []T
	out     []T
	inSet   map[T]struct{}
	outSet  map[T]struct{}

	pairs    map[Pair[T]]estimate.Result
	stats    estimate.Result
	computed bool
}

// NewComponent creates an empty component.
func NewComponent[T comparable](id int) *Component[T] {
	return &Component[T]{
		ID:     id,
		graph:  graph.New[T](),
		inSet:  make(map[T]struct{}),
		outSet: make(map[T]struct{}),
		pairs:  make(map[Pair[T]]estimate.Result),
	}
}

// AddMember adds key to the component. Adding a member twice is a no-op.
func (c *Component[T]) AddMember(key T) {
	if c.graph.Has(key) {
		return
	}
	c.graph.AddNode(key)
	c.members = append(c.members, key)
}

// AddInternalEdge records an edge whose endpoints are both members.
// Missing endpoints are added as members.
func (c *Component[T]) AddInternalEdge(from, to T, weight int) {
	c.AddMember(from)
	c.AddMember(to)
	c.graph.AddWeightedEdge(from, to, weight)
}

// MarkIn flags key as receiving an edge from outside the component.
func (c *Component[T]) MarkIn(key T) {
	if _, ok := c.inSet[key]; ok {
		return
	}
	c.inSet[key] = struct{}{}
	c.in = append(c.in, key)
}

// MarkOut flags key as having an edge that leaves the component.
func (c *Component[T]) MarkOut(key T) {
	if _, ok := c.outSet[key]; ok {
		return
	}
	c.outSet[key] = struct{}{}
	c.out = append(c.out, key)
}

// Members returns the component's nodes in pop order.
func (c *Component[T]) Members() []T { return c.members }

// InNodes returns the in-nodes in insertion order.
func (c *Component[T]) InNodes() []T { return c.in }

// OutNodes returns the out-nodes in insertion order.
func (c *Component[T]) OutNodes() []T { return c.out }

// Size returns the number of members.
func (c *Component[T]) Size() int { return len(c.members) }

// Contains reports whether k is a member.
func (c *Component[T]) Contains(k T) bool { return c.graph.Has(k) }

// IsIn reports whether key is an in-node.
func (c *Component[T]) IsIn(key T) bool {
	_, ok := c.inSet[key]
	return ok
}

// IsOut reports whether key is an out-node.
func (c *Component[T]) IsOut(key T) bool {
	_, ok := c.outSet[key]
	return ok
}

// Representative returns the first member. It panics on an empty component.
func (c *Component[T]) Representative() T { return c.members[0] }

// Graph returns the component's private graph.
func (c *Component[T]) Graph() *graph.Graph[T] { return c.graph }

// IsTrivial reports whether the component has at most one node. Trivial
// components are crossed without branching and never estimated.
func (c *Component[T]) IsTrivial() bool { return len(c.members) <= 1 }

// Stats returns the aggregate statistic over all in/out pairs. Trivial
// components always report [estimate.PassThrough].
func (c *Component[T]) Stats() estimate.Result {
	if c.IsTrivial() {
		return estimate.PassThrough
	}
	return c.stats
}

// TotalPathCount is Stats().Count.
func (c *Component[T]) TotalPathCount() int64 { return c.Stats().Count }

// TotalAvgLength is Stats().AvgLength.
func (c *Component[T]) TotalAvgLength() float64 { return c.Stats().AvgLength }

// Computed reports whether statistics are available, either from
// ComputeInternalStatistics or from SetStatistics.
func (c *Component[T]) Computed() bool { return c.computed || c.IsTrivial() }

// SetStatistics installs statistics computed elsewhere, for example read
// back from a results file.
func (c *Component[T]) SetStatistics(r estimate.Result) {
	c.stats = r
	c.computed = true
}

// PairStat returns the estimate stored for one in/out pair.
func (c *Component[T]) PairStat(in, out T) (estimate.Result, bool) {
	r, ok := c.pairs[Pair[T]{in, out}]
	return r, ok
}

// Pairs returns every in/out pair in in-node then out-node order.
func (c *Component[T]) Pairs() []Pair[T] {
	out := make([]Pair[T], 0, len(c.in)*len(c.out))
	for _, i := range c.in {
		for _, o := range c.out {
			out = append(out, Pair[T]{i, o})
		}
	}
	return out
}

// Clone returns a deep copy with its own private graph, so that two
// goroutines can estimate on the same component.
func (c *Component[T]) Clone() *Component[T] {
	cp := NewComponent[T](c.ID)
	cp.graph = c.graph.Clone()
	cp.members = append([]T(nil), c.members...)
	for _, k := range c.in {
		cp.MarkIn(k)
	}
	for _, k := range c.out {
		cp.MarkOut(k)
	}
	for p, r := range c.pairs {
		cp.pairs[p] = r
	}
	cp.stats = c.stats
	cp.computed = c.computed
	return cp
}
