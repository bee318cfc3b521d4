package graph

import (
	"fmt"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
)

// NodeID is a dense handle into a [Graph] arena. Handles are assigned in
// insertion order starting at 0 and stay valid for the life of the graph.
type NodeID int

// Arc is an outgoing adjacency entry stored on the source node.
type Arc struct {
	To     NodeID // Target handle
	Weight int    // Edge weight (at least 1)
}

// Edge is a directed, weighted edge expressed in node keys.
// Edges are values: once added to a graph they are never mutated.
type Edge[T comparable] struct {
	From   T
	To     T
	Weight int
}

// String renders the edge as "from→to" for logs and error messages.
func (e Edge[T]) String() string {
	return fmt.Sprintf("%v→%v", e.From, e.To)
}

type arcKey struct {
	from, to NodeID
}

// Graph is a directed graph over comparable keys.
//
// Nodes live in an arena indexed by [NodeID]; the key → handle mapping is a
// plain map. Each ordered pair of nodes carries at most one edge, so adding
// an existing pair again is a no-op. Self loops are allowed.
//
// Graph also owns a per-node visited flag used by traversals. Every
// traversal in this module clears the flags before it returns, so callers
// observe an unmarked graph between operations.
//
// The zero value is not usable - use [New] to create a graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph[T comparable] struct {
	keys    []T
	index   map[T]NodeID
	out     [][]Arc
	arcs    map[arcKey]int // arc -> weight
	order   []arcKey       // insertion order for EdgeList
	visited []bool
}

// New creates an empty graph.
func New[T comparable]() *Graph[T] {
	return &Graph[T]{
		index: make(map[T]NodeID),
		arcs:  make(map[arcKey]int),
	}
}

// AddNode returns the handle for key, creating the node if it is absent.
func (g *Graph[T]) AddNode(key T) NodeID {
	if id, ok := g.index[key]; ok {
		return id
	}
	id := NodeID(len(g.keys))
	g.keys = append(g.keys, key)
	g.index[key] = id
	g.out = append(g.out, nil)
	g.visited = append(g.visited, false)
	return id
}

// AddEdge adds a weight-1 edge from → to. See [Graph.AddWeightedEdge].
func (g *Graph[T]) AddEdge(from, to T) bool {
	return g.AddWeightedEdge(from, to, 1)
}

// AddWeightedEdge adds the edge from → to, creating missing endpoints.
// It reports whether a new edge was inserted: re-adding an ordered pair
// keeps the first weight and returns false. Weights below 1 are stored as 1.
func (g *Graph[T]) AddWeightedEdge(from, to T, weight int) bool {
	f := g.AddNode(from)
	t := g.AddNode(to)
	return g.addArc(f, t, weight)
}

func (g *Graph[T]) addArc(f, t NodeID, weight int) bool {
	k := arcKey{f, t}
	if _, ok := g.arcs[k]; ok {
		return false
	}
	if weight < 1 {
		weight = 1
	}
	g.arcs[k] = weight
	g.order = append(g.order, k)
	g.out[f] = append(g.out[f], Arc{To: t, Weight: weight})
	return true
}

// Lookup returns the handle for key and whether the node exists.
func (g *Graph[T]) Lookup(key T) (NodeID, bool) {
	id, ok := g.index[key]
	return id, ok
}

// Node returns the handle for key, or a NODE_NOT_FOUND error.
func (g *Graph[T]) Node(key T) (NodeID, error) {
	id, ok := g.index[key]
	if !ok {
		return 0, errs.New(errs.ErrCodeNodeNotFound, "node %v not in graph", key)
	}
	return id, nil
}

// Has reports whether key is a node of the graph.
func (g *Graph[T]) Has(key T) bool {
	_, ok := g.index[key]
	return ok
}

// Key returns the key stored at handle id.
func (g *Graph[T]) Key(id NodeID) T { return g.keys[id] }

// Keys returns all node keys in insertion order.
// The returned slice is a copy and can be modified.
func (g *Graph[T]) Keys() []T {
	out := make([]T, len(g.keys))
	copy(out, g.keys)
	return out
}

// Size returns the number of nodes.
func (g *Graph[T]) Size() int { return len(g.keys) }

// EdgeCount returns the number of distinct edges.
func (g *Graph[T]) EdgeCount() int { return len(g.order) }

// Out returns the outgoing arcs of id in insertion order.
// The slice is owned by the graph and must not be modified.
func (g *Graph[T]) Out(id NodeID) []Arc { return g.out[id] }

// OutDegree returns the number of outgoing edges of id.
func (g *Graph[T]) OutDegree(id NodeID) int { return len(g.out[id]) }

// HasArc reports whether the edge from → to exists, by handle.
func (g *Graph[T]) HasArc(from, to NodeID) bool {
	_, ok := g.arcs[arcKey{from, to}]
	return ok
}

// Weight returns the weight of the edge from → to, by handle.
func (g *Graph[T]) Weight(from, to NodeID) (int, bool) {
	w, ok := g.arcs[arcKey{from, to}]
	return w, ok
}

// EdgeExists reports whether the edge from → to exists, by key.
// Unknown keys yield false.
func (g *Graph[T]) EdgeExists(from, to T) bool {
	f, ok := g.index[from]
	if !ok {
		return false
	}
	t, ok := g.index[to]
	if !ok {
		return false
	}
	return g.HasArc(f, t)
}

// EdgeList returns every edge in insertion order.
func (g *Graph[T]) EdgeList() []Edge[T] {
	out := make([]Edge[T], len(g.order))
	for i, k := range g.order {
		out[i] = Edge[T]{From: g.keys[k.from], To: g.keys[k.to], Weight: g.arcs[k]}
	}
	return out
}

// Visited reports the traversal flag of id.
func (g *Graph[T]) Visited(id NodeID) bool { return g.visited[id] }

// SetVisited sets the traversal flag of id.
func (g *Graph[T]) SetVisited(id NodeID, v bool) { g.visited[id] = v }

// ResetVisited clears every traversal flag.
func (g *Graph[T]) ResetVisited() { clear(g.visited) }

// AnyVisited reports whether some node still carries a traversal flag.
func (g *Graph[T]) AnyVisited() bool {
	for _, v := range g.visited {
		if v {
			return true
		}
	}
	return false
}

// Transpose returns a new graph with every edge reversed. Node handles are
// identical in both graphs, so a handle from g can be used on the result.
func (g *Graph[T]) Transpose() *Graph[T] {
	t := g.emptyCopy()
	for _, k := range g.order {
		t.addArc(k.to, k.from, g.arcs[k])
	}
	return t
}

// Clone returns a deep copy of the graph with cleared traversal flags.
// Node handles are preserved.
func (g *Graph[T]) Clone() *Graph[T] {
	c := g.emptyCopy()
	for _, k := range g.order {
		c.addArc(k.from, k.to, g.arcs[k])
	}
	return c
}

func (g *Graph[T]) emptyCopy() *Graph[T] {
	c := &Graph[T]{
		keys:    make([]T, len(g.keys)),
		index:   make(map[T]NodeID, len(g.keys)),
		out:     make([][]Arc, len(g.keys)),
		arcs:    make(map[arcKey]int, len(g.arcs)),
		visited: make([]bool, len(g.keys)),
	}
	copy(c.keys, g.keys)
	for k, v := range g.index {
		c.index[k] = v
	}
	return c
}

// Topology is the handle-level view of a graph used by walk-based
// algorithms. [Graph] implements it for every key type, so estimators and
// counters can be written once without type parameters.
type Topology interface {
	Size() int
	Out(id NodeID) []Arc
	HasArc(from, to NodeID) bool
	Visited(id NodeID) bool
	SetVisited(id NodeID, v bool)
	ResetVisited()
}

var _ Topology = (*Graph[int])(nil)
