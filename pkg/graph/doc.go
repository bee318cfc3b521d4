// Package graph provides the directed, weighted graph store shared by every
// algorithm in uniquepaths.
//
// # Arena Layout
//
// A [Graph] keeps its nodes in an arena: each distinct key receives a dense
// [NodeID] handle in insertion order, adjacency is stored as a slice of
// [Arc] per handle, and per-node traversal state lives in side arrays
// instead of on the nodes themselves. Handles are stable, so algorithms can
// allocate their own side arrays (index, lowlink, on-stack) sized by
// [Graph.Size] without touching the graph.
//
// # Edges
//
// Each ordered pair carries at most one edge:
//
//	g := graph.New[int]()
//	g.AddEdge(1, 2)                // true
//	g.AddEdge(1, 2)                // false, already present
//	g.AddWeightedEdge(2, 3, 4)     // weight is preserved
//	g.EdgeList()                   // 1→2 weight 1, 2→3 weight 4
//
// Edges are directed and self loops are permitted. [Graph.Transpose] and
// [Graph.Clone] produce independent graphs that share handle numbering
// with the original.
//
// # Traversal Flags
//
// [Graph.Visited] and [Graph.SetVisited] expose one boolean per node. The
// estimators and counters in this module use it for self-avoiding walks and
// always clear it with [Graph.ResetVisited] before returning. Tests assert
// this with [Graph.AnyVisited].
//
// # Errors
//
// [Graph.Node] returns an error with code NODE_NOT_FOUND (see pkg/errors)
// for keys that were never added. [Graph.Lookup] is the non-error form.
package graph
