// Package scc decomposes a directed graph into strongly connected
// components, contracts them into an acyclic condensation, and estimates
// the internal path statistics of each component.
//
// # Decomposition
//
// [Decompose] runs Tarjan's algorithm with an explicit stack. Components
// are numbered in the order they are emitted, which is reverse
// topological. Each [Component] carries:
//
//   - a private graph with its members and internal edges
//   - in-nodes, reached by an edge from another component
//   - out-nodes, with an edge to another component
//
// # Condensation
//
// [Contract] turns every component into a [SuperNode] keyed by its
// representative (the first member Tarjan popped) and keeps one edge per
// pair of connected components. The result is acyclic; [HasCycle] checks
// that property.
//
// # Aggregation
//
// [ComputeInternalStatistics] estimates paths for every in/out pair of a
// component with an [estimate.Estimator] and stores the count-weighted
// total. Components of one node are pass-through: one path, length one.
// [AggregateAll] does this for many components in parallel using an
// errgroup and one seeded generator per component.
package scc
