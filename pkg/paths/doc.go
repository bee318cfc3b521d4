// Package paths counts simple paths between two nodes of a directed graph.
//
// [ExactCount] enumerates every simple path with an explicit-stack DFS and
// serves as ground truth for small graphs.
//
// [CondensationTraversal] scales to large graphs. It works on the
// condensation built by package scc, where each strongly connected
// component already carries estimated internal statistics:
//
//  1. Boundary factors: the paths from the real start to the out-nodes of
//     its component (entry) and from the in-nodes of the end component to
//     the real end (exit) are estimated, subject to [Gating].
//  2. The condensation is ordered topologically by reversing DFS finishing
//     times from the start super node.
//  3. A map from path length to path count is propagated from the end
//     super node backwards. Crossing a component multiplies counts by its
//     total path count and shifts lengths by its average length plus the
//     crossing edge.
//  4. Counts of the three parts multiply; lengths combine per [Combine].
//
// If start and end share a component the traversal falls back to the
// estimator on that component alone.
package paths
