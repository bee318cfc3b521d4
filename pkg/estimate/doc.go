// Package estimate approximates the number of distinct simple paths between
// two nodes of a directed graph, and their average length, without
// enumerating them.
//
// # Algorithm
//
// Counting simple paths is #P-complete, so [Estimator] samples instead:
//
//  1. Pilot: [Options.PilotWalks] unbiased self-avoiding walks (see
//     [NaiveSimplePath]). Every walk that reaches the end node contributes
//     its inverse likelihood, the number of paths it stands for, to a
//     per-step denominator for each step it took and to a numerator at the
//     step from which it jumped to the end. Their ratio is the stop-here
//     vector returned by [Pilot].
//  2. Sampling: [Options.SampleWalks] biased walks. Whenever the walk can
//     step directly to the end node and still has other choices, it does so
//     with the pilot probability for the current step, otherwise it
//     continues uniformly among the remaining unvisited successors. Walks
//     that dead-end are discarded.
//
// The path count is the ceiling of the mean inverse likelihood over all
// sampling walks; the average length is the mean edge count over the
// successful ones. A pair with no sampled path reports (0, 0).
//
// # Randomness
//
// Every [Estimator] owns a *rand.Rand. Concurrent callers must each use
// their own estimator; [NewRand] builds a PCG source from a seed so runs
// are reproducible:
//
//	est := estimate.New(nil, estimate.NewRand(7))
//	res, err := estimate.Estimate(est, g, 1, 5)
//
// The estimate is approximate. Tests compare it against exact counts only
// within a relative tolerance.
package estimate
