// Package io reads and writes the text formats exchanged between the
// stages of a uniquepaths run.
//
// # Edge Lists
//
// Input graphs are plain edge lists, one directed edge per line:
//
//	# from to
//	1 3
//	3 2
//	2 1
//	1 4
//	4 5
//
// Use [ImportEdgeList] or [ReadEdgeList]. A JSON form with optional
// weights and isolated nodes is available through [ReadJSON] and
// [WriteJSON]; [Import] picks the decoder from the file extension.
//
// # Work Units
//
// After decomposition every component is written as a work unit so that
// aggregation can run elsewhere. Each line is prefixed with the unit index
// and names the component:
//
//	0: 2 2 1 1
//	0: 2 3 2 1
//	0: 2 1 3 1
//	0: 2 out 1
//
// The three line shapes are an internal edge "<from> <to> <weight>", an
// in-node "in <node>" and an out-node "out <node>". [ReadWorkUnits]
// groups lines by index and [WorkUnit.Component] rebuilds the component.
//
// # Results
//
// Aggregation writes two lines per component, the path count followed by
// the average length:
//
//	2 : 3
//	2 : 1.6666666666666667
//
// [ReadResults] parses them and [ApplyResults] installs them on the
// components before the condensation traversal.
//
// # Errors
//
// Lines with the wrong number of fields or non-integer keys are reported
// as MALFORMED_INPUT errors (see pkg/errors) carrying the line number.
// Nothing is silently skipped except blank lines and edge list comments.
package io
