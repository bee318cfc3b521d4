// Package nodelink draws the condensation graph of a decomposition as a
// node-link diagram.
//
// # Overview
//
// Every strongly connected component becomes one box labelled with its
// representative node; edges are the deduplicated edges between
// components. Components with more than one node are filled so that the
// cyclic parts of a graph stand out from its acyclic skeleton.
//
// # Usage
//
// Convert a condensation to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(cond, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include component size and path statistics,
//     edge labels the number of original edges they stand for
//   - Highlight: representatives drawn with a red outline, typically the
//     components holding the start and end node of a query
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
