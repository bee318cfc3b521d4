// Package render converts rendered SVG diagrams to raster and print formats.
//
// The diagrams themselves are produced by the [nodelink] subpackage, which
// draws the condensation graph of a decomposition with Graphviz. This
// package only holds the format conversion shared by renderers:
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg:
// brew install librsvg (macOS), apt install librsvg2-bin (Linux).
package render
