package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/uniquepaths/pkg/render"
	"github.com/matzehuels/uniquepaths/pkg/scc"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes component size and path statistics in node labels.
	// When false, only the representative is shown.
	Detailed bool

	// Highlight lists representatives, formatted with %v, to outline.
	Highlight []string
}

// ToDOT converts a condensation to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Super nodes appear in component ID order and edges in insertion order,
// so the output is deterministic for a given decomposition.
func ToDOT[T comparable](cond *scc.Condensation[T], opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, sn := range cond.SuperNodes() {
		id := fmt.Sprint(sn.Representative)
		attrs := fmtAttrs(sn.Component, fmtLabel(id, sn.Component, opts.Detailed), slices.Contains(opts.Highlight, id))
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range cond.Graph().EdgeList() {
		from, to := fmt.Sprint(e.From), fmt.Sprint(e.To)
		if !opts.Detailed {
			fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
			continue
		}
		fromSN, _ := cond.SuperNode(e.From)
		toSN, _ := cond.SuperNode(e.To)
		n := len(cond.Links(fromSN.Component.ID, toSN.Component.ID))
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", from, to, strconv.Itoa(n))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel[T comparable](id string, c *scc.Component[T], detailed bool) string {
	if !detailed || c.IsTrivial() {
		return id
	}

	parts := []string{fmt.Sprintf("nodes: %d", c.Size())}
	if c.Computed() {
		parts = append(parts,
			fmt.Sprintf("paths: %d", c.TotalPathCount()),
			fmt.Sprintf("avg: %.2f", c.TotalAvgLength()))
	}
	return id + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs[T comparable](c *scc.Component[T], label string, highlight bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !c.IsTrivial() {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	if highlight {
		attrs = append(attrs, "color=\"#d9534f\"", "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales from
// the origin instead of Graphviz's translated coordinate system.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
