package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/uniquepaths/pkg/graph"
	"github.com/matzehuels/uniquepaths/pkg/scc"
)

func scenario(t *testing.T) *scc.Condensation[int] {
	t.Helper()
	g := graph.New[int]()
	for _, e := range [][2]int{{1, 3}, {3, 2}, {2, 1}, {1, 4}, {4, 5}} {
		g.AddEdge(e[0], e[1])
	}
	d, err := scc.Decompose(g, nil)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	return scc.Contract(d)
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(scenario(t), Options{})

	want := []string{
		`"5" [label="5"];`,
		`"4" [label="4"];`,
		`"2" [label="2", fillcolor=lightblue];`,
		`"2" -> "4";`,
		`"4" -> "5";`,
	}
	for _, w := range want {
		if !strings.Contains(dot, w) {
			t.Errorf("ToDOT() missing %s\n%s", w, dot)
		}
	}
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT() is not a digraph:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	cond := scenario(t)
	cycle, _ := cond.SuperNode(2)
	cycle.Component.SetStatistics(cycle.Component.Stats())

	dot := ToDOT(cond, Options{Detailed: true, Highlight: []string{"2", "5"}})

	for _, w := range []string{
		`nodes: 3`,
		`"2" -> "4" [label="1"];`,
		`penwidth=3`,
	} {
		if !strings.Contains(dot, w) {
			t.Errorf("ToDOT() missing %s\n%s", w, dot)
		}
	}
	if n := strings.Count(dot, "penwidth=3"); n != 2 {
		t.Errorf("highlighted %d nodes, want 2", n)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(scenario(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("RenderSVG() root not normalized: %.200s", s)
	}
	if !strings.Contains(s, "</svg>") {
		t.Error("RenderSVG() output is truncated")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() should leave svg without viewBox alone")
	}
}
