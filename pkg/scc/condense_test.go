package scc

import (
	"testing"

	"github.com/matzehuels/uniquepaths/pkg/graph"
)

func TestContract_Scenario(t *testing.T) {
	d, _ := Decompose(scenario(), nil)
	c := Contract(d)

	g := c.Graph()
	if g.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", g.Size())
	}
	if !g.EdgeExists(2, 4) || !g.EdgeExists(4, 5) {
		t.Errorf("EdgeList() = %v, want 2→4 and 4→5", g.EdgeList())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}

	sn, err := c.SuperNodeOf(3)
	if err != nil {
		t.Fatalf("SuperNodeOf(3) error = %v", err)
	}
	if sn.Representative != 2 || sn.Component.Size() != 3 {
		t.Errorf("SuperNodeOf(3) = rep %d size %d, want rep 2 size 3", sn.Representative, sn.Component.Size())
	}
	if got, ok := c.SuperNode(2); !ok || got != sn {
		t.Error("SuperNode(2) does not return the owning super node")
	}
}

func TestContract_Acyclic(t *testing.T) {
	for seed := range uint64(20) {
		g := randomGraph(seed, 40, 80)
		c := Contract(mustDecompose(t, g))
		if HasCycle(c.Graph()) {
			t.Errorf("seed %d: condensation has a cycle", seed)
		}
	}
}

func TestContract_Dedup(t *testing.T) {
	// Two parallel crossings from {1,2} into {3,4}.
	g := graph.New[int]()
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	g.AddEdge(3, 4)
	g.AddEdge(4, 3)
	g.AddEdge(1, 3)
	g.AddEdge(2, 4)

	d := mustDecompose(t, g)
	c := Contract(d)
	if c.Graph().EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", c.Graph().EdgeCount())
	}
	from, _ := d.ComponentOf(1)
	to, _ := d.ComponentOf(3)
	if links := c.Links(from, to); len(links) != 2 {
		t.Errorf("Links() = %v, want 2 edges", links)
	}
	if links := c.Links(to, from); len(links) != 0 {
		t.Errorf("reverse Links() = %v, want none", links)
	}
}

func TestHasCycle(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]int
		want  bool
	}{
		{"Empty", nil, false},
		{"Chain", [][2]int{{1, 2}, {2, 3}}, false},
		{"Diamond", [][2]int{{1, 2}, {1, 3}, {2, 4}, {3, 4}}, false},
		{"Triangle", [][2]int{{1, 2}, {2, 3}, {3, 1}}, true},
		{"SelfLoop", [][2]int{{1, 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New[int]()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}
			if got := HasCycle(g); got != tt.want {
				t.Errorf("HasCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func mustDecompose(t *testing.T, g *graph.Graph[int]) *Decomposition[int] {
	t.Helper()
	d, err := Decompose(g, nil)
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	return d
}
