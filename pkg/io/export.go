package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/uniquepaths/pkg/graph"
)

type document struct {
	Nodes []int  `json:"nodes,omitempty"`
	Edges []edge `json:"edges"`
}

type edge struct {
	From   int `json:"from"`
	To     int `json:"to"`
	Weight int `json:"weight,omitempty"`
}

// WriteEdgeList writes g as one "from to" line per edge, in insertion
// order. Weights are not part of the format; isolated nodes are dropped.
func WriteEdgeList(g *graph.Graph[int], w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range g.EdgeList() {
		if _, err := fmt.Fprintf(bw, "%d %d\n", e.From, e.To); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return bw.Flush()
}

// ExportEdgeList writes g to an edge list file at path.
func ExportEdgeList(g *graph.Graph[int], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteEdgeList(g, f)
}

// WriteJSON encodes g as a JSON edge document. Weights other than 1 and
// nodes without edges are kept, so [ReadJSON] restores the same graph.
func WriteJSON(g *graph.Graph[int], w io.Writer) error {
	out := document{Edges: make([]edge, 0, g.EdgeCount())}
	touched := make(map[int]bool, g.Size())
	for _, e := range g.EdgeList() {
		ed := edge{From: e.From, To: e.To}
		if e.Weight != 1 {
			ed.Weight = e.Weight
		}
		out.Edges = append(out.Edges, ed)
		touched[e.From], touched[e.To] = true, true
	}
	for _, k := range g.Keys() {
		if !touched[k] {
			out.Nodes = append(out.Nodes, k)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph[int], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
