package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/graph"
)

// ReadEdgeList decodes a whitespace-separated edge list from r.
//
// Each non-blank line holds one edge as two integer node keys:
//
//	1 3
//	3 2
//	2 1
//
// Lines starting with '#' are comments. Every edge gets weight 1 and
// repeated pairs are ignored. A line with the wrong number of fields or a
// non-integer key yields a MALFORMED_INPUT error naming the line.
//
// ReadEdgeList does not close r.
func ReadEdgeList(r io.Reader) (*graph.Graph[int], error) {
	g := graph.New[int]()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: want 2 fields, got %d", line, len(fields))
		}
		from, err := parseKey(fields[0], line)
		if err != nil {
			return nil, err
		}
		to, err := parseKey(fields[1], line)
		if err != nil {
			return nil, err
		}
		g.AddEdge(from, to)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return g, nil
}

// ImportEdgeList reads an edge list file at path.
func ImportEdgeList(path string) (*graph.Graph[int], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadEdgeList(f)
}

// ReadJSON decodes a JSON edge document from r:
//
//	{
//	  "nodes": [6],
//	  "edges": [{"from": 1, "to": 2}, {"from": 2, "to": 3, "weight": 2}]
//	}
//
// "nodes" is optional and lists nodes that have no edges. A missing or
// non-positive weight is stored as 1.
func ReadJSON(r io.Reader) (*graph.Graph[int], error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "decode")
	}

	g := graph.New[int]()
	for _, n := range data.Nodes {
		g.AddNode(n)
	}
	for _, e := range data.Edges {
		g.AddWeightedEdge(e.From, e.To, e.Weight)
	}
	return g, nil
}

// ImportJSON reads a JSON edge document file at path.
func ImportJSON(path string) (*graph.Graph[int], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Import reads a graph file, choosing the JSON decoder for .json files and
// the edge list decoder otherwise.
func Import(path string) (*graph.Graph[int], error) {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return ImportJSON(path)
	}
	return ImportEdgeList(path)
}

func parseKey(s string, line int) (int, error) {
	v, err := errs.ParseNodeKey(s)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeMalformedInput, err, "line %d", line)
	}
	return v, nil
}
