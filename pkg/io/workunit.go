package io

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/graph"
	"github.com/matzehuels/uniquepaths/pkg/scc"
)

// Boundary markers used in work unit lines.
const (
	markIn  = "in"
	markOut = "out"
)

// WorkUnit is the serialized form of one component handed to an
// aggregation worker: its internal edges and boundary nodes.
type WorkUnit struct {
	Index       int
	ComponentID int
	Edges       []graph.Edge[int]
	In          []int
	Out         []int
}

// NewWorkUnit captures component c as work unit idx.
func NewWorkUnit(idx int, c *scc.Component[int]) *WorkUnit {
	return &WorkUnit{
		Index:       idx,
		ComponentID: c.ID,
		Edges:       c.Graph().EdgeList(),
		In:          append([]int(nil), c.InNodes()...),
		Out:         append([]int(nil), c.OutNodes()...),
	}
}

// Component rebuilds the component described by the unit. Members are
// the endpoints of its edges and its boundary nodes.
func (u *WorkUnit) Component() *scc.Component[int] {
	c := scc.NewComponent[int](u.ComponentID)
	for _, e := range u.Edges {
		c.AddInternalEdge(e.From, e.To, e.Weight)
	}
	for _, v := range u.In {
		c.AddMember(v)
		c.MarkIn(v)
	}
	for _, v := range u.Out {
		c.AddMember(v)
		c.MarkOut(v)
	}
	return c
}

// Encode writes the unit's lines:
//
//	<idx>: <componentId> <from> <to> <weight>
//	<idx>: <componentId> in <node>
//	<idx>: <componentId> out <node>
func (u *WorkUnit) Encode(w io.Writer) error {
	for _, e := range u.Edges {
		if _, err := fmt.Fprintf(w, "%d: %d %d %d %d\n", u.Index, u.ComponentID, e.From, e.To, e.Weight); err != nil {
			return err
		}
	}
	for _, v := range u.In {
		if _, err := fmt.Fprintf(w, "%d: %d %s %d\n", u.Index, u.ComponentID, markIn, v); err != nil {
			return err
		}
	}
	for _, v := range u.Out {
		if _, err := fmt.Fprintf(w, "%d: %d %s %d\n", u.Index, u.ComponentID, markOut, v); err != nil {
			return err
		}
	}
	return nil
}

// Bytes returns the encoded unit. The encoding is deterministic, so it can
// be hashed into a cache key.
func (u *WorkUnit) Bytes() []byte {
	var buf bytes.Buffer
	_ = u.Encode(&buf)
	return buf.Bytes()
}

// WriteWorkUnits writes one work unit per component, numbered by position.
func WriteWorkUnits(w io.Writer, comps []*scc.Component[int]) error {
	bw := bufio.NewWriter(w)
	for i, c := range comps {
		if err := NewWorkUnit(i, c).Encode(bw); err != nil {
			return fmt.Errorf("write unit %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// ReadWorkUnits parses work unit lines from r and groups them by unit
// index, in order of first appearance. Lines of one unit need not be
// adjacent. Malformed lines yield MALFORMED_INPUT naming the line.
func ReadWorkUnits(r io.Reader) ([]*WorkUnit, error) {
	var units []*WorkUnit
	byIndex := make(map[int]*WorkUnit)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		idxText, rest, ok := strings.Cut(text, ":")
		if !ok {
			return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: missing unit index", line)
		}
		idx, err := parseKey(idxText, line)
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(rest)
		if len(fields) < 3 {
			return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: want 3 or 4 fields after index, got %d", line, len(fields))
		}
		cid, err := parseKey(fields[0], line)
		if err != nil {
			return nil, err
		}

		u, ok := byIndex[idx]
		if !ok {
			u = &WorkUnit{Index: idx, ComponentID: cid}
			byIndex[idx] = u
			units = append(units, u)
		} else if u.ComponentID != cid {
			return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: unit %d mixes components %d and %d", line, idx, u.ComponentID, cid)
		}

		switch {
		case len(fields) == 3 && (fields[1] == markIn || fields[1] == markOut):
			v, err := parseKey(fields[2], line)
			if err != nil {
				return nil, err
			}
			if fields[1] == markIn {
				u.In = append(u.In, v)
			} else {
				u.Out = append(u.Out, v)
			}
		case len(fields) == 4:
			vals := make([]int, 3)
			for i, f := range fields[1:] {
				if vals[i], err = parseKey(f, line); err != nil {
					return nil, err
				}
			}
			u.Edges = append(u.Edges, graph.Edge[int]{From: vals[0], To: vals[1], Weight: vals[2]})
		default:
			return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: unrecognized work unit %q", line, strings.TrimSpace(rest))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return units, nil
}

// FormatValue renders a result value the way result files store it.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
