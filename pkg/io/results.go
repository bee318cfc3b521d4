package io

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/estimate"
	"github.com/matzehuels/uniquepaths/pkg/scc"
)

// WriteResult writes the two result lines of one component: the total
// path count, then the average length.
//
//	<componentId> : <count>
//	<componentId> : <avgLength>
func WriteResult(w io.Writer, id int, r estimate.Result) error {
	if _, err := fmt.Fprintf(w, "%d : %d\n", id, r.Count); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d : %s\n", id, FormatValue(r.AvgLength))
	return err
}

// WriteResults writes the statistics of every component in order.
func WriteResults(w io.Writer, comps []*scc.Component[int]) error {
	bw := bufio.NewWriter(w)
	for _, c := range comps {
		if err := WriteResult(bw, c.ID, c.Stats()); err != nil {
			return fmt.Errorf("write component %d: %w", c.ID, err)
		}
	}
	return bw.Flush()
}

// ReadResults parses result lines. The first line seen for a component is
// its path count and the second its average length; values may be written
// as decimals. Counts of 2^63 or more read back saturated. Extra or missing
// lines and negative counts yield MALFORMED_INPUT.
func ReadResults(r io.Reader) (map[int]estimate.Result, error) {
	out := make(map[int]estimate.Result)
	seen := make(map[int]int)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		key, value, ok := strings.Cut(text, ":")
		if !ok {
			return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: want \"<component> : <value>\"", line)
		}
		id, err := parseKey(key, line)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "line %d", line)
		}

		res := out[id]
		switch seen[id] {
		case 0:
			if v < 0 {
				return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: negative path count %s", line, strings.TrimSpace(value))
			}
			res.Count, res.Saturated = estimate.CountFromFloat(math.Round(v))
		case 1:
			res.AvgLength = v
		default:
			return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: component %d has more than two values", line, id)
		}
		seen[id]++
		out[id] = res
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	for id, n := range seen {
		if n != 2 {
			return nil, errs.New(errs.ErrCodeMalformedInput, "component %d has %d values, want 2", id, n)
		}
	}
	return out, nil
}

// ApplyResults installs results onto the components with matching IDs.
// A result for an unknown component is an error; components without a
// result are left untouched.
func ApplyResults(comps []*scc.Component[int], results map[int]estimate.Result) error {
	byID := make(map[int]*scc.Component[int], len(comps))
	for _, c := range comps {
		byID[c.ID] = c
	}
	for id, r := range results {
		c, ok := byID[id]
		if !ok {
			return errs.New(errs.ErrCodeMalformedInput, "result for unknown component %d", id)
		}
		c.SetStatistics(r)
	}
	return nil
}
