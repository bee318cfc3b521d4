package estimate

import (
	"math"
	"math/rand/v2"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/graph"
)

const (
	// DefaultPilotWalks is the number of unbiased walks in the pilot phase.
	DefaultPilotWalks = 2000

	// DefaultSampleWalks is the number of biased walks in the sampling phase.
	DefaultSampleWalks = 50000

	// DefaultMinBias bounds the stop-here probability away from 0 and 1 so
	// that both continuations keep a positive sampling probability.
	DefaultMinBias = 0.01

	// DefaultSeed seeds generators created without an explicit source.
	DefaultSeed uint64 = 42
)

// Options tunes the estimator. Zero fields take the defaults.
type Options struct {
	PilotWalks  int     `json:"pilot_walks,omitempty" toml:"pilot_walks"`
	SampleWalks int     `json:"sample_walks,omitempty" toml:"sample_walks"`
	MinBias     float64 `json:"min_bias,omitempty" toml:"min_bias"`
}

var defaultOpts = Options{
	PilotWalks:  DefaultPilotWalks,
	SampleWalks: DefaultSampleWalks,
	MinBias:     DefaultMinBias,
}

// ValidateAndSetDefaults fills zero fields and rejects invalid budgets.
func (o *Options) ValidateAndSetDefaults() error {
	if o.PilotWalks == 0 {
		o.PilotWalks = DefaultPilotWalks
	}
	if o.SampleWalks == 0 {
		o.SampleWalks = DefaultSampleWalks
	}
	if o.MinBias == 0 {
		o.MinBias = DefaultMinBias
	}
	if err := errs.ValidateWalks("pilot", o.PilotWalks); err != nil {
		return err
	}
	if err := errs.ValidateWalks("sample", o.SampleWalks); err != nil {
		return err
	}
	if o.MinBias < 0 || o.MinBias >= 0.5 {
		return errs.New(errs.ErrCodeInvalidConfig, "min bias must be in [0, 0.5), got %g", o.MinBias)
	}
	return nil
}

// Result is an estimated or exact path statistic between two nodes.
//
// Saturated marks a Count clamped at MaxCount: the true number of paths is
// at least that large. AvgLength is still the estimate for the paths seen.
type Result struct {
	Count     int64   `json:"count" bson:"count"`
	AvgLength float64 `json:"avg_length" bson:"avg_length"`
	Saturated bool    `json:"saturated,omitempty" bson:"saturated,omitempty"`
}

// PassThrough is the statistic of a component that paths cross without
// branching: one way through, one edge long.
var PassThrough = Result{Count: 1, AvgLength: 1}

// NewRand returns a PCG generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Estimator counts simple paths by two-phase importance sampling.
//
// The pilot phase runs unbiased self-avoiding walks and learns, per step
// index, how much of the successful path mass stops at the end node on the
// next step. The sampling phase then biases the decision "step to end now
// or keep walking" by that vector and reweights every successful walk by
// its inverse likelihood.
//
// An Estimator owns its random source and is not safe for concurrent use.
// Give every goroutine its own instance.
type Estimator struct {
	opts Options
	rng  *rand.Rand
	buf  []graph.NodeID
}

// New creates an estimator. A nil opts uses the defaults; a nil rng is
// seeded from DefaultSeed.
func New(opts *Options, rng *rand.Rand) *Estimator {
	o := defaultOpts
	if opts != nil {
		o = *opts
		if o.PilotWalks <= 0 {
			o.PilotWalks = DefaultPilotWalks
		}
		if o.SampleWalks <= 0 {
			o.SampleWalks = DefaultSampleWalks
		}
		o.MinBias = max(0, min(o.MinBias, 0.5))
	}
	if rng == nil {
		rng = NewRand(DefaultSeed)
	}
	return &Estimator{opts: o, rng: rng}
}

// Options returns the effective options.
func (e *Estimator) Options() Options { return e.opts }

// Estimate approximates the number of simple paths from start to end in g
// and their average length in edges. Unknown keys return NODE_NOT_FOUND.
// When start equals end the result is the empty path (1, 0).
func Estimate[T comparable](e *Estimator, g *graph.Graph[T], start, end T) (Result, error) {
	s, err := g.Node(start)
	if err != nil {
		return Result{}, err
	}
	t, err := g.Node(end)
	if err != nil {
		return Result{}, err
	}
	return e.EstimateIDs(g, s, t), nil
}

// EstimateIDs is Estimate on node handles.
func (e *Estimator) EstimateIDs(g graph.Topology, start, end graph.NodeID) Result {
	if start == end {
		return Result{Count: 1}
	}
	defer g.ResetVisited()

	pilot := e.PilotIDs(g, start, end)

	var countAcc, lengthAcc float64
	var successes int
	for range e.opts.SampleWalks {
		w, ok := e.biasedWalk(g, start, end, pilot)
		if !ok {
			continue
		}
		countAcc += 1 / w.like
		lengthAcc += float64(w.length)
		successes++
	}

	var res Result
	res.Count, res.Saturated = CountFromFloat(math.Ceil(countAcc / float64(e.opts.SampleWalks)))
	if successes > 0 {
		res.AvgLength = lengthAcc / float64(successes)
	}
	return res
}

// Pilot runs the unbiased phase and returns the stop-here vector indexed by
// step count. Entry i is the share of successful path mass that, having
// taken i steps, stepped directly to end.
//
// Every successful walk p_0..p_k carries its full-path mass 1/L(p_k), added
// to numer[k-1] and to denom[j] for each j < k. Weighting a position by the
// walk's own prefix likelihood instead inflates the entries towards 1, so
// the sampling phase almost never explores past the first edge into end.
func Pilot[T comparable](e *Estimator, g *graph.Graph[T], start, end T) ([]float64, error) {
	s, err := g.Node(start)
	if err != nil {
		return nil, err
	}
	t, err := g.Node(end)
	if err != nil {
		return nil, err
	}
	defer g.ResetVisited()
	return e.PilotIDs(g, s, t), nil
}

// PilotIDs is Pilot on node handles.
func (e *Estimator) PilotIDs(g graph.Topology, start, end graph.NodeID) []float64 {
	n := g.Size()
	numer := make([]float64, n)
	denom := make([]float64, n)

	for range e.opts.PilotWalks {
		w := naiveWalk(g, start, end, e.rng, &e.buf)
		if !w.Reached() || w.Length() == 0 {
			continue
		}
		k := w.Length()
		mass := 1 / w.Likelihood[k]
		numer[k-1] += mass
		for j := range k {
			denom[j] += mass
		}
	}

	v := make([]float64, n)
	for i := range v {
		if denom[i] > 0 {
			v[i] = numer[i] / denom[i]
		}
	}
	return v
}

type sample struct {
	like   float64
	length int
}

func (e *Estimator) biasedWalk(g graph.Topology, start, end graph.NodeID, pilot []float64) (sample, bool) {
	visited := append(e.buf[:0], start)
	g.SetVisited(start, true)
	defer func() {
		for _, n := range visited {
			g.SetVisited(n, false)
		}
		e.buf = visited[:0]
	}()

	curr, like, steps := start, 1.0, 0
	for curr != end {
		toEnd := false
		var cands []graph.NodeID
		for _, a := range g.Out(curr) {
			switch {
			case a.To == end:
				toEnd = true
			case !g.Visited(a.To):
				cands = append(cands, a.To)
			}
		}

		if toEnd {
			if len(cands) == 0 {
				return sample{like: like, length: steps + 1}, true
			}
			p := e.bias(pilot, steps)
			if e.rng.Float64() < p {
				return sample{like: like * p, length: steps + 1}, true
			}
			like *= 1 - p
		}
		if len(cands) == 0 {
			return sample{}, false
		}

		curr = cands[e.rng.IntN(len(cands))]
		like /= float64(len(cands))
		g.SetVisited(curr, true)
		visited = append(visited, curr)
		steps++
	}
	return sample{like: like, length: steps}, true
}

func (e *Estimator) bias(pilot []float64, step int) float64 {
	var p float64
	if step < len(pilot) {
		p = pilot[step]
	}
	return max(e.opts.MinBias, min(p, 1-e.opts.MinBias))
}
