package cache

// Keyer derives cache keys for the cached stages of a run.
type Keyer interface {
	// ComponentKey keys the statistics of one component, identified by
	// the hash of its encoded work unit.
	ComponentKey(unitHash string, opts ComponentKeyOpts) string

	// RunKey keys the final result of a run over one graph.
	RunKey(graphHash string, opts RunKeyOpts) string
}

// ComponentKeyOpts holds every setting that changes component statistics.
type ComponentKeyOpts struct {
	PilotWalks  int     `json:"pilot"`
	SampleWalks int     `json:"sample"`
	MinBias     float64 `json:"min_bias"`
	Seed        uint64  `json:"seed"`
}

// RunKeyOpts holds every setting that changes a run's result.
type RunKeyOpts struct {
	Start     int              `json:"start"`
	End       int              `json:"end"`
	Gating    string           `json:"gating"`
	Combine   string           `json:"combine"`
	Exact     bool             `json:"exact"`
	Component ComponentKeyOpts `json:"component"`
}

// DefaultKeyer hashes the options together with the content hash.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ComponentKey implements Keyer.
func (DefaultKeyer) ComponentKey(unitHash string, opts ComponentKeyOpts) string {
	return hashKey("component", unitHash, opts)
}

// RunKey implements Keyer.
func (DefaultKeyer) RunKey(graphHash string, opts RunKeyOpts) string {
	return hashKey("run", graphHash, opts)
}
