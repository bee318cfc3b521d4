package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments can
// share one Redis instance without seeing each other's entries.
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ComponentKey generates a prefixed key for component statistics.
func (k *ScopedKeyer) ComponentKey(unitHash string, opts ComponentKeyOpts) string {
	return k.prefix + k.inner.ComponentKey(unitHash, opts)
}

// RunKey generates a prefixed key for whole-run results.
func (k *ScopedKeyer) RunKey(graphHash string, opts RunKeyOpts) string {
	return k.prefix + k.inner.RunKey(graphHash, opts)
}
