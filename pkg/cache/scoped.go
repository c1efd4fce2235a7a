package cache

// ScopedKeyer wraps a Keyer with a prefix so that several graph stores can
// share one backend without colliding.
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

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(snapshotHash, opts)
}

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(snapshotHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(snapshotHash, opts)
}
