package cache

// ScopedKeyer wraps a Keyer with a prefix. The pipeline scopes keys by
// release so that renderer changes never serve stale artifacts:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "stylekey@v1.2.0:")
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

// DescriptorKey generates a prefixed descriptor key.
func (k *ScopedKeyer) DescriptorKey(token string) string {
	return k.prefix + k.inner.DescriptorKey(token)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(token string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(token, opts)
}
