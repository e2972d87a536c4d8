package cache

// ScopedKeyer wraps a Keyer with a prefix so that several users of one shared
// cache do not see each other's entries.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey returns the inner key with the prefix prepended.
func (k *ScopedKeyer) ResultKey(sourceHash, backendHash string, passes []string) string {
	return k.prefix + k.inner.ResultKey(sourceHash, backendHash, passes)
}
