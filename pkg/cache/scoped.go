package cache

// ScopedKeyer prepends a prefix to every generated key. The server uses it
// to give each tenant its own cache namespace while sharing one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps a keyer with a prefix. A nil inner keyer defaults to
// the standard key generator.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// OptimizeKey generates a prefixed key for an optimization result.
func (k *ScopedKeyer) OptimizeKey(networkHash string, opts OptimizeKeyOpts) string {
	return k.prefix + k.inner.OptimizeKey(networkHash, opts)
}

// RenderKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) RenderKey(networkHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(networkHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
