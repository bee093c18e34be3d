package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments, or the CLI
// and the API server, can share one Redis database without colliding.
//
// Example usage:
//
//	// Keys written by the API server
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// SolutionKey generates a prefixed key for solved results.
func (k *ScopedKeyer) SolutionKey(instanceHash string, opts SolutionKeyOpts) string {
	return k.prefix + k.inner.SolutionKey(instanceHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(solutionHash, opts)
}
