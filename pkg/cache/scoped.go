package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g.
// separating cache entries per technology revision or per tenant in a
// shared Redis deployment.
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TechKey generates a prefixed key for a technology document.
func (k *ScopedKeyer) TechKey(techHash string) string {
	return k.prefix + k.inner.TechKey(techHash)
}

// PlanKey generates a prefixed key for a planning result.
func (k *ScopedKeyer) PlanKey(techHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(techHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(planHash, opts)
}
