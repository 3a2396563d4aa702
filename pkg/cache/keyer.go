package cache

// RiskKeyOpts captures the inputs that distinguish one risk computation
// from another beyond the tree itself.
type RiskKeyOpts struct {
	CatalogHash string // hash of the disease catalog in effect
}

// LayoutKeyOpts captures layout configuration relevant to cache identity.
type LayoutKeyOpts struct {
	GenerationSpacing float64
	SiblingSpacing    float64
	BranchSpacing     float64
	SortByDescendants bool
}

// Keyer constructs cache keys for the pipeline stages. Implementations
// must be deterministic: equal inputs yield equal keys.
type Keyer interface {
	// RiskKey identifies a risk matrix for a tree and catalog.
	RiskKey(treeHash string, opts RiskKeyOpts) string

	// LayoutKey identifies a layout result for a tree and config.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer hashes the option structs into the key, so any option
// change produces a distinct key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RiskKey generates a key for risk matrix caching.
func (k *DefaultKeyer) RiskKey(treeHash string, opts RiskKeyOpts) string {
	return hashKey("risk", treeHash, opts)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation,
// keeping per-session caches from colliding on a shared backend.
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

// RiskKey generates a prefixed key for risk matrix caching.
func (k *ScopedKeyer) RiskKey(treeHash string, opts RiskKeyOpts) string {
	return k.prefix + k.inner.RiskKey(treeHash, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}
