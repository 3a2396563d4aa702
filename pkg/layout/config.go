package layout

import (
	"errors"
	"fmt"
)

// Default spacing constants, in layout units.
const (
	DefaultGenerationSpacing = 4.0
	DefaultSiblingSpacing    = 3.0
	DefaultBranchSpacing     = 2.0
)

// ErrInvalidConfig is wrapped by all [Config.Validate] failures.
var ErrInvalidConfig = errors.New("invalid layout config")

// Config controls spacing and ordering of the computed layout.
type Config struct {
	// GenerationSpacing is the vertical distance between generations.
	GenerationSpacing float64 `json:"generation_spacing"`

	// SiblingSpacing is the horizontal distance between members of the
	// same sibling group.
	SiblingSpacing float64 `json:"sibling_spacing"`

	// BranchSpacing is the extra horizontal gap between sibling groups.
	BranchSpacing float64 `json:"branch_spacing"`

	// SortByDescendants enables the optional optimization pass that
	// re-sorts siblings within each generation so heavier subtrees come
	// first, reducing visual edge crossings. It never changes generation
	// or sibling-group membership, only left-to-right order.
	SortByDescendants bool `json:"sort_by_descendants,omitempty"`
}

// DefaultConfig returns the standard spacing configuration.
func DefaultConfig() Config {
	return Config{
		GenerationSpacing: DefaultGenerationSpacing,
		SiblingSpacing:    DefaultSiblingSpacing,
		BranchSpacing:     DefaultBranchSpacing,
	}
}

// Validate rejects non-positive spacing values. This runs at the boundary;
// the engine itself assumes a valid config.
func (c Config) Validate() error {
	if c.GenerationSpacing <= 0 {
		return fmt.Errorf("%w: generation spacing %v must be positive", ErrInvalidConfig, c.GenerationSpacing)
	}
	if c.SiblingSpacing <= 0 {
		return fmt.Errorf("%w: sibling spacing %v must be positive", ErrInvalidConfig, c.SiblingSpacing)
	}
	if c.BranchSpacing <= 0 {
		return fmt.Errorf("%w: branch spacing %v must be positive", ErrInvalidConfig, c.BranchSpacing)
	}
	return nil
}
