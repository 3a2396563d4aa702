// Package catalog manages the hereditary disease catalog.
//
// The catalog is the set of diseases a tree can be simulated against.
// A built-in seed catalog ships with the binary; a SQLite-backed store
// lets deployments add and override entries while keeping the seed
// entries available.
package catalog

import (
	"context"

	"github.com/genehive/genehive/pkg/errors"
	"github.com/genehive/genehive/pkg/pedigree"
)

// Catalog provides access to disease definitions.
type Catalog interface {
	// List returns all diseases, builtin entries first, in stable order.
	List(ctx context.Context) ([]pedigree.Disease, error)

	// Get returns the disease with the given id, or a DISEASE_NOT_FOUND
	// error.
	Get(ctx context.Context, id string) (pedigree.Disease, error)

	// Put inserts or replaces a disease after validating it.
	Put(ctx context.Context, d pedigree.Disease) error

	// Delete removes a disease. Builtin entries cannot be deleted.
	Delete(ctx context.Context, id string) error
}

// Builtin returns the seed catalog compiled into the binary. The slice
// is freshly allocated on every call, so callers may modify it.
func Builtin() []pedigree.Disease {
	return []pedigree.Disease{
		{
			ID:          "huntington",
			Name:        "Huntington's Disease",
			Inheritance: pedigree.Dominant,
			Prevalence:  0.0001,
			Penetrance:  0.95,
			Description: "A progressive brain disorder caused by a single defective gene.",
			Color:       "#ef4444",
		},
		{
			ID:          "cystic-fibrosis",
			Name:        "Cystic Fibrosis",
			Inheritance: pedigree.Recessive,
			Prevalence:  0.0004,
			Penetrance:  0.99,
			Description: "Affects the lungs and digestive system.",
			Color:       "#3b82f6",
		},
		{
			ID:          "color-blindness",
			Name:        "Red-Green Color Blindness",
			Inheritance: pedigree.XLinked,
			Prevalence:  0.08,
			Penetrance:  0.95,
			Description: "Difficulty distinguishing red and green colors.",
			Color:       "#10b981",
		},
		{
			ID:          "diabetes-t2",
			Name:        "Type 2 Diabetes",
			Inheritance: pedigree.Multifactorial,
			Prevalence:  0.11,
			Penetrance:  0.8,
			Description: "A chronic condition affecting blood sugar regulation.",
			Color:       "#f59e0b",
		},
		{
			ID:          "heart-disease",
			Name:        "Coronary Heart Disease",
			Inheritance: pedigree.Multifactorial,
			Prevalence:  0.06,
			Penetrance:  0.7,
			Description: "Disease of the blood vessels supplying the heart.",
			Color:       "#ef4444",
		},
	}
}

// IsBuiltin reports whether id belongs to the seed catalog.
func IsBuiltin(id string) bool {
	for _, d := range Builtin() {
		if d.ID == id {
			return true
		}
	}
	return false
}

// Memory is an in-memory catalog: the builtin seed plus runtime
// overrides. It is the default for the CLI and for tests.
type Memory struct {
	overrides map[string]pedigree.Disease
	order     []string
}

// NewMemory creates an in-memory catalog seeded with the builtin
// diseases.
func NewMemory() *Memory {
	return &Memory{overrides: make(map[string]pedigree.Disease)}
}

// List returns builtin diseases (with overrides applied) followed by
// added entries in insertion order.
func (m *Memory) List(ctx context.Context) ([]pedigree.Disease, error) {
	out := make([]pedigree.Disease, 0, len(m.overrides)+5)
	for _, d := range Builtin() {
		if o, ok := m.overrides[d.ID]; ok {
			d = o
		}
		out = append(out, d)
	}
	for _, id := range m.order {
		if !IsBuiltin(id) {
			out = append(out, m.overrides[id])
		}
	}
	return out, nil
}

// Get returns a disease by id.
func (m *Memory) Get(ctx context.Context, id string) (pedigree.Disease, error) {
	if d, ok := m.overrides[id]; ok {
		return d, nil
	}
	for _, d := range Builtin() {
		if d.ID == id {
			return d, nil
		}
	}
	return pedigree.Disease{}, errors.New(errors.ErrCodeDiseaseNotFound, "disease %q not in catalog", id)
}

// Put validates and stores a disease, overriding a builtin entry with
// the same id.
func (m *Memory) Put(ctx context.Context, d pedigree.Disease) error {
	if err := d.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDisease, err, "put %q", d.ID)
	}
	if _, exists := m.overrides[d.ID]; !exists {
		m.order = append(m.order, d.ID)
	}
	m.overrides[d.ID] = d
	return nil
}

// Delete removes an added or overriding entry. Builtin entries cannot
// be deleted; deleting an override restores the builtin definition.
func (m *Memory) Delete(ctx context.Context, id string) error {
	if _, ok := m.overrides[id]; !ok {
		if IsBuiltin(id) {
			return errors.New(errors.ErrCodeInvalidInput, "builtin disease %q cannot be deleted", id)
		}
		return errors.New(errors.ErrCodeDiseaseNotFound, "disease %q not in catalog", id)
	}
	delete(m.overrides, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ensure Memory implements Catalog.
var _ Catalog = (*Memory)(nil)
