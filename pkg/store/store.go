// Package store persists named family tree snapshots.
//
// Two backends are provided: an in-memory store for tests and
// single-process CLI use, and a MongoDB store for server deployments.
// Both speak [snapshot.Snapshot], so a tree saved by one backend loads
// from another unchanged.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/genehive/genehive/pkg/errors"
	"github.com/genehive/genehive/pkg/snapshot"
)

// Info describes a stored tree without its contents.
type Info struct {
	Name      string    `json:"name" bson:"_id"`
	Members   int       `json:"members" bson:"members"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for tree persistence backends.
type Store interface {
	// Save stores a snapshot under name, replacing any previous version.
	Save(ctx context.Context, name string, snap snapshot.Snapshot) error

	// Load retrieves a snapshot by name, or a TREE_NOT_FOUND error.
	Load(ctx context.Context, name string) (snapshot.Snapshot, error)

	// List returns metadata for all stored trees, sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a stored tree. Deleting an unknown name is an error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Memory is a thread-safe in-memory store.
type Memory struct {
	mu    sync.RWMutex
	trees map[string]entry

	// now is replaceable for tests.
	now func() time.Time
}

type entry struct {
	snap    snapshot.Snapshot
	updated time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		trees: make(map[string]entry),
		now:   time.Now,
	}
}

// Save stores a snapshot under name.
func (m *Memory) Save(ctx context.Context, name string, snap snapshot.Snapshot) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "tree name must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trees[name] = entry{snap: snap, updated: m.now()}
	return nil
}

// Load retrieves a snapshot by name.
func (m *Memory) Load(ctx context.Context, name string) (snapshot.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.trees[name]
	if !ok {
		return snapshot.Snapshot{}, errors.New(errors.ErrCodeTreeNotFound, "tree %q not found", name)
	}
	return e.snap, nil
}

// List returns metadata for all stored trees, sorted by name.
func (m *Memory) List(ctx context.Context) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Info, 0, len(m.trees))
	for name, e := range m.trees {
		out = append(out, Info{Name: name, Members: len(e.snap.Members), UpdatedAt: e.updated})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes a stored tree.
func (m *Memory) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trees[name]; !ok {
		return errors.New(errors.ErrCodeTreeNotFound, "tree %q not found", name)
	}
	delete(m.trees, name)
	return nil
}

// Close does nothing for the memory store.
func (m *Memory) Close(ctx context.Context) error { return nil }

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
