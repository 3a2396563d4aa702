package store

import (
	"context"
	"testing"
	"time"

	"github.com/genehive/genehive/pkg/errors"
	"github.com/genehive/genehive/pkg/snapshot"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	snap := snapshot.Snapshot{
		Version: snapshot.SchemaVersion,
		Members: []snapshot.Member{{ID: "a"}, {ID: "b"}},
	}

	// Load unknown
	if _, err := m.Load(ctx, "family"); !errors.Is(err, errors.ErrCodeTreeNotFound) {
		t.Errorf("Load(unknown) = %v, want TREE_NOT_FOUND", err)
	}

	// Save / Load round trip
	if err := m.Save(ctx, "family", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := m.Load(ctx, "family")
	if err != nil || len(got.Members) != 2 {
		t.Errorf("Load = %+v, %v", got, err)
	}

	// Empty name rejected
	if err := m.Save(ctx, "", snap); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save(\"\") = %v, want INVALID_INPUT", err)
	}

	// Delete then Load fails
	if err := m.Delete(ctx, "family"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Load(ctx, "family"); !errors.Is(err, errors.ErrCodeTreeNotFound) {
		t.Errorf("Load after Delete = %v, want TREE_NOT_FOUND", err)
	}
	if err := m.Delete(ctx, "family"); !errors.Is(err, errors.ErrCodeTreeNotFound) {
		t.Errorf("Delete(missing) = %v, want TREE_NOT_FOUND", err)
	}
}

func TestMemoryList(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return base }

	_ = m.Save(ctx, "zeta", snapshot.Snapshot{Members: []snapshot.Member{{ID: "a"}}})
	_ = m.Save(ctx, "alpha", snapshot.Snapshot{})

	infos, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "alpha" || infos[1].Name != "zeta" {
		t.Errorf("List order = %v, want sorted by name", infos)
	}
	if infos[1].Members != 1 {
		t.Errorf("zeta members = %d, want 1", infos[1].Members)
	}
	if !infos[0].UpdatedAt.Equal(base) {
		t.Errorf("UpdatedAt = %v, want %v", infos[0].UpdatedAt, base)
	}
}

func TestMemorySaveReplaces(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_ = m.Save(ctx, "t", snapshot.Snapshot{Members: []snapshot.Member{{ID: "a"}}})
	_ = m.Save(ctx, "t", snapshot.Snapshot{Members: []snapshot.Member{{ID: "a"}, {ID: "b"}}})

	got, err := m.Load(ctx, "t")
	if err != nil || len(got.Members) != 2 {
		t.Errorf("Load after replace = %d members, %v", len(got.Members), err)
	}
}
