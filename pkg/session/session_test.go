package session

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/genehive/genehive/pkg/errors"
	"github.com/genehive/genehive/pkg/snapshot"
	"github.com/genehive/genehive/pkg/store"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// signalStore signals after every completed save, letting tests wait
// for the autosave goroutine deterministically.
type signalStore struct {
	store.Store
	saved chan struct{}
}

func (s *signalStore) Save(ctx context.Context, name string, snap snapshot.Snapshot) error {
	err := s.Store.Save(ctx, name, snap)
	s.saved <- struct{}{}
	return err
}

func TestAutosaverTick(t *testing.T) {
	sig := &signalStore{Store: store.NewMemory(), saved: make(chan struct{}, 8)}
	saver := NewAutosaver(sig, "workspace", time.Minute, quietLogger())

	ticks := make(chan time.Time)
	saver.tick = func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() {}
	}

	// Member count grows with every save so each one is distinguishable.
	saved := sig.saved
	version := 0
	saver.Source = func() snapshot.Snapshot {
		version++
		snap := snapshot.Snapshot{Version: snapshot.SchemaVersion}
		for i := 0; i < version; i++ {
			snap.Members = append(snap.Members, snapshot.Member{ID: string(rune('a' + i))})
		}
		return snap
	}

	saver.Start(context.Background())
	ticks <- time.Now()
	<-saved

	snap, err := saver.Recover(context.Background())
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(snap.Members) != 1 {
		t.Errorf("first autosave has %d members, want 1", len(snap.Members))
	}

	ticks <- time.Now()
	<-saved

	saver.Stop() // performs a final save
	snap, err = saver.Recover(context.Background())
	if err != nil {
		t.Fatalf("Recover after Stop: %v", err)
	}
	if len(snap.Members) != 3 {
		t.Errorf("final autosave has %d members, want 3 (two ticks + final)", len(snap.Members))
	}
}

func TestAutosaverStopIdempotent(t *testing.T) {
	saver := NewAutosaver(store.NewMemory(), "w", time.Minute, quietLogger())
	saver.Start(context.Background())
	saver.Stop()
	saver.Stop() // must not panic or block
}

func TestAutosaverRecoverEmpty(t *testing.T) {
	saver := NewAutosaver(store.NewMemory(), "w", time.Minute, quietLogger())
	if _, err := saver.Recover(context.Background()); !errors.Is(err, errors.ErrCodeTreeNotFound) {
		t.Errorf("Recover on empty store = %v, want TREE_NOT_FOUND", err)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	snap := snapshot.Snapshot{
		Version: snapshot.SchemaVersion,
		Members: []snapshot.Member{{ID: "a"}, {ID: "b", ParentIDs: []string{"a"}}},
	}

	if err := fs.Save(ctx, "family", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := fs.Load(ctx, "family")
	if err != nil || len(got.Members) != 2 {
		t.Errorf("Load = %d members, %v", len(got.Members), err)
	}

	// Path traversal in names is rejected
	if err := fs.Save(ctx, "../escape", snap); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save(traversal) = %v, want INVALID_INPUT", err)
	}

	infos, err := fs.List(ctx)
	if err != nil || len(infos) != 1 || infos[0].Name != "family" || infos[0].Members != 2 {
		t.Errorf("List = %+v, %v", infos, err)
	}

	if _, err := fs.Load(ctx, "ghost"); !errors.Is(err, errors.ErrCodeTreeNotFound) {
		t.Errorf("Load(ghost) = %v, want TREE_NOT_FOUND", err)
	}

	if err := fs.Delete(ctx, "family"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := fs.Delete(ctx, "family"); !errors.Is(err, errors.ErrCodeTreeNotFound) {
		t.Errorf("Delete(missing) = %v, want TREE_NOT_FOUND", err)
	}
}
