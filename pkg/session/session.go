// Package session keeps the working family tree safe between edits.
//
// The editing layer mutates a single in-memory graph; this package
// periodically snapshots it to a [store.Store] so a crash or restart
// loses at most one autosave interval of work. A file-backed store is
// provided for CLI applications.
//
// # Usage
//
//	files, err := session.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	saver := session.NewAutosaver(files, "workspace", time.Minute, logger)
//	saver.Source = func() snapshot.Snapshot { return snapshot.FromGraph(g, catalog) }
//	saver.Start(ctx)
//	defer saver.Stop()
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/genehive/genehive/pkg/snapshot"
	"github.com/genehive/genehive/pkg/store"
)

// DefaultInterval is the autosave period when none is configured.
const DefaultInterval = time.Minute

// Autosaver periodically snapshots the working tree to a store.
type Autosaver struct {
	// Source produces the snapshot to save. It runs on the autosave
	// goroutine, so it must be safe to call concurrently with edits
	// (typically by locking the graph).
	Source func() snapshot.Snapshot

	store    store.Store
	name     string
	interval time.Duration
	logger   *log.Logger

	// tick is replaceable for tests. It returns the tick channel and a
	// stop function.
	tick func(time.Duration) (<-chan time.Time, func())

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	lastErr error
}

// NewAutosaver creates an autosaver that writes to s under the given
// tree name. A non-positive interval falls back to DefaultInterval.
func NewAutosaver(s store.Store, name string, interval time.Duration, logger *log.Logger) *Autosaver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Autosaver{
		store:    s,
		name:     name,
		interval: interval,
		logger:   logger,
		tick: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Start launches the autosave loop. Calling Start on a running
// autosaver is a no-op.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})

	go a.loop(ctx)
}

func (a *Autosaver) loop(ctx context.Context) {
	defer close(a.done)

	ticks, stop := a.tick(a.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			if err := a.SaveNow(ctx); err != nil {
				a.logger.Error("autosave failed", "tree", a.name, "err", err)
			}
		}
	}
}

// Stop cancels the loop, performs one final save, and waits for the
// goroutine to exit. Safe to call on a stopped autosaver.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	if err := a.SaveNow(context.Background()); err != nil {
		a.logger.Error("final autosave failed", "tree", a.name, "err", err)
	}
}

// SaveNow snapshots and persists immediately. An empty workspace is not
// persisted, so starting a fresh session never clobbers an earlier
// autosave.
func (a *Autosaver) SaveNow(ctx context.Context) error {
	if a.Source == nil {
		return nil
	}
	snap := a.Source()
	if len(snap.Members) == 0 {
		return nil
	}
	err := a.store.Save(ctx, a.name, snap)
	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()
	return err
}

// LastErr returns the error of the most recent save attempt, if any.
func (a *Autosaver) LastErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Recover loads the last autosaved snapshot, or a TREE_NOT_FOUND error
// when nothing was ever saved.
func (a *Autosaver) Recover(ctx context.Context) (snapshot.Snapshot, error) {
	return a.store.Load(ctx, a.name)
}
