package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/genehive/genehive/pkg/errors"
	"github.com/genehive/genehive/pkg/snapshot"
	"github.com/genehive/genehive/pkg/store"
)

// FileStore is a file-based tree store for CLI applications.
// Trees are stored as JSON snapshot files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based tree store.
// If baseDir is empty, defaults to ~/.config/genehive/trees/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "genehive", "trees")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create tree dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) treePath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

// Save writes the snapshot to <baseDir>/<name>.json.
func (s *FileStore) Save(ctx context.Context, name string, snap snapshot.Snapshot) error {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return errors.New(errors.ErrCodeInvalidInput, "invalid tree name %q", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := snapshot.WriteFile(snap, s.treePath(name)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save tree %q", name)
	}
	return nil
}

// Load reads the snapshot stored under name.
func (s *FileStore) Load(ctx context.Context, name string) (snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, err := snapshot.ReadFile(s.treePath(name))
	if stderrors.Is(err, fs.ErrNotExist) {
		return snapshot.Snapshot{}, errors.New(errors.ErrCodeTreeNotFound, "tree %q not found", name)
	}
	if err != nil {
		return snapshot.Snapshot{}, errors.Wrap(errors.ErrCodeStorage, err, "load tree %q", name)
	}
	return snap, nil
}

// List returns metadata for all stored trees, sorted by name.
func (s *FileStore) List(ctx context.Context) ([]store.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read tree dir")
	}

	var infos []store.Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		info := store.Info{Name: name}
		if fi, err := entry.Info(); err == nil {
			info.UpdatedAt = fi.ModTime()
		}
		if snap, err := snapshot.ReadFile(filepath.Join(s.baseDir, entry.Name())); err == nil {
			info.Members = len(snap.Members)
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes a stored tree file.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.treePath(name))
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeTreeNotFound, "tree %q not found", name)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete tree %q", name)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error { return nil }

// Path returns the base directory for tree files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ store.Store = (*FileStore)(nil)
