package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Read decodes a snapshot document from r. Read does not close r and the
// returned snapshot is independent of it. Unknown fields are ignored so
// newer documents stay readable.
func Read(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	return snap, nil
}

// Write encodes the snapshot as indented JSON to w.
func Write(snap Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadFile reads and decodes a snapshot file at path.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// WriteFile writes a snapshot to a JSON file at path, creating or
// truncating it.
func WriteFile(snap Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(snap, f)
}

// Export wraps a snapshot in the interchange envelope handed to users:
// the document plus an export timestamp.
type Export struct {
	Snapshot
	ExportedAt time.Time `json:"exported_at" bson:"exported_at"`
}

// NewExport stamps a snapshot for export. The timestamp is normalized to
// UTC so exports are byte-stable across machines in the same instant.
func NewExport(snap Snapshot, now time.Time) Export {
	return Export{Snapshot: snap, ExportedAt: now.UTC()}
}
