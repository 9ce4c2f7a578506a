// Package file provides the JSON-file snapshot store, used as the local
// secondary behind the SQLite primary. Writes go through a temp file and
// rename so a crash mid-write never leaves a torn snapshot on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/frostline/inventory-engine/ledger"
)

// Store implements ledger.SnapshotStore on a single JSON file.
type Store struct {
	path string
}

// New returns a store writing to path. The parent directory must exist.
func New(path string) *Store {
	return &Store{path: path}
}

// Save writes the snapshot atomically (temp file + rename).
func (s *Store) Save(_ context.Context, snap *ledger.Snapshot) error {
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot file. Returns (nil, nil) when none exists.
func (s *Store) Load(_ context.Context) (*ledger.Snapshot, error) {
	payload, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
