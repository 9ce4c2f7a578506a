package store

import (
	"context"
	"sync"

	"github.com/frostline/inventory-engine/ledger"
)

// Memory is an in-memory SnapshotStore for testing and dev runs. It keeps
// the last saved snapshot; Load before any Save returns (nil, nil) like
// the durable stores.
type Memory struct {
	mu   sync.RWMutex
	snap *ledger.Snapshot
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Save keeps the snapshot. Last write wins.
func (m *Memory) Save(_ context.Context, s *ledger.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = s
	return nil
}

// Load returns the last saved snapshot, or (nil, nil) when none exists.
func (m *Memory) Load(_ context.Context) (*ledger.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap, nil
}
