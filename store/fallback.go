/*
Package store provides snapshot persistence combinators. Concrete backends
live in the subpackages:

  store/sqlite: primary store, a single-document SQLite table (WAL mode)
  store/file:   secondary store, an atomically-written local JSON file

PURPOSE:
  The engine saves a full ledger snapshot after every successful mutating
  operation and loads one at startup. Fallback chains two backends so a
  primary outage degrades to the local file instead of losing writes.
  Both backends failing is reported to the caller; the in-memory ledger
  is never touched by persistence failures.
*/
package store

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/frostline/inventory-engine/ledger"
)

// Fallback is a SnapshotStore that prefers Primary and falls back to
// Secondary when the primary fails or has no data.
type Fallback struct {
	Primary   ledger.SnapshotStore
	Secondary ledger.SnapshotStore
	Logger    *logrus.Logger
}

// NewFallback chains two stores. A nil logger uses the logrus default.
func NewFallback(primary, secondary ledger.SnapshotStore, logger *logrus.Logger) *Fallback {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Fallback{Primary: primary, Secondary: secondary, Logger: logger}
}

// Load returns the primary's snapshot when available, otherwise the
// secondary's. A primary read error is logged and absorbed as long as the
// secondary can answer.
func (f *Fallback) Load(ctx context.Context) (*ledger.Snapshot, error) {
	snap, err := f.Primary.Load(ctx)
	if err == nil && snap != nil {
		return snap, nil
	}
	if err != nil {
		f.Logger.WithError(err).Warn("primary snapshot store unavailable, trying secondary")
	}
	snap2, err2 := f.Secondary.Load(ctx)
	if err2 != nil {
		if err != nil {
			return nil, errors.Join(err, err2)
		}
		// The primary answered and is simply empty: a fresh start, not
		// a failure. The broken secondary only loses fallback data.
		f.Logger.WithError(err2).Warn("secondary snapshot store unavailable, starting from empty primary")
		return nil, nil
	}
	return snap2, nil
}

// Save writes to the primary, falling back to the secondary on failure.
// Only both failing is an error.
func (f *Fallback) Save(ctx context.Context, s *ledger.Snapshot) error {
	err := f.Primary.Save(ctx, s)
	if err == nil {
		return nil
	}
	f.Logger.WithError(err).Warn("primary snapshot store save failed, falling back")
	if err2 := f.Secondary.Save(ctx, s); err2 != nil {
		return errors.Join(err, err2)
	}
	return nil
}
