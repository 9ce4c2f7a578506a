/*
Package sqlite provides the SQLite-backed snapshot store.

PURPOSE:
  The ledger persists as a single JSON document: one row holding the full
  snapshot, last write wins, single writer. SQLite gives us durable local
  storage without a server, and the single-document shape keeps the store
  interchangeable with the JSON-file secondary.

WAL MODE:
  The database is opened with WAL (Write-Ahead Logging):
  - Readers don't block the writer
  - Better crash recovery

CONCURRENCY:
  A mutex guards writes. The engine already serializes mutations, so this
  is belt-and-braces for any future multi-engine use.

USAGE:
  st, err := sqlite.New("./data/inventory.db")
  if err != nil { ... }
  defer st.Close()

SEE ALSO:
  - ledger/reconcile.go: SnapshotStore interface definition
  - store/file:          JSON-file secondary store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/frostline/inventory-engine/ledger"
)

// Store implements ledger.SnapshotStore on SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Single-document snapshot table: one row, last write wins.
	CREATE TABLE IF NOT EXISTS ledger_snapshots (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save upserts the snapshot document.
func (s *Store) Save(ctx context.Context, snap *ledger.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ledger_snapshots (id, payload, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot document. Returns (nil, nil) when none exists.
func (s *Store) Load(ctx context.Context) (*ledger.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM ledger_snapshots WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
