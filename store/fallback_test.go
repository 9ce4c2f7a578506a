package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline/inventory-engine/ledger"
	"github.com/frostline/inventory-engine/store"
	"github.com/frostline/inventory-engine/store/file"
)

// brokenStore simulates an unavailable backend.
type brokenStore struct{}

func (brokenStore) Load(context.Context) (*ledger.Snapshot, error) {
	return nil, errors.New("backend unavailable")
}

func (brokenStore) Save(context.Context, *ledger.Snapshot) error {
	return errors.New("backend unavailable")
}

func snapshotWith(code string, qty int64) *ledger.Snapshot {
	return &ledger.Snapshot{
		Inventory: map[string]ledger.Entry{code: {Quantity: decimal.NewFromInt(qty)}},
	}
}

func TestFallback_SaveFallsBackWhenPrimaryFails(t *testing.T) {
	secondary := file.New(filepath.Join(t.TempDir(), "state.json"))
	fb := store.NewFallback(brokenStore{}, secondary, nil)
	ctx := context.Background()

	require.NoError(t, fb.Save(ctx, snapshotWith("X1", 5)))

	// The write landed on the secondary.
	got, err := secondary.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "5", got.Inventory["X1"].Quantity.String())
}

func TestFallback_LoadFallsBackWhenPrimaryFails(t *testing.T) {
	secondary := file.New(filepath.Join(t.TempDir(), "state.json"))
	ctx := context.Background()
	require.NoError(t, secondary.Save(ctx, snapshotWith("X1", 7)))

	fb := store.NewFallback(brokenStore{}, secondary, nil)

	got, err := fb.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "7", got.Inventory["X1"].Quantity.String())
}

func TestFallback_LoadPrefersPrimaryData(t *testing.T) {
	dir := t.TempDir()
	primary := file.New(filepath.Join(dir, "primary.json"))
	secondary := file.New(filepath.Join(dir, "secondary.json"))
	ctx := context.Background()

	require.NoError(t, primary.Save(ctx, snapshotWith("P", 1)))
	require.NoError(t, secondary.Save(ctx, snapshotWith("S", 2)))

	fb := store.NewFallback(primary, secondary, nil)
	got, err := fb.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	_, ok := got.Inventory["P"]
	assert.True(t, ok)
}

func TestFallback_EmptyPrimaryWithBrokenSecondaryIsFreshStart(t *testing.T) {
	// GIVEN a healthy primary with no snapshot and a broken secondary
	primary := file.New(filepath.Join(t.TempDir(), "primary.json"))
	fb := store.NewFallback(primary, brokenStore{}, nil)

	// WHEN loading: the primary answered authoritatively, so the
	// secondary's outage must not turn an empty state into an error.
	got, err := fb.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFallback_BothFailingIsReported(t *testing.T) {
	fb := store.NewFallback(brokenStore{}, brokenStore{}, nil)

	err := fb.Save(context.Background(), snapshotWith("X1", 1))
	assert.Error(t, err)

	_, err = fb.Load(context.Background())
	assert.Error(t, err)
}
