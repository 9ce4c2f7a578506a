/*
reconcile.go - The reconciliation engine

PURPOSE:
  Orchestrates catalog matching, unit conversion, and ledger mutation for
  the three reconciliation inputs:
  - ApplyInvoice:           extracted invoice items -> credits
  - ApplySales:             POS sales rows -> recipe-driven debits
  - ApplyStartingInventory: inventory snapshot rows -> entry replacement
  plus the direct operations SetQuantity and Reset.

CONCURRENCY:
  A single RWMutex serializes all mutating operations; each runs to
  completion before the next begins. Reads (ListInventory, History,
  Counts) take the read lock and copy, so listings are consistent
  snapshots, never torn mid-mutation.

PERSISTENCE:
  Every successful mutating operation is followed by a full snapshot save
  through the configured SnapshotStore. A save failure is returned to the
  caller wrapped in ErrSnapshotSave; the in-memory mutation stands.

FAILURE POSTURE:
  Nothing here is fatal. Malformed rows and unresolvable references are
  skipped, logged, and surfaced in the result summary; the worst outcome
  of an apply operation is zero items applied with warnings.
*/
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/frostline/inventory-engine/catalog"
	"github.com/frostline/inventory-engine/extract"
	"github.com/frostline/inventory-engine/ingest"
)

// SnapshotStore persists full ledger snapshots. Load returns (nil, nil)
// when no snapshot exists yet. Implementations live in store/.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
}

// Config carries the engine's named tunables.
type Config struct {
	// CaseThreshold disambiguates starting-inventory rows, which carry no
	// unit hint: a raw quantity below the threshold is treated as purchase
	// units ("six cases") and converted; at or above it, as already-usable
	// units ("600 pounds") and copied unchanged.
	CaseThreshold decimal.Decimal
}

// DefaultCaseThreshold is the default purchase-unit/usable-unit guess
// boundary for starting-inventory rows.
var DefaultCaseThreshold = decimal.NewFromInt(100)

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{CaseThreshold: DefaultCaseThreshold}
}

// Engine owns the Ledger and is the only mutator of it.
type Engine struct {
	cfg     Config
	catalog *catalog.Catalog
	ledger  *Ledger
	store   SnapshotStore // nil disables persistence (tests, dry runs)
	logger  *logrus.Logger

	mu sync.RWMutex
}

// NewEngine builds an engine around a fresh ledger. Pass a nil store to
// run without persistence and a nil logger for the logrus default.
func NewEngine(cfg Config, cat *catalog.Catalog, store SnapshotStore, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.CaseThreshold.IsZero() {
		cfg.CaseThreshold = DefaultCaseThreshold
	}
	return &Engine{
		cfg:     cfg,
		catalog: cat,
		ledger:  NewLedger(),
		store:   store,
		logger:  logger,
	}
}

// LoadFromStore restores ledger state from the snapshot store, if any.
// Called once at startup; a missing snapshot means a fresh ledger.
func (e *Engine) LoadFromStore(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	snap, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		e.logger.Info("no existing ledger snapshot, starting fresh")
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.restore(snap)
	e.logger.WithField("items", len(snap.Inventory)).Info("ledger snapshot restored")
	return nil
}

// ApplyInvoice credits the ledger with the matched items of one extracted
// invoice. Unmatched items are skipped and reported; they never block the
// rest of the invoice. One InvoiceRecord is appended whenever the raw
// extraction produced at least one candidate item, regardless of how many
// matched.
func (e *Engine) ApplyInvoice(ctx context.Context, inv extract.Invoice, filename string) (InvoiceResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res InvoiceResult
	for _, item := range inv.Items {
		entry, ok := e.catalog.Match(item.Description)
		if !ok {
			e.logger.WithField("description", item.Description).Warn("no catalog match for invoice item")
			res.Unmatched = append(res.Unmatched, item.Description)
			continue
		}
		amount, unit := catalog.ToUsable(decimal.NewFromInt(item.Quantity), entry)
		e.ledger.add(entry.ItemCode, amount, unit, entry.Description)
		res.Applied = append(res.Applied, AppliedItem{
			ItemCode:    entry.ItemCode,
			Description: entry.Description,
			Quantity:    amount,
			Unit:        unit,
		})
	}

	if len(inv.Items) == 0 {
		return res, nil
	}

	record := InvoiceRecord{
		ID:          uuid.NewString(),
		Filename:    filename,
		InvoiceDate: inv.Date,
		ItemsAdded:  len(res.Applied),
		ProcessedAt: time.Now().UTC(),
	}
	e.ledger.invoiceHistory = append(e.ledger.invoiceHistory, record)
	res.Record = &record

	return res, e.save(ctx)
}

// ApplySales debits the ledger for one POS sales batch. Each row names a
// sold product and a quantity; the product's recipe drives the per-item
// deductions. Rows with unknown products, unparseable quantities, or
// ingredient codes absent from the ledger are skipped and reported.
// Deductions may drive quantities negative; that is the stock-out signal
// and is surfaced, not corrected.
func (e *Engine) ApplySales(ctx context.Context, rows []ingest.Row, filename string) (SalesResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res SalesResult
	for _, row := range rows {
		product := ingest.SalesItemName.From(row)
		rawQty := ingest.SalesQuantitySold.From(row)
		if product == "" || rawQty == "" {
			continue
		}
		sold, err := decimal.NewFromString(rawQty)
		if err != nil {
			e.logger.WithFields(logrus.Fields{"product": product, "raw": rawQty}).
				Warn("unparseable sales quantity, skipping row")
			continue
		}

		recipe, ok := e.catalog.Recipe(product)
		if !ok {
			e.logger.WithField("product", product).Warn("no recipe for sold product")
			res.MissingRecipes = append(res.MissingRecipes, product)
			continue
		}

		for _, line := range recipe {
			deduction := sold.Mul(line.QuantityUsed)
			if _, found := e.ledger.deduct(line.ItemCode, deduction); !found {
				e.logger.WithFields(logrus.Fields{"item_code": line.ItemCode, "product": product}).
					Warn("ingredient not in inventory, skipping deduction")
				continue
			}
			res.Deductions = append(res.Deductions, Deduction{
				Product:     product,
				ItemCode:    line.ItemCode,
				Description: line.Description,
				Deducted:    deduction,
				Unit:        line.Unit,
			})
		}
		res.Processed++
	}

	if res.Processed == 0 {
		return res, nil
	}

	record := SalesRecord{
		ID:             uuid.NewString(),
		Filename:       filename,
		ItemsProcessed: res.Processed,
		ProcessedAt:    time.Now().UTC(),
	}
	e.ledger.salesHistory = append(e.ledger.salesHistory, record)
	res.Record = &record

	return res, e.save(ctx)
}

// ApplyStartingInventory replaces ledger entries from an inventory count
// export. Rows carry no unit hint, so quantities below the configured
// CaseThreshold are treated as purchase units and converted, and larger
// ones copied as already-usable units. Replacement, not accumulation:
// applying the same export twice yields the same ledger as applying it
// once. Codes absent from the catalog are skipped and reported.
func (e *Engine) ApplyStartingInventory(ctx context.Context, rows []ingest.Row) (StartingResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res StartingResult
	for _, row := range rows {
		code := ingest.InventoryItemNumber.From(row)
		rawQty := ingest.InventoryQuantity.From(row)
		if code == "" || rawQty == "" {
			continue
		}
		qty, err := decimal.NewFromString(rawQty)
		if err != nil {
			e.logger.WithFields(logrus.Fields{"item_code": code, "raw": rawQty}).
				Warn("unparseable inventory quantity, skipping row")
			continue
		}

		entry, ok := e.catalog.Entry(code)
		if !ok {
			e.logger.WithField("item_code", code).Warn("inventory item not in conversion table")
			res.Skipped = append(res.Skipped, code)
			continue
		}

		usable := qty
		if qty.LessThan(e.cfg.CaseThreshold) {
			usable, _ = catalog.ToUsable(qty, entry)
		}
		e.ledger.replace(code, usable, entry.UsableUnit, entry.Description)
		res.Items = append(res.Items, AppliedItem{
			ItemCode:    code,
			Description: entry.Description,
			Quantity:    usable,
			Unit:        entry.UsableUnit,
		})
		res.Processed++
	}

	if res.Processed == 0 {
		return res, nil
	}
	return res, e.save(ctx)
}

// SetQuantity overwrites one entry's quantity directly. Fails with
// ErrItemNotFound when the code has no ledger entry; manual updates never
// create entries.
func (e *Engine) SetQuantity(ctx context.Context, itemCode string, quantity decimal.Decimal) (old decimal.Decimal, entry Entry, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	old, err = e.ledger.set(itemCode, quantity)
	if err != nil {
		return decimal.Zero, Entry{}, err
	}
	return old, e.ledger.inventory[itemCode], e.save(ctx)
}

// Reset clears the inventory and both history sequences. Irreversible.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ledger.reset()
	return e.save(ctx)
}

// ListInventory returns the inventory sorted by description ascending,
// quantities rounded to two decimals for display.
func (e *Engine) ListInventory() []InventoryItem {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.list()
}

// History returns copies of both history sequences, oldest first.
func (e *Engine) History() ([]InvoiceRecord, []SalesRecord) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]InvoiceRecord(nil), e.ledger.invoiceHistory...),
		append([]SalesRecord(nil), e.ledger.salesHistory...)
}

// Counts returns the number of inventory items, applied invoices, and
// applied sales batches.
func (e *Engine) Counts() (items, invoices, sales int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.ledger.inventory), len(e.ledger.invoiceHistory), len(e.ledger.salesHistory)
}

// Snapshot returns a deep copy of the full ledger state.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.snapshot()
}

// save persists the current state. Called with the write lock held.
func (e *Engine) save(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Save(ctx, e.ledger.snapshot()); err != nil {
		e.logger.WithError(err).Error("ledger snapshot save failed")
		return fmt.Errorf("%w: %v", ErrSnapshotSave, err)
	}
	return nil
}
