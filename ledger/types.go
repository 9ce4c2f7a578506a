/*
Package ledger owns the live inventory state and the reconciliation engine
that mutates it.

PURPOSE:
  The Ledger is a single owned aggregate: the item-code keyed quantity map
  plus the ordered history of applied invoices and sales batches. All
  mutation flows through the Engine, which serializes operations with a
  single writer lock and persists a full snapshot after every successful
  mutating operation.

CRITICAL INVARIANTS:
  1. SINGLE WRITER: mutating operations never interleave partial updates.
  2. CONSISTENT READS: listings observe a snapshot, never a torn read.
  3. HISTORY IS APPEND-ONLY: records are never mutated after creation;
     only Reset clears them, and Reset is explicit and irreversible.
  4. NEGATIVE QUANTITIES ARE REPORTED, NOT PREVENTED: an oversold item is
     the system's stock-out/shrinkage signal.

SEE ALSO:
  - ledger.go:    the aggregate and its internal mutations
  - reconcile.go: the Engine's apply operations
  - errors.go:    sentinel errors
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is the live inventory state for one item code. Quantity is signed;
// negative values are allowed and mean oversell or shrinkage.
type Entry struct {
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Description string          `json:"description"`
}

// InvoiceRecord is one applied invoice in the processing history.
type InvoiceRecord struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	InvoiceDate string    `json:"date,omitempty"`
	ItemsAdded  int       `json:"items_added"`
	ProcessedAt time.Time `json:"processed_at"`
}

// SalesRecord is one applied sales batch in the processing history.
type SalesRecord struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	ItemsProcessed int       `json:"items_processed"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// Snapshot is the full persisted state: inventory plus both histories.
// This is the exact shape the snapshot stores serialize.
type Snapshot struct {
	Inventory      map[string]Entry `json:"inventory"`
	InvoiceHistory []InvoiceRecord  `json:"invoice_history"`
	SalesHistory   []SalesRecord    `json:"sales_history"`
	LastUpdated    time.Time        `json:"last_updated"`
}

// InventoryItem is one row of an inventory listing, display-rounded.
type InventoryItem struct {
	ItemCode    string          `json:"item_number"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"` // rounded to 2 decimals
	Unit        string          `json:"unit"`
}

// AppliedItem reports one ledger credit made while applying an invoice or
// a starting-inventory row.
type AppliedItem struct {
	ItemCode    string          `json:"item_number"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// Deduction reports one ledger debit made while applying a sales batch.
type Deduction struct {
	Product     string          `json:"pos_item"`
	ItemCode    string          `json:"item_number"`
	Description string          `json:"description"`
	Deducted    decimal.Decimal `json:"deducted"`
	Unit        string          `json:"unit"`
}

// InvoiceResult summarizes one ApplyInvoice call.
type InvoiceResult struct {
	Applied   []AppliedItem `json:"applied"`
	Unmatched []string      `json:"unmatched"` // descriptions with no catalog match
	Record    *InvoiceRecord `json:"record,omitempty"`
}

// SalesResult summarizes one ApplySales call.
type SalesResult struct {
	Processed      int         `json:"processed"` // products with a known recipe
	Deductions     []Deduction `json:"deductions"`
	MissingRecipes []string    `json:"missing_recipes"`
	Record         *SalesRecord `json:"record,omitempty"`
}

// StartingResult summarizes one ApplyStartingInventory call.
type StartingResult struct {
	Processed int           `json:"processed"`
	Items     []AppliedItem `json:"items"`
	Skipped   []string      `json:"skipped"` // item codes absent from the catalog
}
