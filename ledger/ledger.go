package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is the mutable inventory aggregate. It carries no lock of its
// own: the Engine owns it exclusively and serializes all access. Keeping
// the aggregate unsynchronized keeps its mutations composable - one Engine
// operation can touch many entries and the history under a single lock.
type Ledger struct {
	inventory      map[string]Entry
	invoiceHistory []InvoiceRecord
	salesHistory   []SalesRecord
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{inventory: make(map[string]Entry)}
}

// add credits an item code, creating the entry at zero on first receipt.
func (l *Ledger) add(itemCode string, amount decimal.Decimal, unit, description string) Entry {
	e, ok := l.inventory[itemCode]
	if !ok {
		e = Entry{Quantity: decimal.Zero, Unit: unit, Description: description}
	}
	e.Quantity = e.Quantity.Add(amount)
	l.inventory[itemCode] = e
	return e
}

// deduct debits an existing item code. Returns false when the code has no
// ledger entry; a missing entry stays missing, which is distinct from a
// zero-quantity entry.
func (l *Ledger) deduct(itemCode string, amount decimal.Decimal) (Entry, bool) {
	e, ok := l.inventory[itemCode]
	if !ok {
		return Entry{}, false
	}
	e.Quantity = e.Quantity.Sub(amount)
	l.inventory[itemCode] = e
	return e, true
}

// replace overwrites the entry for an item code, creating it if absent.
func (l *Ledger) replace(itemCode string, quantity decimal.Decimal, unit, description string) {
	l.inventory[itemCode] = Entry{Quantity: quantity, Unit: unit, Description: description}
}

// set overwrites only the quantity of an existing entry.
func (l *Ledger) set(itemCode string, quantity decimal.Decimal) (old decimal.Decimal, err error) {
	e, ok := l.inventory[itemCode]
	if !ok {
		return decimal.Zero, ErrItemNotFound
	}
	old = e.Quantity
	e.Quantity = quantity
	l.inventory[itemCode] = e
	return old, nil
}

// reset clears the inventory and both history sequences. Irreversible.
func (l *Ledger) reset() {
	l.inventory = make(map[string]Entry)
	l.invoiceHistory = nil
	l.salesHistory = nil
}

// list returns the inventory sorted by description ascending, quantities
// rounded to two decimals for display.
func (l *Ledger) list() []InventoryItem {
	items := make([]InventoryItem, 0, len(l.inventory))
	for code, e := range l.inventory {
		items = append(items, InventoryItem{
			ItemCode:    code,
			Description: e.Description,
			Quantity:    e.Quantity.Round(2),
			Unit:        e.Unit,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Description != items[j].Description {
			return items[i].Description < items[j].Description
		}
		return items[i].ItemCode < items[j].ItemCode
	})
	return items
}

// snapshot deep-copies the current state for persistence or reads.
func (l *Ledger) snapshot() *Snapshot {
	inv := make(map[string]Entry, len(l.inventory))
	for k, v := range l.inventory {
		inv[k] = v
	}
	s := &Snapshot{
		Inventory:      inv,
		InvoiceHistory: append([]InvoiceRecord(nil), l.invoiceHistory...),
		SalesHistory:   append([]SalesRecord(nil), l.salesHistory...),
		LastUpdated:    time.Now().UTC(),
	}
	return s
}

// restore replaces the ledger state from a persisted snapshot.
func (l *Ledger) restore(s *Snapshot) {
	l.inventory = make(map[string]Entry, len(s.Inventory))
	for k, v := range s.Inventory {
		l.inventory[k] = v
	}
	l.invoiceHistory = append([]InvoiceRecord(nil), s.InvoiceHistory...)
	l.salesHistory = append([]SalesRecord(nil), s.SalesHistory...)
}
