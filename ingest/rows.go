/*
Package ingest turns uploaded files into the row and text shapes the core
consumes. It knows nothing about inventory semantics.

PURPOSE:
  Point-of-sale exports and reference tables arrive as CSV or XLSX with
  inconsistent column headers ("Product Number" vs "item_number"). This
  package provides:
  - Row:   a header-keyed record, like csv.DictReader rows
  - Field: an ordered list of accepted header aliases, resolved first-match
  - Readers for CSV (stdlib) and XLSX (excelize)
  - PDF page-text extraction for invoice uploads (ledongthuc/pdf)

DESIGN:
  Alias resolution is explicit configuration, not reflection. Each logical
  field lists its accepted headers in priority order; the first alias present
  and non-empty on a row wins.

SEE ALSO:
  - csv.go, xlsx.go: tabular readers
  - pdftext.go: invoice text extraction
*/
package ingest

import "strings"

// Row is a single tabular record keyed by column header.
// Values are stored as read; Field trims surrounding whitespace.
type Row map[string]string

// Field is an ordered list of accepted column-header aliases for one
// logical field. Resolution is first-match over the alias order.
type Field []string

// From resolves the field against a row. Returns the trimmed value of the
// first alias that is present and non-empty, or "" when none match.
func (f Field) From(r Row) string {
	for _, alias := range f {
		if v, ok := r[alias]; ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// Accepted header aliases for the tabular sources the engine ingests.
// Order matters: earlier aliases win when a file carries several.
var (
	// Conversion reference table.
	ConvItemNumber   = Field{"item_number"}
	ConvDescription  = Field{"description"}
	ConvOrderUnit    = Field{"order_unit"}
	ConvItemsPerCase = Field{"items_per_case"}
	ConvUsableUnit   = Field{"usable_unit"}
	ConvNotes        = Field{"notes"}

	// Recipe reference table.
	RecipeProductName  = Field{"pos_item_name"}
	RecipeItemNumber   = Field{"inventory_item_number"}
	RecipeDescription  = Field{"inventory_description"}
	RecipeQuantityUsed = Field{"quantity_used"}
	RecipeUnit         = Field{"unit"}

	// POS sales export.
	SalesItemName     = Field{"item_name"}
	SalesQuantitySold = Field{"quantity_sold"}

	// Starting-inventory export. These files come from several POS vendors,
	// hence the longer alias lists.
	InventoryItemNumber = Field{"Product Number", "product_number", "item_number", "Item Number"}
	InventoryQuantity   = Field{"Current Inventory", "current_inventory", "quantity", "Quantity"}
)
