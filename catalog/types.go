/*
Package catalog holds the immutable reference data the reconciliation engine
matches against: the unit-conversion table and the recipe (bill-of-materials)
table.

PURPOSE:
  A Catalog answers three questions:
  - What purchased item does this free-text invoice description refer to?
    (Match, match.go)
  - How does a purchase quantity convert to usable inventory units?
    (ToUsable, convert.go)
  - What ingredients does one sold product consume?
    (Recipe, load.go)

KEY CONCEPTS:
  - Entry: one purchasable item and its conversion metadata
  - RecipeLine: one ingredient draw for one sellable product
  - ItemsPerCase is kept as the raw loaded string because reference data
    encodes unknown ratios as free text ("?", "varies by size"). Parsing
    happens at conversion time and degrades to a ratio of 1, never an error.

LIFECYCLE:
  Loaded once at startup via Load; immutable for the process lifetime.
  An empty catalog (missing source files) is a valid, degenerate state:
  nothing matches, nothing converts, nothing crashes.

SEE ALSO:
  - load.go:    building a Catalog from tabular rows
  - match.go:   description-to-entry resolution
  - convert.go: purchase-unit to usable-unit conversion
*/
package catalog

import (
	"github.com/shopspring/decimal"
)

// Entry describes how one purchased item converts to inventory units.
type Entry struct {
	ItemCode     string // unique key, e.g. "GF662"
	Description  string // canonical description, e.g. "ICE CREAM MIX"
	OrderUnit    string // purchase unit, e.g. "case"
	ItemsPerCase string // raw ratio as loaded; may be "?", "", or free text
	UsableUnit   string // unit inventory is tracked in, e.g. "gal"
	Notes        string
}

// RecipeLine is one ingredient draw for a sellable product. A product maps
// to an ordered sequence of these.
type RecipeLine struct {
	ItemCode     string
	Description  string // denormalized copy of the ingredient description
	QuantityUsed decimal.Decimal // per unit sold, never negative
	Unit         string
}

// Catalog is the immutable-after-load reference data set.
type Catalog struct {
	entries map[string]Entry
	recipes map[string][]RecipeLine

	// matchOrder fixes the iteration order for Match so that ties between
	// overlapping entries resolve the same way on every run. See match.go.
	matchOrder []Entry
}

// Entry returns the catalog entry for an item code.
func (c *Catalog) Entry(itemCode string) (Entry, bool) {
	e, ok := c.entries[itemCode]
	return e, ok
}

// Recipe returns the ingredient lines for a sellable product name.
// A product absent from the recipe table returns (nil, false); callers must
// treat that as "no known ingredients", not as an empty recipe.
func (c *Catalog) Recipe(product string) ([]RecipeLine, bool) {
	lines, ok := c.recipes[product]
	return lines, ok
}

// Len returns the number of conversion entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Products returns the number of sellable products with known recipes.
func (c *Catalog) Products() int { return len(c.recipes) }
