package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/frostline/inventory-engine/ingest"
)

// Load builds a Catalog from the conversion and recipe tables. The two
// sources are independent; either may be nil or empty and the result is
// still a valid catalog. Rows missing a non-empty key field are skipped,
// not errors, and a recipe line with an unparseable quantity loads with
// quantity zero so the rest of the product's recipe survives.
func Load(conversionRows, recipeRows []ingest.Row, logger *logrus.Logger) *Catalog {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	c := &Catalog{
		entries: make(map[string]Entry),
		recipes: make(map[string][]RecipeLine),
	}

	for _, row := range conversionRows {
		code := ingest.ConvItemNumber.From(row)
		if code == "" {
			continue
		}
		c.entries[code] = Entry{
			ItemCode:     code,
			Description:  ingest.ConvDescription.From(row),
			OrderUnit:    ingest.ConvOrderUnit.From(row),
			ItemsPerCase: ingest.ConvItemsPerCase.From(row),
			UsableUnit:   ingest.ConvUsableUnit.From(row),
			Notes:        ingest.ConvNotes.From(row),
		}
	}

	for _, row := range recipeRows {
		product := ingest.RecipeProductName.From(row)
		code := ingest.RecipeItemNumber.From(row)
		if product == "" || code == "" {
			continue
		}
		qty := decimal.Zero
		if raw := ingest.RecipeQuantityUsed.From(row); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil || parsed.IsNegative() {
				logger.WithFields(logrus.Fields{
					"product":   product,
					"item_code": code,
					"raw":       raw,
				}).Warn("recipe quantity unparseable, loading as zero")
			} else {
				qty = parsed
			}
		}
		c.recipes[product] = append(c.recipes[product], RecipeLine{
			ItemCode:     code,
			Description:  ingest.RecipeDescription.From(row),
			QuantityUsed: qty,
			Unit:         ingest.RecipeUnit.From(row),
		})
	}

	c.buildMatchOrder()

	logger.WithFields(logrus.Fields{
		"conversions": len(c.entries),
		"recipes":     len(c.recipes),
	}).Info("catalog loaded")

	return c
}

// buildMatchOrder fixes the entry iteration order used by Match: longest
// canonical description first, ties broken by ascending item code. This
// makes overlapping-description matches deterministic across runs.
func (c *Catalog) buildMatchOrder() {
	c.matchOrder = make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		c.matchOrder = append(c.matchOrder, e)
	}
	sort.Slice(c.matchOrder, func(i, j int) bool {
		a, b := c.matchOrder[i], c.matchOrder[j]
		if len(a.Description) != len(b.Description) {
			return len(a.Description) > len(b.Description)
		}
		return a.ItemCode < b.ItemCode
	})
}
