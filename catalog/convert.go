package catalog

import "github.com/shopspring/decimal"

/*
convert.go - Purchase-unit to usable-unit conversion

  amount = quantity x ratio(entry)

Reference data encodes unknown ratios as "?", empty strings, or free-text
notes. Those parse failures degrade to a ratio of 1 and the conversion
proceeds; one unparseable ratio must never sink a whole invoice. The same
substitution applies to zero or negative stored ratios, which are data
errors rather than meaningful conversions.

ToUsable is a pure function: no side effects, no failure path.
*/

var one = decimal.NewFromInt(1)

// Ratio returns the items-per-purchase-unit ratio for an entry, or 1 when
// the stored value is non-numeric or not strictly positive.
func Ratio(e Entry) decimal.Decimal {
	r, err := decimal.NewFromString(e.ItemsPerCase)
	if err != nil || !r.IsPositive() {
		return one
	}
	return r
}

// ToUsable converts a purchase quantity to the usable-unit amount tracked
// in inventory.
func ToUsable(quantity decimal.Decimal, e Entry) (amount decimal.Decimal, unit string) {
	return quantity.Mul(Ratio(e)), e.UsableUnit
}
