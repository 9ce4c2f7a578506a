package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/frostline/inventory-engine/catalog"
)

func TestRatio_FallsBackToOneForNonNumericSentinels(t *testing.T) {
	// Reference data encodes unknown ratios as "?", empty strings, or
	// free-text notes. All of them degrade to 1; none are errors.
	tests := []struct {
		name    string
		stored  string
		want    string
	}{
		{"numeric", "4", "4"},
		{"fractional", "2.5", "2.5"},
		{"question mark", "?", "1"},
		{"empty", "", "1"},
		{"free text", "different depending on size", "1"},
		{"zero is not a usable ratio", "0", "1"},
		{"negative is not a usable ratio", "-3", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := catalog.Entry{ItemCode: "X", ItemsPerCase: tt.stored, UsableUnit: "gal"}
			assert.Equal(t, tt.want, catalog.Ratio(e).String())
		})
	}
}

func TestToUsable_AmountIsQuantityTimesRatio(t *testing.T) {
	e := catalog.Entry{ItemCode: "GF662", ItemsPerCase: "4", UsableUnit: "gal"}

	amount, unit := catalog.ToUsable(decimal.NewFromInt(2), e)

	assert.Equal(t, "8", amount.String())
	assert.Equal(t, "gal", unit)
}

func TestToUsable_UnparseableRatioDegradesNotFails(t *testing.T) {
	e := catalog.Entry{ItemCode: "X9", ItemsPerCase: "?", UsableUnit: "lb"}

	amount, unit := catalog.ToUsable(decimal.NewFromInt(7), e)

	assert.Equal(t, "7", amount.String())
	assert.Equal(t, "lb", unit)
}
