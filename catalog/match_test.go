package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline/inventory-engine/catalog"
	"github.com/frostline/inventory-engine/ingest"
)

func matchCatalog(rows ...ingest.Row) *catalog.Catalog {
	return catalog.Load(rows, nil, nil)
}

func TestMatch_ByItemCodeSubstring(t *testing.T) {
	c := matchCatalog(convRow("GF662", "ICE CREAM MIX", "4", "gal"))

	e, ok := c.Match("SFTSRV GF662 VANILLA")
	require.True(t, ok)
	assert.Equal(t, "GF662", e.ItemCode)
}

func TestMatch_ByDescriptionCaseInsensitive(t *testing.T) {
	c := matchCatalog(convRow("GF662", "ICE CREAM MIX", "4", "gal"))

	e, ok := c.Match("soft Ice Cream Mix sftsrv van")
	require.True(t, ok)
	assert.Equal(t, "GF662", e.ItemCode)
}

func TestMatch_NoMatchIsReportedNotFatal(t *testing.T) {
	c := matchCatalog(convRow("GF662", "ICE CREAM MIX", "4", "gal"))

	_, ok := c.Match("PAPER TOWELS 2 PLY")
	assert.False(t, ok)
}

func TestMatch_TieBreak_LongestDescriptionWins(t *testing.T) {
	// GIVEN: two entries whose canonical descriptions both occur in the
	//        candidate ("ICE CREAM" is a prefix of "ICE CREAM MIX")
	// THEN:  the more specific (longer) description wins, on every run

	c := matchCatalog(
		convRow("AA100", "ICE CREAM", "1", "gal"),
		convRow("GF662", "ICE CREAM MIX", "4", "gal"),
	)

	for i := 0; i < 50; i++ {
		e, ok := c.Match("SOFT ICE CREAM MIX SFTSRV VAN")
		require.True(t, ok)
		assert.Equal(t, "GF662", e.ItemCode)
	}
}

func TestMatch_TieBreak_EqualLengthFallsBackToItemCode(t *testing.T) {
	c := matchCatalog(
		convRow("ZZ900", "CHOC SYRUP", "1", "gal"),
		convRow("AA100", "CHOC FUDGE", "1", "gal"),
	)

	// Candidate contains both equally-long descriptions; lexicographically
	// smaller item code wins deterministically.
	for i := 0; i < 50; i++ {
		e, ok := c.Match("CHOC FUDGE CHOC SYRUP COMBO")
		require.True(t, ok)
		assert.Equal(t, "AA100", e.ItemCode)
	}
}

func TestMatch_EmptyCanonicalDescriptionNeverMatchesEverything(t *testing.T) {
	c := matchCatalog(convRow("NN001", "", "1", "ea"))

	_, ok := c.Match("ANYTHING AT ALL")
	assert.False(t, ok)
}
