/*
Package extract turns the raw text of a supplier invoice into a structured
record: optional header metadata plus a sequence of candidate line items.

PURPOSE:
  Invoice PDFs yield semi-structured text with no grammar guaranteeing
  correctness. The extractor is deliberately heuristic and line-oriented:
  each line is matched against a fixed shape (quantity, unit-of-measure,
  pack size, codes, description, unit price, extension price) and the
  survivors become candidate purchase items for catalog matching.

PLUGGABILITY:
  The line shape lives in a Grammar value, not in the algorithm. A new
  supplier layout means a new Grammar (different unit tokens, stop words,
  limits), not a code change. DefaultGrammar covers the broadline
  foodservice format the system was built against.

SEE ALSO:
  - extract.go:  the line-scanning algorithm
  - metadata.go: best-effort header field rules
*/
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Grammar is the configurable line shape for one supplier invoice format.
type Grammar struct {
	// Units are the accepted unit-of-measure tokens in line position two.
	Units []string

	// StopWords reject a candidate whose cleaned description begins with
	// any of them (case-insensitive). These are header/footer rows and
	// non-product charges, not purchasable items.
	StopWords []string

	// DescriptionLimit truncates surviving descriptions, keeping display
	// and catalog matching bounded. Not a hard domain limit.
	DescriptionLimit int

	// MinDescriptionLen rejects candidates whose cleaned description is
	// this many characters or fewer.
	MinDescriptionLen int

	// NumericPrefixWindow controls description cleaning: a purely numeric
	// token at index <= window is assumed to be an embedded item code and
	// stripped; numeric tokens past the window are kept as part of the
	// product name ("1000 ISLAND DRESSING" survives, leading "00417" does
	// not).
	NumericPrefixWindow int

	line *regexp.Regexp
}

// DefaultGrammar returns the broadline foodservice line shape:
//
//	QTY UNIT PACK BRAND ITEM# DESCRIPTION ... UNIT_PRICE EXTENSION
func DefaultGrammar() Grammar {
	g := Grammar{
		Units: []string{"CS", "EA", "LB", "BG", "GL", "CT", "BX"},
		StopWords: []string{
			"item", "description", "qty", "quantity", "price",
			"total", "fuel", "delivery", "perishable", "continued",
		},
		DescriptionLimit:    60,
		MinDescriptionLen:   3,
		NumericPrefixWindow: 2,
	}
	g.compile()
	return g
}

// compile builds the line pattern from the configured unit tokens.
// Shape: leading integer quantity, a unit token, a pack-size token, two
// short alphanumeric codes, free-text description, and two trailing
// decimal numbers (unit price, extension).
func (g *Grammar) compile() {
	units := strings.Join(g.Units, "|")
	g.line = regexp.MustCompile(fmt.Sprintf(
		`^\s*(\d+)\s+(?:%s)\s+[\d/\.]+\s*\w*\s+(\w+)\s+(\w+)\s+(.+?)\s+([\d,]+\.?\d+)\s+([\d,]+\.?\d+)\s*$`,
		units,
	))
}

// linePattern returns the compiled line matcher, compiling on first use so
// hand-built Grammar literals work without an explicit init step.
func (g *Grammar) linePattern() *regexp.Regexp {
	if g.line == nil {
		g.compile()
	}
	return g.line
}

// isStopWord reports whether the description begins with a known
// non-product header/footer word.
func (g *Grammar) isStopWord(description string) bool {
	lower := strings.ToLower(description)
	for _, w := range g.StopWords {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	return false
}
