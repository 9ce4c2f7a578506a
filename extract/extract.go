package extract

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Item is one candidate purchase line: what was bought, how many purchase
// units, and the line's extension (total) price.
type Item struct {
	Description string
	Quantity    int64
	Price       decimal.Decimal
}

// Invoice is the structured result of extracting one invoice document.
// Header fields are best-effort; absence is the zero value, not an error.
type Invoice struct {
	InvoiceNumber string
	Date          string
	Supplier      string
	Total         *decimal.Decimal
	Items         []Item
}

// Extractor scans invoice text with a configured grammar.
type Extractor struct {
	grammar Grammar
	rules   []headerRule
	logger  *logrus.Logger
}

// New returns an extractor using the given grammar and the default header
// rules. A nil logger falls back to the logrus standard logger.
func New(grammar Grammar, logger *logrus.Logger) *Extractor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Extractor{grammar: grammar, rules: defaultHeaderRules, logger: logger}
}

// Extract parses the concatenated text of all pages of one invoice.
//
// The scan is line-oriented and stateless across lines: each line either
// matches the grammar's item shape and yields a candidate, or is ignored.
// Candidates are then cleaned and filtered; rejected candidates are logged
// at debug level and dropped, never failing the document.
func (e *Extractor) Extract(fullText string) Invoice {
	var inv Invoice
	extractMetadata(fullText, &inv, e.rules)

	pattern := e.grammar.linePattern()
	for _, line := range strings.Split(fullText, "\n") {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		quantity := parseInt(m[1])
		description := strings.TrimSpace(m[4])

		// The extension (last number on the line) is the line total.
		extension, err := decimal.NewFromString(strings.ReplaceAll(m[6], ",", ""))
		if err != nil {
			e.logger.WithField("line", line).Debug("unparseable extension price, skipping line")
			continue
		}

		description = e.cleanDescription(description)

		if len(description) <= e.grammar.MinDescriptionLen ||
			quantity <= 0 ||
			!extension.IsPositive() ||
			e.grammar.isStopWord(description) {
			e.logger.WithField("line", line).Debug("candidate rejected by filters")
			continue
		}

		// Truncate by characters, not bytes, so a multibyte rune never
		// gets split at the limit.
		if runes := []rune(description); len(runes) > e.grammar.DescriptionLimit {
			description = string(runes[:e.grammar.DescriptionLimit])
		}

		inv.Items = append(inv.Items, Item{
			Description: description,
			Quantity:    quantity,
			Price:       extension,
		})
	}

	return inv
}

// cleanDescription strips purely numeric tokens near the start of the
// description (assumed to be embedded item codes) while keeping numeric
// tokens past the grammar's prefix window (assumed to be part of the
// product name). If stripping would remove everything, the original
// description is kept.
func (e *Extractor) cleanDescription(description string) string {
	parts := strings.Fields(description)
	clean := make([]string, 0, len(parts))
	for i, part := range parts {
		if isAllDigits(part) && i <= e.grammar.NumericPrefixWindow {
			continue
		}
		clean = append(clean, part)
	}
	if len(clean) == 0 {
		return description
	}
	return strings.Join(clean, " ")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseInt(s string) int64 {
	var n int64
	for _, r := range s {
		n = n*10 + int64(r-'0')
	}
	return n
}
