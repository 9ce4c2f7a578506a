package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

/*
metadata.go - Best-effort header field extraction

Header metadata (invoice number, date, supplier, grand total) is pulled
from the full text by an ordered list of independent (field, pattern)
rules. Each rule either sets its field or leaves it absent; the first
match for a field wins and later rules for the same field are skipped.
No rule failure is fatal - absent metadata is simply unset.
*/

type headerField int

const (
	fieldInvoiceNumber headerField = iota
	fieldDate
	fieldSupplier
	fieldTotal
)

type headerRule struct {
	field   headerField
	pattern *regexp.Regexp
}

// defaultHeaderRules is evaluated in order. Date has two rules: a labeled
// "Date:" form first, then any bare date token as a fallback.
var defaultHeaderRules = []headerRule{
	{fieldInvoiceNumber, regexp.MustCompile(`(?i)invoice\s*#?\s*:?\s*(\w+)`)},
	{fieldDate, regexp.MustCompile(`(?i)date\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)},
	{fieldDate, regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)},
	{fieldSupplier, regexp.MustCompile(`(?i)(?:from|vendor|supplier)\s*:?\s*([A-Za-z\s]+)`)},
	{fieldTotal, regexp.MustCompile(`(?i)total\s*:?\s*[\$€£]?([\d,]+\.?\d*)`)},
}

// extractMetadata fills the invoice header fields from the full text.
func extractMetadata(fullText string, inv *Invoice, rules []headerRule) {
	for _, rule := range rules {
		m := rule.pattern.FindStringSubmatch(fullText)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		switch rule.field {
		case fieldInvoiceNumber:
			if inv.InvoiceNumber == "" {
				inv.InvoiceNumber = value
			}
		case fieldDate:
			if inv.Date == "" {
				inv.Date = value
			}
		case fieldSupplier:
			if inv.Supplier == "" {
				inv.Supplier = value
			}
		case fieldTotal:
			if inv.Total == nil {
				if total, err := decimal.NewFromString(strings.ReplaceAll(value, ",", "")); err == nil {
					inv.Total = &total
				}
			}
		}
	}
}
