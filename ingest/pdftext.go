package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFPages extracts the text of every page of a PDF document, one string
// per page. Words on a visual row are joined with spaces and rows with
// newlines, which matches the line-oriented shape the invoice extractor
// expects. A page that yields no text contributes an empty string rather
// than an error; supplier invoices routinely carry image-only pages.
func PDFPages(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			pages = append(pages, "")
			continue
		}
		var b strings.Builder
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(word.S)
			}
			b.WriteByte('\n')
		}
		pages = append(pages, b.String())
	}
	return pages, nil
}

// PDFText extracts the concatenated text of all pages, newline-separated.
func PDFText(data []byte) (string, error) {
	pages, err := PDFPages(data)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}
