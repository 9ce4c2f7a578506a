package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads a header-rowed CSV into Rows. The first record supplies the
// column headers; subsequent records map header -> cell. Short records are
// padded with empty strings, long ones keep only the headered columns.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+2, err)
		}
		row := make(Row, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadRows routes a tabular upload to the right reader based on the
// filename extension. Only .csv and .xlsx are supported.
func ReadRows(filename string, r io.Reader) ([]Row, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return ReadCSV(r)
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}
}
