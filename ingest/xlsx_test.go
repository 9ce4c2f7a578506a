package ingest_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/frostline/inventory-engine/ingest"
)

func workbookWith(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadXLSX_MatchesCSVRows(t *testing.T) {
	// GIVEN the same table as a workbook and as CSV
	buf := workbookWith(t,
		[]interface{}{"item_name", "quantity_sold"},
		[]interface{}{"SM BLIZZARD", 45},
		[]interface{}{"LG CONE", 12},
	)
	csv := "item_name,quantity_sold\nSM BLIZZARD,45\nLG CONE,12\n"

	fromXLSX, err := ingest.ReadXLSX(buf)
	require.NoError(t, err)
	fromCSV, err := ingest.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	// THEN both loaders produce identical header-keyed rows.
	assert.Equal(t, fromCSV, fromXLSX)
}

func TestReadXLSX_ShortRowsArePadded(t *testing.T) {
	// Trailing blank cells disappear from the sheet data; the loader
	// still keys every header column.
	buf := workbookWith(t,
		[]interface{}{"item_number", "quantity", "notes"},
		[]interface{}{"X1", 10},
	)

	rows, err := ingest.ReadXLSX(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "X1", rows[0]["item_number"])
	assert.Equal(t, "10", rows[0]["quantity"])
	notes, ok := rows[0]["notes"]
	assert.True(t, ok)
	assert.Equal(t, "", notes)
}

func TestReadXLSX_EmptyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, readErr := ingest.ReadXLSX(buf)
	require.NoError(t, readErr)
	assert.Empty(t, rows)
}
