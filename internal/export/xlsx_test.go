package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	w := NewWriter(zap.NewNop())

	rows := []Row{
		{
			File:          "factuur-1.pdf",
			TemplateID:    "ziggo_nl",
			Supplier:      "Ziggo B.V.",
			InvoiceNumber: "F2024001",
			InvoiceDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			NetAmount:     "100.00",
			TaxAmount:     "21.00",
			TotalAmount:   "121.00",
			Currency:      "EUR",
			Quality:       0.93,
			Warnings:      0,
		},
		{
			File:       "factuur-2.pdf",
			TemplateID: "generic_nl",
			Currency:   "EUR",
			Warnings:   2,
		},
	}

	require.NoError(t, w.WriteSummary(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// Only the Invoices sheet remains.
	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "File", header)

	file1, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "factuur-1.pdf", file1)

	date1, err := f.GetCellValue(sheetName, "E2")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", date1)

	total1, err := f.GetCellValue(sheetName, "H2")
	require.NoError(t, err)
	assert.Equal(t, "121.00", total1)

	// Zero invoice date renders as empty.
	date2, err := f.GetCellValue(sheetName, "E3")
	require.NoError(t, err)
	assert.Empty(t, date2)
}

func TestWriteSummaryEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	w := NewWriter(zap.NewNop())

	require.NoError(t, w.WriteSummary(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "K1")
	require.NoError(t, err)
	assert.Equal(t, "Warnings", header)
}
