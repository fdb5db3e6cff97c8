// Package export writes batch conversion summaries as XLSX workbooks.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Row is one converted document in the summary workbook.
type Row struct {
	File          string
	TemplateID    string
	Supplier      string
	InvoiceNumber string
	InvoiceDate   time.Time
	NetAmount     string
	TaxAmount     string
	TotalAmount   string
	Currency      string
	Quality       float64
	Warnings      int
}

const sheetName = "Invoices"

var headers = []string{
	"File", "Template", "Supplier", "Invoice Number", "Invoice Date",
	"Net", "Tax", "Total", "Currency", "Quality", "Warnings",
}

// Writer builds summary workbooks.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates an XLSX summary writer.
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// WriteSummary writes one row per converted document to path.
func (w *Writer) WriteSummary(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.File,
			row.TemplateID,
			row.Supplier,
			row.InvoiceNumber,
			formatDate(row.InvoiceDate),
			row.NetAmount,
			row.TaxAmount,
			row.TotalAmount,
			row.Currency,
			row.Quality,
			row.Warnings,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 40); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "K", 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Wrote batch summary", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
