package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brouwerict/PDF2UBL/internal/convert"
	"github.com/brouwerict/PDF2UBL/internal/export"
	"github.com/brouwerict/PDF2UBL/internal/pdf"
	"github.com/brouwerict/PDF2UBL/internal/stats"
	"github.com/brouwerict/PDF2UBL/internal/ubl"
	"github.com/brouwerict/PDF2UBL/pkg/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	convertOutput     string
	convertTemplateID string
	convertHint       string
	convertSummary    string
	convertStats      bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <pdf-file-or-dir>",
	Short: "Convert PDF invoices to UBL XML files",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output directory (default: export.output_dir)")
	convertCmd.Flags().StringVarP(&convertTemplateID, "template", "t", "", "pin a template id instead of auto-selection")
	convertCmd.Flags().StringVar(&convertHint, "hint", "", "supplier hint for template selection")
	convertCmd.Flags().StringVar(&convertSummary, "summary", "", "write an XLSX batch summary to this path")
	convertCmd.Flags().BoolVar(&convertStats, "record-stats", false, "record template usage statistics")
}

func runConvert(cmd *cobra.Command, args []string) error {
	paths, err := collectPDFs(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found at %s", args[0])
	}

	outputDir := convertOutput
	if outputDir == "" {
		outputDir = cfg.Export.OutputDir
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	converter, err := newConverter()
	if err != nil {
		return err
	}
	reader := pdf.NewReader(logger)

	var usageStore *stats.Store
	if convertStats {
		db, err := database.Open(database.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		usageStore, err = stats.NewStore(db, logger)
		if err != nil {
			return err
		}
	}

	var rows []export.Row
	converted := 0

	// One document's assembly fault never aborts the batch.
	for _, path := range paths {
		outPath, row, err := convertOne(converter, reader, usageStore, path, outputDir)
		if err != nil {
			logger.Error("Conversion failed",
				zap.String("file", path),
				zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "FAILED  %s: %v\n", path, err)
			continue
		}
		converted++
		rows = append(rows, *row)
		fmt.Fprintf(cmd.OutOrStdout(), "OK      %s -> %s\n", path, outPath)
	}

	if convertSummary != "" && len(rows) > 0 {
		writer := export.NewWriter(logger)
		if err := writer.WriteSummary(convertSummary, rows); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d/%d documents\n", converted, len(paths))
	return nil
}

func convertOne(converter *convert.Converter, reader *pdf.Reader, usageStore *stats.Store, path, outputDir string) (string, *export.Row, error) {
	text, err := reader.ExtractText(path)
	if err != nil {
		return "", nil, err
	}

	outcome, err := converter.Convert(text, nil, convertHint, convertTemplateID)
	if usageStore != nil && outcome != nil {
		success := err == nil && len(outcome.Record.MissingRequired) == 0
		if serr := usageStore.RecordUse(outcome.Template.ID, success); serr != nil {
			logger.Warn("Failed to record template usage", zap.Error(serr))
		}
	}
	if err != nil {
		return "", nil, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(outputDir, base+".xml")
	if err := os.WriteFile(outPath, outcome.XML, 0644); err != nil {
		return "", nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	row := &export.Row{
		File:       filepath.Base(path),
		TemplateID: outcome.Template.ID,
		Supplier:   outcome.Record.Text("supplier_name"),
		Currency:   outcome.Totals.Currency,
		Quality:    outcome.Quality,
		Warnings:   len(outcome.Record.Warnings),
	}
	row.InvoiceNumber = outcome.Record.Text("invoice_number")
	if d, ok := outcome.Record.Date("invoice_date"); ok {
		row.InvoiceDate = d
	}
	if outcome.Totals.Net.Valid {
		row.NetAmount = ubl.FormatAmount(outcome.Totals.Net.Decimal)
	}
	if outcome.Totals.Tax.Valid {
		row.TaxAmount = ubl.FormatAmount(outcome.Totals.Tax.Decimal)
	}
	if outcome.Totals.Total.Valid {
		row.TotalAmount = ubl.FormatAmount(outcome.Totals.Total.Decimal)
	}
	return outPath, row, nil
}

func collectPDFs(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", root, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(root, entry.Name()))
		}
	}
	return paths, nil
}
