package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/brouwerict/PDF2UBL/internal/extract"
	"github.com/brouwerict/PDF2UBL/internal/pdf"
	"github.com/spf13/cobra"
)

var (
	extractTemplateID string
	extractHint       string
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf-file>",
	Short: "Extract structured invoice data from a PDF and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractTemplateID, "template", "t", "", "pin a template id instead of auto-selection")
	extractCmd.Flags().StringVar(&extractHint, "hint", "", "supplier hint for template selection")
}

// extractedField is the JSON shape of one resolved field.
type extractedField struct {
	Value      interface{} `json:"value"`
	Confidence float64     `json:"confidence"`
}

type extractOutput struct {
	TemplateID      string                    `json:"template_id"`
	Currency        string                    `json:"currency"`
	Fields          map[string]extractedField `json:"fields"`
	LineItems       []extract.LineItem        `json:"line_items"`
	MissingRequired []string                  `json:"missing_required,omitempty"`
	Warnings        []string                  `json:"warnings,omitempty"`
	Quality         float64                   `json:"quality"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	converter, err := newConverter()
	if err != nil {
		return err
	}

	reader := pdf.NewReader(logger)
	text, err := reader.ExtractText(args[0])
	if err != nil {
		return err
	}

	outcome, err := converter.Convert(text, nil, extractHint, extractTemplateID)
	if err != nil {
		return err
	}

	rec := outcome.Record
	fields := make(map[string]extractedField, len(rec.Fields))
	for name, v := range rec.Fields {
		var value interface{}
		switch v.Kind {
		case extract.KindNumber:
			value = v.Number
		case extract.KindDate:
			value = v.Date.Format(time.DateOnly)
		default:
			value = v.Text
		}
		fields[name] = extractedField{Value: value, Confidence: rec.Confidence[name]}
	}

	out := extractOutput{
		TemplateID:      rec.TemplateID,
		Currency:        rec.Currency,
		Fields:          fields,
		LineItems:       rec.LineItems,
		MissingRequired: rec.MissingRequired,
		Warnings:        rec.Warnings,
		Quality:         outcome.Quality,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
