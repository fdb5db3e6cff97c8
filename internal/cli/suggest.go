package cli

import (
	"encoding/json"
	"fmt"

	"github.com/brouwerict/PDF2UBL/internal/pdf"
	"github.com/brouwerict/PDF2UBL/internal/suggest"
	"github.com/spf13/cobra"
)

var (
	suggestID   string
	suggestSave bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <supplier-name> <sample-pdf>...",
	Short: "Suggest a new template from sample invoices of one supplier",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestID, "id", "", "template id (default: derived from supplier name)")
	suggestCmd.Flags().BoolVar(&suggestSave, "save", false, "save the suggested template to the store")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	supplierName := args[0]

	reader := pdf.NewReader(logger)
	samples := make([]string, 0, len(args)-1)
	for _, path := range args[1:] {
		text, err := reader.ExtractText(path)
		if err != nil {
			return err
		}
		samples = append(samples, text)
	}

	templateID := suggestID
	if templateID == "" {
		templateID = suggest.DeriveID(supplierName)
	}

	generator := suggest.NewGenerator(logger)
	result, err := generator.Generate(supplierName, templateID, samples)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result.Template, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode template: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	fmt.Fprintf(cmd.OutOrStdout(), "confidence: %.2f\n", result.Confidence)
	for field, value := range result.FieldValues {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", field, value)
	}

	if suggestSave {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Save(result.Template); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", result.Template.ID)
	}
	return nil
}
