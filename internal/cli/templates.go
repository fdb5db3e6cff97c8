package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/brouwerict/PDF2UBL/internal/template"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage extraction templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all templates in the store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSUPPLIER\tRULES\tUSAGE")
		for _, t := range catalog.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
				t.ID, t.Name, t.SupplierName, len(t.ExtractionRules), t.UsageCount)
		}
		return w.Flush()
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Print one template as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		t := catalog.Get(args[0])
		if t == nil {
			return fmt.Errorf("template %s not found", args[0])
		}
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode template: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var templatesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in templates to the template directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		for _, t := range template.Defaults() {
			if err := store.Save(t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", t.ID)
		}
		return nil
	},
}

var templatesExportCmd = &cobra.Command{
	Use:   "export <template-id> <file>",
	Short: "Export one template to a JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		t := catalog.Get(args[0])
		if t == nil {
			return fmt.Errorf("template %s not found", args[0])
		}
		return store.Export(t, args[1])
	},
}

var templatesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a template from a JSON file into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		t, err := store.Import(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", t.ID)
		return nil
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete <template-id>",
	Short: "Delete a template from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return store.Delete(args[0])
	},
}

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesInitCmd)
	templatesCmd.AddCommand(templatesExportCmd)
	templatesCmd.AddCommand(templatesImportCmd)
	templatesCmd.AddCommand(templatesDeleteCmd)
}
