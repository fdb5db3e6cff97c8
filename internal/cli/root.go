// Package cli implements the pdf2ubl command line interface.
package cli

import (
	"fmt"

	"github.com/brouwerict/PDF2UBL/internal/config"
	"github.com/brouwerict/PDF2UBL/internal/convert"
	"github.com/brouwerict/PDF2UBL/internal/template"
	"github.com/brouwerict/PDF2UBL/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pdf2ubl",
	Short: "Convert PDF invoices to UBL XML",
	Long: `pdf2ubl extracts structured invoice data from PDF files using
supplier templates and converts it to UBL 2.1 invoice XML.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger, err = logging.New(logging.Config{
			Level:      cfg.Logger.Level,
			OutputPath: cfg.Logger.OutputPath,
			Format:     cfg.Logger.Format,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "path to config file")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(serveCmd)
}

// openStore opens the template store at the configured directory.
func openStore() (*template.Store, error) {
	return template.NewStore(cfg.Templates.Dir, logger)
}

// loadCatalog loads templates from the store, seeding the built-in defaults
// when the store is empty.
func loadCatalog() (*template.Catalog, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	templates, err := store.Load()
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		logger.Info("Template store empty, seeding defaults")
		templates = template.Defaults()
		for _, t := range templates {
			if err := store.Save(t); err != nil {
				return nil, err
			}
		}
	}
	return template.NewCatalog(templates, cfg.Templates.DefaultID)
}

// newConverter builds the full conversion pipeline.
func newConverter() (*convert.Converter, error) {
	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return convert.New(catalog, cfg.Extraction.DefaultVATRate, logger), nil
}
