// Package convert wires the extraction pipeline end to end: template
// selection, field extraction, monetary reconciliation, document assembly
// and UBL serialization.
package convert

import (
	"errors"
	"fmt"

	"github.com/brouwerict/PDF2UBL/internal/extract"
	"github.com/brouwerict/PDF2UBL/internal/reconcile"
	"github.com/brouwerict/PDF2UBL/internal/template"
	"github.com/brouwerict/PDF2UBL/internal/ubl"
	"go.uber.org/zap"
)

// ErrUnknownTemplate is returned when a pinned template id is not in the
// catalog.
var ErrUnknownTemplate = errors.New("unknown template")

// Outcome is the result of converting one document.
type Outcome struct {
	Template   *template.Template
	Record     *extract.Record
	Totals     reconcile.Totals
	Document   *ubl.Document
	XML        []byte
	Quality    float64
	SelectorConfidence float64
}

// Converter runs the full pipeline over in-memory text and tables.
type Converter struct {
	catalog    *template.Catalog
	engine     *extract.Engine
	selector   *extract.Selector
	reconciler *reconcile.Reconciler
	assembler  *ubl.Assembler
	logger     *zap.Logger
}

// New creates a converter over the catalog.
func New(catalog *template.Catalog, defaultVATRate float64, logger *zap.Logger) *Converter {
	engine := extract.NewEngine(logger)
	return &Converter{
		catalog:    catalog,
		engine:     engine,
		selector:   extract.NewSelector(catalog, engine, logger),
		reconciler: reconcile.New(logger),
		assembler:  ubl.NewAssembler(defaultVATRate, logger),
		logger:     logger,
	}
}

// Convert extracts, reconciles and assembles one document. When templateID
// is set it pins the template; otherwise the selector picks one using the
// optional supplier hint. The only errors returned are assembly faults and
// unknown template identifiers.
func (c *Converter) Convert(text string, tables [][][]string, supplierHint, templateID string) (*Outcome, error) {
	var (
		tpl        *template.Template
		confidence float64
	)
	if templateID != "" {
		tpl = c.catalog.Get(templateID)
		if tpl == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, templateID)
		}
	} else {
		tpl, confidence = c.selector.Select(text, supplierHint)
		if tpl == nil {
			return nil, fmt.Errorf("catalog has no default template")
		}
	}

	rec := c.engine.Apply(tpl, text, tables)
	totals := c.reconciler.Reconcile(rec)

	doc, err := c.assembler.Assemble(rec, totals)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble document: %w", err)
	}

	xmlData, err := ubl.MarshalXML(doc)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Converted document",
		zap.String("template_id", tpl.ID),
		zap.String("invoice_id", doc.ID),
		zap.Int("line_items", len(doc.Lines)),
		zap.Int("warnings", len(rec.Warnings)))

	return &Outcome{
		Template:           tpl,
		Record:             rec,
		Totals:             totals,
		Document:           doc,
		XML:                xmlData,
		Quality:            c.engine.Quality(rec, tpl),
		SelectorConfidence: confidence,
	}, nil
}

// Catalog exposes the underlying catalog.
func (c *Converter) Catalog() *template.Catalog {
	return c.catalog
}
