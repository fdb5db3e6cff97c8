package extract

import (
	"github.com/brouwerict/PDF2UBL/internal/template"
	"go.uber.org/zap"
)

// selectorBar is the minimum supplier-match confidence at which a specific
// template is preferred over the generic default. Deliberately high: a
// low-confidence supplier guess is worse than the generic rule set.
const selectorBar = 0.5

// Selector picks the best template for a document from the catalog.
type Selector struct {
	catalog *template.Catalog
	engine  *Engine
	logger  *zap.Logger
}

// NewSelector creates a selector over the given catalog.
func NewSelector(catalog *template.Catalog, engine *Engine, logger *zap.Logger) *Selector {
	return &Selector{catalog: catalog, engine: engine, logger: logger}
}

// Select scores every candidate template against the text and returns the
// best one at or above the acceptance bar, else the generic default. The
// supplier hint, when it matches any template, narrows the candidate set.
func (s *Selector) Select(text, supplierHint string) (*template.Template, float64) {
	candidates := s.catalog.All()
	if supplierHint != "" {
		if hinted := s.catalog.BySupplierHint(supplierHint); len(hinted) > 0 {
			candidates = hinted
		}
	}

	var (
		best           *template.Template
		bestConfidence float64
	)
	for _, tpl := range candidates {
		if tpl.ID == s.catalog.DefaultID() {
			continue
		}
		confidence := s.engine.MatchSupplier(tpl, text)
		if confidence > bestConfidence {
			best = tpl
			bestConfidence = confidence
		}
	}

	if best != nil && bestConfidence >= selectorBar {
		s.logger.Info("Selected template",
			zap.String("template_id", best.ID),
			zap.Float64("confidence", bestConfidence))
		return best, bestConfidence
	}

	s.logger.Info("No template above acceptance bar, using generic default",
		zap.Float64("best_confidence", bestConfidence))
	return s.catalog.Default(), 0
}
