// Package suggest generates draft templates from sample invoice texts using
// pure pattern heuristics.
package suggest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/brouwerict/PDF2UBL/internal/template"
	"go.uber.org/zap"
)

// minMatchRate is the fraction of samples a candidate pattern must match to
// be suggested.
const minMatchRate = 0.3

// fieldOrder fixes the order in which fields are analysed.
var fieldOrder = []string{
	"invoice_number", "invoice_date", "total_amount",
	"net_amount", "vat_amount", "supplier_vat_number", "supplier_name",
}

var requiredFields = map[string]bool{
	"invoice_number": true,
	"invoice_date":   true,
	"total_amount":   true,
}

var fieldTypes = map[string]template.FieldType{
	"invoice_number":      template.FieldText,
	"invoice_date":        template.FieldDate,
	"total_amount":        template.FieldAmount,
	"net_amount":          template.FieldAmount,
	"vat_amount":          template.FieldAmount,
	"supplier_vat_number": template.FieldVATNumber,
	"supplier_name":       template.FieldText,
}

// fieldCandidates are the candidate expressions tried per field, common
// shapes of Dutch invoices first.
var fieldCandidates = map[string][]string{
	"invoice_number": {
		`factuur(?:nummer)?[:\s#-]*([A-Z0-9\-/]{3,20})`,
		`invoice[:\s#-]*([A-Z0-9\-/]{3,20})`,
		`nr[:\s#-]*([A-Z0-9\-/]{3,20})`,
		`number[:\s#-]*([A-Z0-9\-/]{3,20})`,
		`factuurnr[:\s#-]*([A-Z0-9\-/]{3,20})`,
		`(\d{6,})`,
		`([A-Z]{1,3}\d{4,})`,
	},
	"invoice_date": {
		`factuurdatum[:\s]*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
		`datum[:\s]*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
		`date[:\s]*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
		`invoice\s*date[:\s]*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
		`(\d{1,2}[-/]\d{1,2}[-/]\d{4})`,
		`(\d{1,2}[-/]\d{1,2}[-/]\d{2})`,
	},
	"total_amount": {
		`totaal[:\s]*€?\s*(\d+[.,]\d{2})`,
		`total[:\s]*€?\s*(\d+[.,]\d{2})`,
		`te\s+betalen[:\s]*€?\s*(\d+[.,]\d{2})`,
		`inclusief\s*btw[:\s]*€?\s*(\d+[.,]\d{2})`,
		`incl\.\s*btw[:\s]*€?\s*(\d+[.,]\d{2})`,
		`€\s*(\d+[.,]\d{2})`,
	},
	"net_amount": {
		`exclusief\s*btw[:\s]*€?\s*(\d+[.,]\d{2})`,
		`excl\.\s*btw[:\s]*€?\s*(\d+[.,]\d{2})`,
		`netto[:\s]*€?\s*(\d+[.,]\d{2})`,
		`subtotaal[:\s]*€?\s*(\d+[.,]\d{2})`,
		`subtotal[:\s]*€?\s*(\d+[.,]\d{2})`,
	},
	"vat_amount": {
		`btw[:\s]*€?\s*(\d+[.,]\d{2})`,
		`vat[:\s]*€?\s*(\d+[.,]\d{2})`,
		`btw\s*bedrag[:\s]*€?\s*(\d+[.,]\d{2})`,
		`21%[:\s]*€?\s*(\d+[.,]\d{2})`,
	},
	"supplier_vat_number": {
		`btw[:\s-]*(?:nr|nummer)?[:\s]*([A-Z]{2}\d{9}B\d{2})`,
		`vat[:\s-]*(?:nr|number)?[:\s]*([A-Z]{2}\d{9}B\d{2})`,
		`(NL\d{9}B\d{2})`,
		`([A-Z]{2}\d{9}B\d{2})`,
	},
	"supplier_name": {
		`([A-Z][A-Za-z\s]+(?:B\.V\.|BV|Ltd|Inc|Nederland|Group))`,
		`^([A-Z][A-Za-z\s]{5,40})`,
	},
}

var (
	postalCode = regexp.MustCompile(`\d{4}\s*[A-Z]{2}`)
	domainName = regexp.MustCompile(`(?i)[\w.-]+\.[a-z]{2,4}`)
)

// Result is a generated draft template with diagnostics.
type Result struct {
	Template *template.Template

	// Confidence is the mean match quality over all suggested patterns.
	Confidence float64

	// FieldValues previews what each suggested rule extracts from the
	// samples.
	FieldValues map[string]string
}

// Generator builds draft templates from samples.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a template generator.
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{logger: logger}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveID builds a template id from a supplier name, e.g.
// "Ziggo B.V." becomes "ziggo_b_v".
func DeriveID(supplierName string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(supplierName), "_")
	return strings.Trim(slug, "_")
}

// Generate analyses the sample texts and returns a draft template bound to
// the supplier.
func (g *Generator) Generate(supplierName, templateID string, samples []string) (*Result, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no sample texts provided")
	}

	tpl := template.New(templateID, fmt.Sprintf("%s (generated)", supplierName))
	tpl.SupplierName = supplierName
	tpl.Description = fmt.Sprintf("Auto-generated template for %s based on %d samples", supplierName, len(samples))
	tpl.SupplierPatterns = g.supplierPatterns(supplierName, samples)

	var (
		totalScore float64
		totalTests int
	)
	fieldValues := make(map[string]string)

	for _, field := range fieldOrder {
		patterns := g.analyseField(field, samples)
		if len(patterns) == 0 {
			g.logger.Debug("No candidate pattern matched", zap.String("field", field))
			continue
		}

		tpl.AddFieldRule(field, fieldTypes[field], patterns, requiredFields[field], 0.5)

		for _, p := range patterns {
			rate := g.matchRate(p.Pattern, samples)
			totalScore += rate * p.ConfidenceThreshold
			totalTests++
		}

		if value := g.preview(patterns, samples); value != "" {
			fieldValues[field] = value
		}
	}

	for _, p := range tpl.SupplierPatterns {
		rate := g.matchRate(p.Pattern, samples)
		totalScore += rate * p.ConfidenceThreshold
		totalTests++
	}

	confidence := 0.0
	if totalTests > 0 {
		confidence = totalScore / float64(totalTests)
	}

	g.logger.Info("Generated template",
		zap.String("template_id", templateID),
		zap.Int("rules", len(tpl.ExtractionRules)),
		zap.Float64("confidence", confidence))

	return &Result{Template: tpl, Confidence: confidence, FieldValues: fieldValues}, nil
}

// analyseField keeps the top three candidates that match enough samples,
// scored by their match rate.
func (g *Generator) analyseField(field string, samples []string) []template.FieldPattern {
	var patterns []template.FieldPattern
	for _, expr := range fieldCandidates[field] {
		rate := g.matchRate(expr, samples)
		if rate < minMatchRate {
			continue
		}
		threshold := rate
		if threshold < 0.5 {
			threshold = 0.5
		}
		patterns = append(patterns, template.FieldPattern{
			Pattern:             expr,
			Method:              template.MethodRegex,
			FieldType:           fieldTypes[field],
			ConfidenceThreshold: threshold,
			Name:                fmt.Sprintf("Auto-detected %s pattern", field),
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].ConfidenceThreshold > patterns[j].ConfidenceThreshold
	})
	if len(patterns) > 3 {
		patterns = patterns[:3]
	}
	return patterns
}

func (g *Generator) matchRate(expr string, samples []string) float64 {
	re, err := regexp.Compile("(?im)" + expr)
	if err != nil {
		g.logger.Warn("Invalid candidate pattern", zap.String("pattern", expr), zap.Error(err))
		return 0
	}
	matches := 0
	for _, text := range samples {
		if re.MatchString(text) {
			matches++
		}
	}
	return float64(matches) / float64(len(samples))
}

// preview extracts the value the best pattern finds in the samples.
func (g *Generator) preview(patterns []template.FieldPattern, samples []string) string {
	for _, p := range patterns {
		re, err := regexp.Compile("(?im)" + p.Pattern)
		if err != nil {
			continue
		}
		for _, text := range samples {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			value := m[0]
			if len(m) > 1 {
				value = m[1]
			}
			if value = strings.TrimSpace(value); value != "" {
				return value
			}
		}
	}
	return ""
}

// supplierPatterns builds detection patterns: the exact escaped name, a
// first-word/last-word variation, and unique identifiers found in samples.
func (g *Generator) supplierPatterns(supplierName string, samples []string) []template.FieldPattern {
	patterns := []template.FieldPattern{
		{
			Pattern:             regexp.QuoteMeta(supplierName),
			Method:              template.MethodRegex,
			FieldType:           template.FieldText,
			ConfidenceThreshold: 0.8,
			Name:                fmt.Sprintf("%s exact match", supplierName),
		},
	}

	if parts := strings.Fields(supplierName); len(parts) > 1 {
		patterns = append(patterns, template.FieldPattern{
			Pattern:             regexp.QuoteMeta(parts[0]) + ".*" + regexp.QuoteMeta(parts[len(parts)-1]),
			Method:              template.MethodRegex,
			FieldType:           template.FieldText,
			ConfidenceThreshold: 0.7,
			Name:                fmt.Sprintf("%s variation", supplierName),
		})
	}

	for _, text := range samples {
		for _, pc := range postalCode.FindAllString(text, 2) {
			patterns = append(patterns, template.FieldPattern{
				Pattern:             regexp.QuoteMeta(pc),
				Method:              template.MethodRegex,
				FieldType:           template.FieldText,
				ConfidenceThreshold: 0.9,
				Name:                fmt.Sprintf("%s postal code", supplierName),
			})
		}
		for _, dom := range domainName.FindAllString(text, 2) {
			if len(dom) > 4 {
				patterns = append(patterns, template.FieldPattern{
					Pattern:             regexp.QuoteMeta(dom),
					Method:              template.MethodRegex,
					FieldType:           template.FieldText,
					ConfidenceThreshold: 0.7,
					Name:                fmt.Sprintf("%s domain", supplierName),
				})
			}
		}
	}

	if len(patterns) > 5 {
		patterns = patterns[:5]
	}
	return patterns
}
