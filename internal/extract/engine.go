package extract

import (
	"fmt"
	"strings"

	"github.com/brouwerict/PDF2UBL/internal/template"
	"go.uber.org/zap"
)

// Engine drives field and table extraction for one template over one
// document. It is stateless per invocation and safe for concurrent use.
type Engine struct {
	matcher  *Matcher
	resolver *Resolver
	logger   *zap.Logger
}

// NewEngine creates an extraction engine.
func NewEngine(logger *zap.Logger) *Engine {
	matcher := NewMatcher(logger)
	return &Engine{
		matcher:  matcher,
		resolver: &Resolver{matcher: matcher, logger: logger},
		logger:   logger,
	}
}

// Apply runs every extraction rule of the template over the text, merges
// table-derived rows, and returns the raw structured record.
func (e *Engine) Apply(tpl *template.Template, text string, tables [][][]string) *Record {
	e.logger.Info("Applying template",
		zap.String("template_id", tpl.ID),
		zap.String("template", tpl.Name))

	rec := NewRecord(tpl.ID, text)

	for _, rule := range tpl.ExtractionRules {
		value, confidence, ok := e.resolver.Resolve(rule, text)
		if !ok {
			if rule.Required {
				rec.MissingRequired = append(rec.MissingRequired, rule.FieldName)
				rec.Confidence[rule.FieldName] = 0
			}
			continue
		}
		rec.Set(rule.FieldName, value, confidence)
		e.logger.Debug("Extracted field",
			zap.String("field", rule.FieldName),
			zap.String("value", value.Text),
			zap.Float64("confidence", confidence))
	}

	if len(tables) > 0 {
		e.applyTableRules(tpl, rec, ClassifyTables(tables))
	}

	if len(rec.LineItems) == 0 {
		rec.LineItems = LineItemsFromText(text)
	}

	e.postProcess(tpl, rec)
	return rec
}

func (e *Engine) applyTableRules(tpl *template.Template, rec *Record, tables []Table) {
	for _, rule := range tpl.TableRules {
		var matched *Table
		for i := range tables {
			if e.matcher.MatchesRule(tables[i], rule) {
				matched = &tables[i]
				break
			}
		}
		if matched == nil {
			continue
		}

		switch rule.TableName {
		case template.TableLineItems:
			if matched.Type == template.TableLineItems {
				rec.LineItems = LineItemsFromTable(*matched, rule)
			}
		case template.TableSummary:
			if matched.Type == template.TableSummary {
				e.applySummary(rec, SummaryFromTable(*matched), matched.Confidence)
			}
		}
	}
}

func (e *Engine) applySummary(rec *Record, s Summary, confidence float64) {
	if s.Subtotal != nil {
		rec.Set("net_amount", NumberValue(*s.Subtotal, ""), confidence)
	}
	if s.VATAmount != nil {
		rec.Set("vat_amount", NumberValue(*s.VATAmount, ""), confidence)
	}
	if s.TotalAmount != nil {
		rec.Set("total_amount", NumberValue(*s.TotalAmount, ""), confidence)
	}
}

// postProcess fills the currency and derives trivially missing amounts.
// Full triangulation is the reconciliation step's job.
func (e *Engine) postProcess(tpl *template.Template, rec *Record) {
	if rec.Currency == "" {
		rec.Currency = tpl.Currency
	}

	total, hasTotal := rec.Number("total_amount")
	vat, hasVAT := rec.Number("vat_amount")
	net, hasNet := rec.Number("net_amount")

	if hasTotal && hasVAT && !hasNet {
		rec.Set("net_amount", NumberValue(total-vat, ""), minConfidence(rec, "total_amount", "vat_amount"))
	} else if hasNet && hasVAT && !hasTotal {
		rec.Set("total_amount", NumberValue(net+vat, ""), minConfidence(rec, "net_amount", "vat_amount"))
	}
}

func minConfidence(rec *Record, fields ...string) float64 {
	minimum := 1.0
	for _, f := range fields {
		if c, ok := rec.Confidence[f]; ok && c < minimum {
			minimum = c
		}
	}
	return minimum
}

// MatchSupplier scores how well the template's supplier identity matches the
// text: 0.8 for a supplier-name substring, 0.7 per alias, or the best
// supplier-pattern confidence with boosts when the matched value contains the
// declared name (+0.3) or an alias (+0.2).
func (e *Engine) MatchSupplier(tpl *template.Template, text string) float64 {
	best := 0.0
	textLower := strings.ToLower(text)

	if tpl.SupplierName != "" && strings.Contains(textLower, strings.ToLower(tpl.SupplierName)) {
		best = 0.8
	}
	for _, alias := range tpl.SupplierAliases {
		if strings.Contains(textLower, strings.ToLower(alias)) && best < 0.7 {
			best = 0.7
		}
	}

	for _, p := range tpl.SupplierPatterns {
		value, confidence := e.matcher.Apply(p, text)
		if value == "" || confidence <= best {
			continue
		}
		best = confidence
		valueLower := strings.ToLower(value)
		if tpl.SupplierName != "" && strings.Contains(valueLower, strings.ToLower(tpl.SupplierName)) {
			best += 0.3
		}
		for _, alias := range tpl.SupplierAliases {
			if strings.Contains(valueLower, strings.ToLower(alias)) {
				best += 0.2
			}
		}
	}

	if best > 1.0 {
		best = 1.0
	}
	return best
}

// Quality scores an extraction: the mean over required-field confidences
// plus the overall average confidence.
func (e *Engine) Quality(rec *Record, tpl *template.Template) float64 {
	var scores []float64

	for _, rule := range tpl.ExtractionRules {
		if !rule.Required {
			continue
		}
		if _, ok := rec.Fields[rule.FieldName]; ok {
			scores = append(scores, rec.Confidence[rule.FieldName])
		} else {
			scores = append(scores, 0)
		}
	}

	if len(rec.Confidence) > 0 {
		sum := 0.0
		for _, c := range rec.Confidence {
			sum += c
		}
		scores = append(scores, sum/float64(len(rec.Confidence)))
	}

	if len(scores) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores))
}

// Describe returns a short human-readable summary of a record for logs.
func Describe(rec *Record) string {
	return fmt.Sprintf("template=%s fields=%d line_items=%d missing_required=%d",
		rec.TemplateID, len(rec.Fields), len(rec.LineItems), len(rec.MissingRequired))
}
