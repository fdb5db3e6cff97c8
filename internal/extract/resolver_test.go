package extract

import (
	"testing"

	"github.com/brouwerict/PDF2UBL/internal/template"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// countingMatcher records which patterns were applied.
type countingMatcher struct {
	results map[string]struct {
		value      string
		confidence float64
	}
	applied []string
}

func (c *countingMatcher) Apply(p template.FieldPattern, text string) (string, float64) {
	c.applied = append(c.applied, p.Name)
	r := c.results[p.Name]
	return r.value, r.confidence
}

func TestResolverShortCircuit(t *testing.T) {
	matcher := &countingMatcher{
		results: map[string]struct {
			value      string
			confidence float64
		}{
			"low":  {"weak", 0.4},
			"high": {"strong", 0.95},
			"last": {"never", 0.99},
		},
	}
	r := &Resolver{matcher: matcher, logger: zap.NewNop()}

	rule := template.ExtractionRule{
		FieldName: "invoice_number",
		FieldType: template.FieldText,
		Patterns: []template.FieldPattern{
			{Name: "low", Priority: 3, ConfidenceThreshold: 0.4},
			{Name: "high", Priority: 2, ConfidenceThreshold: 0.9},
			{Name: "last", Priority: 1, ConfidenceThreshold: 0.9},
		},
	}

	value, confidence, ok := r.Resolve(rule, "doc")
	assert.True(t, ok)
	assert.Equal(t, "strong", value.Text)
	assert.Equal(t, 0.95, confidence)
	// Evaluation stops after the >0.9 hit: "last" is never applied.
	assert.Equal(t, []string{"low", "high"}, matcher.applied)
}

func TestResolverPriorityOrder(t *testing.T) {
	matcher := &countingMatcher{
		results: map[string]struct {
			value      string
			confidence float64
		}{
			"a": {"", 0},
			"b": {"found", 0.6},
		},
	}
	r := &Resolver{matcher: matcher, logger: zap.NewNop()}

	rule := template.ExtractionRule{
		FieldName: "invoice_number",
		FieldType: template.FieldText,
		Patterns: []template.FieldPattern{
			{Name: "b", Priority: 1},
			{Name: "a", Priority: 5},
		},
	}

	value, _, ok := r.Resolve(rule, "doc")
	assert.True(t, ok)
	assert.Equal(t, "found", value.Text)
	// Higher priority first despite declaration order.
	assert.Equal(t, []string{"a", "b"}, matcher.applied)
}

func TestResolverFallbacks(t *testing.T) {
	matcher := &countingMatcher{
		results: map[string]struct {
			value      string
			confidence float64
		}{
			"primary":  {"weak", 0.2},
			"fallback": {"rescued", 0.45},
		},
	}
	r := &Resolver{matcher: matcher, logger: zap.NewNop()}

	rule := template.ExtractionRule{
		FieldName:     "total_amount",
		FieldType:     template.FieldText,
		MinConfidence: 0.4,
		Patterns: []template.FieldPattern{
			{Name: "primary", Priority: 1},
		},
		FallbackPatterns: []template.FieldPattern{
			{Name: "fallback"},
		},
	}

	value, confidence, ok := r.Resolve(rule, "doc")
	assert.True(t, ok)
	assert.Equal(t, "rescued", value.Text)
	assert.Equal(t, 0.45, confidence)
}

func TestResolverFallbackSkippedWhenConfident(t *testing.T) {
	matcher := &countingMatcher{
		results: map[string]struct {
			value      string
			confidence float64
		}{
			"primary":  {"good", 0.7},
			"fallback": {"unused", 0.9},
		},
	}
	r := &Resolver{matcher: matcher, logger: zap.NewNop()}

	rule := template.ExtractionRule{
		FieldName:     "total_amount",
		FieldType:     template.FieldText,
		MinConfidence: 0.4,
		Patterns: []template.FieldPattern{
			{Name: "primary"},
		},
		FallbackPatterns: []template.FieldPattern{
			{Name: "fallback"},
		},
	}

	value, _, ok := r.Resolve(rule, "doc")
	assert.True(t, ok)
	assert.Equal(t, "good", value.Text)
	assert.Equal(t, []string{"primary"}, matcher.applied)
}

func TestResolverDefaultValue(t *testing.T) {
	matcher := &countingMatcher{results: map[string]struct {
		value      string
		confidence float64
	}{}}
	r := &Resolver{matcher: matcher, logger: zap.NewNop()}

	rule := template.ExtractionRule{
		FieldName:    "currency",
		FieldType:    template.FieldText,
		DefaultValue: "EUR",
		Patterns: []template.FieldPattern{
			{Name: "miss"},
		},
	}

	value, confidence, ok := r.Resolve(rule, "doc")
	assert.True(t, ok)
	assert.Equal(t, "EUR", value.Text)
	assert.Equal(t, defaultValueConfidence, confidence)
}

func TestResolverNothingFound(t *testing.T) {
	matcher := &countingMatcher{results: map[string]struct {
		value      string
		confidence float64
	}{}}
	r := &Resolver{matcher: matcher, logger: zap.NewNop()}

	rule := template.ExtractionRule{
		FieldName: "invoice_number",
		FieldType: template.FieldText,
		Patterns: []template.FieldPattern{
			{Name: "miss"},
		},
	}

	_, confidence, ok := r.Resolve(rule, "doc")
	assert.False(t, ok)
	assert.Zero(t, confidence)
}

func TestResolverTypeConversion(t *testing.T) {
	r := NewResolver(zap.NewNop())

	rule := template.ExtractionRule{
		FieldName: "total_amount",
		FieldType: template.FieldAmount,
		Patterns: []template.FieldPattern{
			{
				Pattern:             `totaal[:\s]*€?\s*(\d+[.,]\d{2})`,
				Method:              template.MethodRegex,
				FieldType:           template.FieldAmount,
				ConfidenceThreshold: 0.8,
			},
		},
	}

	value, _, ok := r.Resolve(rule, "Totaal: € 1234,56")
	assert.True(t, ok)
	assert.Equal(t, KindNumber, value.Kind)
	assert.InDelta(t, 1234.56, value.Number, 1e-9)
}

func TestResolverSupplierNameNormalization(t *testing.T) {
	r := NewResolver(zap.NewNop())

	rule := template.ExtractionRule{
		FieldName: "supplier_name",
		FieldType: template.FieldText,
		Patterns: []template.FieldPattern{
			{
				Pattern:             `leverancier[:\s]*(\w+)`,
				Method:              template.MethodRegex,
				FieldType:           template.FieldText,
				ConfidenceThreshold: 0.6,
			},
		},
	}

	value, _, ok := r.Resolve(rule, "Leverancier: vdx")
	assert.True(t, ok)
	assert.Equal(t, "VDX", value.Text)
}
