package extract

import (
	"sort"
	"strings"

	"github.com/brouwerict/PDF2UBL/internal/template"
	"go.uber.org/zap"
)

// shortCircuitConfidence stops pattern evaluation once exceeded: a
// high-confidence exact match must not be overridden by weaker heuristics.
const shortCircuitConfidence = 0.9

// defaultValueConfidence is assigned to values taken from a rule's static
// default.
const defaultValueConfidence = 0.1

// patternMatcher is the Resolver's view of the Matcher.
type patternMatcher interface {
	Apply(p template.FieldPattern, text string) (string, float64)
}

// Resolver picks the best candidate for one field from a rule's patterns.
type Resolver struct {
	matcher patternMatcher
	logger  *zap.Logger
}

// NewResolver creates a field resolver with its own pattern matcher.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{
		matcher: NewMatcher(logger),
		logger:  logger,
	}
}

// Resolve runs the rule's patterns in descending priority, applies fallbacks
// and defaults, and converts the winner to the rule's field type. The third
// return is false when no value could be resolved at all.
func (r *Resolver) Resolve(rule template.ExtractionRule, text string) (Value, float64, bool) {
	patterns := make([]template.FieldPattern, len(rule.Patterns))
	copy(patterns, rule.Patterns)
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Priority > patterns[j].Priority
	})

	var (
		bestRaw        string
		bestConfidence float64
		found          bool
	)

	for _, p := range patterns {
		value, confidence := r.matcher.Apply(p, text)
		if value != "" && confidence > bestConfidence {
			bestRaw = value
			bestConfidence = confidence
			found = true
			if confidence > shortCircuitConfidence {
				break
			}
		}
	}

	if bestConfidence < rule.MinConfidence {
		for _, p := range rule.FallbackPatterns {
			value, confidence := r.matcher.Apply(p, text)
			if value != "" && confidence > bestConfidence {
				bestRaw = value
				bestConfidence = confidence
				found = true
			}
		}
	}

	if !found && rule.DefaultValue != "" {
		bestRaw = rule.DefaultValue
		bestConfidence = defaultValueConfidence
		found = true
	}

	if !found {
		return Value{}, 0, false
	}

	value := Convert(bestRaw, rule.FieldType)

	// Known supplier-name normalization kept for output compatibility.
	if rule.FieldName == "supplier_name" && strings.EqualFold(value.Text, "vdx") {
		value = TextValue("VDX")
	}

	return value, bestConfidence, true
}
