package extract

import (
	"regexp"
	"strings"
	"sync"

	"github.com/brouwerict/PDF2UBL/internal/template"
	"go.uber.org/zap"
)

const (
	// contextWindow is the number of characters inspected around a match
	// when evaluating required/forbidden context.
	contextWindow = 100

	// headerRegion is the document prefix length treated as header area for
	// the position confidence bonus.
	headerRegion = 1000
)

var (
	amountShape = regexp.MustCompile(`^\d+[.,]\d{2}$`)
	dateShape   = regexp.MustCompile(`^\d{1,2}[-/]\d{1,2}[-/]\d{2,4}$`)
	vatShape    = regexp.MustCompile(`^[A-Z]{2}\d{9}B\d{2}$`)

	keywordLeadSeps  = regexp.MustCompile(`^[:\-\s]+`)
	keywordTrailSeps = regexp.MustCompile(`[:\-\s]+$`)
)

// Matcher evaluates a single FieldPattern against document text. Compiled
// expressions are cached; an expression that fails to compile is reported
// once and treated as no-match afterwards.
type Matcher struct {
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]*regexp.Regexp
	bad   map[string]bool
}

// NewMatcher creates a pattern matcher.
func NewMatcher(logger *zap.Logger) *Matcher {
	return &Matcher{
		logger: logger,
		cache:  make(map[string]*regexp.Regexp),
		bad:    make(map[string]bool),
	}
}

// Apply evaluates the pattern against text and returns the candidate value
// with its confidence. A failed match returns ("", 0).
func (m *Matcher) Apply(p template.FieldPattern, text string) (string, float64) {
	switch p.Method {
	case template.MethodRegex:
		return m.applyRegex(p, text)
	case template.MethodKeyword:
		return m.applyKeyword(p, text)
	case template.MethodPosition:
		// Positioned-text extraction is not supported; defined no-match.
		return "", 0
	default:
		m.logger.Warn("Unsupported extraction method", zap.String("method", string(p.Method)))
		return "", 0
	}
}

func (m *Matcher) applyRegex(p template.FieldPattern, text string) (string, float64) {
	expr := p.Pattern
	if p.WholeWord {
		expr = `\b` + expr + `\b`
	}
	var flags string
	if !p.CaseSensitive {
		flags += "i"
	}
	if p.Multiline {
		flags += "m"
	}
	if flags != "" {
		expr = "(?" + flags + ")" + expr
	}

	re := m.compile(expr, p.Pattern)
	if re == nil {
		return "", 0
	}

	idx := re.FindStringSubmatchIndex(text)
	if idx == nil {
		return "", 0
	}

	start := idx[0]
	value := text[idx[0]:idx[1]]
	if re.NumSubexp() > 0 && len(idx) >= 4 && idx[2] >= 0 {
		value = text[idx[2]:idx[3]]
	}

	if p.CleanupPattern != "" {
		if cleanup := m.compile(p.CleanupPattern, p.CleanupPattern); cleanup != nil {
			value = cleanup.ReplaceAllString(value, "")
		}
	}

	if p.ReplacementPattern != "" {
		if repl := m.compile(p.Pattern, p.Pattern); repl != nil {
			value = repl.ReplaceAllString(value, p.ReplacementPattern)
		}
	}

	if p.ValidationPattern != "" {
		validation := m.compile(`\A(?:`+p.ValidationPattern+`)`, p.ValidationPattern)
		if validation == nil || !validation.MatchString(value) {
			return "", 0
		}
	}

	if len(p.RequiredContext) > 0 && !m.contextPresent(text, start, p.RequiredContext, true) {
		return "", 0
	}
	if len(p.ForbiddenContext) > 0 && m.contextPresent(text, start, p.ForbiddenContext, false) {
		return "", 0
	}

	value = strings.TrimSpace(value)
	return value, m.confidence(p, value, start)
}

// applyKeyword treats the pattern as a |-separated alias list and returns
// the text following the first alias found, with the configured confidence.
func (m *Matcher) applyKeyword(p template.FieldPattern, text string) (string, float64) {
	for _, keyword := range strings.Split(p.Pattern, "|") {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}

		var pos int
		if p.CaseSensitive {
			pos = strings.Index(text, keyword)
		} else {
			pos = strings.Index(strings.ToLower(text), strings.ToLower(keyword))
		}
		if pos < 0 {
			continue
		}

		after := strings.TrimSpace(text[pos+len(keyword):])
		// Value on the same line, else the next line.
		for _, segment := range strings.SplitN(after, "\n", 2) {
			value := keywordLeadSeps.ReplaceAllString(segment, "")
			value = keywordTrailSeps.ReplaceAllString(value, "")
			if i := strings.IndexAny(value, "\n\r"); i >= 0 {
				value = value[:i]
			}
			if value != "" {
				return value, p.ConfidenceThreshold
			}
		}
	}
	return "", 0
}

// contextPresent reports whether the context patterns hold in the window
// around pos. With all=true every pattern must be present; with all=false
// any single present pattern suffices.
func (m *Matcher) contextPresent(text string, pos int, patterns []string, all bool) bool {
	start := pos - contextWindow
	if start < 0 {
		start = 0
	}
	end := pos + contextWindow
	if end > len(text) {
		end = len(text)
	}
	window := text[start:end]

	for _, expr := range patterns {
		re := m.compile("(?i)"+expr, expr)
		found := re != nil && re.MatchString(window)
		if all && !found {
			return false
		}
		if !all && found {
			return true
		}
	}
	return all
}

// confidence starts from the configured threshold and adds specificity
// bonuses for well-formed typed values and header-region position.
func (m *Matcher) confidence(p template.FieldPattern, value string, start int) float64 {
	confidence := p.ConfidenceThreshold

	if len(p.Pattern) > 10 {
		confidence += 0.1
	}

	switch p.FieldType {
	case template.FieldAmount:
		if amountShape.MatchString(value) {
			confidence += 0.2
		}
	case template.FieldDate:
		if dateShape.MatchString(value) {
			confidence += 0.2
		}
	case template.FieldVATNumber:
		if vatShape.MatchString(value) {
			confidence += 0.3
		}
	}

	if start < headerRegion {
		confidence += 0.1
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}

// compile returns the cached compiled expression, or nil if it is invalid.
// The original pattern text is used for reporting.
func (m *Matcher) compile(expr, reported string) *regexp.Regexp {
	m.mu.Lock()
	defer m.mu.Unlock()

	if re, ok := m.cache[expr]; ok {
		return re
	}
	if m.bad[expr] {
		return nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		m.bad[expr] = true
		m.logger.Warn("Invalid pattern expression, skipping",
			zap.String("pattern", reported),
			zap.Error(err))
		return nil
	}
	m.cache[expr] = re
	return re
}
