package extract

import (
	"regexp"
	"strings"

	"github.com/brouwerict/PDF2UBL/internal/template"
)

// Table is a classified table with normalised headers.
type Table struct {
	Headers    []string
	Rows       [][]string
	Type       string // line_items, summary, unknown
	Confidence float64
}

// Summary holds totals read from a summary table. Nil means absent.
type Summary struct {
	Subtotal    *float64
	VATAmount   *float64
	TotalAmount *float64
	VATRate     *float64
}

var lineItemHeaderWords = []string{
	"beschrijving", "description", "omschrijving", "artikel", "item",
	"aantal", "quantity", "qty", "hoeveelheid",
	"prijs", "price", "bedrag", "amount", "unit price",
	"totaal", "total", "subtotal",
	"btw", "vat", "tax", "belasting",
}

var summaryHeaderWords = []string{
	"subtotaal", "subtotal", "netto", "net",
	"btw", "vat", "tax", "belasting",
	"totaal", "total", "bruto", "gross",
}

var totalRowWords = []string{"totaal", "total", "subtotal", "subtotaal", "btw", "vat"}

var numericCell = regexp.MustCompile(`[\d€$£%]`)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// builtinColumnMapping is the fallback header-substring → field mapping used
// when a table rule carries no explicit ColumnMapping.
var builtinColumnMapping = map[string]string{
	"beschrijving": "description",
	"description":  "description",
	"omschrijving": "description",
	"aantal":       "quantity",
	"quantity":     "quantity",
	"qty":          "quantity",
	"prijs":        "unit_price",
	"price":        "unit_price",
	"unit":         "unit_price",
	"totaal":       "total_amount",
	"total":        "total_amount",
	"bedrag":       "total_amount",
	"btw":          "vat_rate",
	"vat":          "vat_rate",
	"tax":          "vat_rate",
}

// ClassifyTables normalises raw tables and classifies each as line items,
// summary, or unknown.
func ClassifyTables(raw [][][]string) []Table {
	var tables []Table
	for _, t := range raw {
		if len(t) == 0 || len(t[0]) == 0 {
			continue
		}
		headers := cleanCells(t[0], true)
		var rows [][]string
		for _, row := range t[1:] {
			if len(row) > 0 {
				rows = append(rows, cleanCells(row, false))
			}
		}
		typ := classifyTable(headers, rows)
		tables = append(tables, Table{
			Headers:    headers,
			Rows:       rows,
			Type:       typ,
			Confidence: tableConfidence(headers, rows, typ),
		})
	}
	return tables
}

func cleanCells(cells []string, lower bool) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = whitespaceRuns.ReplaceAllString(strings.TrimSpace(c), " ")
		if lower {
			c = strings.ToLower(c)
		}
		out[i] = c
	}
	return out
}

func classifyTable(headers []string, rows [][]string) string {
	lineScore := 0
	summaryScore := 0
	for _, h := range headers {
		if containsAny(h, lineItemHeaderWords) {
			lineScore++
		}
		if containsAny(h, summaryHeaderWords) {
			summaryScore++
		}
	}

	if len(rows) > 0 {
		numeric, total := 0, 0
		for _, row := range rows {
			for _, cell := range row {
				total++
				if numericCell.MatchString(cell) {
					numeric++
				}
			}
		}
		if total > 0 {
			ratio := float64(numeric) / float64(total)
			if ratio > 0.3 && len(rows) > 2 {
				lineScore += 2
			} else if ratio > 0.5 && len(rows) <= 3 {
				summaryScore += 2
			}
		}
	}

	switch {
	case lineScore > summaryScore && lineScore > 0:
		return template.TableLineItems
	case summaryScore > 0:
		return template.TableSummary
	default:
		return "unknown"
	}
}

func tableConfidence(headers []string, rows [][]string, typ string) float64 {
	confidence := 0.5

	recognized := 0
	for _, h := range headers {
		if containsAny(h, lineItemHeaderWords) || containsAny(h, summaryHeaderWords) {
			recognized++
		}
	}
	if len(headers) > 0 {
		confidence += float64(recognized) / float64(len(headers)) * 0.3
	}

	switch typ {
	case template.TableLineItems:
		if len(rows) > 2 {
			confidence += 0.2
		}
		if numericColumnCount(rows) >= 2 {
			confidence += 0.2
		}
	case template.TableSummary:
		if hasTotalRow(rows) {
			confidence += 0.3
		}
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func numericColumnCount(rows [][]string) int {
	cols := make(map[int]bool)
	for _, row := range rows {
		for i, cell := range row {
			if numericCell.MatchString(cell) {
				cols[i] = true
			}
		}
	}
	return len(cols)
}

func hasTotalRow(rows [][]string) bool {
	for _, row := range rows {
		for _, cell := range row {
			if containsAny(strings.ToLower(cell), totalRowWords) {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// MatchesRule reports whether any of the rule's header patterns match any of
// the table's headers.
func (m *Matcher) MatchesRule(t Table, rule template.TableRule) bool {
	for _, expr := range rule.HeaderPatterns {
		re := m.compile("(?i)"+expr, expr)
		if re == nil {
			continue
		}
		for _, h := range t.Headers {
			if re.MatchString(h) {
				return true
			}
		}
	}
	return false
}

// LineItemsFromTable decodes a line-items table through the rule's column
// mapping (falling back to the builtin keyword mapping). Rows without a
// description are dropped.
func LineItemsFromTable(t Table, rule template.TableRule) []LineItem {
	mapping := rule.ColumnMapping
	if len(mapping) == 0 {
		mapping = builtinColumnMapping
	}

	columns := make(map[int]string)
	for i, header := range t.Headers {
		for substr, field := range mapping {
			if strings.Contains(header, strings.ToLower(substr)) {
				columns[i] = field
				break
			}
		}
	}

	var items []LineItem
	for _, row := range t.Rows {
		if !anyNonEmpty(row) {
			continue
		}
		item := LineItem{Quantity: 1}
		var hasDescription bool
		for i, cell := range row {
			field, ok := columns[i]
			if !ok || cell == "" {
				continue
			}
			switch field {
			case "description":
				item.Description = cell
				hasDescription = true
			case "quantity":
				if n, ok := parseCellAmount(cell); ok {
					item.Quantity = n
				}
			case "unit_price":
				if n, ok := parseCellAmount(cell); ok {
					item.UnitPrice = n
				}
			case "total_amount":
				if n, ok := parseCellAmount(cell); ok {
					item.TotalAmount = n
				}
			case "vat_rate":
				if n, ok := parseCellPercentage(cell); ok {
					item.VATRate = &n
				} else if n, ok := parseCellAmount(cell); ok {
					item.VATRate = &n
				}
			}
		}
		if hasDescription {
			items = append(items, item)
		}
	}
	return items
}

// SummaryFromTable reads key/value rows of a summary table into totals.
func SummaryFromTable(t Table) Summary {
	var s Summary
	for _, row := range t.Rows {
		if len(row) < 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(row[0]))
		value := strings.TrimSpace(row[1])

		switch {
		case containsAny(key, []string{"subtotal", "subtotaal", "netto"}):
			if n, ok := parseCellAmount(value); ok {
				s.Subtotal = &n
			}
		case containsAny(key, []string{"btw", "vat", "tax"}):
			if strings.Contains(value, "%") {
				if n, ok := parseCellPercentage(value); ok {
					s.VATRate = &n
				}
			} else if n, ok := parseCellAmount(value); ok {
				s.VATAmount = &n
			}
		case containsAny(key, []string{"totaal", "total", "bruto"}):
			if n, ok := parseCellAmount(value); ok {
				s.TotalAmount = &n
			}
		}
	}
	return s
}

func anyNonEmpty(row []string) bool {
	for _, c := range row {
		if c != "" {
			return true
		}
	}
	return false
}
