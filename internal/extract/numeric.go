package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyRunes = regexp.MustCompile(`[€$£¥\s]`)
	percentValue  = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)
	leadingNumber = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
)

// ParseNumber parses a numeric string in either European or US notation.
// When both separators occur, whichever appears last is the decimal
// separator. A lone comma followed by at most two digits is a decimal
// separator, otherwise a thousands separator.
func ParseNumber(s string) (float64, bool) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, false
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			// European: "1.120,60" -> "1120.60"
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			// US: "1,120.60" -> "1120.60"
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		parts := strings.Split(cleaned, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseAmount parses a monetary string, stripping currency symbols and
// spaces before numeric parsing.
func ParseAmount(s string) (float64, bool) {
	return ParseNumber(currencyRunes.ReplaceAllString(s, ""))
}

// ParsePercentage parses a percentage like "21%" or "21,0".
func ParsePercentage(s string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(s, "%", ""), ",", ".")
	n, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseCellAmount parses a table cell that may mix an amount with other
// characters: currency symbols are stripped, separators normalised, then the
// first numeric run is taken.
func parseCellAmount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	cleaned := currencyRunes.ReplaceAllString(s, "")

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	if hasComma && !hasDot {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else if hasComma && hasDot && strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	m := leadingNumber.FindString(cleaned)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseCellPercentage extracts a percentage value from a table cell.
func parseCellPercentage(s string) (float64, bool) {
	m := percentValue.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
