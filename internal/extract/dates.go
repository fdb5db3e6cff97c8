package extract

import (
	"strings"
	"time"
)

// dutchMonths maps Dutch month names to English for layout parsing.
var dutchMonths = strings.NewReplacer(
	"januari", "January",
	"februari", "February",
	"maart", "March",
	"april", "April",
	"mei", "May",
	"juni", "June",
	"juli", "July",
	"augustus", "August",
	"september", "September",
	"oktober", "October",
	"november", "November",
	"december", "December",
)

// dateLayouts is tried in order; first success wins. Non-padded layouts
// accept zero-padded input as well.
var dateLayouts = []string{
	"2 January 2006",
	"2.1.2006",
	"2-1-2006",
	"2/1/2006",
	"2-1-06",
	"2/1/06",
	"2006-1-2",
}

// ParseDate parses an invoice date, substituting Dutch month names first.
func ParseDate(s string) (time.Time, bool) {
	candidate := dutchMonths.Replace(strings.TrimSpace(s))
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, candidate); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
