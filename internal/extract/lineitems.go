package extract

import (
	"regexp"
	"strings"
)

// textLineItem matches the shape "description € amount" on a single line.
var textLineItem = regexp.MustCompile(`^(.+?)\s*€\s*(\d+[.,]\d{2})$`)

// skipLineWords marks header/summary lines that must never become items.
var skipLineWords = []string{
	"FACTUUR", "Factuurnummer", "Factuurdatum", "Accountnaam",
	"Subtotaal", "BTW", "Totaal", "te betalen", "machtiging",
	"KvK:", "IBAN:", "BIC:", "BIJLAGE", "PRODUCT", "PERIODE",
}

// itemWords whitelists descriptions that look like actual services or
// products. Low precision by nature; table extraction is preferred.
var itemWords = []string{
	"filter", "domeinnamen", "domein", ".nl", ".com",
	"hosting", "service", "onderhoud", "support",
	"cloud", "harddrive", "account", "licenties", "sof-",
}

// LineItemsFromText is the last-resort line-by-line scan used when no table
// yielded line items.
func LineItemsFromText(text string) []LineItem {
	var items []LineItem

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || containsAnyExact(line, skipLineWords) {
			continue
		}

		m := textLineItem.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		description := strings.TrimSpace(m[1])
		amount, ok := ParseAmount(m[2])
		if !ok {
			continue
		}

		if !containsAny(strings.ToLower(description), itemWords) {
			continue
		}

		items = append(items, LineItem{
			Description: description,
			Quantity:    1,
			UnitPrice:   amount,
			TotalAmount: amount,
		})
	}

	return items
}

func containsAnyExact(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
