package ubl

import (
	"errors"
	"fmt"
	"time"

	"github.com/brouwerict/PDF2UBL/internal/extract"
	"github.com/brouwerict/PDF2UBL/internal/reconcile"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Assembly faults: the only error class that aborts a single document.
var (
	ErrNoCurrency       = errors.New("no usable currency")
	ErrNothingToInvoice = errors.New("no line items and no total amount")
)

// overrideBand is the asymmetric tolerance within which an extracted total
// overrides the computed one. Beyond it the computed value stays
// authoritative and the mismatch is only logged.
var overrideBand = decimal.NewFromInt(1)

// Assembler builds typed invoice documents from reconciled records.
type Assembler struct {
	defaultVATRate decimal.Decimal
	logger         *zap.Logger
}

// NewAssembler creates an assembler with the configured default VAT rate
// (percent) for lines that carry none.
func NewAssembler(defaultVATRate float64, logger *zap.Logger) *Assembler {
	return &Assembler{
		defaultVATRate: decimal.NewFromFloat(defaultVATRate),
		logger:         logger,
	}
}

// Assemble converts the record and its reconciled totals into a Document.
// All monetary totals are computed from the lines with exact fixed-point
// arithmetic; rounding happens only at serialization.
func (a *Assembler) Assemble(rec *extract.Record, totals reconcile.Totals) (*Document, error) {
	currency := totals.Currency
	if currency == "" {
		currency = rec.Currency
	}
	if currency == "" {
		return nil, ErrNoCurrency
	}

	issueDate, ok := rec.Date("invoice_date")
	if !ok {
		issueDate = time.Now()
	}
	dueDate, ok := rec.Date("due_date")
	if !ok {
		dueDate = defaultDueDate(issueDate)
	}

	id := rec.Text("invoice_number")
	if id == "" {
		id = "UNKNOWN"
	}

	doc := &Document{
		ID:        id,
		UUID:      uuid.NewString(),
		IssueDate: issueDate,
		DueDate:   dueDate,
		Currency:  currency,
		Note:      fmt.Sprintf("Generated from template %s", rec.TemplateID),
		Supplier: Party{
			Name:      textOr(rec, "supplier_name", "Unknown Supplier"),
			Address:   textOr(rec, "supplier_address", "Unknown Address"),
			VATNumber: rec.Text("supplier_vat_number"),
			IBAN:      rec.Text("supplier_iban"),
		},
		Customer: Party{
			Name:      textOr(rec, "customer_name", "Customer"),
			Address:   textOr(rec, "customer_address", "Customer Address"),
			VATNumber: rec.Text("customer_vat_number"),
		},
	}

	if doc.Supplier.IBAN != "" {
		doc.PaymentMeans = &PaymentMeans{IBAN: doc.Supplier.IBAN, DueDate: dueDate}
	}

	a.addLines(doc, rec)
	if len(doc.Lines) == 0 && totals.Total.Valid {
		a.addSummaryLine(doc, totals)
	}
	if len(doc.Lines) == 0 {
		return nil, ErrNothingToInvoice
	}

	a.computeTotals(doc)
	a.adjustToExtractedTotal(doc, totals)

	return doc, nil
}

func (a *Assembler) addLines(doc *Document, rec *extract.Record) {
	for i, item := range rec.LineItems {
		quantity := decimal.NewFromFloat(item.Quantity)
		if quantity.IsZero() {
			quantity = decimal.NewFromInt(1)
		}
		unitPrice := decimal.NewFromFloat(item.UnitPrice)
		total := decimal.NewFromFloat(item.TotalAmount)
		if unitPrice.IsZero() && total.IsPositive() {
			unitPrice = total.Div(quantity)
		}

		rate := a.defaultVATRate
		if item.VATRate != nil {
			rate = decimal.NewFromFloat(*item.VATRate)
		}

		doc.Lines = append(doc.Lines, Line{
			ID:                  fmt.Sprintf("%d", i+1),
			Description:         item.Description,
			Quantity:            quantity,
			UnitCode:            "EA",
			UnitPrice:           unitPrice,
			LineExtensionAmount: quantity.Mul(unitPrice),
			TaxCategory:         TaxCategory{ID: "S", Percent: rate},
		})
	}
}

// addSummaryLine synthesizes a single line when only totals were extracted.
func (a *Assembler) addSummaryLine(doc *Document, totals reconcile.Totals) {
	net := totals.Total.Decimal
	if totals.Net.Valid {
		net = totals.Net.Decimal
	} else if totals.Tax.Valid {
		net = totals.Total.Decimal.Sub(totals.Tax.Decimal)
	}

	rate := a.defaultVATRate
	if totals.Tax.Valid && net.IsPositive() {
		rate = totals.Tax.Decimal.Div(net).Mul(decimal.NewFromInt(100)).Round(2)
	}

	doc.Lines = append(doc.Lines, Line{
		ID:                  "1",
		Description:         "Invoice total",
		Quantity:            decimal.NewFromInt(1),
		UnitCode:            "EA",
		UnitPrice:           net,
		LineExtensionAmount: net,
		TaxCategory:         TaxCategory{ID: "S", Percent: rate},
	})
}

func (a *Assembler) computeTotals(doc *Document) {
	lineExtension := decimal.Zero
	type bucket struct {
		category TaxCategory
		taxable  decimal.Decimal
		tax      decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	var order []string

	for _, line := range doc.Lines {
		lineExtension = lineExtension.Add(line.LineExtensionAmount)

		key := line.TaxCategory.ID + ":" + line.TaxCategory.Percent.String()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{category: line.TaxCategory}
			buckets[key] = b
			order = append(order, key)
		}
		b.taxable = b.taxable.Add(line.LineExtensionAmount)
		b.tax = b.tax.Add(line.LineExtensionAmount.Mul(line.TaxCategory.Percent).Div(decimal.NewFromInt(100)))
	}

	taxTotal := decimal.Zero
	doc.TaxTotal = TaxTotal{}
	for _, key := range order {
		b := buckets[key]
		doc.TaxTotal.Subtotals = append(doc.TaxTotal.Subtotals, TaxSubtotal{
			TaxableAmount: b.taxable,
			TaxAmount:     b.tax,
			Category:      b.category,
		})
		taxTotal = taxTotal.Add(b.tax)
	}
	doc.TaxTotal.TaxAmount = taxTotal

	doc.LegalMonetaryTotal = MonetaryTotal{
		LineExtensionAmount: lineExtension,
		TaxExclusiveAmount:  lineExtension,
		TaxInclusiveAmount:  lineExtension.Add(taxTotal),
		PayableAmount:       lineExtension.Add(taxTotal),
	}
}

// adjustToExtractedTotal trusts an extracted total over the computed one
// within the override band, and keeps the computed value beyond it.
func (a *Assembler) adjustToExtractedTotal(doc *Document, totals reconcile.Totals) {
	if !totals.Total.Valid {
		return
	}
	computed := RoundAmount(doc.LegalMonetaryTotal.PayableAmount)
	extracted := totals.Total.Decimal
	diff := computed.Sub(extracted).Abs()

	if diff.LessThanOrEqual(decimal.NewFromFloat(0.01)) {
		return
	}

	if diff.LessThanOrEqual(overrideBand) {
		a.logger.Info("Adjusting computed total to extracted total",
			zap.String("computed", computed.String()),
			zap.String("extracted", extracted.String()))
		doc.LegalMonetaryTotal.PayableAmount = extracted
		doc.LegalMonetaryTotal.TaxInclusiveAmount = extracted
		return
	}

	a.logger.Warn("Total amount mismatch beyond override band, keeping computed value",
		zap.String("computed", computed.String()),
		zap.String("extracted", extracted.String()),
		zap.String("difference", diff.String()))
}

// defaultDueDate clamps the issue day to the 28th when earlier in the month.
func defaultDueDate(issue time.Time) time.Time {
	if issue.Day() < 28 {
		return time.Date(issue.Year(), issue.Month(), 28, 0, 0, 0, 0, issue.Location())
	}
	return issue
}

func textOr(rec *extract.Record, field, fallback string) string {
	if v := rec.Text(field); v != "" {
		return v
	}
	return fallback
}
