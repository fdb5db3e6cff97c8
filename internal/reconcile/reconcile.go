// Package reconcile triangulates net, tax and total amounts extracted from a
// document into an internally consistent set, surfacing inconsistencies as
// warnings rather than errors.
package reconcile

import (
	"fmt"

	"github.com/brouwerict/PDF2UBL/internal/extract"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Tolerance within which |net + tax − total| is considered consistent.
var Tolerance = decimal.NewFromFloat(0.02)

// Totals is the reconciled monetary triple. Absent values stay invalid.
type Totals struct {
	Net      decimal.NullDecimal
	Tax      decimal.NullDecimal
	Total    decimal.NullDecimal
	Currency string

	// LineItemSum is the sum over extracted line items, used as a
	// cross-check. Invalid when no line items were extracted.
	LineItemSum decimal.NullDecimal
}

// Reconciler derives missing amounts and validates consistency.
type Reconciler struct {
	logger *zap.Logger
}

// New creates a reconciler.
func New(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Reconcile triangulates the record's monetary amounts. Warnings are
// appended to the record; the returned totals satisfy
// |net + tax − total| <= Tolerance whenever at least two of the three are
// known.
func (r *Reconciler) Reconcile(rec *extract.Record) Totals {
	totals := Totals{Currency: rec.Currency}

	if n, ok := rec.Number("net_amount"); ok {
		totals.Net = nullDecimal(n)
	}
	if n, ok := rec.Number("vat_amount"); ok {
		totals.Tax = nullDecimal(n)
	}
	if n, ok := rec.Number("total_amount"); ok {
		totals.Total = nullDecimal(n)
	}

	if len(rec.LineItems) > 0 {
		sum := decimal.Zero
		for _, item := range rec.LineItems {
			sum = sum.Add(decimal.NewFromFloat(item.TotalAmount))
		}
		totals.LineItemSum = decimal.NullDecimal{Decimal: sum, Valid: true}
	}

	r.triangulate(&totals, rec)
	r.crossCheck(&totals, rec)
	return totals
}

func (r *Reconciler) triangulate(t *Totals, rec *extract.Record) {
	// All three extracted: verify, never silently discard.
	if t.Net.Valid && t.Tax.Valid && t.Total.Valid {
		diff := t.Net.Decimal.Add(t.Tax.Decimal).Sub(t.Total.Decimal).Abs()
		if diff.GreaterThan(Tolerance) {
			msg := fmt.Sprintf("net+tax does not match total: %s + %s != %s (diff %s)",
				t.Net.Decimal, t.Tax.Decimal, t.Total.Decimal, diff)
			rec.Warn(msg)
			r.logger.Warn("Reconciliation mismatch", zap.String("detail", msg))
		}
		return
	}

	// Derive the missing members, total first.
	if !t.Total.Valid {
		if t.Net.Valid && t.Tax.Valid {
			t.Total = decimal.NullDecimal{Decimal: t.Net.Decimal.Add(t.Tax.Decimal), Valid: true}
		} else if t.LineItemSum.Valid {
			t.Total = t.LineItemSum
		}
	}
	if !t.Net.Valid && t.Total.Valid && t.Tax.Valid {
		t.Net = decimal.NullDecimal{Decimal: t.Total.Decimal.Sub(t.Tax.Decimal), Valid: true}
	}
	if !t.Tax.Valid && t.Total.Valid && t.Net.Valid {
		t.Tax = decimal.NullDecimal{Decimal: t.Total.Decimal.Sub(t.Net.Decimal), Valid: true}
	}
}

func (r *Reconciler) crossCheck(t *Totals, rec *extract.Record) {
	if !t.LineItemSum.Valid || !t.Total.Valid {
		return
	}
	diff := t.LineItemSum.Decimal.Sub(t.Total.Decimal).Abs()
	if diff.GreaterThan(Tolerance) {
		msg := fmt.Sprintf("line item sum %s disagrees with total %s (diff %s)",
			t.LineItemSum.Decimal, t.Total.Decimal, diff)
		rec.Warn(msg)
		r.logger.Warn("Line item sum mismatch", zap.String("detail", msg))
	}
}

func nullDecimal(f float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(f), Valid: true}
}
