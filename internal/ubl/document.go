// Package ubl builds and serializes UBL 2.1 invoice documents from
// extracted, reconciled records.
package ubl

import (
	"time"

	"github.com/shopspring/decimal"
)

// Party is a supplier or customer block.
type Party struct {
	Name      string
	Address   string
	VATNumber string
	IBAN      string
}

// TaxCategory groups lines for tax subtotalling.
type TaxCategory struct {
	ID      string // UBL category code, "S" for standard rate
	Percent decimal.Decimal
}

// Line is one invoice line.
type Line struct {
	ID                  string
	Description         string
	Quantity            decimal.Decimal
	UnitCode            string
	UnitPrice           decimal.Decimal
	LineExtensionAmount decimal.Decimal
	TaxCategory         TaxCategory
}

// TaxSubtotal is the per-category tax block.
type TaxSubtotal struct {
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	Category      TaxCategory
}

// TaxTotal aggregates the subtotals.
type TaxTotal struct {
	TaxAmount decimal.Decimal
	Subtotals []TaxSubtotal
}

// MonetaryTotal is the legal monetary total block.
type MonetaryTotal struct {
	LineExtensionAmount decimal.Decimal
	TaxExclusiveAmount  decimal.Decimal
	TaxInclusiveAmount  decimal.Decimal
	PayableAmount       decimal.Decimal
}

// PaymentMeans carries the transfer details.
type PaymentMeans struct {
	IBAN    string
	DueDate time.Time
}

// Document is the assembled invoice, ready for serialization.
type Document struct {
	ID       string
	UUID     string
	IssueDate time.Time
	DueDate   time.Time
	Currency  string
	Note      string

	Supplier Party
	Customer Party

	PaymentMeans *PaymentMeans

	Lines              []Line
	TaxTotal           TaxTotal
	LegalMonetaryTotal MonetaryTotal
}
