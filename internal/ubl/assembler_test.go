package ubl

import (
	"testing"
	"time"

	"github.com/brouwerict/PDF2UBL/internal/extract"
	"github.com/brouwerict/PDF2UBL/internal/reconcile"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nd(f float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(f), Valid: true}
}

func baseRecord() *extract.Record {
	rec := extract.NewRecord("test_nl", "")
	rec.Currency = "EUR"
	rec.Set("invoice_number", extract.TextValue("F2024001"), 0.9)
	rec.Set("invoice_date", extract.DateValue(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "15-01-2024"), 0.9)
	rec.Set("supplier_name", extract.TextValue("Ziggo B.V."), 0.8)
	return rec
}

func TestAssembleTotalsInvariant(t *testing.T) {
	a := NewAssembler(21, zap.NewNop())
	rec := baseRecord()
	rec.LineItems = []extract.LineItem{
		{Description: "Hosting", Quantity: 1, UnitPrice: 40, TotalAmount: 40},
		{Description: "Domein", Quantity: 2, UnitPrice: 30, TotalAmount: 60},
	}

	doc, err := a.Assemble(rec, reconcile.Totals{Currency: "EUR"})
	require.NoError(t, err)
	require.Len(t, doc.Lines, 2)

	lineExt := doc.LegalMonetaryTotal.LineExtensionAmount
	assert.True(t, lineExt.Equal(decimal.NewFromInt(100)), "got %s", lineExt)

	tax := doc.TaxTotal.TaxAmount
	assert.True(t, tax.Equal(decimal.NewFromInt(21)), "got %s", tax)

	// payable == taxInclusive == lineExtension + tax
	assert.True(t, doc.LegalMonetaryTotal.PayableAmount.Equal(lineExt.Add(tax)))
	assert.True(t, doc.LegalMonetaryTotal.TaxInclusiveAmount.Equal(doc.LegalMonetaryTotal.PayableAmount))
	assert.True(t, doc.LegalMonetaryTotal.TaxExclusiveAmount.Equal(lineExt))
}

func TestAssembleGroupsTaxByRate(t *testing.T) {
	a := NewAssembler(21, zap.NewNop())
	rate9 := 9.0
	rec := baseRecord()
	rec.LineItems = []extract.LineItem{
		{Description: "Standaard", Quantity: 1, UnitPrice: 100, TotalAmount: 100},
		{Description: "Verlaagd", Quantity: 1, UnitPrice: 100, TotalAmount: 100, VATRate: &rate9},
	}

	doc, err := a.Assemble(rec, reconcile.Totals{Currency: "EUR"})
	require.NoError(t, err)
	require.Len(t, doc.TaxTotal.Subtotals, 2)

	assert.True(t, doc.TaxTotal.Subtotals[0].TaxAmount.Equal(decimal.NewFromInt(21)))
	assert.True(t, doc.TaxTotal.Subtotals[1].TaxAmount.Equal(decimal.NewFromInt(9)))
	assert.True(t, doc.TaxTotal.TaxAmount.Equal(decimal.NewFromInt(30)))
}

func TestAssembleOverrideBand(t *testing.T) {
	// Lines compute to 121.00 including tax.
	lines := []extract.LineItem{
		{Description: "Dienst", Quantity: 1, UnitPrice: 100, TotalAmount: 100},
	}

	t.Run("within band adopts extracted total", func(t *testing.T) {
		a := NewAssembler(21, zap.NewNop())
		rec := baseRecord()
		rec.LineItems = lines

		doc, err := a.Assemble(rec, reconcile.Totals{Currency: "EUR", Total: nd(121.50)})
		require.NoError(t, err)

		assert.True(t, doc.LegalMonetaryTotal.PayableAmount.Equal(decimal.NewFromFloat(121.50)))
		assert.True(t, doc.LegalMonetaryTotal.TaxInclusiveAmount.Equal(decimal.NewFromFloat(121.50)))
		// Line-level totals stay as computed.
		assert.True(t, doc.LegalMonetaryTotal.LineExtensionAmount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("beyond band keeps computed total", func(t *testing.T) {
		a := NewAssembler(21, zap.NewNop())
		rec := baseRecord()
		rec.LineItems = lines

		doc, err := a.Assemble(rec, reconcile.Totals{Currency: "EUR", Total: nd(125.00)})
		require.NoError(t, err)

		assert.True(t, doc.LegalMonetaryTotal.PayableAmount.Equal(decimal.NewFromInt(121)))
	})

	t.Run("tiny difference is ignored", func(t *testing.T) {
		a := NewAssembler(21, zap.NewNop())
		rec := baseRecord()
		rec.LineItems = lines

		doc, err := a.Assemble(rec, reconcile.Totals{Currency: "EUR", Total: nd(121.01)})
		require.NoError(t, err)

		assert.True(t, doc.LegalMonetaryTotal.PayableAmount.Equal(decimal.NewFromInt(121)))
	})
}

func TestAssembleSummaryLine(t *testing.T) {
	a := NewAssembler(21, zap.NewNop())
	rec := baseRecord()

	doc, err := a.Assemble(rec, reconcile.Totals{
		Currency: "EUR",
		Net:      nd(100),
		Tax:      nd(21),
		Total:    nd(121),
	})
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)

	line := doc.Lines[0]
	assert.Equal(t, "Invoice total", line.Description)
	assert.True(t, line.LineExtensionAmount.Equal(decimal.NewFromInt(100)))
	// Rate recovered from tax/net.
	assert.True(t, line.TaxCategory.Percent.Equal(decimal.NewFromInt(21)), "got %s", line.TaxCategory.Percent)

	assert.True(t, doc.LegalMonetaryTotal.PayableAmount.Equal(decimal.NewFromInt(121)))
}

func TestAssembleNoCurrency(t *testing.T) {
	a := NewAssembler(21, zap.NewNop())
	rec := extract.NewRecord("test_nl", "")

	_, err := a.Assemble(rec, reconcile.Totals{})
	assert.ErrorIs(t, err, ErrNoCurrency)
}

func TestAssembleNothingToInvoice(t *testing.T) {
	a := NewAssembler(21, zap.NewNop())
	rec := baseRecord()

	_, err := a.Assemble(rec, reconcile.Totals{Currency: "EUR"})
	assert.ErrorIs(t, err, ErrNothingToInvoice)
}

func TestAssembleDefaults(t *testing.T) {
	a := NewAssembler(21, zap.NewNop())
	rec := extract.NewRecord("test_nl", "")
	rec.Currency = "EUR"
	rec.LineItems = []extract.LineItem{
		{Description: "Dienst", Quantity: 1, UnitPrice: 10, TotalAmount: 10},
	}

	doc, err := a.Assemble(rec, reconcile.Totals{Currency: "EUR"})
	require.NoError(t, err)

	assert.Equal(t, "UNKNOWN", doc.ID)
	assert.NotEmpty(t, doc.UUID)
	assert.Equal(t, "Unknown Supplier", doc.Supplier.Name)
	assert.Equal(t, "Customer", doc.Customer.Name)
	assert.Nil(t, doc.PaymentMeans)
}

func TestAssembleDueDateClamp(t *testing.T) {
	a := NewAssembler(21, zap.NewNop())

	t.Run("early issue day moves to the 28th", func(t *testing.T) {
		rec := baseRecord()
		rec.LineItems = []extract.LineItem{{Description: "x", Quantity: 1, UnitPrice: 10, TotalAmount: 10}}

		doc, err := a.Assemble(rec, reconcile.Totals{Currency: "EUR"})
		require.NoError(t, err)
		assert.Equal(t, 28, doc.DueDate.Day())
		assert.Equal(t, time.January, doc.DueDate.Month())
	})

	t.Run("late issue day kept", func(t *testing.T) {
		rec := baseRecord()
		rec.Set("invoice_date", extract.DateValue(time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC), "30-01-2024"), 0.9)
		rec.LineItems = []extract.LineItem{{Description: "x", Quantity: 1, UnitPrice: 10, TotalAmount: 10}}

		doc, err := a.Assemble(rec, reconcile.Totals{Currency: "EUR"})
		require.NoError(t, err)
		assert.Equal(t, 30, doc.DueDate.Day())
	})
}

func TestAssembleUnitPriceFromTotal(t *testing.T) {
	a := NewAssembler(21, zap.NewNop())
	rec := baseRecord()
	rec.LineItems = []extract.LineItem{
		{Description: "Dienst", Quantity: 4, TotalAmount: 100},
	}

	doc, err := a.Assemble(rec, reconcile.Totals{Currency: "EUR"})
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.True(t, doc.Lines[0].UnitPrice.Equal(decimal.NewFromInt(25)))
	assert.True(t, doc.Lines[0].LineExtensionAmount.Equal(decimal.NewFromInt(100)))
}

func TestAssemblePaymentMeans(t *testing.T) {
	a := NewAssembler(21, zap.NewNop())
	rec := baseRecord()
	rec.Set("supplier_iban", extract.TextValue("NL91ABNA0417164300"), 0.8)
	rec.LineItems = []extract.LineItem{{Description: "x", Quantity: 1, UnitPrice: 10, TotalAmount: 10}}

	doc, err := a.Assemble(rec, reconcile.Totals{Currency: "EUR"})
	require.NoError(t, err)
	require.NotNil(t, doc.PaymentMeans)
	assert.Equal(t, "NL91ABNA0417164300", doc.PaymentMeans.IBAN)
}
