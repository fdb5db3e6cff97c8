package convert

import (
	"testing"

	"github.com/brouwerict/PDF2UBL/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConverter(t *testing.T) *Converter {
	t.Helper()
	catalog, err := template.NewCatalog(template.Defaults(), template.DefaultTemplateID)
	require.NoError(t, err)
	return New(catalog, 21, zap.NewNop())
}

const ziggoInvoice = `Ziggo B.V.
Factuurnummer: 901234567
Factuurdatum: 15-01-2024
BTW-nummer: NL123456789B01

Hosting pakket € 100,00

Totaal: € 121,00`

func TestConvertSelectsTemplate(t *testing.T) {
	c := newTestConverter(t)

	outcome, err := c.Convert(ziggoInvoice, nil, "", "")
	require.NoError(t, err)

	assert.Equal(t, "ziggo_nl", outcome.Template.ID)
	assert.Greater(t, outcome.SelectorConfidence, 0.0)
	assert.Equal(t, "901234567", outcome.Record.Text("invoice_number"))
	require.True(t, outcome.Totals.Total.Valid)
	assert.Equal(t, "121", outcome.Totals.Total.Decimal.String())
	assert.Contains(t, string(outcome.XML), "<cbc:ID>901234567</cbc:ID>")
	assert.Greater(t, outcome.Quality, 0.0)
}

func TestConvertPinnedTemplate(t *testing.T) {
	c := newTestConverter(t)

	outcome, err := c.Convert(ziggoInvoice, nil, "", "generic_nl")
	require.NoError(t, err)
	assert.Equal(t, "generic_nl", outcome.Template.ID)
	assert.Zero(t, outcome.SelectorConfidence)
}

func TestConvertUnknownTemplate(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.Convert(ziggoInvoice, nil, "", "bestaat_niet")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestConvertAssemblyFault(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.Convert("geen factuurgegevens", nil, "", "generic_nl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to assemble document")
}
