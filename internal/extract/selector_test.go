package extract

import (
	"testing"

	"github.com/brouwerict/PDF2UBL/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCatalog(t *testing.T) *template.Catalog {
	t.Helper()
	catalog, err := template.NewCatalog(template.Defaults(), template.DefaultTemplateID)
	require.NoError(t, err)
	return catalog
}

func TestSelectorPicksSupplierTemplate(t *testing.T) {
	catalog := testCatalog(t)
	s := NewSelector(catalog, NewEngine(zap.NewNop()), zap.NewNop())

	tpl, confidence := s.Select("Factuur van Ziggo B.V.\nFactuurnummer: 123", "")
	require.NotNil(t, tpl)
	assert.Equal(t, "ziggo_nl", tpl.ID)
	assert.GreaterOrEqual(t, confidence, 0.8)
}

func TestSelectorFallsBackToGeneric(t *testing.T) {
	catalog := testCatalog(t)
	s := NewSelector(catalog, NewEngine(zap.NewNop()), zap.NewNop())

	tpl, confidence := s.Select("Factuur van Onbekende Leverancier", "")
	require.NotNil(t, tpl)
	assert.Equal(t, template.DefaultTemplateID, tpl.ID)
	assert.Zero(t, confidence)
}

func TestSelectorHintNarrowsCandidates(t *testing.T) {
	catalog := testCatalog(t)
	s := NewSelector(catalog, NewEngine(zap.NewNop()), zap.NewNop())

	// The text mentions both suppliers; the hint decides.
	text := "Ziggo B.V. namens KPN B.V."

	tpl, _ := s.Select(text, "kpn")
	require.NotNil(t, tpl)
	assert.Equal(t, "kpn_nl", tpl.ID)

	tpl, _ = s.Select(text, "ziggo")
	require.NotNil(t, tpl)
	assert.Equal(t, "ziggo_nl", tpl.ID)
}

func TestSelectorUnknownHintIgnored(t *testing.T) {
	catalog := testCatalog(t)
	s := NewSelector(catalog, NewEngine(zap.NewNop()), zap.NewNop())

	tpl, confidence := s.Select("Factuur van Ziggo B.V.", "onbekend bedrijf")
	require.NotNil(t, tpl)
	assert.Equal(t, "ziggo_nl", tpl.ID)
	assert.GreaterOrEqual(t, confidence, 0.8)
}
