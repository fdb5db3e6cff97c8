package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brouwerict/PDF2UBL/internal/convert"
	"github.com/brouwerict/PDF2UBL/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	catalog, err := template.NewCatalog(template.Defaults(), template.DefaultTemplateID)
	require.NoError(t, err)
	converter := convert.New(catalog, 21, zap.NewNop())
	return New(converter, false, zap.NewNop())
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestConvertEndpoint(t *testing.T) {
	s := newTestServer(t)

	body := map[string]interface{}{
		"text": `Factuurnummer: F2024001
Factuurdatum: 15-01-2024
Hosting pakket € 100,00
Totaal: € 121,00`,
	}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/convert", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		TemplateID string                 `json:"template_id"`
		Fields     map[string]interface{} `json:"fields"`
		Totals     struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"totals"`
		UBL string `json:"ubl_xml"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "generic_nl", resp.TemplateID)
	assert.Equal(t, "F2024001", resp.Fields["invoice_number"])
	assert.Equal(t, "121.00", resp.Totals.Total)
	assert.Equal(t, "EUR", resp.Totals.Currency)
	assert.Contains(t, resp.UBL, "<cbc:UBLVersionID>2.1</cbc:UBLVersionID>")
}

func TestConvertEndpointPinnedTemplate(t *testing.T) {
	s := newTestServer(t)

	body := map[string]interface{}{
		"text":        "Factuurnummer: 1\nTotaal: € 10,00",
		"template_id": "ziggo_nl",
	}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/convert", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"template_id":"ziggo_nl"`)
}

func TestConvertEndpointUnknownTemplate(t *testing.T) {
	s := newTestServer(t)

	body := map[string]interface{}{
		"text":        "iets",
		"template_id": "bestaat_niet",
	}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/convert", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConvertEndpointMissingText(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/convert", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvertEndpointNothingToInvoice(t *testing.T) {
	s := newTestServer(t)

	// No line items and no totals: the assembler rejects the document.
	body := map[string]interface{}{
		"text": "volstrekt lege tekst",
	}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/convert", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListTemplates(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Templates []struct {
			ID string `json:"template_id"`
		} `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Templates, 3)
	assert.Equal(t, "generic_nl", resp.Templates[0].ID)
}

func TestGetTemplate(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/templates/kpn_nl", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"template_id":"kpn_nl"`)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/templates/niets", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
