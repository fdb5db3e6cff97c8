package server

import (
	"errors"
	"net/http"

	"github.com/brouwerict/PDF2UBL/internal/convert"
	"github.com/brouwerict/PDF2UBL/internal/extract"
	"github.com/brouwerict/PDF2UBL/internal/reconcile"
	"github.com/brouwerict/PDF2UBL/internal/ubl"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// convertRequest is the JSON body of POST /api/v1/convert.
type convertRequest struct {
	Text         string       `json:"text" binding:"required"`
	Tables       [][][]string `json:"tables"`
	SupplierHint string       `json:"supplier_hint"`
	TemplateID   string       `json:"template_id"`
}

type lineItemDTO struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	TotalAmount float64  `json:"total_amount"`
	VATRate     *float64 `json:"vat_rate,omitempty"`
}

type convertResponse struct {
	TemplateID      string                 `json:"template_id"`
	Fields          map[string]interface{} `json:"fields"`
	Confidence      map[string]float64     `json:"confidence"`
	LineItems       []lineItemDTO          `json:"line_items"`
	MissingRequired []string               `json:"missing_required,omitempty"`
	Warnings        []string               `json:"warnings,omitempty"`
	Totals          totalsDTO              `json:"totals"`
	Quality         float64                `json:"quality"`
	UBL             string                 `json:"ubl_xml"`
}

type totalsDTO struct {
	Net      string `json:"net,omitempty"`
	Tax      string `json:"tax,omitempty"`
	Total    string `json:"total,omitempty"`
	Currency string `json:"currency"`
}

func (s *Server) handleConvert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := s.converter.Convert(req.Text, req.Tables, req.SupplierHint, req.TemplateID)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, convert.ErrUnknownTemplate) {
			status = http.StatusNotFound
		}
		s.logger.Warn("Conversion failed", zap.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toConvertResponse(outcome.Record, outcome.Totals, outcome.Quality, outcome.XML))
}

func toConvertResponse(rec *extract.Record, totals reconcile.Totals, quality float64, xmlData []byte) convertResponse {
	fields := make(map[string]interface{}, len(rec.Fields))
	for name, v := range rec.Fields {
		switch v.Kind {
		case extract.KindNumber:
			fields[name] = v.Number
		case extract.KindDate:
			fields[name] = v.Date.Format("2006-01-02")
		default:
			fields[name] = v.Text
		}
	}

	items := make([]lineItemDTO, 0, len(rec.LineItems))
	for _, item := range rec.LineItems {
		items = append(items, lineItemDTO{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalAmount: item.TotalAmount,
			VATRate:     item.VATRate,
		})
	}

	t := totalsDTO{Currency: totals.Currency}
	if totals.Net.Valid {
		t.Net = ubl.FormatAmount(totals.Net.Decimal)
	}
	if totals.Tax.Valid {
		t.Tax = ubl.FormatAmount(totals.Tax.Decimal)
	}
	if totals.Total.Valid {
		t.Total = ubl.FormatAmount(totals.Total.Decimal)
	}

	return convertResponse{
		TemplateID:      rec.TemplateID,
		Fields:          fields,
		Confidence:      rec.Confidence,
		LineItems:       items,
		MissingRequired: rec.MissingRequired,
		Warnings:        rec.Warnings,
		Totals:          t,
		Quality:         quality,
		UBL:             string(xmlData),
	}
}

type templateSummary struct {
	ID           string  `json:"template_id"`
	Name         string  `json:"name"`
	SupplierName string  `json:"supplier_name,omitempty"`
	Rules        int     `json:"rules"`
	UsageCount   int     `json:"usage_count"`
	SuccessRate  float64 `json:"success_rate"`
}

func (s *Server) handleListTemplates(c *gin.Context) {
	templates := s.converter.Catalog().All()
	out := make([]templateSummary, 0, len(templates))
	for _, t := range templates {
		out = append(out, templateSummary{
			ID:           t.ID,
			Name:         t.Name,
			SupplierName: t.SupplierName,
			Rules:        len(t.ExtractionRules),
			UsageCount:   t.UsageCount,
			SuccessRate:  t.SuccessRate,
		})
	}
	c.JSON(http.StatusOK, gin.H{"templates": out})
}

func (s *Server) handleGetTemplate(c *gin.Context) {
	t := s.converter.Catalog().Get(c.Param("id"))
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}
