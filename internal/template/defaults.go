package template

// Defaults returns the built-in templates: a generic Dutch invoice template
// plus supplier-bound variants that reuse its rules.
func Defaults() []*Template {
	generic := New(DefaultTemplateID, "Generic Dutch Invoice")
	generic.Description = "Generic template for Dutch invoices"

	generic.AddFieldRule("invoice_number", FieldText, []FieldPattern{
		{
			Pattern:             `factuur(?:nummer)?[:\s#-]*(\w+)`,
			Method:              MethodRegex,
			FieldType:           FieldText,
			ConfidenceThreshold: 0.8,
			Name:                "Dutch invoice number",
		},
		{
			Pattern:             `invoice(?:\s+number)?[:\s#-]*(\w+)`,
			Method:              MethodRegex,
			FieldType:           FieldText,
			ConfidenceThreshold: 0.7,
			Name:                "English invoice number",
		},
	}, true, 0.3)

	generic.AddFieldRule("invoice_date", FieldDate, []FieldPattern{
		{
			Pattern:             `factuurdatum[:\s]*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
			Method:              MethodRegex,
			FieldType:           FieldDate,
			ConfidenceThreshold: 0.8,
			Name:                "Dutch invoice date",
		},
		{
			Pattern:             `datum[:\s]*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
			Method:              MethodRegex,
			FieldType:           FieldDate,
			ConfidenceThreshold: 0.7,
			Name:                "Date field",
		},
	}, true, 0.3)

	generic.AddFieldRule("total_amount", FieldAmount, []FieldPattern{
		{
			Pattern:             `totaal[:\s]*€?\s*(\d+[.,]\d{2})`,
			Method:              MethodRegex,
			FieldType:           FieldAmount,
			ConfidenceThreshold: 0.8,
			Name:                "Dutch total amount",
		},
		{
			Pattern:             `total[:\s]*€?\s*(\d+[.,]\d{2})`,
			Method:              MethodRegex,
			FieldType:           FieldAmount,
			ConfidenceThreshold: 0.7,
			Name:                "English total amount",
		},
	}, true, 0.3)

	generic.AddFieldRule("supplier_vat_number", FieldVATNumber, []FieldPattern{
		{
			Pattern:             `btw[:\s-]*(?:nr|nummer)?[:\s]*([A-Z]{2}\d{9}B\d{2})`,
			Method:              MethodRegex,
			FieldType:           FieldVATNumber,
			ConfidenceThreshold: 0.9,
			Name:                "Dutch VAT number",
		},
		{
			Pattern:             `([A-Z]{2}\d{9}B\d{2})`,
			Method:              MethodRegex,
			FieldType:           FieldVATNumber,
			ConfidenceThreshold: 0.7,
			Name:                "VAT number pattern",
		},
	}, false, 0.3)

	generic.AddFieldRule("supplier_name", FieldText, []FieldPattern{
		{
			Pattern:             `^([A-Z][a-z\s]+(?:B\.?V\.?|Ltd\.?|Inc\.?)?)$`,
			Method:              MethodRegex,
			FieldType:           FieldText,
			Multiline:           true,
			ConfidenceThreshold: 0.5,
			Name:                "Company name pattern",
		},
	}, false, 0.3)

	generic.AddTableRule(TableLineItems,
		[]string{
			`beschrijving|description`,
			`aantal|quantity`,
			`prijs|price`,
			`bedrag|amount`,
		},
		map[string]string{
			"beschrijving": "description",
			"description":  "description",
			"aantal":       "quantity",
			"quantity":     "quantity",
			"prijs":        "unit_price",
			"price":        "unit_price",
			"bedrag":       "total_amount",
			"amount":       "total_amount",
		},
		[]string{"description"})

	kpn := New("kpn_nl", "KPN Netherlands")
	kpn.Description = "Template for KPN invoices"
	kpn.SupplierName = "KPN B.V."
	kpn.SupplierAliases = []string{"KPN", "Koninklijke PTT Nederland"}
	kpn.SupplierPatterns = []FieldPattern{
		{
			Pattern:             `KPN\s+B\.V\.`,
			Method:              MethodRegex,
			FieldType:           FieldText,
			ConfidenceThreshold: 0.9,
			Name:                "KPN company name",
		},
	}
	kpn.ExtractionRules = append([]ExtractionRule(nil), generic.ExtractionRules...)
	kpn.TableRules = append([]TableRule(nil), generic.TableRules...)

	ziggo := New("ziggo_nl", "Ziggo Netherlands")
	ziggo.Description = "Template for Ziggo invoices"
	ziggo.SupplierName = "Ziggo B.V."
	ziggo.SupplierAliases = []string{"Ziggo"}
	ziggo.SupplierPatterns = []FieldPattern{
		{
			Pattern:             `Ziggo\s+B\.V\.`,
			Method:              MethodRegex,
			FieldType:           FieldText,
			ConfidenceThreshold: 0.9,
			Name:                "Ziggo company name",
		},
	}
	ziggo.ExtractionRules = append([]ExtractionRule(nil), generic.ExtractionRules...)
	ziggo.TableRules = append([]TableRule(nil), generic.TableRules...)

	return []*Template{generic, kpn, ziggo}
}
