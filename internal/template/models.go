package template

import (
	"time"
)

// FieldType identifies the typed interpretation of an extracted value.
type FieldType string

const (
	FieldText       FieldType = "text"
	FieldNumber     FieldType = "number"
	FieldDate       FieldType = "date"
	FieldAmount     FieldType = "amount"
	FieldPercentage FieldType = "percentage"
	FieldVATNumber  FieldType = "vat_number"
	FieldIBAN       FieldType = "iban"
	FieldEmail      FieldType = "email"
	FieldPhone      FieldType = "phone"
)

// Method selects the matching strategy of a FieldPattern.
type Method string

const (
	MethodRegex    Method = "regex"
	MethodKeyword  Method = "keyword"
	MethodPosition Method = "position"
)

// Table roles recognised by table rules.
const (
	TableLineItems = "line_items"
	TableSummary   = "summary"
)

// FieldPattern is one matching strategy for one field.
type FieldPattern struct {
	Pattern   string    `json:"pattern"`
	Method    Method    `json:"method"`
	FieldType FieldType `json:"field_type"`

	CaseSensitive bool `json:"case_sensitive,omitempty"`
	Multiline     bool `json:"multiline,omitempty"`
	WholeWord     bool `json:"whole_word,omitempty"`

	// ConfidenceThreshold is the base confidence assigned to a match,
	// before any specificity bonuses. Must be in [0,1].
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	ValidationPattern   string  `json:"validation_pattern,omitempty"`

	RequiredContext  []string `json:"required_context,omitempty"`
	ForbiddenContext []string `json:"forbidden_context,omitempty"`

	CleanupPattern     string `json:"cleanup_pattern,omitempty"`
	ReplacementPattern string `json:"replacement_pattern,omitempty"`

	Name     string `json:"name,omitempty"`
	Priority int    `json:"priority,omitempty"`
}

// ExtractionRule binds a field name to an ordered list of patterns plus
// fallbacks, a required flag and a minimum acceptable confidence.
type ExtractionRule struct {
	FieldName string    `json:"field_name"`
	FieldType FieldType `json:"field_type"`
	Patterns  []FieldPattern `json:"patterns"`

	Required      bool    `json:"required,omitempty"`
	MinConfidence float64 `json:"min_confidence"`

	DefaultValue     string         `json:"default_value,omitempty"`
	FallbackPatterns []FieldPattern `json:"fallback_patterns,omitempty"`
}

// TableRule maps a recognised table to either line items or summary totals.
type TableRule struct {
	TableName string `json:"table_name"`

	HeaderPatterns []string `json:"header_patterns,omitempty"`

	// ColumnMapping maps a header-cell substring (lowercase) to the target
	// field name (description, quantity, unit_price, total_amount, vat_rate
	// for line items; net_amount, vat_amount, total_amount for summaries).
	ColumnMapping map[string]string `json:"column_mapping,omitempty"`

	RequiredColumns []string `json:"required_columns,omitempty"`
}

// Template is a named, ordered rule set optionally bound to a supplier.
type Template struct {
	ID          string `json:"template_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`

	SupplierPatterns []FieldPattern `json:"supplier_patterns,omitempty"`
	SupplierName     string         `json:"supplier_name,omitempty"`
	SupplierAliases  []string       `json:"supplier_aliases,omitempty"`

	ExtractionRules []ExtractionRule `json:"extraction_rules"`
	TableRules      []TableRule      `json:"table_rules,omitempty"`

	Language           string `json:"language,omitempty"`
	Currency           string `json:"currency,omitempty"`
	DecimalSeparator   string `json:"decimal_separator,omitempty"`
	ThousandsSeparator string `json:"thousands_separator,omitempty"`

	MinConfidence float64 `json:"min_confidence,omitempty"`

	CreatedDate time.Time `json:"created_date,omitempty"`
	UpdatedDate time.Time `json:"updated_date,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`

	UsageCount  int     `json:"usage_count,omitempty"`
	SuccessRate float64 `json:"success_rate,omitempty"`
}

// New returns a template with Dutch locale defaults.
func New(id, name string) *Template {
	now := time.Now()
	return &Template{
		ID:                 id,
		Name:               name,
		Version:            "1.0",
		Language:           "nl",
		Currency:           "EUR",
		DecimalSeparator:   ",",
		ThousandsSeparator: ".",
		MinConfidence:      0.3,
		CreatedDate:        now,
		UpdatedDate:        now,
		CreatedBy:          "system",
	}
}

// AddFieldRule appends an extraction rule for fieldName.
func (t *Template) AddFieldRule(fieldName string, fieldType FieldType, patterns []FieldPattern, required bool, minConfidence float64) *ExtractionRule {
	t.ExtractionRules = append(t.ExtractionRules, ExtractionRule{
		FieldName:     fieldName,
		FieldType:     fieldType,
		Patterns:      patterns,
		Required:      required,
		MinConfidence: minConfidence,
	})
	return &t.ExtractionRules[len(t.ExtractionRules)-1]
}

// AddTableRule appends a table rule.
func (t *Template) AddTableRule(tableName string, headerPatterns []string, columnMapping map[string]string, requiredColumns []string) *TableRule {
	t.TableRules = append(t.TableRules, TableRule{
		TableName:       tableName,
		HeaderPatterns:  headerPatterns,
		ColumnMapping:   columnMapping,
		RequiredColumns: requiredColumns,
	})
	return &t.TableRules[len(t.TableRules)-1]
}

// Rule returns the extraction rule for fieldName, or nil.
func (t *Template) Rule(fieldName string) *ExtractionRule {
	for i := range t.ExtractionRules {
		if t.ExtractionRules[i].FieldName == fieldName {
			return &t.ExtractionRules[i]
		}
	}
	return nil
}

// RequiredFields lists the field names of all required extraction rules.
func (t *Template) RequiredFields() []string {
	var fields []string
	for _, r := range t.ExtractionRules {
		if r.Required {
			fields = append(fields, r.FieldName)
		}
	}
	return fields
}
