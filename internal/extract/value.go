package extract

import (
	"time"

	"github.com/brouwerict/PDF2UBL/internal/template"
)

// Kind discriminates the typed variants of an extracted Value.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

// Value is a tagged union over the types a field can resolve to. Conversions
// are total: a value that fails typed parsing stays text.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Date   time.Time
}

// TextValue wraps a plain string.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// NumberValue wraps a numeric value, keeping the raw text for audit.
func NumberValue(n float64, raw string) Value {
	return Value{Kind: KindNumber, Number: n, Text: raw}
}

// DateValue wraps a parsed date, keeping the raw text for audit.
func DateValue(d time.Time, raw string) Value {
	return Value{Kind: KindDate, Date: d, Text: raw}
}

// Convert turns a raw matched string into the typed value for the field type.
// It never fails: unparseable numbers and dates fall back to text.
func Convert(raw string, ft template.FieldType) Value {
	switch ft {
	case template.FieldNumber:
		if n, ok := ParseNumber(raw); ok {
			return NumberValue(n, raw)
		}
	case template.FieldAmount:
		if n, ok := ParseAmount(raw); ok {
			return NumberValue(n, raw)
		}
	case template.FieldPercentage:
		if n, ok := ParsePercentage(raw); ok {
			return NumberValue(n, raw)
		}
	case template.FieldDate:
		if d, ok := ParseDate(raw); ok {
			return DateValue(d, raw)
		}
	}
	return TextValue(raw)
}

// LineItem is one extracted invoice line.
type LineItem struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	TotalAmount float64
	VATRate     *float64
}

// Record is the orchestrator's output: typed values and confidences per
// field, line items, and diagnostics.
type Record struct {
	TemplateID string
	Currency   string

	Fields     map[string]Value
	Confidence map[string]float64

	LineItems []LineItem

	// MissingRequired lists required fields that produced no value above
	// their rule's confidence floor.
	MissingRequired []string

	// Warnings collects non-fatal data-quality diagnostics.
	Warnings []string

	RawText string
}

// NewRecord returns an empty record for the given template.
func NewRecord(templateID, rawText string) *Record {
	return &Record{
		TemplateID: templateID,
		Fields:     make(map[string]Value),
		Confidence: make(map[string]float64),
		RawText:    rawText,
	}
}

// Set stores a field value with its confidence.
func (r *Record) Set(field string, v Value, confidence float64) {
	r.Fields[field] = v
	r.Confidence[field] = confidence
}

// Text returns the field's text, regardless of kind.
func (r *Record) Text(field string) string {
	v, ok := r.Fields[field]
	if !ok {
		return ""
	}
	return v.Text
}

// Number returns the field's numeric value, if it resolved to a number.
func (r *Record) Number(field string) (float64, bool) {
	v, ok := r.Fields[field]
	if !ok || v.Kind != KindNumber {
		return 0, false
	}
	return v.Number, true
}

// Date returns the field's date value, if it resolved to a date.
func (r *Record) Date(field string) (time.Time, bool) {
	v, ok := r.Fields[field]
	if !ok || v.Kind != KindDate {
		return time.Time{}, false
	}
	return v.Date, true
}

// Warn appends a data-quality warning.
func (r *Record) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
