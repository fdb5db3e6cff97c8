package template

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultTemplateID is the generic fallback template.
const DefaultTemplateID = "generic_nl"

// Catalog is an immutable in-memory set of templates. It is built once at
// startup and may be shared across concurrent extraction calls.
type Catalog struct {
	templates map[string]*Template
	defaultID string
}

// NewCatalog builds a catalog from the given templates. Duplicate identifiers
// are rejected.
func NewCatalog(templates []*Template, defaultID string) (*Catalog, error) {
	if defaultID == "" {
		defaultID = DefaultTemplateID
	}
	byID := make(map[string]*Template, len(templates))
	for _, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template %q has no identifier", t.Name)
		}
		if _, exists := byID[t.ID]; exists {
			return nil, fmt.Errorf("duplicate template identifier %q", t.ID)
		}
		byID[t.ID] = t
	}
	return &Catalog{templates: byID, defaultID: defaultID}, nil
}

// Get returns the template with the given identifier, or nil.
func (c *Catalog) Get(id string) *Template {
	return c.templates[id]
}

// All returns every template, ordered by identifier.
func (c *Catalog) All() []*Template {
	out := make([]*Template, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Default returns the generic fallback template, or nil if the catalog does
// not contain one.
func (c *Catalog) Default() *Template {
	return c.templates[c.defaultID]
}

// DefaultID returns the identifier of the generic fallback template.
func (c *Catalog) DefaultID() string {
	return c.defaultID
}

// Len returns the number of templates in the catalog.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// BySupplierHint returns the templates whose supplier name or aliases contain
// hint as a case-insensitive substring (in either direction).
func (c *Catalog) BySupplierHint(hint string) []*Template {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return nil
	}
	var out []*Template
	for _, t := range c.All() {
		if supplierMatchesHint(t, hint) {
			out = append(out, t)
		}
	}
	return out
}

func supplierMatchesHint(t *Template, hint string) bool {
	name := strings.ToLower(t.SupplierName)
	if name != "" && (strings.Contains(name, hint) || strings.Contains(hint, name)) {
		return true
	}
	for _, alias := range t.SupplierAliases {
		a := strings.ToLower(alias)
		if a != "" && (strings.Contains(a, hint) || strings.Contains(hint, a)) {
			return true
		}
	}
	return false
}
