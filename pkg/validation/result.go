package validation

import "github.com/goliatone/go-formflow/pkg/model"

// FieldErrors maps a field name to the single message that won for it.
type FieldErrors map[string]string

// Issue is a field error positioned in declaration order.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Ordered lists the errors following the declaration order of fields.
func (e FieldErrors) Ordered(fields []model.FieldConfig) []Issue {
	if len(e) == 0 {
		return nil
	}
	out := make([]Issue, 0, len(e))
	seen := make(map[string]struct{}, len(e))
	for _, field := range fields {
		msg, ok := e[field.Name]
		if !ok {
			continue
		}
		if _, dup := seen[field.Name]; dup {
			continue
		}
		seen[field.Name] = struct{}{}
		out = append(out, Issue{Field: field.Name, Message: msg})
	}
	return out
}

// First returns the earliest-declared field error.
func (e FieldErrors) First(fields []model.FieldConfig) (Issue, bool) {
	for _, field := range fields {
		if msg, ok := e[field.Name]; ok {
			return Issue{Field: field.Name, Message: msg}, true
		}
	}
	return Issue{}, false
}

// Result is the outcome of a validation pass. Values holds only the fields
// that passed; Errors holds every field that failed.
type Result struct {
	Values map[string]any
	Errors FieldErrors
}

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}
