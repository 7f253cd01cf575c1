package validation

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Messages holds the generic fallbacks used when a field does not supply its
// own message. The "{value}" placeholder is replaced with the constraint
// threshold.
type Messages struct {
	Required      string
	Invalid       string
	InvalidEmail  string
	InvalidNumber string
	MinLength     string
	MaxLength     string
	Min           string
	Max           string
	Pattern       string
}

// DefaultMessages returns the built-in English fallbacks.
func DefaultMessages() Messages {
	return Messages{
		Required:      "This field is required",
		Invalid:       "Invalid value",
		InvalidEmail:  "Invalid email address",
		InvalidNumber: "Must be a number",
		MinLength:     "Must be at least {value} characters",
		MaxLength:     "Must be at most {value} characters",
		Min:           "Must be greater than or equal to {value}",
		Max:           "Must be less than or equal to {value}",
		Pattern:       "Invalid format",
	}
}

func (m Messages) withDefaults() Messages {
	def := DefaultMessages()
	fill := func(target *string, fallback string) {
		if strings.TrimSpace(*target) == "" {
			*target = fallback
		}
	}
	fill(&m.Required, def.Required)
	fill(&m.Invalid, def.Invalid)
	fill(&m.InvalidEmail, def.InvalidEmail)
	fill(&m.InvalidNumber, def.InvalidNumber)
	fill(&m.MinLength, def.MinLength)
	fill(&m.MaxLength, def.MaxLength)
	fill(&m.Min, def.Min)
	fill(&m.Max, def.Max)
	fill(&m.Pattern, def.Pattern)
	return m
}

func (m Messages) invalidFor(t model.FieldType) string {
	switch t {
	case model.FieldTypeEmail:
		return m.InvalidEmail
	case model.FieldTypeNumber:
		return m.InvalidNumber
	default:
		return m.Invalid
	}
}

func pick(author, fallback string) string {
	if strings.TrimSpace(author) != "" {
		return author
	}
	return fallback
}

func withValue(template string, value any) string {
	var formatted string
	switch v := value.(type) {
	case int:
		formatted = strconv.Itoa(v)
	case float64:
		formatted = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		formatted = ""
	}
	return strings.ReplaceAll(template, "{value}", formatted)
}
