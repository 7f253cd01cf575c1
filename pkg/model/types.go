package model

import "strings"

// FieldType is the closed set of input kinds a field can declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePassword FieldType = "password"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTel      FieldType = "tel"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
)

var knownFieldTypes = map[FieldType]struct{}{
	FieldTypeText:     {},
	FieldTypeEmail:    {},
	FieldTypePassword: {},
	FieldTypeNumber:   {},
	FieldTypeTel:      {},
	FieldTypeDate:     {},
	FieldTypeTextarea: {},
	FieldTypeSelect:   {},
	FieldTypeCheckbox: {},
	FieldTypeRadio:    {},
}

// FieldTypes lists the supported tags in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText, FieldTypeEmail, FieldTypePassword, FieldTypeNumber, FieldTypeTel,
		FieldTypeDate, FieldTypeTextarea, FieldTypeSelect, FieldTypeCheckbox, FieldTypeRadio,
	}
}

// Known reports whether t is one of the supported tags.
func (t FieldType) Known() bool {
	_, ok := knownFieldTypes[FieldType(strings.ToLower(strings.TrimSpace(string(t))))]
	return ok
}

// Normalize lower-cases the tag and maps unknown or empty tags to text.
func (t FieldType) Normalize() FieldType {
	candidate := FieldType(strings.ToLower(strings.TrimSpace(string(t))))
	if _, ok := knownFieldTypes[candidate]; ok {
		return candidate
	}
	return FieldTypeText
}

// Numeric reports whether values of this type are coerced to numbers.
func (t FieldType) Numeric() bool { return t.Normalize() == FieldTypeNumber }

// Boolean reports whether values of this type are booleans.
func (t FieldType) Boolean() bool { return t.Normalize() == FieldTypeCheckbox }

// HasOptions reports whether the type draws its values from Options.
func (t FieldType) HasOptions() bool {
	switch t.Normalize() {
	case FieldTypeSelect, FieldTypeRadio:
		return true
	default:
		return false
	}
}

// Layout controls how renderers arrange fields.
type Layout string

const (
	LayoutStacked Layout = "stacked"
	LayoutGrid    Layout = "grid"
)

// Normalize defaults empty or unknown layouts to stacked.
func (l Layout) Normalize() Layout {
	switch Layout(strings.ToLower(strings.TrimSpace(string(l)))) {
	case LayoutGrid:
		return LayoutGrid
	default:
		return LayoutStacked
	}
}

// Option is a selectable value for select and radio fields.
type Option struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// DisplayLabel falls back to the value when no label was supplied.
func (o Option) DisplayLabel() string {
	if strings.TrimSpace(o.Label) != "" {
		return o.Label
	}
	return o.Value
}

// Validation groups the optional constraints attached to a field. The
// compiler checks them in a fixed order: MinLength, MaxLength, Min, Max,
// Pattern.
type Validation struct {
	MinLength *LengthRule  `json:"minLength,omitempty" yaml:"minLength,omitempty" toml:"minLength,omitempty"`
	MaxLength *LengthRule  `json:"maxLength,omitempty" yaml:"maxLength,omitempty" toml:"maxLength,omitempty"`
	Min       *NumberRule  `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max       *NumberRule  `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	Pattern   *PatternRule `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty"`

	// RequiredMessage replaces the generic required message.
	RequiredMessage string `json:"requiredMessage,omitempty" yaml:"requiredMessage,omitempty" toml:"requiredMessage,omitempty"`
	// InvalidMessage replaces the generic type error (bad email, not a number).
	InvalidMessage string `json:"invalidMessage,omitempty" yaml:"invalidMessage,omitempty" toml:"invalidMessage,omitempty"`
}

// Condition makes a field visible only when another field's current value
// satisfies every populated clause.
type Condition struct {
	Field     string  `json:"field" yaml:"field" toml:"field"`
	Equals    Literal `json:"equals,omitzero" yaml:"equals,omitempty" toml:"equals,omitempty"`
	NotEquals Literal `json:"notEquals,omitzero" yaml:"notEquals,omitempty" toml:"notEquals,omitempty"`
	Includes  Choices `json:"includes,omitzero" yaml:"includes,omitempty" toml:"includes,omitempty"`
}

// Empty reports whether no clause is populated.
func (c Condition) Empty() bool {
	return !c.Equals.Set && !c.NotEquals.Set && c.Includes == nil
}

// FieldConfig declares a single input.
type FieldConfig struct {
	Name         string      `json:"name" yaml:"name" toml:"name"`
	Type         FieldType   `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Label        string      `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Placeholder  string      `json:"placeholder,omitempty" yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
	HelperText   string      `json:"helperText,omitempty" yaml:"helperText,omitempty" toml:"helperText,omitempty"`
	Required     bool        `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	DefaultValue any         `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty" toml:"defaultValue,omitempty"`
	Options      []Option    `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
	Validation   *Validation `json:"validation,omitempty" yaml:"validation,omitempty" toml:"validation,omitempty"`
	Condition    *Condition  `json:"condition,omitempty" yaml:"condition,omitempty" toml:"condition,omitempty"`
	Disabled     bool        `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty"`
}

// DisplayLabel returns the label, falling back to the field name.
func (f FieldConfig) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Name
}

// FormConfig is the author-written form document.
type FormConfig struct {
	ID          string        `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Title       string        `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Layout      Layout        `json:"layout,omitempty" yaml:"layout,omitempty" toml:"layout,omitempty"`
	Fields      []FieldConfig `json:"fields" yaml:"fields" toml:"fields"`
}

// Field returns the first field declared with name.
func (c FormConfig) Field(name string) (FieldConfig, bool) {
	for _, field := range c.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldConfig{}, false
}

// FormState is a snapshot of the controller's state.
type FormState struct {
	Values     map[string]any    `json:"values"`
	Errors     map[string]string `json:"errors"`
	Submitting bool              `json:"submitting"`
}
