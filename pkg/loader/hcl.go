package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/goliatone/go-formflow/pkg/model"
)

// hclDocument is the HCL spelling of a FormConfig:
//
//	id     = "loan"
//	layout = "grid"
//
//	field "employmentType" {
//	  type = "radio"
//	  option "salaried" { label = "Salaried" }
//	}
//
//	field "companyName" {
//	  required = true
//	  condition {
//	    field    = "employmentType"
//	    includes = ["salaried"]
//	  }
//	}
type hclDocument struct {
	ID          *string     `hcl:"id,optional"`
	Title       *string     `hcl:"title,optional"`
	Description *string     `hcl:"description,optional"`
	Layout      *string     `hcl:"layout,optional"`
	Fields      []*hclField `hcl:"field,block"`
}

type hclField struct {
	Name        string         `hcl:"name,label"`
	Type        *string        `hcl:"type,optional"`
	Label       *string        `hcl:"label,optional"`
	Placeholder *string        `hcl:"placeholder,optional"`
	HelperText  *string        `hcl:"helper_text,optional"`
	Required    *bool          `hcl:"required,optional"`
	Disabled    *bool          `hcl:"disabled,optional"`
	Default     *hcl.Attribute `hcl:"default,optional"`
	Options     []*hclOption   `hcl:"option,block"`
	Validation  *hclValidation `hcl:"validation,block"`
	Condition   *hclCondition  `hcl:"condition,block"`
}

type hclOption struct {
	Value string  `hcl:"value,label"`
	Label *string `hcl:"label,optional"`
}

type hclValidation struct {
	MinLength        *int     `hcl:"min_length,optional"`
	MinLengthMessage *string  `hcl:"min_length_message,optional"`
	MaxLength        *int     `hcl:"max_length,optional"`
	MaxLengthMessage *string  `hcl:"max_length_message,optional"`
	Min              *float64 `hcl:"min,optional"`
	MinMessage       *string  `hcl:"min_message,optional"`
	Max              *float64 `hcl:"max,optional"`
	MaxMessage       *string  `hcl:"max_message,optional"`
	Pattern          *string  `hcl:"pattern,optional"`
	PatternMessage   *string  `hcl:"pattern_message,optional"`
	RequiredMessage  *string  `hcl:"required_message,optional"`
	InvalidMessage   *string  `hcl:"invalid_message,optional"`
}

type hclCondition struct {
	Field     string         `hcl:"field"`
	Equals    *hcl.Attribute `hcl:"equals,optional"`
	NotEquals *hcl.Attribute `hcl:"not_equals,optional"`
	Includes  *hcl.Attribute `hcl:"includes,optional"`
}

func decodeHCL(data []byte, filename string) (model.FormConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return model.FormConfig{}, diags
	}

	var doc hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return model.FormConfig{}, diags
	}

	config := model.FormConfig{
		ID:          deref(doc.ID),
		Title:       deref(doc.Title),
		Description: deref(doc.Description),
		Layout:      model.Layout(deref(doc.Layout)),
		Fields:      make([]model.FieldConfig, 0, len(doc.Fields)),
	}
	for _, raw := range doc.Fields {
		field, err := raw.toField()
		if err != nil {
			return model.FormConfig{}, fmt.Errorf("field %q: %w", raw.Name, err)
		}
		config.Fields = append(config.Fields, field)
	}
	return config, nil
}

func (f *hclField) toField() (model.FieldConfig, error) {
	field := model.FieldConfig{
		Name:        f.Name,
		Type:        model.FieldType(deref(f.Type)),
		Label:       deref(f.Label),
		Placeholder: deref(f.Placeholder),
		HelperText:  deref(f.HelperText),
		Required:    f.Required != nil && *f.Required,
		Disabled:    f.Disabled != nil && *f.Disabled,
	}

	if f.Default != nil {
		value, err := attributeValue(f.Default)
		if err != nil {
			return model.FieldConfig{}, err
		}
		field.DefaultValue = value
	}
	for _, opt := range f.Options {
		field.Options = append(field.Options, model.Option{Value: opt.Value, Label: deref(opt.Label)})
	}
	if v := f.Validation; v != nil {
		field.Validation = &model.Validation{
			RequiredMessage: deref(v.RequiredMessage),
			InvalidMessage:  deref(v.InvalidMessage),
		}
		if v.MinLength != nil {
			field.Validation.MinLength = model.NewRule(*v.MinLength, deref(v.MinLengthMessage))
		}
		if v.MaxLength != nil {
			field.Validation.MaxLength = model.NewRule(*v.MaxLength, deref(v.MaxLengthMessage))
		}
		if v.Min != nil {
			field.Validation.Min = model.NewRule(*v.Min, deref(v.MinMessage))
		}
		if v.Max != nil {
			field.Validation.Max = model.NewRule(*v.Max, deref(v.MaxMessage))
		}
		if v.Pattern != nil {
			field.Validation.Pattern = model.NewRule(*v.Pattern, deref(v.PatternMessage))
		}
	}
	if c := f.Condition; c != nil {
		cond, err := c.toCondition()
		if err != nil {
			return model.FieldConfig{}, err
		}
		field.Condition = cond
	}
	return field, nil
}

func (c *hclCondition) toCondition() (*model.Condition, error) {
	cond := &model.Condition{Field: c.Field}
	if c.Equals != nil {
		value, err := attributeValue(c.Equals)
		if err != nil {
			return nil, err
		}
		cond.Equals = model.Is(value)
	}
	if c.NotEquals != nil {
		value, err := attributeValue(c.NotEquals)
		if err != nil {
			return nil, err
		}
		cond.NotEquals = model.Is(value)
	}
	if c.Includes != nil {
		value, err := attributeValue(c.Includes)
		if err != nil {
			return nil, err
		}
		list, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("condition includes must be a list, got %T", value)
		}
		cond.Includes = list
	}
	return cond, nil
}

func attributeValue(attr *hcl.Attribute) (any, error) {
	value, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return fromCty(value)
}

func fromCty(value cty.Value) (any, error) {
	if value.IsNull() {
		return nil, nil
	}
	if !value.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	ty := value.Type()
	switch {
	case ty == cty.String:
		return value.AsString(), nil
	case ty == cty.Bool:
		return value.True(), nil
	case ty == cty.Number:
		n, _ := value.AsBigFloat().Float64()
		return n, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, value.LengthInt())
		for it := value.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			converted, err := fromCty(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}

func deref[T any](ptr *T) T {
	var zero T
	if ptr == nil {
		return zero
	}
	return *ptr
}
