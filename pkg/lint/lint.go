package lint

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/multierr"

	"github.com/goliatone/go-formflow/pkg/fieldtypes"
	"github.com/goliatone/go-formflow/pkg/model"
)

// Code identifies the kind of anomaly.
type Code string

const (
	CodeEmptyName         Code = "empty-name"
	CodeDuplicateName     Code = "duplicate-name"
	CodeUnknownType       Code = "unknown-type"
	CodeUnknownLayout     Code = "unknown-layout"
	CodeMissingOptions    Code = "missing-options"
	CodeUnusedOptions     Code = "unused-options"
	CodeInvalidPattern    Code = "invalid-pattern"
	CodeInapplicableRule  Code = "inapplicable-rule"
	CodeEmptyRange        Code = "empty-range"
	CodeDanglingCondition Code = "dangling-condition"
	CodeSelfCondition     Code = "self-condition"
	CodeEmptyCondition    Code = "empty-condition"
	CodeInvalidDefault    Code = "invalid-default"
)

// Issue is a single anomaly. Field is empty for form-level issues.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Error implements error so issues can be aggregated.
func (i Issue) Error() string {
	if i.Field == "" {
		return fmt.Sprintf("lint: %s", i.Message)
	}
	return fmt.Sprintf("lint: field %q: %s", i.Field, i.Message)
}

// Issues is the ordered result of Check.
type Issues []Issue

// Err combines every issue into a single error, or nil when there are none.
func (is Issues) Err() error {
	var err error
	for _, issue := range is {
		err = multierr.Append(err, issue)
	}
	return err
}

// Codes lists the issue codes in order, mostly useful in tests.
func (is Issues) Codes() []Code {
	out := make([]Code, 0, len(is))
	for _, issue := range is {
		out = append(out, issue.Code)
	}
	return out
}

// Option customises Check.
type Option func(*checker)

// WithRegistry checks default values against the rules of a custom registry.
func WithRegistry(registry *fieldtypes.Registry) Option {
	return func(c *checker) {
		if registry != nil {
			c.registry = registry
		}
	}
}

type checker struct {
	registry *fieldtypes.Registry
	issues   Issues
}

func (c *checker) add(field string, code Code, format string, args ...any) {
	c.issues = append(c.issues, Issue{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

// Check inspects config and returns every anomaly found, in declaration order.
func Check(config model.FormConfig, options ...Option) Issues {
	c := &checker{registry: fieldtypes.New()}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}

	if raw := strings.TrimSpace(string(config.Layout)); raw != "" && model.Layout(strings.ToLower(raw)) != config.Layout.Normalize() {
		c.add("", CodeUnknownLayout, "layout %q is not supported, using %q", config.Layout, model.LayoutStacked)
	}

	seen := make(map[string]struct{}, len(config.Fields))
	for _, field := range config.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			c.add("", CodeEmptyName, "field without a name")
			continue
		}
		if _, dup := seen[name]; dup {
			c.add(name, CodeDuplicateName, "name is declared more than once")
		}
		seen[name] = struct{}{}
	}

	for _, field := range config.Fields {
		if strings.TrimSpace(field.Name) == "" {
			continue
		}
		c.checkType(field)
		c.checkValidation(field)
		c.checkCondition(field, seen)
		c.checkDefault(field)
	}
	return c.issues
}

func (c *checker) checkType(field model.FieldConfig) {
	if strings.TrimSpace(string(field.Type)) != "" && !field.Type.Known() {
		c.add(field.Name, CodeUnknownType, "type %q is not supported, rendering as text", field.Type)
	}
	switch {
	case field.Type.HasOptions() && len(field.Options) == 0:
		c.add(field.Name, CodeMissingOptions, "%s field has no options", field.Type.Normalize())
	case !field.Type.HasOptions() && len(field.Options) > 0:
		c.add(field.Name, CodeUnusedOptions, "options are ignored for %s fields", field.Type.Normalize())
	}
}

func (c *checker) checkValidation(field model.FieldConfig) {
	rules := field.Validation
	if rules == nil {
		return
	}
	fieldType := field.Type.Normalize()
	stringValued := !fieldType.Numeric() && !fieldType.Boolean()

	if !stringValued {
		if rules.MinLength != nil {
			c.add(field.Name, CodeInapplicableRule, "minLength is ignored for %s fields", fieldType)
		}
		if rules.MaxLength != nil {
			c.add(field.Name, CodeInapplicableRule, "maxLength is ignored for %s fields", fieldType)
		}
		if rules.Pattern != nil {
			c.add(field.Name, CodeInapplicableRule, "pattern is ignored for %s fields", fieldType)
		}
	}
	if !fieldType.Numeric() {
		if rules.Min != nil {
			c.add(field.Name, CodeInapplicableRule, "min is ignored for %s fields", fieldType)
		}
		if rules.Max != nil {
			c.add(field.Name, CodeInapplicableRule, "max is ignored for %s fields", fieldType)
		}
	}
	if rules.MinLength != nil && rules.MaxLength != nil && rules.MinLength.Value > rules.MaxLength.Value {
		c.add(field.Name, CodeEmptyRange, "minLength %d exceeds maxLength %d", rules.MinLength.Value, rules.MaxLength.Value)
	}
	if rules.Min != nil && rules.Max != nil && rules.Min.Value > rules.Max.Value {
		c.add(field.Name, CodeEmptyRange, "min %v exceeds max %v", rules.Min.Value, rules.Max.Value)
	}
	if rules.Pattern != nil {
		if _, err := regexp.Compile(rules.Pattern.Value); err != nil {
			c.add(field.Name, CodeInvalidPattern, "pattern %q does not compile: %v", rules.Pattern.Value, err)
		}
	}
}

func (c *checker) checkCondition(field model.FieldConfig, known map[string]struct{}) {
	cond := field.Condition
	if cond == nil {
		return
	}
	ref := strings.TrimSpace(cond.Field)
	switch {
	case ref == "":
		c.add(field.Name, CodeDanglingCondition, "condition does not name a field, field is always visible")
		return
	case ref == field.Name:
		c.add(field.Name, CodeSelfCondition, "condition references the field itself")
	default:
		if _, ok := known[ref]; !ok {
			c.add(field.Name, CodeDanglingCondition, "condition references unknown field %q, field is always visible", ref)
		}
	}
	if cond.Empty() {
		c.add(field.Name, CodeEmptyCondition, "condition has no clauses")
	}
}

func (c *checker) checkDefault(field model.FieldConfig) {
	if field.DefaultValue == nil {
		return
	}
	value, ok := c.registry.Rule(field.Type)(field.DefaultValue)
	if !ok {
		c.add(field.Name, CodeInvalidDefault, "default %v is not a valid %s value", field.DefaultValue, field.Type.Normalize())
		return
	}
	if !field.Type.HasOptions() || len(field.Options) == 0 {
		return
	}
	text, _ := value.(string)
	for _, opt := range field.Options {
		if opt.Value == text {
			return
		}
	}
	c.add(field.Name, CodeInvalidDefault, "default %q is not one of the options", text)
}
