package validation

import (
	"regexp"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/fieldtypes"
	"github.com/goliatone/go-formflow/pkg/model"
)

// Option configures Compile.
type Option func(*config)

type config struct {
	registry *fieldtypes.Registry
	logger   *zap.Logger
	messages Messages
}

// WithRegistry supplies the registry providing the per-type coercion rules.
func WithRegistry(registry *fieldtypes.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithLogger receives warnings about constraints that cannot be compiled.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMessages overrides the generic fallback messages. Empty entries keep
// their default.
func WithMessages(messages Messages) Option {
	return func(cfg *config) {
		cfg.messages = messages
	}
}

// check returns the failure message and true when value violates it.
type check func(value any) (string, bool)

type compiledField struct {
	name        string
	fieldType   model.FieldType
	required    bool
	rule        fieldtypes.Rule
	requiredMsg string
	invalidMsg  string
	checks      []check
}

// Validator is the compiled form of a field list. It is immutable and safe
// for concurrent use.
type Validator struct {
	fields []compiledField
}

// Compile turns a field list into a Validator. Constraints that do not apply
// to a field's type are dropped; a pattern that does not compile is logged and
// ignored so the form stays usable.
func Compile(fields []model.FieldConfig, options ...Option) *Validator {
	cfg := config{
		registry: fieldtypes.New(),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	messages := cfg.messages.withDefaults()

	v := &Validator{fields: make([]compiledField, 0, len(fields))}
	for _, field := range fields {
		v.fields = append(v.fields, compileField(field, cfg.registry, messages, cfg.logger))
	}
	return v
}

func compileField(field model.FieldConfig, registry *fieldtypes.Registry, messages Messages, logger *zap.Logger) compiledField {
	desc := registry.Lookup(field.Type)
	rules := field.Validation
	if rules == nil {
		rules = &model.Validation{}
	}

	cf := compiledField{
		name:        field.Name,
		fieldType:   desc.Type,
		required:    field.Required,
		rule:        desc.Rule,
		requiredMsg: pick(rules.RequiredMessage, messages.Required),
		invalidMsg:  pick(rules.InvalidMessage, messages.invalidFor(desc.Type)),
	}

	stringValued := !desc.Type.Numeric() && !desc.Type.Boolean()

	if r := rules.MinLength; r != nil && stringValued {
		limit, msg := r.Value, pick(r.Message, withValue(messages.MinLength, r.Value))
		cf.checks = append(cf.checks, func(value any) (string, bool) {
			text, _ := value.(string)
			return msg, utf8.RuneCountInString(text) < limit
		})
	}
	if r := rules.MaxLength; r != nil && stringValued {
		limit, msg := r.Value, pick(r.Message, withValue(messages.MaxLength, r.Value))
		cf.checks = append(cf.checks, func(value any) (string, bool) {
			text, _ := value.(string)
			return msg, utf8.RuneCountInString(text) > limit
		})
	}
	if r := rules.Min; r != nil && desc.Type.Numeric() {
		limit, msg := r.Value, pick(r.Message, withValue(messages.Min, r.Value))
		cf.checks = append(cf.checks, func(value any) (string, bool) {
			n, _ := model.AsFloat(value)
			return msg, n < limit
		})
	}
	if r := rules.Max; r != nil && desc.Type.Numeric() {
		limit, msg := r.Value, pick(r.Message, withValue(messages.Max, r.Value))
		cf.checks = append(cf.checks, func(value any) (string, bool) {
			n, _ := model.AsFloat(value)
			return msg, n > limit
		})
	}
	if r := rules.Pattern; r != nil && stringValued {
		re, err := regexp.Compile(r.Value)
		if err != nil {
			logger.Warn("validation: ignoring invalid pattern",
				zap.String("field", field.Name),
				zap.String("pattern", r.Value),
				zap.Error(err),
			)
		} else {
			msg := pick(r.Message, messages.Pattern)
			cf.checks = append(cf.checks, func(value any) (string, bool) {
				text, _ := value.(string)
				return msg, !re.MatchString(text)
			})
		}
	}
	return cf
}

// Validate runs a full pass over raw. visible may be nil, in which case every
// field participates; otherwise fields for which it returns false are skipped
// and appear in neither Values nor Errors.
func (v *Validator) Validate(raw map[string]any, visible func(name string) bool) Result {
	result := Result{
		Values: make(map[string]any),
		Errors: make(FieldErrors),
	}
	if v == nil {
		return result
	}

	for _, field := range v.fields {
		if visible != nil && !visible(field.name) {
			continue
		}
		value, msg, ok := field.evaluate(raw[field.name])
		if !ok {
			result.Errors[field.name] = msg
			continue
		}
		if value != nil {
			result.Values[field.name] = value
		}
	}
	return result
}

func (f compiledField) evaluate(raw any) (any, string, bool) {
	value, ok := f.rule(raw)
	if !ok {
		return nil, f.invalidMsg, false
	}
	if model.IsEmpty(f.fieldType, value) {
		if f.required {
			return nil, f.requiredMsg, false
		}
		return value, "", true
	}
	for _, c := range f.checks {
		if msg, failed := c(value); failed {
			return nil, msg, false
		}
	}
	return value, "", true
}
