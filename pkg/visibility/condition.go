package visibility

import (
	"reflect"
	"strings"

	"github.com/goliatone/go-formflow/pkg/fieldtypes"
	"github.com/goliatone/go-formflow/pkg/model"
)

// ConditionEvaluator implements Evaluator over model.Condition clauses.
//
// Supported clauses, combined with AND when several are populated:
// - equals: the referenced value equals the literal
// - notEquals: the referenced value differs from the literal
// - includes: the referenced value is a member of the list
//
// A condition referencing a field that is not part of the form leaves the
// field visible. The referenced value is coerced with its field's type rule
// before comparison, so a posted "true" matches a checkbox literal true.
type ConditionEvaluator struct {
	known    map[string]model.FieldType
	registry *fieldtypes.Registry
}

// Option configures a ConditionEvaluator.
type Option func(*ConditionEvaluator)

// WithRegistry supplies the registry whose rules coerce referenced values.
func WithRegistry(registry *fieldtypes.Registry) Option {
	return func(e *ConditionEvaluator) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// New builds an evaluator aware of the form's field names and types.
func New(fields []model.FieldConfig, options ...Option) *ConditionEvaluator {
	e := &ConditionEvaluator{
		known:    make(map[string]model.FieldType, len(fields)),
		registry: fieldtypes.New(),
	}
	for _, field := range fields {
		if _, dup := e.known[field.Name]; !dup {
			e.known[field.Name] = field.Type
		}
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Visible reports whether field should currently be displayed and validated.
func (e *ConditionEvaluator) Visible(field model.FieldConfig, values map[string]any) bool {
	cond := field.Condition
	if cond == nil {
		return true
	}
	ref := strings.TrimSpace(cond.Field)
	refType, ok := e.lookup(ref)
	if ref == "" || !ok {
		return true
	}

	current := e.coerce(refType, values[ref])
	if cond.Equals.Set && !Equal(current, cond.Equals.Value) {
		return false
	}
	if cond.NotEquals.Set && Equal(current, cond.NotEquals.Value) {
		return false
	}
	if cond.Includes != nil && !contains(cond.Includes, current) {
		return false
	}
	return true
}

func (e *ConditionEvaluator) lookup(name string) (model.FieldType, bool) {
	if e == nil || e.known == nil {
		return "", false
	}
	fieldType, ok := e.known[name]
	return fieldType, ok
}

// coerce runs raw through the type rule. Values the rule rejects are
// compared as given.
func (e *ConditionEvaluator) coerce(fieldType model.FieldType, raw any) any {
	if e.registry == nil {
		return raw
	}
	value, ok := e.registry.Rule(fieldType)(raw)
	if !ok {
		return raw
	}
	return value
}

// Equal compares two values strictly: both must share a kind. Numbers are the
// exception and compare by value, since decoders disagree on int vs float.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := model.AsFloat(a); ok {
		fb, ok := model.AsFloat(b)
		return ok && fa == fb
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func contains(list []any, value any) bool {
	for _, candidate := range list {
		if Equal(candidate, value) {
			return true
		}
	}
	return false
}
