package visibility

import "github.com/goliatone/go-formflow/pkg/model"

// Evaluator decides whether a field is currently visible given the current
// value of every field. Implementations must be pure functions of their
// inputs; the controller calls them after every value change.
type Evaluator interface {
	Visible(field model.FieldConfig, values map[string]any) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field model.FieldConfig, values map[string]any) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(field model.FieldConfig, values map[string]any) bool {
	return fn(field, values)
}

// Compute evaluates every field and returns the visibility map keyed by name.
func Compute(evaluator Evaluator, fields []model.FieldConfig, values map[string]any) map[string]bool {
	out := make(map[string]bool, len(fields))
	for _, field := range fields {
		if evaluator == nil {
			out[field.Name] = true
			continue
		}
		out[field.Name] = evaluator.Visible(field, values)
	}
	return out
}
