package model

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Rule is a single constraint threshold plus an optional author message.
// Documents may spell it as `{value: 5, message: "..."}` or as the bare
// value.
type Rule[T int | float64 | string] struct {
	Value   T      `json:"value" yaml:"value" toml:"value"`
	Message string `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
}

type (
	// LengthRule bounds the rune count of string values.
	LengthRule = Rule[int]
	// NumberRule bounds numeric values.
	NumberRule = Rule[float64]
	// PatternRule holds a regular expression source.
	PatternRule = Rule[string]
)

// NewRule is a convenience constructor for Go-authored configs.
func NewRule[T int | float64 | string](value T, message string) *Rule[T] {
	return &Rule[T]{Value: value, Message: message}
}

// UnmarshalJSON accepts both the object and the shorthand form.
func (r *Rule[T]) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return r.assign(raw)
}

// MarshalJSON emits the shorthand when no message is set.
func (r Rule[T]) MarshalJSON() ([]byte, error) {
	if r.Message == "" {
		return json.Marshal(r.Value)
	}
	return json.Marshal(map[string]any{"value": r.Value, "message": r.Message})
}

// UnmarshalYAML accepts both the mapping and the scalar form.
func (r *Rule[T]) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return r.assign(raw)
}

// MarshalYAML mirrors MarshalJSON.
func (r Rule[T]) MarshalYAML() (any, error) {
	if r.Message == "" {
		return r.Value, nil
	}
	return map[string]any{"value": r.Value, "message": r.Message}, nil
}

// UnmarshalTOML accepts both the table and the scalar form.
func (r *Rule[T]) UnmarshalTOML(data any) error {
	return r.assign(data)
}

func (r *Rule[T]) assign(raw any) error {
	if table, ok := raw.(map[string]any); ok {
		if msg, exists := table["message"]; exists && msg != nil {
			text, ok := msg.(string)
			if !ok {
				return fmt.Errorf("model: rule message must be a string, got %T", msg)
			}
			r.Message = text
		}
		raw = table["value"]
	}

	switch target := any(&r.Value).(type) {
	case *int:
		n, ok := AsFloat(raw)
		if !ok || n != math.Trunc(n) {
			return fmt.Errorf("model: rule value must be an integer, got %v", raw)
		}
		*target = int(n)
	case *float64:
		n, ok := AsFloat(raw)
		if !ok {
			return fmt.Errorf("model: rule value must be a number, got %v", raw)
		}
		*target = n
	case *string:
		text, ok := raw.(string)
		if !ok {
			return fmt.Errorf("model: rule value must be a string, got %T", raw)
		}
		*target = text
	}
	return nil
}

// Literal is an optional scalar used by condition clauses. Unlike a plain
// `any`, it distinguishes an absent clause from one comparing against null.
type Literal struct {
	Value any
	Set   bool
}

// Is builds a populated Literal.
func Is(value any) Literal {
	return Literal{Value: value, Set: true}
}

// IsZero reports whether the literal was never populated.
func (l Literal) IsZero() bool { return !l.Set }

// Choices is the member list of an includes clause. A nil list means the
// clause is absent; an empty list is kept when encoding and matches nothing.
type Choices []any

// IsZero reports whether the clause is absent.
func (c Choices) IsZero() bool { return c == nil }

// UnmarshalJSON marks the literal as set, including explicit nulls.
func (l *Literal) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	l.Value, l.Set = value, true
	return nil
}

// MarshalJSON emits the wrapped value.
func (l Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Value)
}

// UnmarshalYAML marks the literal as set.
func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	var value any
	if err := node.Decode(&value); err != nil {
		return err
	}
	l.Value, l.Set = value, true
	return nil
}

// MarshalYAML emits the wrapped value.
func (l Literal) MarshalYAML() (any, error) {
	return l.Value, nil
}

// UnmarshalTOML marks the literal as set.
func (l *Literal) UnmarshalTOML(data any) error {
	l.Value, l.Set = data, true
	return nil
}
