package model

import (
	"encoding/json"
	"strconv"
)

// EmptyValue returns the sentinel used for a field with no value: nil for
// numbers, false for checkboxes and "" for everything else.
func EmptyValue(t FieldType) any {
	switch t.Normalize() {
	case FieldTypeNumber:
		return nil
	case FieldTypeCheckbox:
		return false
	default:
		return ""
	}
}

// IsEmpty reports whether a coerced value counts as empty for t.
func IsEmpty(t FieldType, value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case bool:
		return !typed && t.Boolean()
	default:
		return false
	}
}

// InitialValue returns the field default, or the empty sentinel.
func InitialValue(field FieldConfig) any {
	if field.DefaultValue != nil {
		return field.DefaultValue
	}
	return EmptyValue(field.Type)
}

// AsFloat converts the numeric kinds produced by the JSON, YAML, TOML and HCL
// decoders into a float64.
func AsFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// CloneValues copies a value map. Slices are copied one level deep.
func CloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		if list, ok := value.([]any); ok {
			value = append([]any(nil), list...)
		}
		out[key] = value
	}
	return out
}
