package fieldtypes

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Rule coerces a raw input value into the field's semantic type. ok is false
// when the raw value cannot be represented (an email without "@", a number
// that does not parse); the compiler reports that as a type error.
type Rule func(raw any) (value any, ok bool)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// StringRule is the identity rule for text-like fields. Non-string scalars are
// formatted so values decoded from documents still compare as text.
func StringRule(raw any) (any, bool) {
	switch typed := raw.(type) {
	case nil:
		return "", true
	case string:
		return typed, true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		if n, ok := model.AsFloat(raw); ok {
			return strconv.FormatFloat(n, 'f', -1, 64), true
		}
		return fmt.Sprint(raw), true
	}
}

// EmailRule accepts empty strings (required-ness is checked separately) and
// otherwise requires address syntax.
func EmailRule(raw any) (any, bool) {
	value, _ := StringRule(raw)
	text := value.(string)
	if text == "" {
		return text, true
	}
	return text, emailPattern.MatchString(text)
}

// NumberRule parses strings into float64. Empty input coerces to nil.
func NumberRule(raw any) (any, bool) {
	switch typed := raw.(type) {
	case nil:
		return nil, true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return nil, true
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return n, true
	default:
		n, ok := model.AsFloat(raw)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return n, true
	}
}

// CheckboxRule accepts booleans and the string forms HTML and terminal inputs
// produce.
func CheckboxRule(raw any) (any, bool) {
	switch typed := raw.(type) {
	case nil:
		return false, true
	case bool:
		return typed, true
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "on", "yes", "1":
			return true, true
		case "", "false", "off", "no", "0":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}

// DateRule keeps dates as opaque strings; no calendar validation happens.
func DateRule(raw any) (any, bool) {
	return StringRule(raw)
}

func builtinRules() map[model.FieldType]Rule {
	return map[model.FieldType]Rule{
		model.FieldTypeText:     StringRule,
		model.FieldTypeEmail:    EmailRule,
		model.FieldTypePassword: StringRule,
		model.FieldTypeNumber:   NumberRule,
		model.FieldTypeTel:      StringRule,
		model.FieldTypeDate:     DateRule,
		model.FieldTypeTextarea: StringRule,
		model.FieldTypeSelect:   StringRule,
		model.FieldTypeCheckbox: CheckboxRule,
		model.FieldTypeRadio:    StringRule,
	}
}
