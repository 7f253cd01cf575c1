package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

func TestValidate_RequiredEmptyFails(t *testing.T) {
	v := validation.Compile([]model.FieldConfig{
		{Name: "fullName", Type: model.FieldTypeText, Required: true},
	})

	result := v.Validate(map[string]any{"fullName": ""}, nil)
	if result.Valid() {
		t.Fatalf("expected required field to fail")
	}
	if got := result.Errors["fullName"]; got != "This field is required" {
		t.Fatalf("unexpected message %q", got)
	}
	if _, ok := result.Values["fullName"]; ok {
		t.Fatalf("failed field must not appear in values")
	}
}

func TestValidate_RequiredMessageOverride(t *testing.T) {
	v := validation.Compile([]model.FieldConfig{
		{
			Name:       "agree",
			Type:       model.FieldTypeCheckbox,
			Required:   true,
			Validation: &model.Validation{RequiredMessage: "You must accept the terms"},
		},
	})

	result := v.Validate(map[string]any{"agree": false}, nil)
	if diff := cmp.Diff(validation.FieldErrors{"agree": "You must accept the terms"}, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_OptionalEmptyPassesWithoutConstraints(t *testing.T) {
	v := validation.Compile([]model.FieldConfig{
		{
			Name: "nickname",
			Type: model.FieldTypeText,
			Validation: &model.Validation{
				MinLength: model.NewRule(3, ""),
				Pattern:   model.NewRule("^[a-z]+$", ""),
			},
		},
		{Name: "age", Type: model.FieldTypeNumber, Validation: &model.Validation{Min: model.NewRule(18.0, "")}},
		{Name: "newsletter", Type: model.FieldTypeCheckbox},
		{Name: "contact", Type: model.FieldTypeEmail},
	})

	result := v.Validate(map[string]any{"nickname": "", "age": "", "newsletter": nil}, nil)
	if !result.Valid() {
		t.Fatalf("expected optional empty fields to pass, got %v", result.Errors)
	}
	want := map[string]any{
		"nickname":   "",
		"newsletter": false,
		"contact":    "",
	}
	if diff := cmp.Diff(want, result.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_HiddenFieldsAreSkipped(t *testing.T) {
	v := validation.Compile([]model.FieldConfig{
		{Name: "companyName", Type: model.FieldTypeText, Required: true},
		{Name: "email", Type: model.FieldTypeEmail, Required: true},
	})

	visible := func(name string) bool { return name != "companyName" }
	result := v.Validate(map[string]any{"companyName": "", "email": "a@b.com"}, visible)

	if !result.Valid() {
		t.Fatalf("hidden required field must not block, got %v", result.Errors)
	}
	if _, ok := result.Values["companyName"]; ok {
		t.Fatalf("hidden field must not be normalized")
	}
}

func TestValidate_FirstFailingConstraintWins(t *testing.T) {
	v := validation.Compile([]model.FieldConfig{
		{
			Name: "code",
			Type: model.FieldTypeText,
			Validation: &model.Validation{
				MinLength: model.NewRule(5, "At least five"),
				Pattern:   model.NewRule("^[0-9]+$", "Digits only"),
			},
		},
	})

	result := v.Validate(map[string]any{"code": "ab1"}, nil)
	if got := result.Errors["code"]; got != "At least five" {
		t.Fatalf("expected minLength message, got %q", got)
	}

	result = v.Validate(map[string]any{"code": "abcdef"}, nil)
	if got := result.Errors["code"]; got != "Digits only" {
		t.Fatalf("expected pattern message, got %q", got)
	}

	result = v.Validate(map[string]any{"code": "123456"}, nil)
	if !result.Valid() {
		t.Fatalf("expected valid code, got %v", result.Errors)
	}
}

func TestValidate_NumericBounds(t *testing.T) {
	v := validation.Compile([]model.FieldConfig{
		{
			Name: "monthlyIncome",
			Type: model.FieldTypeNumber,
			Validation: &model.Validation{
				Min: model.NewRule(0.0, "Income cannot be negative"),
				Max: model.NewRule(1e6, ""),
			},
		},
	})

	result := v.Validate(map[string]any{"monthlyIncome": "-500"}, nil)
	if got := result.Errors["monthlyIncome"]; got != "Income cannot be negative" {
		t.Fatalf("expected min message, got %q", got)
	}

	result = v.Validate(map[string]any{"monthlyIncome": "2000000"}, nil)
	if got := result.Errors["monthlyIncome"]; got != "Must be less than or equal to 1000000" {
		t.Fatalf("expected default max message, got %q", got)
	}

	result = v.Validate(map[string]any{"monthlyIncome": "4200.50"}, nil)
	if diff := cmp.Diff(map[string]any{"monthlyIncome": 4200.5}, result.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_TypeErrors(t *testing.T) {
	v := validation.Compile([]model.FieldConfig{
		{Name: "email", Type: model.FieldTypeEmail, Required: true},
		{Name: "amount", Type: model.FieldTypeNumber, Validation: &model.Validation{InvalidMessage: "Enter an amount"}},
	})

	result := v.Validate(map[string]any{"email": "not-an-email", "amount": "12abc"}, nil)
	want := validation.FieldErrors{
		"email":  "Invalid email address",
		"amount": "Enter an amount",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_InapplicableConstraintsIgnored(t *testing.T) {
	v := validation.Compile([]model.FieldConfig{
		{Name: "title", Type: model.FieldTypeText, Validation: &model.Validation{Min: model.NewRule(10.0, "")}},
		{Name: "count", Type: model.FieldTypeNumber, Validation: &model.Validation{MaxLength: model.NewRule(1, "")}},
	})

	result := v.Validate(map[string]any{"title": "a", "count": "12345"}, nil)
	if !result.Valid() {
		t.Fatalf("expected inapplicable constraints to be ignored, got %v", result.Errors)
	}
}

func TestValidate_EveryFieldEvaluated(t *testing.T) {
	fields := []model.FieldConfig{
		{Name: "first", Required: true},
		{Name: "second", Type: model.FieldTypeEmail, Required: true},
		{Name: "third", Type: model.FieldTypeNumber, Required: true},
	}
	v := validation.Compile(fields)

	result := v.Validate(map[string]any{"second": "bad"}, nil)
	want := []validation.Issue{
		{Field: "first", Message: "This field is required"},
		{Field: "second", Message: "Invalid email address"},
		{Field: "third", Message: "This field is required"},
	}
	if diff := cmp.Diff(want, result.Errors.Ordered(fields)); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	first, ok := result.Errors.First(fields)
	if !ok || first.Field != "first" {
		t.Fatalf("unexpected first issue %+v", first)
	}
}

func TestValidate_LengthCountsRunes(t *testing.T) {
	v := validation.Compile([]model.FieldConfig{
		{Name: "city", Validation: &model.Validation{MaxLength: model.NewRule(5, "")}},
	})
	if result := v.Validate(map[string]any{"city": "Zürich"}, nil); result.Valid() {
		t.Fatalf("expected six runes to exceed max length")
	}
	if result := v.Validate(map[string]any{"city": "Köln"}, nil); !result.Valid() {
		t.Fatalf("expected four runes to pass, got %v", result.Errors)
	}
}

func TestCompile_InvalidPatternIsLoggedAndSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	v := validation.Compile([]model.FieldConfig{
		{Name: "sku", Validation: &model.Validation{Pattern: model.NewRule("[", "")}},
	}, validation.WithLogger(zap.New(core)))

	if result := v.Validate(map[string]any{"sku": "anything"}, nil); !result.Valid() {
		t.Fatalf("expected invalid pattern to be ignored, got %v", result.Errors)
	}
	if logs.FilterField(zap.String("field", "sku")).Len() != 1 {
		t.Fatalf("expected one warning for sku, got %d", logs.Len())
	}
}

func TestCompile_CustomMessages(t *testing.T) {
	v := validation.Compile([]model.FieldConfig{
		{Name: "name", Required: true},
		{Name: "bio", Validation: &model.Validation{MinLength: model.NewRule(10, "")}},
	}, validation.WithMessages(validation.Messages{
		Required:  "Pflichtfeld",
		MinLength: "Mindestens {value} Zeichen",
	}))

	result := v.Validate(map[string]any{"bio": "kurz"}, nil)
	want := validation.FieldErrors{
		"name": "Pflichtfeld",
		"bio":  "Mindestens 10 Zeichen",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}
