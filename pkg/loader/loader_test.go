package loader_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	"github.com/goliatone/go-formflow/pkg/lint"
	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/model"
)

func TestSamplesFS_LoadsEveryFormat(t *testing.T) {
	store, err := loader.LoadFS(loader.SamplesFS())
	if err != nil {
		t.Fatalf("load samples: %v", err)
	}

	want := []string{"contact", "feedback", "loan-application", "signup"}
	if diff := cmp.Diff(want, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	for _, id := range store.IDs() {
		config, _ := store.Form(id)
		if issues := lint.Check(config); len(issues) > 0 {
			t.Fatalf("sample %s has lint issues: %v", store.Source(id), issues)
		}
	}
}

func TestParse_YAMLRulesAndConditions(t *testing.T) {
	config := sampleForm(t, "loan-application")

	if config.Layout != model.LayoutGrid {
		t.Fatalf("layout = %q", config.Layout)
	}
	name, _ := config.Field("fullName")
	if diff := cmp.Diff(&model.Validation{
		MinLength: model.NewRule(2, ""),
		MaxLength: model.NewRule(80, "Please shorten your name"),
	}, name.Validation); diff != "" {
		t.Fatalf("validation mismatch (-want +got):\n%s", diff)
	}

	company, _ := config.Field("companyName")
	if diff := cmp.Diff(&model.Condition{Field: "employmentType", Includes: []any{"salaried"}}, company.Condition); diff != "" {
		t.Fatalf("condition mismatch (-want +got):\n%s", diff)
	}
	university, _ := config.Field("university")
	if !university.Condition.Equals.Set || university.Condition.Equals.Value != "student" {
		t.Fatalf("unexpected equals clause %+v", university.Condition.Equals)
	}

	income, _ := config.Field("monthlyIncome")
	if income.Validation.Min.Value != 0 || income.Validation.Min.Message != "Income cannot be negative" {
		t.Fatalf("unexpected min rule %+v", income.Validation.Min)
	}
	if income.Validation.Max.Value != 1e6 {
		t.Fatalf("unexpected max rule %+v", income.Validation.Max)
	}
}

func TestParse_TOML(t *testing.T) {
	config := sampleForm(t, "contact")

	phone, _ := config.Field("phone")
	if phone.Type != model.FieldTypeTel {
		t.Fatalf("phone type = %q", phone.Type)
	}
	if diff := cmp.Diff(model.NewRule("^[+0-9 ()-]{6,}$", "Enter a valid phone number"), phone.Validation.Pattern); diff != "" {
		t.Fatalf("pattern mismatch (-want +got):\n%s", diff)
	}
	topic, _ := config.Field("topic")
	if diff := cmp.Diff([]model.Option{{Value: "sales", Label: "Sales"}, {Value: "support", Label: "Support"}}, topic.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	message, _ := config.Field("message")
	if message.Validation.MaxLength.Value != 2000 {
		t.Fatalf("maxLength = %d", message.Validation.MaxLength.Value)
	}
}

func TestParse_HCL(t *testing.T) {
	config := sampleForm(t, "feedback")

	want := model.FormConfig{
		ID:     "feedback",
		Title:  "How did we do?",
		Layout: model.LayoutStacked,
		Fields: []model.FieldConfig{
			{
				Name:     "rating",
				Type:     model.FieldTypeNumber,
				Label:    "Rating (1-5)",
				Required: true,
				Validation: &model.Validation{
					Min: model.NewRule(1.0, ""),
					Max: model.NewRule(5.0, "Ratings go up to 5"),
				},
			},
			{
				Name:         "recommend",
				Type:         model.FieldTypeCheckbox,
				Label:        "Would you recommend us?",
				DefaultValue: true,
			},
			{
				Name:      "reason",
				Type:      model.FieldTypeTextarea,
				Label:     "What could we improve?",
				Condition: &model.Condition{Field: "recommend", NotEquals: model.Is(true)},
			},
			{
				Name:    "contactMe",
				Type:    model.FieldTypeRadio,
				Label:   "May we contact you?",
				Options: []model.Option{{Value: "yes"}, {Value: "no", Label: "No thanks"}},
			},
		},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_IDFallsBackToFileStem(t *testing.T) {
	config, err := loader.Parse([]byte(`{"fields":[{"name":"a"}]}`), "forms/quick-poll.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if config.ID != "quick-poll" {
		t.Fatalf("id = %q", config.ID)
	}
}

func TestParse_UnknownExtensionTriesJSONThenYAML(t *testing.T) {
	config, err := loader.Parse([]byte("id: sniffed\nfields:\n  - name: a\n"), "form.txt")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if config.ID != "sniffed" || len(config.Fields) != 1 {
		t.Fatalf("unexpected config %+v", config)
	}
	if _, err := loader.Parse([]byte("fields: [\n"), "form.txt"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadFile(t *testing.T) {
	config, err := loader.LoadFile(filepath.Join(testdataRoot(), "broken", "ok.json"))
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if config.ID != "ok" {
		t.Fatalf("id = %q", config.ID)
	}
	if _, err := loader.LoadFile(filepath.Join(testdataRoot(), "missing.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestLoadFS_DuplicateIDs(t *testing.T) {
	_, err := loader.LoadFS(subDirFS(t, "duplicate"))
	if err == nil || !strings.Contains(err.Error(), `duplicate form "shared"`) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadFS_CollectsEveryBrokenFile(t *testing.T) {
	_, err := loader.LoadFS(subDirFS(t, "broken"))
	if err == nil {
		t.Fatalf("expected errors")
	}
	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), err)
	}
	if !strings.Contains(errs[0].Error(), "bad.hcl") || !strings.Contains(errs[1].Error(), "empty.yaml is empty") {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	store, err := loader.LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("expected empty store, got %v (%v)", store, err)
	}
}

func sampleForm(t *testing.T, id string) model.FormConfig {
	t.Helper()
	store, err := loader.LoadFS(loader.SamplesFS())
	if err != nil {
		t.Fatalf("load samples: %v", err)
	}
	config, ok := store.Form(id)
	if !ok {
		t.Fatalf("form %q not found", id)
	}
	return config
}

func subDirFS(t *testing.T, subdir string) fs.FS {
	t.Helper()
	fsys, err := fs.Sub(os.DirFS(testdataRoot()), subdir)
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	return fsys
}

func testdataRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "testdata"
	}
	return filepath.Join(filepath.Dir(filename), "testdata")
}
