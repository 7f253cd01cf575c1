package form_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formflow/pkg/fieldtypes"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/validation"
)

type recorder struct {
	mu    sync.Mutex
	calls []map[string]any
	err   error
}

func (r *recorder) submit(_ context.Context, values map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, values)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func emailConfig() model.FormConfig {
	return model.FormConfig{
		ID:     "signup",
		Fields: []model.FieldConfig{{Name: "email", Type: model.FieldTypeEmail, Required: true}},
	}
}

func employmentConfig() model.FormConfig {
	return model.FormConfig{
		ID: "employment",
		Fields: []model.FieldConfig{
			{
				Name: "employmentType",
				Type: model.FieldTypeRadio,
				Options: []model.Option{
					{Value: "salaried", Label: "Salaried"},
					{Value: "student", Label: "Student"},
				},
			},
			{
				Name:      "companyName",
				Type:      model.FieldTypeText,
				Required:  true,
				Condition: &model.Condition{Field: "employmentType", Includes: []any{"salaried"}},
			},
		},
	}
}

func TestNew_SeedsDefaultsThenOverrides(t *testing.T) {
	config := model.FormConfig{Fields: []model.FieldConfig{
		{Name: "name", DefaultValue: "Ada"},
		{Name: "age", Type: model.FieldTypeNumber},
		{Name: "terms", Type: model.FieldTypeCheckbox},
		{Name: "country", Type: model.FieldTypeSelect, DefaultValue: "NL"},
	}}

	ctrl := form.New(config, map[string]any{"country": "DE", "ghost": "ignored"})

	want := model.FormState{
		Values: map[string]any{
			"name":    "Ada",
			"age":     nil,
			"terms":   false,
			"country": "DE",
		},
		Errors: map[string]string{},
	}
	if diff := cmp.Diff(want, ctrl.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValue_RejectsUnknownAndDisabled(t *testing.T) {
	config := model.FormConfig{Fields: []model.FieldConfig{
		{Name: "id", DefaultValue: "42", Disabled: true},
		{Name: "name"},
	}}
	ctrl := form.New(config, nil)

	if err := ctrl.SetValue("missing", "x"); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := ctrl.SetValue("id", "7"); !errors.Is(err, form.ErrFieldDisabled) {
		t.Fatalf("expected ErrFieldDisabled, got %v", err)
	}
	if got, _ := ctrl.Value("id"); got != "42" {
		t.Fatalf("disabled value changed to %v", got)
	}
	if err := ctrl.SetValue("name", "Grace"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if got, _ := ctrl.Value("name"); got != "Grace" {
		t.Fatalf("unexpected name %v", got)
	}
}

func TestSubmit_EmailScenario(t *testing.T) {
	rec := &recorder{}
	ctrl := form.New(emailConfig(), nil, form.WithSubmit(rec.submit))
	ctx := context.Background()

	if err := ctrl.SetValue("email", "not-an-email"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	outcome, err := ctrl.Submit(ctx)
	if err != nil || outcome != form.OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %v (%v)", outcome, err)
	}
	if diff := cmp.Diff(validation.FieldErrors{"email": "Invalid email address"}, ctrl.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if rec.count() != 0 {
		t.Fatalf("collaborator must not run on invalid input")
	}

	if err := ctrl.SetValue("email", "a@b.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	outcome, err = ctrl.Submit(ctx)
	if err != nil || outcome != form.OutcomeSubmitted {
		t.Fatalf("expected submitted outcome, got %v (%v)", outcome, err)
	}
	if diff := cmp.Diff([]map[string]any{{"email": "a@b.com"}}, rec.calls); diff != "" {
		t.Fatalf("submissions mismatch (-want +got):\n%s", diff)
	}
	if len(ctrl.Errors()) != 0 {
		t.Fatalf("errors should be cleared after a valid submit")
	}
}

func TestSubmit_HiddenFieldsDoNotParticipate(t *testing.T) {
	rec := &recorder{}
	ctrl := form.New(employmentConfig(), nil, form.WithSubmit(rec.submit))
	ctx := context.Background()

	if err := ctrl.SetValue("employmentType", "student"); err != nil {
		t.Fatalf("set employmentType: %v", err)
	}
	if ctrl.Visible("companyName") {
		t.Fatalf("companyName should be hidden for students")
	}
	outcome, err := ctrl.Submit(ctx)
	if err != nil || outcome != form.OutcomeSubmitted {
		t.Fatalf("expected submission, got %v (%v)", outcome, err)
	}
	if diff := cmp.Diff(map[string]any{"employmentType": "student"}, rec.calls[0]); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if err := ctrl.SetValue("employmentType", "salaried"); err != nil {
		t.Fatalf("set employmentType: %v", err)
	}
	if !ctrl.Visible("companyName") {
		t.Fatalf("companyName should be visible for salaried")
	}
	outcome, _ = ctrl.Submit(ctx)
	if outcome != form.OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %v", outcome)
	}
	issue, ok := ctrl.FirstError()
	if !ok || issue.Field != "companyName" || issue.Message != "This field is required" {
		t.Fatalf("unexpected first error %+v", issue)
	}
	if rec.count() != 1 {
		t.Fatalf("expected a single submission, got %d", rec.count())
	}
}

func TestSubmit_GuardsAgainstReentry(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	ctrl := form.New(emailConfig(), map[string]any{"email": "a@b.com"}, form.WithSubmit(
		func(ctx context.Context, values map[string]any) error {
			mu.Lock()
			calls++
			mu.Unlock()
			close(entered)
			<-release
			return nil
		},
	))

	done := make(chan form.Outcome, 1)
	go func() {
		outcome, _ := ctrl.Submit(context.Background())
		done <- outcome
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("collaborator was not invoked")
	}
	if !ctrl.Submitting() {
		t.Fatalf("expected submitting while collaborator is pending")
	}

	if err := ctrl.SetValue("email", "bad"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	outcome, err := ctrl.Submit(context.Background())
	if err != nil || outcome != form.OutcomeBusy {
		t.Fatalf("expected busy outcome, got %v (%v)", outcome, err)
	}
	if len(ctrl.Errors()) != 0 {
		t.Fatalf("a busy submit must not validate, got %v", ctrl.Errors())
	}

	close(release)
	if got := <-done; got != form.OutcomeSubmitted {
		t.Fatalf("first submit outcome = %v", got)
	}
	if ctrl.Submitting() {
		t.Fatalf("submitting flag should be cleared")
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("collaborator called %d times", calls)
	}
}

func TestSubmit_CollaboratorErrorIsReturnedUnchanged(t *testing.T) {
	boom := errors.New("network down")
	rec := &recorder{err: boom}
	ctrl := form.New(emailConfig(), map[string]any{"email": "a@b.com"}, form.WithSubmit(rec.submit))

	outcome, err := ctrl.Submit(context.Background())
	if outcome != form.OutcomeSubmitted || err != boom {
		t.Fatalf("expected submitted outcome with collaborator error, got %v (%v)", outcome, err)
	}
	if ctrl.Submitting() {
		t.Fatalf("submitting flag should be cleared after a failure")
	}
	if rec.count() != 1 {
		t.Fatalf("collaborator must not be retried")
	}
}

func TestReset_IsIdempotent(t *testing.T) {
	ctrl := form.New(employmentConfig(), map[string]any{"employmentType": "salaried"})
	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := ctrl.SetValue("companyName", "Acme"); err != nil {
		t.Fatalf("set companyName: %v", err)
	}

	ctrl.Reset()
	once := ctrl.State()
	ctrl.Reset()
	twice := ctrl.State()

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("reset is not idempotent (-once +twice):\n%s", diff)
	}
	want := model.FormState{
		Values: map[string]any{"employmentType": "salaried", "companyName": ""},
		Errors: map[string]string{},
	}
	if diff := cmp.Diff(want, once); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestCancel_CallsCollaboratorBeforeReset(t *testing.T) {
	var seen any
	var ctrl *form.Controller
	ctrl = form.New(emailConfig(), nil, form.WithCancel(func(context.Context) {
		seen, _ = ctrl.Value("email")
	}))

	if err := ctrl.SetValue("email", "draft@example.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	ctrl.Cancel(context.Background())

	if seen != "draft@example.com" {
		t.Fatalf("cancel collaborator saw %v", seen)
	}
	if got, _ := ctrl.Value("email"); got != "" {
		t.Fatalf("expected reset value, got %v", got)
	}
}

func TestRender_FollowsVisibilityAsValuesChange(t *testing.T) {
	var contexts []render.FieldContext
	stub := render.FieldRendererFunc(func(_ context.Context, field render.FieldContext) (render.Element, error) {
		contexts = append(contexts, field)
		if field.Field.Name == "employmentType" {
			field.OnChange("salaried")
		}
		return render.Element(field.Field.Name), nil
	})
	registry := fieldtypes.New(fieldtypes.WithFallbackRenderer(stub))

	ctrl := form.New(employmentConfig(), nil, form.WithRegistry(registry))
	rendered, err := ctrl.Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []render.Rendered{
		{Name: "employmentType", Element: render.Element("employmentType")},
		{Name: "companyName", Element: render.Element("companyName")},
	}
	if diff := cmp.Diff(want, rendered); diff != "" {
		t.Fatalf("rendered mismatch (-want +got):\n%s", diff)
	}
	if contexts[1].Value != "" || contexts[1].Error != "" {
		t.Fatalf("unexpected context for companyName: %+v", contexts[1])
	}
}

func TestRender_PassesErrorsAndIgnoresDisabledChanges(t *testing.T) {
	config := model.FormConfig{Fields: []model.FieldConfig{
		{Name: "email", Type: model.FieldTypeEmail, Required: true},
		{Name: "ref", Type: "barcode", DefaultValue: "A1", Disabled: true},
	}}
	var got []render.FieldContext
	stub := render.FieldRendererFunc(func(_ context.Context, field render.FieldContext) (render.Element, error) {
		got = append(got, field)
		field.OnChange("changed")
		return nil, nil
	})
	ctrl := form.New(config, nil, form.WithRegistry(fieldtypes.New(fieldtypes.WithFallbackRenderer(stub))))

	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	got = nil
	if _, err := ctrl.Render(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}

	if got[0].Error != "This field is required" {
		t.Fatalf("expected required error in context, got %q", got[0].Error)
	}
	if got[1].Field.Type != model.FieldTypeText {
		t.Fatalf("unknown type should render as text, got %q", got[1].Field.Type)
	}
	if value, _ := ctrl.Value("ref"); value != "A1" {
		t.Fatalf("disabled field changed to %v", value)
	}
}

func TestRender_MissingRenderer(t *testing.T) {
	ctrl := form.New(emailConfig(), nil)
	if _, err := ctrl.Render(context.Background()); !errors.Is(err, form.ErrNoRenderer) {
		t.Fatalf("expected ErrNoRenderer, got %v", err)
	}
}

func TestNew_LogsConfigurationAnomalies(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	config := model.FormConfig{Fields: []model.FieldConfig{
		{Name: "ghost", Condition: &model.Condition{Field: "missing", Equals: model.Is("x")}},
	}}

	ctrl := form.New(config, nil, form.WithLogger(zap.New(core)))

	if !ctrl.Visible("ghost") {
		t.Fatalf("dangling condition must fail open")
	}
	entries := logs.FilterMessage("form: configuration anomaly").All()
	if len(entries) != 1 {
		t.Fatalf("expected one anomaly warning, got %d", len(entries))
	}
	if code := entries[0].ContextMap()["code"]; code != "dangling-condition" {
		t.Fatalf("unexpected code %v", code)
	}
}

func feedbackConfig() model.FormConfig {
	return model.FormConfig{
		ID: "feedback",
		Fields: []model.FieldConfig{
			{Name: "rating", Type: model.FieldTypeNumber},
			{Name: "recommend", Type: model.FieldTypeCheckbox},
			{
				Name:      "reason",
				Type:      model.FieldTypeTextarea,
				Required:  true,
				Condition: &model.Condition{Field: "recommend", NotEquals: model.Is(true)},
			},
			{
				Name:      "praise",
				Type:      model.FieldTypeText,
				Required:  true,
				Condition: &model.Condition{Field: "rating", Equals: model.Is(5)},
			},
		},
	}
}

func TestSubmit_ConditionsOnStringInputs(t *testing.T) {
	rec := &recorder{}
	ctrl := form.New(feedbackConfig(), map[string]any{"recommend": "true", "rating": "4"}, form.WithSubmit(rec.submit))
	ctx := context.Background()

	if ctrl.Visible("reason") {
		t.Fatalf("reason should be hidden when recommend is \"true\"")
	}
	outcome, err := ctrl.Submit(ctx)
	if err != nil || outcome != form.OutcomeSubmitted {
		t.Fatalf("expected submission, got %v (%v), errors %v", outcome, err, ctrl.Errors())
	}
	if diff := cmp.Diff(map[string]any{"recommend": true, "rating": float64(4)}, rec.calls[0]); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if err := ctrl.SetValue("rating", "5"); err != nil {
		t.Fatalf("set rating: %v", err)
	}
	if !ctrl.Visible("praise") {
		t.Fatalf("praise should be visible when rating is \"5\"")
	}
	if err := ctrl.SetValue("recommend", "false"); err != nil {
		t.Fatalf("set recommend: %v", err)
	}
	if !ctrl.Visible("reason") {
		t.Fatalf("reason should be visible when recommend is \"false\"")
	}
	outcome, _ = ctrl.Submit(ctx)
	if outcome != form.OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %v", outcome)
	}
	want := validation.FieldErrors{"reason": "This field is required", "praise": "This field is required"}
	if diff := cmp.Diff(want, ctrl.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}
