package form

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/fieldtypes"
	"github.com/goliatone/go-formflow/pkg/lint"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// Outcome reports what a Submit call did.
type Outcome int

const (
	// OutcomeBusy means a previous submission was still pending; nothing ran.
	OutcomeBusy Outcome = iota
	// OutcomeInvalid means validation failed and Errors holds the messages.
	OutcomeInvalid
	// OutcomeSubmitted means the submit collaborator was invoked.
	OutcomeSubmitted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBusy:
		return "busy"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Controller owns the state of one form instance. Methods are safe for
// concurrent use; collaborators are always called without the lock held.
type Controller struct {
	config    model.FormConfig
	overrides map[string]any
	fields    map[string]model.FieldConfig

	registry  *fieldtypes.Registry
	evaluator visibility.Evaluator
	index     *visibility.Index
	validator *validation.Validator
	messages  *validation.Messages
	onSubmit  SubmitFunc
	onCancel  CancelFunc
	logger    *zap.Logger

	mu         sync.Mutex
	values     map[string]any
	errors     validation.FieldErrors
	visible    map[string]bool
	submitting bool
}

// New initialises a controller: values come from each field's default (or the
// empty value for its type) with overrides applied on top.
func New(config model.FormConfig, overrides map[string]any, options ...Option) *Controller {
	c := &Controller{
		config:    config,
		overrides: model.CloneValues(overrides),
		fields:    make(map[string]model.FieldConfig, len(config.Fields)),
		registry:  fieldtypes.New(),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	for _, field := range config.Fields {
		if _, dup := c.fields[field.Name]; !dup {
			c.fields[field.Name] = field
		}
	}
	if c.evaluator == nil {
		c.evaluator = visibility.New(config.Fields, visibility.WithRegistry(c.registry))
	}
	c.index = visibility.NewIndex(config.Fields)

	compileOpts := []validation.Option{
		validation.WithRegistry(c.registry),
		validation.WithLogger(c.logger),
	}
	if c.messages != nil {
		compileOpts = append(compileOpts, validation.WithMessages(*c.messages))
	}
	c.validator = validation.Compile(config.Fields, compileOpts...)

	for _, issue := range lint.Check(config, lint.WithRegistry(c.registry)) {
		c.logger.Warn("form: configuration anomaly",
			zap.String("form", config.ID),
			zap.String("field", issue.Field),
			zap.String("code", string(issue.Code)),
			zap.String("detail", issue.Message),
		)
	}
	for name := range c.overrides {
		if _, ok := c.fields[name]; !ok {
			c.logger.Debug("form: ignoring override for unknown field", zap.String("field", name))
		}
	}

	c.initialize()
	return c
}

// Config returns the document the controller was built from.
func (c *Controller) Config() model.FormConfig {
	return c.config
}

func (c *Controller) initialize() {
	c.values = make(map[string]any, len(c.config.Fields))
	for _, field := range c.config.Fields {
		c.values[field.Name] = model.InitialValue(field)
	}
	for name, value := range c.overrides {
		if _, ok := c.fields[name]; ok {
			c.values[name] = value
		}
	}
	c.errors = validation.FieldErrors{}
	c.visible = visibility.Compute(c.evaluator, c.config.Fields, c.values)
}

// SetValue records a raw value for name. It never validates; it only
// re-evaluates the visibility of fields whose condition references name.
func (c *Controller) SetValue(name string, value any) error {
	field, ok := c.fields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if field.Disabled {
		return fmt.Errorf("%w: %q", ErrFieldDisabled, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name] = value
	c.refresh(name)
	return nil
}

// refresh recomputes the direct dependents of name. The caller holds mu.
func (c *Controller) refresh(name string) {
	for _, dependent := range c.index.Dependents(name) {
		field, ok := c.fields[dependent]
		if !ok {
			continue
		}
		visible := c.evaluator.Visible(field, c.values)
		if c.visible[dependent] != visible {
			c.logger.Debug("form: visibility changed",
				zap.String("field", dependent),
				zap.Bool("visible", visible),
			)
		}
		c.visible[dependent] = visible
	}
}

// Submit validates the visible fields and, when they pass, invokes the submit
// collaborator with the normalized values. A call made while a previous one is
// still pending returns OutcomeBusy without validating. The collaborator's
// error is returned as is.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		c.logger.Debug("form: submit ignored, already submitting", zap.String("form", c.config.ID))
		return OutcomeBusy, nil
	}
	c.submitting = true
	values := model.CloneValues(c.values)
	visible := make(map[string]bool, len(c.visible))
	for name, v := range c.visible {
		visible[name] = v
	}
	c.mu.Unlock()

	result := c.validator.Validate(values, func(name string) bool { return visible[name] })

	c.mu.Lock()
	if !result.Valid() {
		c.errors = result.Errors
		c.submitting = false
		c.mu.Unlock()
		c.logger.Debug("form: validation failed",
			zap.String("form", c.config.ID),
			zap.Int("errors", len(result.Errors)),
		)
		return OutcomeInvalid, nil
	}
	c.errors = validation.FieldErrors{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	if c.onSubmit == nil {
		return OutcomeSubmitted, nil
	}
	if err := c.onSubmit(ctx, result.Values); err != nil {
		c.logger.Debug("form: submit collaborator failed", zap.String("form", c.config.ID), zap.Error(err))
		return OutcomeSubmitted, err
	}
	return OutcomeSubmitted, nil
}

// Cancel invokes the cancel collaborator, if any, and then resets the form.
func (c *Controller) Cancel(ctx context.Context) {
	if c.onCancel != nil {
		c.onCancel(ctx)
	}
	c.Reset()
}

// Reset restores the initial values and clears errors. The submitting flag is
// left alone so a pending submission still guards against re-entry.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initialize()
}

// State returns a copy of the current state.
func (c *Controller) State() model.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := make(map[string]string, len(c.errors))
	for name, msg := range c.errors {
		errs[name] = msg
	}
	return model.FormState{
		Values:     model.CloneValues(c.values),
		Errors:     errs,
		Submitting: c.submitting,
	}
}

// Value returns the current raw value of name.
func (c *Controller) Value(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[name]
	return value, ok
}

// Errors returns a copy of the errors recorded by the last validation run.
func (c *Controller) Errors() validation.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(validation.FieldErrors, len(c.errors))
	for name, msg := range c.errors {
		out[name] = msg
	}
	return out
}

// FirstError returns the first error in declaration order, handy for moving
// focus after a failed submit.
func (c *Controller) FirstError() (validation.Issue, bool) {
	return c.Errors().First(c.config.Fields)
}

// Submitting reports whether a submission is pending.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Visible reports whether name is currently visible. Unknown names are not.
func (c *Controller) Visible(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible[name]
}

// VisibleFields lists the currently visible fields in declaration order.
func (c *Controller) VisibleFields() []model.FieldConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.FieldConfig, 0, len(c.config.Fields))
	for _, field := range c.config.Fields {
		if c.visible[field.Name] {
			out = append(out, field)
		}
	}
	return out
}

// Render invokes the registered renderer for every visible field, in
// declaration order. Visibility is read again before each field so an
// interactive renderer that changes a value through OnChange immediately
// shows or hides later fields.
func (c *Controller) Render(ctx context.Context) ([]render.Rendered, error) {
	out := make([]render.Rendered, 0, len(c.config.Fields))
	for _, field := range c.config.Fields {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		c.mu.Lock()
		visible := c.visible[field.Name]
		value := c.values[field.Name]
		msg := c.errors[field.Name]
		c.mu.Unlock()
		if !visible {
			continue
		}

		desc := c.registry.Lookup(field.Type)
		renderer, ok := c.registry.Renderer(desc.Type)
		if !ok {
			return out, fmt.Errorf("%w: %s", ErrNoRenderer, desc.Type)
		}
		field.Type = desc.Type

		element, err := renderer.RenderField(ctx, render.FieldContext{
			Field:    field,
			Value:    value,
			Error:    msg,
			OnChange: c.changeFunc(field),
		})
		if err != nil {
			return out, fmt.Errorf("form: render %s: %w", field.Name, err)
		}
		out = append(out, render.Rendered{Name: field.Name, Element: element})
	}
	return out, nil
}

func (c *Controller) changeFunc(field model.FieldConfig) render.ChangeFunc {
	return func(value any) {
		if field.Disabled {
			return
		}
		if err := c.SetValue(field.Name, value); err != nil {
			c.logger.Warn("form: change rejected", zap.String("field", field.Name), zap.Error(err))
		}
	}
}
