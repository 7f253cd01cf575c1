package form

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/fieldtypes"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// SubmitFunc receives the normalized values of a successful validation pass.
// The returned error is passed back to the caller of Submit unchanged.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// CancelFunc is invoked by Cancel before the form is reset.
type CancelFunc func(ctx context.Context)

// Option customises a Controller.
type Option func(*Controller)

// WithRegistry injects the field type registry used for coercion and
// rendering. Defaults to fieldtypes.New().
func WithRegistry(registry *fieldtypes.Registry) Option {
	return func(c *Controller) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithSubmit registers the submit collaborator.
func WithSubmit(fn SubmitFunc) Option {
	return func(c *Controller) {
		c.onSubmit = fn
	}
}

// WithCancel registers the cancel collaborator.
func WithCancel(fn CancelFunc) Option {
	return func(c *Controller) {
		c.onCancel = fn
	}
}

// WithEvaluator replaces the condition based visibility evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(c *Controller) {
		if evaluator != nil {
			c.evaluator = evaluator
		}
	}
}

// WithMessages overrides the generic validation messages.
func WithMessages(messages validation.Messages) Option {
	return func(c *Controller) {
		c.messages = &messages
	}
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}
