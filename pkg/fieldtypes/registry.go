package fieldtypes

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
)

// Descriptor bundles the coercion rule and the renderer for one type. Renderer
// is nil when the registry carries no rendering capability for the type.
type Descriptor struct {
	Type     model.FieldType
	Rule     Rule
	Renderer render.FieldRenderer
}

// Option configures a Registry during construction.
type Option func(*Registry)

// WithRenderer registers a renderer for a single type. Unknown tags are
// ignored since they can never be looked up.
func WithRenderer(fieldType model.FieldType, renderer render.FieldRenderer) Option {
	return func(r *Registry) {
		_ = r.RegisterRenderer(fieldType, renderer)
	}
}

// WithFallbackRenderer sets the renderer used for types without a dedicated
// registration.
func WithFallbackRenderer(renderer render.FieldRenderer) Option {
	return func(r *Registry) {
		r.fallback = renderer
	}
}

// WithRule overrides the coercion rule for a known type.
func WithRule(fieldType model.FieldType, rule Rule) Option {
	return func(r *Registry) {
		_ = r.RegisterRule(fieldType, rule)
	}
}

// Registry resolves descriptors by type tag. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	rules     map[model.FieldType]Rule
	renderers map[model.FieldType]render.FieldRenderer
	fallback  render.FieldRenderer
}

// New constructs a registry seeded with the built-in coercion rules.
func New(options ...Option) *Registry {
	reg := &Registry{
		rules:     builtinRules(),
		renderers: make(map[model.FieldType]render.FieldRenderer),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(reg)
	}
	return reg
}

// RegisterRenderer associates a renderer with a known type, replacing any
// previous registration.
func (r *Registry) RegisterRenderer(fieldType model.FieldType, renderer render.FieldRenderer) error {
	if renderer == nil {
		return fmt.Errorf("fieldtypes: renderer for %q is nil", fieldType)
	}
	if !fieldType.Known() {
		return fmt.Errorf("fieldtypes: unknown field type %q", fieldType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[fieldType.Normalize()] = renderer
	return nil
}

// RegisterRule replaces the coercion rule of a known type.
func (r *Registry) RegisterRule(fieldType model.FieldType, rule Rule) error {
	if rule == nil {
		return fmt.Errorf("fieldtypes: rule for %q is nil", fieldType)
	}
	if !fieldType.Known() {
		return fmt.Errorf("fieldtypes: unknown field type %q", fieldType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[fieldType.Normalize()] = rule
	return nil
}

// Lookup returns the descriptor for a tag. Unknown or empty tags resolve to
// the text descriptor.
func (r *Registry) Lookup(fieldType model.FieldType) Descriptor {
	resolved := fieldType.Normalize()
	if r == nil {
		return Descriptor{Type: resolved, Rule: builtinRules()[resolved]}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rule := r.rules[resolved]
	if rule == nil {
		rule = StringRule
	}
	renderer := r.renderers[resolved]
	if renderer == nil {
		renderer = r.fallback
	}
	return Descriptor{Type: resolved, Rule: rule, Renderer: renderer}
}

// Rule is shorthand for Lookup(fieldType).Rule.
func (r *Registry) Rule(fieldType model.FieldType) Rule {
	return r.Lookup(fieldType).Rule
}

// Renderer returns the renderer for a tag, reporting false when neither a
// dedicated nor a fallback renderer is registered.
func (r *Registry) Renderer(fieldType model.FieldType) (render.FieldRenderer, bool) {
	renderer := r.Lookup(fieldType).Renderer
	return renderer, renderer != nil
}
