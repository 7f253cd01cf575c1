package render

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Element is the opaque output of a field renderer. HTML renderers return
// markup; interactive renderers may return nothing at all.
type Element []byte

// ChangeFunc reports a new raw value for the field being rendered.
type ChangeFunc func(value any)

// FieldContext carries everything a renderer needs for one field.
type FieldContext struct {
	Field    model.FieldConfig
	Value    any
	Error    string
	OnChange ChangeFunc
}

// FieldRenderer is the rendering capability registered per field type. The
// engine never inspects the returned element; it only relies on OnChange being
// called with a raw value compatible with the field's coercion rule.
type FieldRenderer interface {
	RenderField(ctx context.Context, field FieldContext) (Element, error)
}

// FieldRendererFunc adapts a function into a FieldRenderer.
type FieldRendererFunc func(ctx context.Context, field FieldContext) (Element, error)

// RenderField calls the underlying function.
func (fn FieldRendererFunc) RenderField(ctx context.Context, field FieldContext) (Element, error) {
	return fn(ctx, field)
}

// Rendered pairs a field name with its rendered element.
type Rendered struct {
	Name    string
	Element Element
}
