package html

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/fieldtypes"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
)

// ContentType is the media type of everything the renderer produces.
const ContentType = "text/html; charset=utf-8"

const (
	formTemplate  = "form.tpl"
	fieldTemplate = "field.tpl"
)

// Renderer renders fields as HTML fragments through pongo2 templates. It is
// safe for concurrent use.
type Renderer struct {
	engine      *engine
	partials    map[string]string
	idPrefix    string
	submitLabel string
	logger      *zap.Logger
}

var _ render.FieldRenderer = (*Renderer)(nil)

// FormOptions carries per-request details for RenderForm.
type FormOptions struct {
	// Action is the form's action URL. Empty posts back to the current URL.
	Action string
	// Notice is shown above the fields, typically a submission failure.
	Notice string
	// Hidden inputs emitted before the fields. Entries named like a form
	// field are dropped.
	Hidden []render.HiddenField
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templates:   TemplatesFS(),
		idPrefix:    "ff",
		submitLabel: "Submit",
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	eng, err := newEngine(cfg.templates, pongo2.Context{"theme": themeContext(cfg.theme)})
	if err != nil {
		return nil, fmt.Errorf("html renderer: configure templates: %w", err)
	}

	r := &Renderer{
		engine:      eng,
		idPrefix:    cfg.idPrefix,
		submitLabel: cfg.submitLabel,
		logger:      cfg.logger,
	}
	if cfg.theme != nil {
		r.partials = copyStringMap(cfg.theme.Partials)
	}
	return r, nil
}

// Name identifies the renderer.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the media type of rendered output.
func (r *Renderer) ContentType() string {
	return ContentType
}

// Registry returns a field type registry that renders every type with r.
func (r *Renderer) Registry(options ...fieldtypes.Option) *fieldtypes.Registry {
	return fieldtypes.New(append([]fieldtypes.Option{fieldtypes.WithFallbackRenderer(r)}, options...)...)
}

// RenderField renders one field: label, control, helper text and error.
// OnChange is never called; values come back through a form post.
func (r *Renderer) RenderField(ctx context.Context, fc render.FieldContext) (render.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := r.fieldData(fc)
	kind := controlKind(fc.Field.Type)

	control, err := r.execute("controls."+kind, "controls/"+kind+".tpl", pongo2.Context{"field": data})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render %s control: %w", fc.Field.Name, err)
	}
	markup, err := r.execute("field", fieldTemplate, pongo2.Context{
		"field":   data,
		"control": strings.TrimRight(control, "\n"),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render %s: %w", fc.Field.Name, err)
	}
	return render.Element(strings.TrimRight(markup, "\n")), nil
}

// RenderForm renders the controller's visible fields inside a complete form
// element. The controller must have been built with r.Registry().
func (r *Renderer) RenderForm(ctx context.Context, ctrl *form.Controller, opts FormOptions) ([]byte, error) {
	rendered, err := ctrl.Render(ctx)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}
	fields := make([]string, 0, len(rendered))
	for _, item := range rendered {
		fields = append(fields, string(item.Element))
	}

	cfg := ctrl.Config()
	hidden := make([]map[string]any, 0, len(opts.Hidden))
	for _, field := range render.HiddenFields(opts.Hidden...) {
		if _, clash := cfg.Field(field.Name); clash {
			r.logger.Warn("html renderer: hidden field shadows a form field, dropped",
				zap.String("form", cfg.ID),
				zap.String("field", field.Name),
			)
			continue
		}
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	out, err := r.execute("form", formTemplate, pongo2.Context{
		"form": map[string]any{
			"id":          r.elementID(cfg.ID),
			"title":       cfg.Title,
			"description": cfg.Description,
			"layout":      string(cfg.Layout.Normalize()),
			"action":      opts.Action,
			"notice":      opts.Notice,
			"submitting":  ctrl.Submitting(),
			"submitLabel": r.submitLabel,
		},
		"hidden": hidden,
		"fields": fields,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	return []byte(out), nil
}

// execute renders the theme partial registered under key, falling back to the
// built-in template when the partial is missing or fails.
func (r *Renderer) execute(key, fallback string, data pongo2.Context) (string, error) {
	if path := strings.TrimSpace(r.partials[key]); path != "" && path != fallback {
		out, err := r.engine.render(path, data)
		if err == nil {
			return out, nil
		}
		r.logger.Warn("html renderer: partial failed, using built-in template",
			zap.String("partial", key),
			zap.String("path", path),
			zap.Error(err),
		)
	}
	return r.engine.render(fallback, data)
}

func (r *Renderer) elementID(name string) string {
	name = strings.TrimSpace(name)
	if r.idPrefix == "" {
		return name
	}
	return r.idPrefix + "-" + name
}

func (r *Renderer) fieldData(fc render.FieldContext) map[string]any {
	field := fc.Field
	fieldType := field.Type.Normalize()
	id := r.elementID(field.Name)

	var describedBy []string
	if strings.TrimSpace(field.HelperText) != "" {
		describedBy = append(describedBy, id+"-helper")
	}
	if fc.Error != "" {
		describedBy = append(describedBy, id+"-error")
	}

	data := map[string]any{
		"name":        field.Name,
		"id":          id,
		"type":        string(fieldType),
		"inputType":   string(fieldType),
		"label":       field.DisplayLabel(),
		"labelled":    fieldType != model.FieldTypeCheckbox && fieldType != model.FieldTypeRadio,
		"placeholder": field.Placeholder,
		"helper":      field.HelperText,
		"required":    field.Required,
		"disabled":    field.Disabled,
		"error":       fc.Error,
		"describedBy": strings.Join(describedBy, " "),
		"value":       displayValue(fc.Value),
	}

	switch fieldType {
	case model.FieldTypePassword:
		data["value"] = ""
	case model.FieldTypeCheckbox:
		checked, _ := fieldtypes.CheckboxRule(fc.Value)
		on, _ := checked.(bool)
		data["checked"] = on
	case model.FieldTypeSelect, model.FieldTypeRadio:
		current := displayValue(fc.Value)
		options := make([]map[string]any, 0, len(field.Options))
		for _, opt := range field.Options {
			options = append(options, map[string]any{
				"value":    opt.Value,
				"label":    opt.DisplayLabel(),
				"selected": opt.Value == current,
			})
		}
		data["options"] = options
	}

	if v := field.Validation; v != nil {
		if v.MinLength != nil && v.MinLength.Value > 0 {
			data["minLength"] = strconv.Itoa(v.MinLength.Value)
		}
		if v.MaxLength != nil && v.MaxLength.Value > 0 {
			data["maxLength"] = strconv.Itoa(v.MaxLength.Value)
		}
		if fieldType == model.FieldTypeNumber {
			if v.Min != nil {
				data["min"] = strconv.FormatFloat(v.Min.Value, 'f', -1, 64)
			}
			if v.Max != nil {
				data["max"] = strconv.FormatFloat(v.Max.Value, 'f', -1, 64)
			}
		}
	}
	return data
}

func controlKind(t model.FieldType) string {
	switch t.Normalize() {
	case model.FieldTypeTextarea:
		return "textarea"
	case model.FieldTypeSelect:
		return "select"
	case model.FieldTypeRadio:
		return "radio"
	case model.FieldTypeCheckbox:
		return "checkbox"
	default:
		return "input"
	}
}

func displayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}
	if n, ok := model.AsFloat(value); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	out := map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"tokens":  copyStringMap(cfg.Tokens),
		"style":   cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		out["stylesheet"] = cfg.AssetURL(StylesheetName)
	}
	return out
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
