package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formflow/pkg/fieldtypes"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
)

// Renderer is a render.FieldRenderer that asks for each field on the
// terminal and reports the answer through OnChange. The returned element is a
// one line "label: answer" summary.
type Renderer struct {
	driver   PromptDriver
	theme    Theme
	pageSize int
}

var _ render.FieldRenderer = (*Renderer)(nil)

// New constructs a TUI renderer backed by survey unless a driver is supplied.
func New(options ...Option) *Renderer {
	r := &Renderer{
		theme: Theme{ErrorPrefix: "! "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Registry returns a field type registry that renders every type with r.
func (r *Renderer) Registry(options ...fieldtypes.Option) *fieldtypes.Registry {
	return fieldtypes.New(append([]fieldtypes.Option{fieldtypes.WithFallbackRenderer(r)}, options...)...)
}

// RenderField prompts for a single field. Disabled fields are shown but not
// asked for.
func (r *Renderer) RenderField(ctx context.Context, fc render.FieldContext) (render.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	field := fc.Field
	label := field.DisplayLabel()

	if fc.Error != "" {
		if err := r.driver.Notify(ctx, r.theme.ErrorPrefix+label+": "+fc.Error); err != nil {
			return nil, err
		}
	}
	if field.Disabled {
		line := label + ": " + displayValue(fc.Value)
		return render.Element(line), r.driver.Notify(ctx, r.theme.InfoPrefix+line)
	}

	prompt, err := r.promptFor(field, label, fc.Value)
	if err != nil {
		return nil, err
	}
	answer, err := r.driver.Ask(ctx, prompt)
	if err != nil {
		return nil, err
	}
	value, shown, err := decodeAnswer(field, prompt, answer)
	if err != nil {
		return nil, err
	}
	if fc.OnChange != nil {
		fc.OnChange(value)
	}
	return render.Element(label + ": " + shown), nil
}

// promptFor derives the question for a field from its type and current value.
func (r *Renderer) promptFor(field model.FieldConfig, label string, current any) (Prompt, error) {
	prompt := Prompt{
		Field:    field.Name,
		Message:  label,
		Help:     field.HelperText,
		Selected: -1,
	}
	if prompt.Help == "" {
		prompt.Help = field.Placeholder
	}

	switch field.Type.Normalize() {
	case model.FieldTypeCheckbox:
		coerced, _ := fieldtypes.CheckboxRule(current)
		prompt.Kind = PromptConfirm
		prompt.Checked, _ = coerced.(bool)
	case model.FieldTypeSelect, model.FieldTypeRadio:
		if len(field.Options) == 0 {
			return Prompt{}, fmt.Errorf("%w: %s", ErrNoOptions, field.Name)
		}
		prompt.Kind = PromptChoice
		prompt.PageSize = r.pageSize
		selected := displayValue(current)
		for i, opt := range field.Options {
			prompt.Choices = append(prompt.Choices, opt.DisplayLabel())
			if opt.Value == selected && prompt.Selected < 0 {
				prompt.Selected = i
			}
		}
	case model.FieldTypePassword:
		prompt.Kind = PromptSecret
	case model.FieldTypeTextarea:
		prompt.Kind = PromptMultiline
		prompt.Default = displayValue(current)
	default:
		prompt.Kind = PromptLine
		prompt.Default = displayValue(current)
	}
	return prompt, nil
}

// decodeAnswer maps the driver's reply back to a raw field value and the text
// shown in the summary line.
func decodeAnswer(field model.FieldConfig, prompt Prompt, answer Answer) (any, string, error) {
	switch prompt.Kind {
	case PromptConfirm:
		return answer.Checked, strconv.FormatBool(answer.Checked), nil
	case PromptChoice:
		idx := answer.Choice
		if idx < 0 || idx >= len(field.Options) {
			return nil, "", fmt.Errorf("tui: invalid selection %d for %s", idx, field.Name)
		}
		return field.Options[idx].Value, prompt.Choices[idx], nil
	case PromptSecret:
		return answer.Text, strings.Repeat("*", utf8.RuneCountInString(answer.Text)), nil
	default:
		return answer.Text, answer.Text, nil
	}
}

func displayValue(value any) string {
	if value == nil {
		return ""
	}
	if n, ok := model.AsFloat(value); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}

// Serialize encodes submitted values in the requested format.
func Serialize(values map[string]any, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range values {
			form.Set(key, displayValue(value))
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			fmt.Fprintf(&b, "%s=%s\n", key, displayValue(values[key]))
		}
		return []byte(b.String()), nil
	case OutputFormatJSON, "":
		return json.MarshalIndent(values, "", "  ")
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", format)
	}
}
