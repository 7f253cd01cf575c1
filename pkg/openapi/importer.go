package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/model"
)

var (
	// ErrOperationNotFound is returned when no operation matches the requested id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when the operation has no object request body.
	ErrNoRequestBody = errors.New("openapi: operation has no object request body")
)

const (
	extOrder       = "x-formgen-order"
	extWidget      = "x-formgen-widget"
	extLabel       = "x-formgen-label"
	extPlaceholder = "x-formgen-placeholder"
	extOptions     = "x-formgen-options"
	extMessages    = "x-formgen-messages"
	extCondition   = "x-formgen-condition"
	extLayout      = "x-formgen-layout"
)

var mediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Operation summarises an operation found in a document.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
}

// Option customises an Importer.
type Option func(*Importer)

// WithLogger attaches a logger for skipped properties.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithExternalRefs allows $ref to point outside the document.
func WithExternalRefs(allowed bool) Option {
	return func(i *Importer) {
		i.externalRefs = allowed
	}
}

// Importer turns OpenAPI operations into form documents.
type Importer struct {
	logger       *zap.Logger
	externalRefs bool
}

// NewImporter constructs an Importer.
func NewImporter(options ...Option) *Importer {
	i := &Importer{logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

type located struct {
	Operation
	op *openapi3.Operation
}

func (i *Importer) load(ctx context.Context, data []byte) ([]located, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("openapi: document is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.externalRefs,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if spec.Paths == nil {
		return nil, nil
	}

	var out []located
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			out = append(out, located{
				Operation: Operation{ID: id, Method: method, Path: path, Summary: op.Summary},
				op:        op,
			})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

// Operations lists every operation in the document, sorted by id.
func (i *Importer) Operations(ctx context.Context, data []byte) ([]Operation, error) {
	found, err := i.load(ctx, data)
	if err != nil {
		return nil, err
	}
	out := make([]Operation, 0, len(found))
	for _, entry := range found {
		out = append(out, entry.Operation)
	}
	return out, nil
}

// Import builds a FormConfig from the request body of operationID. The id may
// be an operationId or the "method:/path" form used for anonymous operations.
func (i *Importer) Import(ctx context.Context, data []byte, operationID string) (model.FormConfig, error) {
	found, err := i.load(ctx, data)
	if err != nil {
		return model.FormConfig{}, err
	}
	for _, entry := range found {
		if entry.ID != operationID {
			continue
		}
		schema := requestSchema(entry.op.RequestBody)
		if schema == nil || !schema.Type.Is(openapi3.TypeObject) && len(schema.Properties) == 0 {
			return model.FormConfig{}, fmt.Errorf("%w: %s", ErrNoRequestBody, operationID)
		}
		config := model.FormConfig{
			ID:          entry.ID,
			Title:       entry.op.Summary,
			Description: entry.op.Description,
			Layout:      model.Layout(stringExt(entry.op.Extensions, extLayout)),
			Fields:      i.fields(schema),
		}
		return config, nil
	}
	return model.FormConfig{}, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range mediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

type candidate struct {
	field    model.FieldConfig
	order    float64
	hasOrder bool
}

func (i *Importer) fields(schema *openapi3.Schema) []model.FieldConfig {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	candidates := make([]candidate, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		if prop.Type.Is(openapi3.TypeObject) || prop.Type.Is(openapi3.TypeArray) {
			i.logger.Warn("openapi: skipping nested property", zap.String("property", name))
			continue
		}
		c := candidate{field: i.field(name, prop, required[name])}
		c.order, c.hasOrder = numberExt(prop.Extensions, extOrder)
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.hasOrder != cb.hasOrder {
			return ca.hasOrder
		}
		if ca.hasOrder && ca.order != cb.order {
			return ca.order < cb.order
		}
		if ca.field.Required != cb.field.Required {
			return ca.field.Required
		}
		return ca.field.Name < cb.field.Name
	})

	out := make([]model.FieldConfig, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.field)
	}
	return out
}

func (i *Importer) field(name string, prop *openapi3.Schema, required bool) model.FieldConfig {
	field := model.FieldConfig{
		Name:         name,
		Type:         fieldType(prop),
		Label:        prop.Title,
		Placeholder:  stringExt(prop.Extensions, extPlaceholder),
		HelperText:   prop.Description,
		Required:     required,
		DefaultValue: prop.Default,
		Disabled:     prop.ReadOnly,
	}
	if field.Label == "" {
		field.Label = stringExt(prop.Extensions, extLabel)
	}
	if field.Label == "" {
		field.Label = humanize(name)
	}

	if len(prop.Enum) > 0 {
		labels, _ := prop.Extensions[extOptions].(map[string]any)
		for _, value := range prop.Enum {
			text := fmt.Sprint(value)
			label, _ := labels[text].(string)
			field.Options = append(field.Options, model.Option{Value: text, Label: label})
		}
	}

	field.Validation = validation(prop, field.Type)

	if raw, ok := prop.Extensions[extCondition]; ok {
		cond, err := decodeCondition(raw)
		if err != nil {
			i.logger.Warn("openapi: ignoring malformed condition", zap.String("property", name), zap.Error(err))
		} else {
			field.Condition = cond
		}
	}
	return field
}

func fieldType(prop *openapi3.Schema) model.FieldType {
	if widget := model.FieldType(stringExt(prop.Extensions, extWidget)); widget.Known() {
		return widget.Normalize()
	}
	// Enums win over the scalar type so the options are kept.
	switch {
	case len(prop.Enum) > 0:
		return model.FieldTypeSelect
	case prop.Type.Is(openapi3.TypeBoolean):
		return model.FieldTypeCheckbox
	case prop.Type.Is(openapi3.TypeInteger), prop.Type.Is(openapi3.TypeNumber):
		return model.FieldTypeNumber
	}
	switch strings.ToLower(prop.Format) {
	case "email":
		return model.FieldTypeEmail
	case "password":
		return model.FieldTypePassword
	case "date", "date-time":
		return model.FieldTypeDate
	case "tel", "phone":
		return model.FieldTypeTel
	}
	return model.FieldTypeText
}

func validation(prop *openapi3.Schema, fieldType model.FieldType) *model.Validation {
	messages := map[string]string{}
	if raw, ok := prop.Extensions[extMessages].(map[string]any); ok {
		for key, value := range raw {
			if text, ok := value.(string); ok {
				messages[key] = text
			}
		}
	}

	v := &model.Validation{
		RequiredMessage: messages["required"],
		InvalidMessage:  messages["invalid"],
	}
	if fieldType.Numeric() {
		if prop.Min != nil {
			v.Min = model.NewRule(*prop.Min, messages["min"])
		}
		if prop.Max != nil {
			v.Max = model.NewRule(*prop.Max, messages["max"])
		}
	} else if !fieldType.Boolean() {
		if prop.MinLength > 0 {
			v.MinLength = model.NewRule(int(prop.MinLength), messages["minLength"])
		}
		if prop.MaxLength != nil {
			v.MaxLength = model.NewRule(int(*prop.MaxLength), messages["maxLength"])
		}
		if prop.Pattern != "" {
			v.Pattern = model.NewRule(prop.Pattern, messages["pattern"])
		}
	}

	if *v == (model.Validation{}) {
		return nil
	}
	return v
}

func decodeCondition(raw any) (*model.Condition, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var cond model.Condition
	if err := json.Unmarshal(data, &cond); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cond.Field) == "" {
		return nil, errors.New("condition field is required")
	}
	return &cond, nil
}

func stringExt(ext map[string]any, key string) string {
	value, _ := ext[key].(string)
	return strings.TrimSpace(value)
}

func numberExt(ext map[string]any, key string) (float64, bool) {
	return model.AsFloat(ext[key])
}

// humanize turns "monthlyIncome" or "monthly_income" into "Monthly income".
func humanize(name string) string {
	var b strings.Builder
	for idx, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case idx == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
