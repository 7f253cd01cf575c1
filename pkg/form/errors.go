package form

import "errors"

var (
	// ErrUnknownField is returned when a value targets a name the form does not declare.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrFieldDisabled is returned when a value targets a disabled field.
	ErrFieldDisabled = errors.New("form: field is disabled")
	// ErrNoRenderer is returned by Render when no renderer is registered for a field type.
	ErrNoRenderer = errors.New("form: no renderer registered")
)
