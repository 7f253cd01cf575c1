// Package openapi derives FormConfig documents from the request body schema
// of an OpenAPI 3 operation. Only flat objects are supported: nested objects
// and arrays are skipped with a warning.
//
// Schemas may steer the result through x-formgen-* extensions:
//
//	x-formgen-order        number, lower values first
//	x-formgen-widget       field type override (textarea, radio, tel, ...)
//	x-formgen-label        label when the schema has no title
//	x-formgen-placeholder  placeholder text
//	x-formgen-options      map of enum value to label
//	x-formgen-messages     map of rule name to message
//	x-formgen-condition    {field, equals, notEquals, includes}
//	x-formgen-layout       operation level layout
package openapi
