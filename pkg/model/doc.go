// Package model defines the declarative form document consumed by the rest of
// the engine. A FormConfig is author-written data: an ordered list of
// FieldConfig entries plus display metadata. Field types form a closed set;
// unknown tags degrade to text rather than failing. Validation constraints
// carry an optional author message and may be written either as
// `{value, message}` objects or with the bare value shorthand
// (`minLength: 5`) in JSON, YAML and TOML documents.
package model
