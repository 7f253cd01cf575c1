// Package fieldtypes maps a field's declared type tag to its value coercion
// rule and to the rendering capability used for that type. Registries are
// plain values constructed per form so different forms can carry different
// renderer sets. Lookups never fail: unknown tags resolve to the text
// descriptor.
package fieldtypes
