// Package html renders form fields as server-side HTML through pongo2
// templates. Helper text is sanitized with bluemonday, and a go-theme
// RendererConfig supplies the theme name, variant, CSS variables and
// template partial overrides.
package html
