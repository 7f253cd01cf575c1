// Package cli implements the formflow command line: lint, validate, render,
// fill, import-openapi and serve.
package cli
