// Package loader reads FormConfig documents written in JSON, YAML, TOML or
// HCL and collects them into a Store keyed by form id.
package loader
