// Package testsupport holds fixture and golden-file helpers shared by tests.
// Set UPDATE_GOLDENS=1 to rewrite golden files from the current output.
package testsupport
