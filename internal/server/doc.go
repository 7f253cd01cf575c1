// Package server exposes the forms of a loader.Store over HTTP. Every request
// gets a fresh form.Controller: posted values seed it, Submit validates them
// and accepted submissions are handed to a Sink.
package server
