package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoOptions is returned when a choice field has nothing to choose from.
	ErrNoOptions = errors.New("tui: field has no options")
	// ErrTooManyAttempts is returned by Fill when validation keeps failing.
	ErrTooManyAttempts = errors.New("tui: too many invalid attempts")
)
