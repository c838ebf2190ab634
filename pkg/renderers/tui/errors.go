package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooDeep is returned when a session follows more nested recursive
	// bodies than the renderer allows.
	ErrTooDeep = errors.New("tui: recursion depth exceeded")
)
