package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoTarget is returned by Fill when no target is given.
	ErrNoTarget = errors.New("tui: fill target is nil")
	// ErrIncomplete is returned by Fill when the form is still invalid after
	// the fix-up passes.
	ErrIncomplete = errors.New("tui: form is still invalid")
)
