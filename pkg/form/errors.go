package form

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a name or path does not resolve to a control.
	ErrNotFound = errors.New("form: control not found")
	// ErrTypeMismatch signals a value whose shape cannot be applied to the
	// target control (for example, a string patched onto a group).
	ErrTypeMismatch = errors.New("form: value does not match control kind")
	// ErrShapeMismatch is returned when an array entry does not expose the
	// same child names as the array's canonical entry.
	ErrShapeMismatch = errors.New("form: entry shape does not match array")
	// ErrAlreadyOwned prevents a control from being attached to two containers.
	ErrAlreadyOwned = errors.New("form: control already belongs to a container")
	// ErrNoFactory is returned by Array.Append when no entry factory is set.
	ErrNoFactory = errors.New("form: array has no entry factory")
	// ErrMissingValue is returned by SetValue when a child has no value.
	ErrMissingValue = errors.New("form: missing value for control")
	// ErrLengthMismatch is returned by Array.SetValue when the value length
	// differs from the number of entries.
	ErrLengthMismatch = errors.New("form: value length does not match array")
)

// UnknownControlError reports a patch or set targeting a name that the
// container does not declare. Path is relative to the control the caller
// mutated.
type UnknownControlError struct {
	Path string
}

func (e *UnknownControlError) Error() string {
	return fmt.Sprintf("form: unknown control %q", e.Path)
}

// Is lets callers match UnknownControlError against ErrNotFound.
func (e *UnknownControlError) Is(target error) bool {
	return target == ErrNotFound
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
