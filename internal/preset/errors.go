package preset

import (
	"errors"
	"fmt"
)

// Errors returned by the preset loader.
var (
	// ErrNotTable indicates a script that does not return a table.
	ErrNotTable = errors.New("preset script must return a table")

	// ErrUnknownField indicates a preset key that is not recognised.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidValue indicates a field value of the wrong type or range.
	ErrInvalidValue = errors.New("invalid value")

	// ErrNotFound indicates a missing preset name.
	ErrNotFound = errors.New("preset not found")
)

// Error describes a failure in a preset script.
type Error struct {
	// Source names the script, usually its path.
	Source string
	// Preset is the preset name, if the error is specific to one.
	Preset string
	// Field is the preset field, if the error is specific to one.
	Field string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("preset %s in %s: field %s: %v", e.Preset, e.Source, e.Field, e.Err)
	case e.Preset != "":
		return fmt.Sprintf("preset %s in %s: %v", e.Preset, e.Source, e.Err)
	default:
		return fmt.Sprintf("presets %s: %v", e.Source, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
