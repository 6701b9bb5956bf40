package widget

import (
	"errors"
	"fmt"
)

// Validation rules. These are wrapped in a *ValidationError so callers can
// match the rule with errors.Is and still see which widget rejected what.
var (
	// ErrUnknownOption rejects a value that is not one of the widget's
	// configured options.
	ErrUnknownOption = errors.New("value is not one of the options")

	// ErrNotANumber rejects NaN and unparseable numeric input.
	ErrNotANumber = errors.New("value is not a number")

	// ErrOutOfRange rejects a number outside the configured min/max.
	ErrOutOfRange = errors.New("value is out of range")

	// ErrBadColor rejects a string that is neither a hex color nor a
	// recognized color name.
	ErrBadColor = errors.New("value is not a color")

	// ErrBadDate rejects a string that does not parse as a date.
	ErrBadDate = errors.New("value is not a date")

	// ErrTooLong rejects text over the configured maximum length.
	ErrTooLong = errors.New("value exceeds maximum length")

	// ErrReadOnly rejects writes to a derived value.
	ErrReadOnly = errors.New("value is derived and read-only")

	// ErrBadUpload rejects a change event that does not carry a file
	// descriptor from the upload endpoint.
	ErrBadUpload = errors.New("value is not an upload descriptor")

	// ErrUnknownField rejects a form value addressed to no field.
	ErrUnknownField = errors.New("no such field")

	// ErrUnknownRow rejects a row that is not part of the table.
	ErrUnknownRow = errors.New("row is not part of the table")
)

// ValidationError reports a value a widget refused. The widget's previous
// value stays in place; nothing is rolled back elsewhere.
type ValidationError struct {
	Widget string // widget kind, e.g. "range"
	Value  any    // the rejected value
	Err    error  // the rule that rejected it
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("widget: %s rejected %v: %v", e.Widget, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// rejected wraps a rule into a ValidationError.
func rejected(widget string, value any, rule error) error {
	return &ValidationError{Widget: widget, Value: value, Err: rule}
}
