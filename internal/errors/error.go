package errors

import "fmt"

// Category groups CLI errors by the subsystem that produced them.
type Category string

const (
	CategoryConfig Category = "config"
	CategoryServe  Category = "serve"
	CategoryBuild  Category = "build"
	CategoryDeploy Category = "deploy"
	CategoryCLI    Category = "cli"
)

// CLIError is a structured error for terminal display: a short message,
// an optional longer detail, and a hint line telling the user what to
// do about it.
type CLIError struct {
	// Category is the subsystem the error belongs to.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Hint tells the user how to fix the error.
	Hint string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *CLIError) WithDetail(d string) *CLIError {
	e.Detail = d
	return e
}

// WithHint adds a fix suggestion to the error.
func (e *CLIError) WithHint(h string) *CLIError {
	e.Hint = h
	return e
}

// Wrap wraps another error.
func (e *CLIError) Wrap(err error) *CLIError {
	e.Wrapped = err
	return e
}

// New creates a CLIError in the given category.
func New(category Category, message string) *CLIError {
	return &CLIError{Category: category, Message: message}
}

// Newf creates a CLIError with a formatted message.
func Newf(category Category, format string, args ...any) *CLIError {
	return &CLIError{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FromError wraps a standard error in a CLIError. An error that already
// is one passes through unchanged.
func FromError(err error, category Category, message string) *CLIError {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*CLIError); ok {
		return ce
	}
	return New(category, message).Wrap(err)
}
