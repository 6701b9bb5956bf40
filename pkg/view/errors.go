package view

import "errors"

// Usage errors. All are reported synchronously by the call that caused
// them, never deferred into a later notification.
var (
	// ErrSelfBind reports a bind call naming the target among its own
	// sources.
	ErrSelfBind = errors.New("view: bind target cannot be one of its own sources")

	// ErrNoSources reports a bind call with an empty source list.
	ErrNoSources = errors.New("view: bind requires at least one source")

	// ErrNoLifetime reports a bind call that omitted the lifetime on a
	// target with no document node to derive one from.
	ErrNoLifetime = errors.New("view: bind requires a lifetime when the target has no document node")

	// ErrTypeMismatch reports a type-erased set whose dynamic type does
	// not match the underlying view.
	ErrTypeMismatch = errors.New("view: value type does not match the view")
)
