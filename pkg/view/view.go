package view

// Handler is a change-notification callback. It receives no payload;
// reading the view's value inside the handler yields the new value. A
// non-nil error is collected by the setter that triggered the dispatch
// and returned to its caller.
type Handler func() error

// Listenable is the notification half of the View contract.
type Listenable interface {
	// Listen registers fn for change notification and returns a cancel
	// function that removes the registration. Cancel is idempotent.
	Listen(fn Handler) (cancel func())
}

// View is the capability contract shared by every widget and by the
// Input store. Polymorphism is structural: implementations are
// unrelated types that each provide a value, a notifying setter, and
// listener registration.
type View[T any] interface {
	Listenable

	// Value returns the current value.
	Value() T

	// SetValue stores v and synchronously notifies listeners exactly
	// once. Implementations with their own constraints return a
	// validation error and leave the value unchanged; errors returned
	// by listeners during the notification pass are joined into the
	// result.
	SetValue(v T) error
}

// Disposer is implemented by views whose lifetime is governed by a
// document node. Bind derives its teardown signal from it when the
// caller supplies no explicit lifetime.
type Disposer interface {
	// Disposal returns a one-shot channel that closes when the view's
	// node leaves its document. A node that is not attached yields an
	// already-closed channel. The error reports a document that cannot
	// observe mutations.
	Disposal() (<-chan struct{}, error)
}
