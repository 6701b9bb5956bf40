package view

import "fmt"

// AnyView is a type-erased View for heterogeneous composition; the form
// widget aggregates fields of different value types through it.
type AnyView interface {
	Listenable

	// AnyValue returns the current value.
	AnyValue() any

	// SetAnyValue sets the value. A dynamic type the underlying view
	// cannot hold is a usage error (ErrTypeMismatch).
	SetAnyValue(v any) error
}

// AsAny wraps a typed view in the AnyView interface.
func AsAny[T any](v View[T]) AnyView {
	return anyAdapter[T]{v: v}
}

type anyAdapter[T any] struct {
	v View[T]
}

func (a anyAdapter[T]) AnyValue() any { return a.v.Value() }

func (a anyAdapter[T]) SetAnyValue(v any) error {
	typed, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: cannot hold %T", ErrTypeMismatch, v)
	}
	return a.v.SetValue(typed)
}

func (a anyAdapter[T]) Listen(fn Handler) (cancel func()) {
	return a.v.Listen(fn)
}
