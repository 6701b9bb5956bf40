package widget

import (
	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/view"
)

// Button is a push button whose value is reduced from its previous value
// on every click. The default reduction counts clicks.
type Button[T any] struct {
	base
	*view.Input[T]
	reduce func(T) T
}

// NewButton builds a click counter: its value starts at zero and each
// click increments it. Every click notifies, even when a custom
// reduction returns an unchanged value.
func NewButton(label string, opts ...Option) *Button[int] {
	return NewButtonValue(label, 0, func(n int) int { return n + 1 }, opts...)
}

// NewButtonValue builds a button over an arbitrary value type. Each click
// replaces the value with reduce(previous).
func NewButtonValue[T any](label string, initial T, reduce func(T) T, opts ...Option) *Button[T] {
	o := applyOptions(opts)
	b := &Button[T]{
		Input:  view.NewInput(initial),
		reduce: reduce,
	}

	control := dom.Button(dom.Type("button"), label)
	control.On("click", func(dom.Event) error { return b.Click() })
	b.init("button", control, o)
	return b
}

// Click applies the reduction to the current value and notifies.
func (b *Button[T]) Click() error {
	return b.Input.SetValue(b.reduce(b.Input.Value()))
}
