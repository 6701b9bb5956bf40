package view

import "sync"

// Input is a headless View: a mutable value slot with change
// notification and no visual representation. It is the authoritative
// value holder when no widget is a natural primary, and the usual hub
// for fanning one value out to several widgets.
//
// The value slot is unexported; the only mutation path is SetValue, so
// the store cannot get out of sync with its notifications.
type Input[T any] struct {
	mu      sync.RWMutex
	value   T
	emitter Emitter
}

// NewInput returns an Input holding initial.
func NewInput[T any](initial T) *Input[T] {
	return &Input[T]{value: initial}
}

// Value returns the current value.
func (in *Input[T]) Value() T {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.value
}

// SetValue stores v, then notifies every listener exactly once before
// returning. There is no equality gate: setting the current value again
// still notifies. Suppressing redundant propagation is a binding
// policy, not a store concern.
func (in *Input[T]) SetValue(v T) error {
	in.mu.Lock()
	in.value = v
	in.mu.Unlock()
	return in.emitter.Emit()
}

// Listen registers fn for change notification.
func (in *Input[T]) Listen(fn Handler) (cancel func()) {
	return in.emitter.Listen(fn)
}
