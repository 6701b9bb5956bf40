package view

import (
	"sync"
	"sync/atomic"
)

// Binder carries the replaceable policies of a binding. The zero value
// uses the defaults: propagate on value inequality, combine by taking
// the most recently changed source, lifetime derived from the target's
// disposal signal.
type Binder[T any] struct {
	// Propagate decides, immediately before a write to the receiving
	// side, whether the incoming value is applied. It is the explicit
	// feedback-loop guard: with the default !Equal policy an A-to-B
	// write comes back to A carrying A's own value and stops there.
	// Replacing the policy replaces loop prevention too, so a custom
	// policy must still answer false for already-applied values.
	Propagate func(current, incoming T) bool

	// Combine derives the target value from the current source values
	// after source changed emitted. It applies to multi-source
	// bindings; the default returns values[changed].
	Combine func(values []T, changed int) T

	// Lifetime governs teardown. When nil, the target must implement
	// Disposer so the binding can follow its node; a headless target
	// without a lifetime is a usage error.
	Lifetime Lifetime
}

// Bind keeps target and source mutually consistent until a lifetime
// resolves. The target is initialized from the source's current value
// before Bind returns; afterwards a change on either side propagates to
// the other. The optional lifetime argument overrides derivation from
// the target's disposal signal.
//
// Several independent bindings may share a target; each manages only
// its own subscriptions.
func Bind[T any](target, source View[T], lifetime ...Lifetime) error {
	return binderWith[T](lifetime).Bind(target, source)
}

// BindMany synchronizes target with several sources. With exactly one
// source it behaves like Bind, bidirectionally; with more, values fan
// in to the target and nothing is ever written back to a source.
func BindMany[T any](target View[T], sources []View[T], lifetime ...Lifetime) error {
	return binderWith[T](lifetime).BindMany(target, sources)
}

func binderWith[T any](lifetime []Lifetime) Binder[T] {
	var b Binder[T]
	if len(lifetime) > 0 {
		b.Lifetime = lifetime[0]
	}
	return b
}

// Bind applies the binder's policies to a single-source binding.
func (b Binder[T]) Bind(target, source View[T]) error {
	if target == source {
		return ErrSelfBind
	}
	lt, err := b.lifetime(target)
	if err != nil {
		return err
	}
	propagate := b.propagate()

	bd := newBinding(lt)
	gate := func(dst View[T], v T) error {
		if !propagate(dst.Value(), v) {
			return nil
		}
		return dst.SetValue(v)
	}

	// Initialize as if the source had just emitted. A failure here is
	// the caller's synchronous error; no subscriptions exist yet.
	if err := gate(target, source.Value()); err != nil {
		return err
	}

	bd.add(
		source.Listen(func() error {
			if bd.expired() {
				return nil
			}
			return gate(target, source.Value())
		}),
		target.Listen(func() error {
			if bd.expired() {
				return nil
			}
			return gate(source, target.Value())
		}),
	)
	go bd.await()
	return nil
}

// BindMany applies the binder's policies to a fan-in binding.
func (b Binder[T]) BindMany(target View[T], sources []View[T]) error {
	if len(sources) == 0 {
		return ErrNoSources
	}
	for _, s := range sources {
		if s == target {
			return ErrSelfBind
		}
	}
	if len(sources) == 1 {
		return b.Bind(target, sources[0])
	}

	lt, err := b.lifetime(target)
	if err != nil {
		return err
	}
	propagate := b.propagate()
	combine := b.Combine
	if combine == nil {
		combine = func(values []T, changed int) T { return values[changed] }
	}

	bd := newBinding(lt)
	apply := func(changed int) error {
		values := make([]T, len(sources))
		for i, s := range sources {
			values[i] = s.Value()
		}
		v := combine(values, changed)
		if !propagate(target.Value(), v) {
			return nil
		}
		return target.SetValue(v)
	}

	// Initialize as if the first source had just emitted.
	if err := apply(0); err != nil {
		return err
	}

	for i, s := range sources {
		i := i
		bd.add(s.Listen(func() error {
			if bd.expired() {
				return nil
			}
			return apply(i)
		}))
	}
	go bd.await()
	return nil
}

func (b Binder[T]) propagate() func(current, incoming T) bool {
	if b.Propagate != nil {
		return b.Propagate
	}
	return func(current, incoming T) bool {
		return !Equal(current, incoming)
	}
}

func (b Binder[T]) lifetime(target View[T]) (Lifetime, error) {
	if b.Lifetime != nil {
		return b.Lifetime, nil
	}
	d, ok := target.(Disposer)
	if !ok {
		return nil, ErrNoLifetime
	}
	ch, err := d.Disposal()
	if err != nil {
		return nil, err
	}
	return Lifetime(ch), nil
}

// binding is the ephemeral state of one Bind or BindMany call: the
// cancel functions for its subscriptions and the lifetime that ends it.
// It has no identity beyond those subscriptions.
type binding struct {
	lifetime Lifetime
	done     atomic.Bool
	mu       sync.Mutex
	cancels  []func()
}

func newBinding(lt Lifetime) *binding {
	return &binding{lifetime: lt}
}

// expired reports whether the binding is past its lifetime. It is
// checked synchronously at the head of every propagation, so the first
// change after the lifetime resolves is already inert regardless of
// when the release goroutine runs; release is kicked eagerly here too
// so the subscriptions drop without waiting for it.
func (bd *binding) expired() bool {
	if bd.done.Load() {
		return true
	}
	if bd.lifetime.Resolved() {
		bd.release()
		return true
	}
	return false
}

func (bd *binding) add(cancels ...func()) {
	bd.mu.Lock()
	if bd.done.Load() {
		bd.mu.Unlock()
		for _, cancel := range cancels {
			cancel()
		}
		return
	}
	bd.cancels = append(bd.cancels, cancels...)
	bd.mu.Unlock()
}

func (bd *binding) await() {
	<-bd.lifetime
	bd.release()
}

// release removes every subscription the binding created. Idempotent;
// safe from inside a notification handler, since emitter cancellation
// marks registrations rather than mutating a pass in flight.
func (bd *binding) release() {
	if bd.done.Swap(true) {
		return
	}
	bd.mu.Lock()
	cancels := bd.cancels
	bd.cancels = nil
	bd.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}
