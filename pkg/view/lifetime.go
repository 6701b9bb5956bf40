package view

import (
	"context"
	"sync"
)

// Lifetime is a one-shot teardown token: the channel closes when the
// lifetime resolves, and a resolved lifetime stays resolved. Any
// channel the caller will close exactly once works, including a
// context's Done channel or a dom disposal signal.
type Lifetime <-chan struct{}

// NewLifetime returns a lifetime and the function that resolves it.
// The resolve function is idempotent.
func NewLifetime() (Lifetime, func()) {
	ch := make(chan struct{})
	var once sync.Once
	return ch, func() {
		once.Do(func() { close(ch) })
	}
}

// LifetimeFromContext derives a lifetime that resolves when ctx is
// cancelled.
func LifetimeFromContext(ctx context.Context) Lifetime {
	return Lifetime(ctx.Done())
}

// Resolved reports whether the lifetime has fired. A nil lifetime never
// resolves.
func (lt Lifetime) Resolved() bool {
	if lt == nil {
		return false
	}
	select {
	case <-lt:
		return true
	default:
		return false
	}
}
