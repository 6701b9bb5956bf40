package view

import (
	"errors"
	"sync"
	"sync/atomic"
)

// registration is one listener slot. The removed flag, not list
// membership, decides whether the listener still fires: a dispatch pass
// iterates a snapshot of the list, so cancellation must be visible to a
// pass that already started.
type registration struct {
	fn      Handler
	removed atomic.Bool
}

// Emitter is an ordered list of change listeners with synchronous
// dispatch. The zero value is ready to use.
//
// Guarantees: listeners run in registration order; a listener added
// during a dispatch pass is not invoked until the next pass; a listener
// cancelled during a pass is skipped even if the pass has not reached
// it yet.
type Emitter struct {
	mu   sync.Mutex
	regs []*registration
}

// Listen registers fn and returns its cancel function. Cancel is
// idempotent and safe to call from inside a dispatch pass.
func (e *Emitter) Listen(fn Handler) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	r := &registration{fn: fn}
	e.mu.Lock()
	e.regs = append(e.regs, r)
	e.mu.Unlock()
	return func() {
		if r.removed.CompareAndSwap(false, true) {
			e.drop(r)
		}
	}
}

func (e *Emitter) drop(r *registration) {
	e.mu.Lock()
	for i, got := range e.regs {
		if got == r {
			e.regs = append(e.regs[:i], e.regs[i+1:]...)
			break
		}
	}
	e.mu.Unlock()
}

// Emit invokes every listener registered when the pass starts, in
// registration order, skipping listeners cancelled mid-pass. Errors do
// not stop the pass; they are joined and returned.
func (e *Emitter) Emit() error {
	e.mu.Lock()
	snapshot := make([]*registration, len(e.regs))
	copy(snapshot, e.regs)
	e.mu.Unlock()

	var errs []error
	for _, r := range snapshot {
		if r.removed.Load() {
			continue
		}
		if err := r.fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len reports the number of registered listeners.
func (e *Emitter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.regs)
}
