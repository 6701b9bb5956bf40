// Package view provides the synchronization core that keeps independent
// form widgets consistent with one another: the View contract, the
// headless Input store, and the Bind coordinator.
//
// A View is anything with a typed value, a setter that notifies, and
// listener registration. Widgets and the Input store satisfy the
// contract independently; there is no base type to embed.
//
//	store := view.NewInput(0)
//	cancel := store.Listen(func() error {
//	    fmt.Println("now", store.Value())
//	    return nil
//	})
//	store.SetValue(5) // prints "now 5"
//	cancel()
//
// Bind ties two views together until a lifetime resolves. With a single
// source the relationship is bidirectional; with several sources values
// fan in to the target only:
//
//	lt, done := view.NewLifetime()
//	if err := view.Bind(slider, store, lt); err != nil { ... }
//	store.SetValue(42) // slider follows
//	done()             // tears the binding down
//
// When the target is a widget, the lifetime argument may be omitted and
// is derived from the widget's document node: the binding lives exactly
// as long as the node stays in its document.
//
// All propagation is synchronous inside the setter that triggered it.
// Internal state is guarded so cross-goroutine use cannot corrupt the
// listener lists, but ordering guarantees are per goroutine; callers
// that share views across goroutines serialize access themselves, the
// way the live session does with its event loop.
package view
