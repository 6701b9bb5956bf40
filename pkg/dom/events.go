package dom

// Event is a user interaction delivered to a node. The live protocol
// decodes browser events into this shape; tests construct them directly.
type Event struct {
	Type    string // "input", "change", "click", ...
	Value   string // value of the control at event time
	Checked bool   // checkbox and radio state
}

// Handler reacts to an event. A non-nil error is surfaced to the caller
// of Dispatch, typically a rejected value.
type Handler func(Event) error

// EventHandler pairs an event name with its handler for element factories.
type EventHandler struct {
	Event string
	Fn    Handler
}

// event creates an EventHandler with the given name and handler.
func event(name string, fn Handler) EventHandler {
	return EventHandler{Event: name, Fn: fn}
}

// On creates a handler for an arbitrary event name.
func On(name string, fn Handler) EventHandler { return event(name, fn) }

// OnClick handles click events.
func OnClick(fn Handler) EventHandler { return event("click", fn) }

// OnInput handles input events (fired while the value changes).
func OnInput(fn Handler) EventHandler { return event("input", fn) }

// OnChange handles change events (fired when a value is committed).
func OnChange(fn Handler) EventHandler { return event("change", fn) }

// OnSubmit handles form submit events.
func OnSubmit(fn Handler) EventHandler { return event("submit", fn) }

// On attaches a handler for the named event, replacing any existing one.
// Handlers are attached at construction time; they are not observable
// mutations.
func (n *Node) On(name string, fn Handler) {
	if n.kind != KindElement || fn == nil {
		return
	}
	if n.handlers == nil {
		n.handlers = make(map[string]Handler)
	}
	n.handlers[name] = fn
}

// Handles reports whether the node has a handler for the named event.
func (n *Node) Handles(name string) bool {
	_, ok := n.handlers[name]
	return ok
}

// Dispatch delivers an event to this node's handler for its type. It
// returns false when no handler is attached. The handler's error is
// returned as-is; dispatch does not bubble to ancestors.
func (n *Node) Dispatch(ev Event) (bool, error) {
	fn, ok := n.handlers[ev.Type]
	if !ok {
		return false, nil
	}
	return true, fn(ev)
}
