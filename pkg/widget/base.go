package widget

import "github.com/knobs-dev/knobs/pkg/dom"

// base carries what every widget shares: the root element that hosts the
// widget and the control inside it that users interact with.
type base struct {
	root    *dom.Node
	control *dom.Node
}

// init builds the widget shell around control: a div carrying the widget
// classes, with an optional leading label.
func (b *base) init(kind string, control *dom.Node, o options) {
	if o.disabled {
		control.SetAttr("disabled", "")
	}

	classes := []string{"knob", "knob-" + kind}
	if o.class != "" {
		classes = append(classes, o.class)
	}

	args := []any{dom.Class(classes...)}
	if o.label != "" {
		args = append(args, dom.Label(o.label))
	}
	args = append(args, control)

	b.root = dom.Div(args...)
	b.control = control
}

// Node returns the widget's root element. Attach it to a document to
// render the widget; remove it to tear the widget's bindings down.
func (b *base) Node() *dom.Node { return b.root }

// Control returns the interactive element inside the widget, the one
// that receives user events.
func (b *base) Control() *dom.Node { return b.control }

// Disposal resolves when the widget's root element leaves its document.
// Bindings with no explicit lifetime use this as their teardown signal.
func (b *base) Disposal() (<-chan struct{}, error) {
	return dom.Disposal(b.root)
}
