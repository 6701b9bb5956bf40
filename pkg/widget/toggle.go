package widget

import (
	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/view"
)

// Toggle is a single checkbox bound to a boolean.
type Toggle struct {
	base
	*view.Input[bool]
}

// NewToggle builds an unchecked toggle.
func NewToggle(opts ...Option) *Toggle {
	o := applyOptions(opts)
	t := &Toggle{Input: view.NewInput(false)}

	control := dom.Input(dom.Type("checkbox"))
	control.On("change", func(ev dom.Event) error { return t.SetValue(ev.Checked) })
	t.init("toggle", control, o)
	return t
}

// SetValue sets the checked state and notifies.
func (t *Toggle) SetValue(v bool) error {
	if v {
		t.control.SetAttr("checked", "")
	} else {
		t.control.RemoveAttr("checked")
	}
	return t.Input.SetValue(v)
}
