package widget

import (
	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/view"
)

// Checkbox is a group of checkboxes over string options. Its value is the
// set of chosen options, kept in option order.
type Checkbox struct {
	base
	*view.Input[[]string]
	options []string
	boxes   map[string]*dom.Node
}

// NewCheckbox builds a checkbox group with nothing chosen.
func NewCheckbox(options []string, opts ...Option) *Checkbox {
	o := applyOptions(opts)
	c := &Checkbox{
		Input:   view.NewInput[[]string](nil),
		options: append([]string(nil), options...),
		boxes:   make(map[string]*dom.Node, len(options)),
	}

	var items []*dom.Node
	for _, opt := range c.options {
		box := dom.Input(dom.Type("checkbox"), dom.Value(opt))
		box.On("change", func(ev dom.Event) error {
			return c.toggle(opt, ev.Checked)
		})
		c.boxes[opt] = box
		items = append(items, dom.Label(box, dom.Span(o.display(opt))))
	}

	c.init("checkbox", dom.Div(items), o)
	return c
}

// Options returns the configured options in order.
func (c *Checkbox) Options() []string {
	return append([]string(nil), c.options...)
}

// Value returns the chosen options in option order.
func (c *Checkbox) Value() []string {
	return append([]string(nil), c.Input.Value()...)
}

// SetValue replaces the chosen set and notifies. Every element must be
// one of the options; duplicates collapse and order normalizes to the
// option order.
func (c *Checkbox) SetValue(v []string) error {
	chosen := make(map[string]bool, len(v))
	for _, item := range v {
		if _, ok := c.boxes[item]; !ok {
			return rejected("checkbox", item, ErrUnknownOption)
		}
		chosen[item] = true
	}
	return c.apply(chosen)
}

// toggle flips one option's membership from a change event.
func (c *Checkbox) toggle(opt string, on bool) error {
	chosen := make(map[string]bool, len(c.options))
	for _, item := range c.Input.Value() {
		chosen[item] = true
	}
	if on {
		chosen[opt] = true
	} else {
		delete(chosen, opt)
	}
	return c.apply(chosen)
}

// apply normalizes the chosen set, reflects it into the boxes, and
// notifies.
func (c *Checkbox) apply(chosen map[string]bool) error {
	var normalized []string
	for _, opt := range c.options {
		box := c.boxes[opt]
		if chosen[opt] {
			normalized = append(normalized, opt)
			box.SetAttr("checked", "")
		} else {
			box.RemoveAttr("checked")
		}
	}
	return c.Input.SetValue(normalized)
}
