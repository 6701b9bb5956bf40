package widget

import (
	"strconv"
	"sync/atomic"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/view"
)

var radioNames atomic.Uint64

// Radio is a group of radio buttons over string options. Its value is the
// chosen option, or the empty string while nothing is chosen yet.
type Radio struct {
	base
	*view.Input[string]
	options []string
	buttons map[string]*dom.Node
}

// NewRadio builds a radio group with nothing selected.
func NewRadio(options []string, opts ...Option) *Radio {
	o := applyOptions(opts)
	r := &Radio{
		Input:   view.NewInput(""),
		options: append([]string(nil), options...),
		buttons: make(map[string]*dom.Node, len(options)),
	}

	// Buttons share a name attribute so the browser treats them as one
	// group.
	group := "knob-radio-" + strconv.FormatUint(radioNames.Add(1), 10)

	var items []*dom.Node
	for _, opt := range r.options {
		btn := dom.Input(dom.Type("radio"), dom.Name(group), dom.Value(opt))
		btn.On("change", func(ev dom.Event) error {
			if !ev.Checked {
				return nil
			}
			return r.SetValue(opt)
		})
		r.buttons[opt] = btn
		items = append(items, dom.Label(btn, dom.Span(o.display(opt))))
	}

	r.init("radio", dom.Div(items), o)
	return r
}

// Options returns the configured options in order.
func (r *Radio) Options() []string {
	return append([]string(nil), r.options...)
}

// SetValue chooses an option and notifies. The empty string clears the
// choice; any other value must be one of the options.
func (r *Radio) SetValue(v string) error {
	if v != "" {
		if _, ok := r.buttons[v]; !ok {
			return rejected("radio", v, ErrUnknownOption)
		}
	}
	for opt, btn := range r.buttons {
		if opt == v {
			btn.SetAttr("checked", "")
		} else {
			btn.RemoveAttr("checked")
		}
	}
	return r.Input.SetValue(v)
}
