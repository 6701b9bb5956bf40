package widget

import (
	"math"
	"strconv"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/format"
	"github.com/knobs-dev/knobs/pkg/view"
)

// Number is a numeric text field. Unlike Range it enforces its bounds by
// rejection: an out-of-range value is a validation error, not a clamp.
// NaN represents the empty field and is a legal value.
type Number struct {
	base
	*view.Input[float64]
	min, max       float64
	hasMin, hasMax bool
}

// NewNumber builds an empty number field; its value starts as NaN.
func NewNumber(opts ...Option) *Number {
	o := applyOptions(opts)
	n := &Number{
		Input:  view.NewInput(math.NaN()),
		min:    o.min,
		max:    o.max,
		hasMin: o.hasMin,
		hasMax: o.hasMax,
	}

	control := dom.Input(dom.Type("number"))
	if o.hasMin {
		control.SetAttr("min", format.Number(o.min))
	}
	if o.hasMax {
		control.SetAttr("max", format.Number(o.max))
	}
	if o.hasStep {
		control.SetAttr("step", format.Number(o.step))
	}
	if o.placeholder != "" {
		control.SetAttr("placeholder", o.placeholder)
	}
	control.On("input", func(ev dom.Event) error {
		if ev.Value == "" {
			return n.SetValue(math.NaN())
		}
		f, err := strconv.ParseFloat(ev.Value, 64)
		if err != nil {
			return rejected("number", ev.Value, ErrNotANumber)
		}
		return n.SetValue(f)
	})

	n.init("number", control, o)
	return n
}

// SetValue sets the field and notifies. NaN clears it; a finite value
// outside the configured bounds is rejected.
func (n *Number) SetValue(v float64) error {
	if !math.IsNaN(v) {
		if n.hasMin && v < n.min {
			return rejected("number", v, ErrOutOfRange)
		}
		if n.hasMax && v > n.max {
			return rejected("number", v, ErrOutOfRange)
		}
	}
	n.control.SetAttr("value", format.Number(v))
	return n.Input.SetValue(v)
}
