package widget

import (
	"math"
	"strconv"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/format"
	"github.com/knobs-dev/knobs/pkg/view"
)

// Range is a slider over a closed interval. Its value is always a finite
// number inside [min, max]; out-of-range assignments clamp, the way a
// slider thumb stops at its track ends.
type Range struct {
	base
	*view.Input[float64]
	min, max float64
	output   *dom.Node
	show     func(any) string
}

// NewRange builds a slider. The interval defaults to [0, 1] and the
// initial value sits at its midpoint.
func NewRange(opts ...Option) *Range {
	o := applyOptions(opts)
	min, max := 0.0, 1.0
	if o.hasMin {
		min = o.min
	}
	if o.hasMax {
		max = o.max
	}
	if max < min {
		min, max = max, min
	}
	initial := (min + max) / 2

	r := &Range{
		Input: view.NewInput(initial),
		min:   min,
		max:   max,
		show:  o.display,
	}

	control := dom.Input(
		dom.Type("range"),
		dom.Min(format.Number(min)),
		dom.Max(format.Number(max)),
		dom.Value(format.Number(initial)),
	)
	if o.hasStep {
		control.SetAttr("step", format.Number(o.step))
	}
	control.On("input", func(ev dom.Event) error {
		f, err := strconv.ParseFloat(ev.Value, 64)
		if err != nil {
			return rejected("range", ev.Value, ErrNotANumber)
		}
		return r.SetValue(f)
	})

	r.init("range", control, o)
	r.output = dom.Output(o.display(initial))
	r.root.AppendChild(r.output)
	return r
}

// Min returns the lower bound.
func (r *Range) Min() float64 { return r.min }

// Max returns the upper bound.
func (r *Range) Max() float64 { return r.max }

// SetValue sets the slider position and notifies. NaN is rejected;
// values outside [min, max] clamp to the nearest bound.
func (r *Range) SetValue(v float64) error {
	if math.IsNaN(v) {
		return rejected("range", v, ErrNotANumber)
	}
	if v < r.min {
		v = r.min
	}
	if v > r.max {
		v = r.max
	}
	r.control.SetAttr("value", format.Number(v))
	if out := r.output.FirstChild(); out != nil {
		out.SetText(r.show(v))
	}
	return r.Input.SetValue(v)
}
