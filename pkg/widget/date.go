package widget

import (
	"time"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/format"
	"github.com/knobs-dev/knobs/pkg/view"
)

// Date is a calendar date picker. Values are normalized to midnight UTC,
// so two assignments naming the same day compare equal.
type Date struct {
	base
	*view.Input[time.Time]
}

// NewDate builds an empty date picker; its value starts as the zero time.
func NewDate(opts ...Option) *Date {
	o := applyOptions(opts)
	d := &Date{Input: view.NewInput(time.Time{})}

	control := dom.Input(dom.Type("date"))
	control.On("change", func(ev dom.Event) error {
		if ev.Value == "" {
			return d.SetValue(time.Time{})
		}
		t, err := time.Parse("2006-01-02", ev.Value)
		if err != nil {
			return rejected("date", ev.Value, ErrBadDate)
		}
		return d.SetValue(t)
	})

	d.init("date", control, o)
	return d
}

// SetValue sets the date and notifies. The time of day is dropped; the
// zero time clears the picker.
func (d *Date) SetValue(v time.Time) error {
	v = truncateToDay(v)
	d.control.SetAttr("value", format.Date(v))
	return d.Input.SetValue(v)
}

// Datetime is a date and time picker with minute precision, normalized
// to UTC.
type Datetime struct {
	base
	*view.Input[time.Time]
}

// NewDatetime builds an empty picker; its value starts as the zero time.
func NewDatetime(opts ...Option) *Datetime {
	o := applyOptions(opts)
	d := &Datetime{Input: view.NewInput(time.Time{})}

	control := dom.Input(dom.Type("datetime-local"))
	control.On("change", func(ev dom.Event) error {
		if ev.Value == "" {
			return d.SetValue(time.Time{})
		}
		t, err := time.Parse("2006-01-02T15:04", ev.Value)
		if err != nil {
			return rejected("datetime", ev.Value, ErrBadDate)
		}
		return d.SetValue(t)
	})

	d.init("datetime", control, o)
	return d
}

// SetValue sets the timestamp and notifies. Seconds and below are
// dropped; the zero time clears the picker.
func (d *Datetime) SetValue(v time.Time) error {
	v = truncateToMinute(v)
	d.control.SetAttr("value", format.Datetime(v))
	return d.Input.SetValue(v)
}

// truncateToDay normalizes to midnight UTC. The zero time stays zero.
func truncateToDay(v time.Time) time.Time {
	if v.IsZero() {
		return time.Time{}
	}
	v = v.UTC()
	return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
}

// truncateToMinute normalizes to whole minutes UTC. The zero time stays
// zero.
func truncateToMinute(v time.Time) time.Time {
	if v.IsZero() {
		return time.Time{}
	}
	v = v.UTC()
	return time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), 0, 0, time.UTC)
}
