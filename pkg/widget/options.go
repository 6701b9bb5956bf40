package widget

import "github.com/knobs-dev/knobs/pkg/format"

// Option is a functional option for configuring widgets. Options that a
// widget has no use for are ignored.
type Option func(*options)

// options holds configuration shared across widget kinds.
type options struct {
	label       string
	placeholder string
	disabled    bool
	class       string

	min, max       float64
	hasMin, hasMax bool
	step           float64
	hasStep        bool

	rows   int
	maxLen int
	accept string

	format func(any) string
}

// WithLabel puts a label ahead of the control.
func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// WithPlaceholder sets placeholder text on text-like controls.
func WithPlaceholder(text string) Option {
	return func(o *options) { o.placeholder = text }
}

// WithDisabled renders the control disabled.
func WithDisabled() Option {
	return func(o *options) { o.disabled = true }
}

// WithClass adds a class to the widget's root element.
func WithClass(class string) Option {
	return func(o *options) { o.class = class }
}

// WithMin sets the lower bound for numeric widgets.
func WithMin(v float64) Option {
	return func(o *options) { o.min = v; o.hasMin = true }
}

// WithMax sets the upper bound for numeric widgets.
func WithMax(v float64) Option {
	return func(o *options) { o.max = v; o.hasMax = true }
}

// WithStep sets the step for numeric widgets.
func WithStep(v float64) Option {
	return func(o *options) { o.step = v; o.hasStep = true }
}

// WithRows sets the visible rows of a textarea.
func WithRows(n int) Option {
	return func(o *options) { o.rows = n }
}

// WithMaxLength caps text length in runes; longer values are rejected.
func WithMaxLength(n int) Option {
	return func(o *options) { o.maxLen = n }
}

// WithAccept restricts the file types a file picker offers, using the
// accept attribute syntax, e.g. ".csv" or "image/*".
func WithAccept(spec string) Option {
	return func(o *options) { o.accept = spec }
}

// WithFormat replaces the default display formatting for values, labels,
// and table cells.
func WithFormat(fn func(any) string) Option {
	return func(o *options) { o.format = fn }
}

// applyOptions applies the given options and returns the resulting config.
func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// display formats v with the configured formatter, or the default one.
func (o options) display(v any) string {
	if o.format != nil {
		return o.format(v)
	}
	return format.Stringify(v)
}
