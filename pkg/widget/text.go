package widget

import (
	"strconv"
	"unicode/utf8"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/view"
)

// Text is a single-line text field.
type Text struct {
	base
	*view.Input[string]
	maxLen int
}

// NewText builds an empty text field.
func NewText(opts ...Option) *Text {
	o := applyOptions(opts)
	t := &Text{
		Input:  view.NewInput(""),
		maxLen: o.maxLen,
	}

	control := dom.Input(dom.Type("text"))
	if o.placeholder != "" {
		control.SetAttr("placeholder", o.placeholder)
	}
	if o.maxLen > 0 {
		control.SetAttr("maxlength", strconv.Itoa(o.maxLen))
	}
	control.On("input", func(ev dom.Event) error { return t.SetValue(ev.Value) })

	t.init("text", control, o)
	return t
}

// SetValue sets the field content and notifies. With a configured
// maximum length, longer values are rejected.
func (t *Text) SetValue(v string) error {
	if t.maxLen > 0 && utf8.RuneCountInString(v) > t.maxLen {
		return rejected("text", v, ErrTooLong)
	}
	t.control.SetAttr("value", v)
	return t.Input.SetValue(v)
}

// Textarea is a multi-line text field. Its content lives in the element
// body rather than a value attribute.
type Textarea struct {
	base
	*view.Input[string]
	maxLen  int
	content *dom.Node
}

// NewTextarea builds an empty textarea.
func NewTextarea(opts ...Option) *Textarea {
	o := applyOptions(opts)
	t := &Textarea{
		Input:   view.NewInput(""),
		maxLen:  o.maxLen,
		content: dom.Text(""),
	}

	control := dom.Textarea(t.content)
	if o.placeholder != "" {
		control.SetAttr("placeholder", o.placeholder)
	}
	if o.rows > 0 {
		control.SetAttr("rows", strconv.Itoa(o.rows))
	}
	if o.maxLen > 0 {
		control.SetAttr("maxlength", strconv.Itoa(o.maxLen))
	}
	control.On("input", func(ev dom.Event) error { return t.SetValue(ev.Value) })

	t.init("textarea", control, o)
	return t
}

// SetValue sets the textarea content and notifies. With a configured
// maximum length, longer values are rejected.
func (t *Textarea) SetValue(v string) error {
	if t.maxLen > 0 && utf8.RuneCountInString(v) > t.maxLen {
		return rejected("textarea", v, ErrTooLong)
	}
	t.content.SetText(v)
	return t.Input.SetValue(v)
}
