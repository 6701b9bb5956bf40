package widget

import (
	"errors"
	"maps"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/view"
)

// Field names one member of a form. The view supplies the value and the
// change notifications; the node, when present, is rendered inside the
// form element.
type Field struct {
	Name string
	View view.AnyView
	Node *dom.Node
}

// Form aggregates named fields into a single map-valued view. Editing
// any field re-emits the whole map; assigning a map routes each entry to
// the field of the same name.
type Form struct {
	base
	*view.Input[map[string]any]
	fields []Field

	// applying suppresses per-field re-emits while SetValue routes
	// entries, so one assignment notifies once.
	applying bool
}

// NewForm builds a form over the given fields. Field names are the map
// keys; nodes are appended to the form element in field order.
func NewForm(fields []Field, opts ...Option) *Form {
	o := applyOptions(opts)
	fm := &Form{fields: append([]Field(nil), fields...)}
	fm.Input = view.NewInput(fm.snapshot())

	control := dom.Form()
	for _, f := range fm.fields {
		if f.Node != nil {
			control.AppendChild(f.Node)
		}
	}
	for _, f := range fm.fields {
		f.View.Listen(func() error {
			if fm.applying {
				return nil
			}
			return fm.Input.SetValue(fm.snapshot())
		})
	}

	fm.init("form", control, o)
	return fm
}

// snapshot reads every field into a fresh map.
func (fm *Form) snapshot() map[string]any {
	m := make(map[string]any, len(fm.fields))
	for _, f := range fm.fields {
		m[f.Name] = f.View.AnyValue()
	}
	return m
}

// field returns the first field with the given name.
func (fm *Form) field(name string) (Field, bool) {
	for _, f := range fm.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Fields returns the form's fields in declaration order.
func (fm *Form) Fields() []Field {
	return append([]Field(nil), fm.fields...)
}

// Value returns a copy of the current field values.
func (fm *Form) Value() map[string]any {
	return maps.Clone(fm.Input.Value())
}

// SetValue routes each entry to the field of the same name, in field
// declaration order, then stores the resulting snapshot and notifies
// once. Keys naming no field and values a field rejects are reported in
// the joined error; the remaining entries are still applied.
func (fm *Form) SetValue(values map[string]any) error {
	var errs []error
	fm.applying = true
	for _, f := range fm.fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		if err := f.View.SetAnyValue(v); err != nil {
			errs = append(errs, err)
		}
	}
	fm.applying = false
	for name := range values {
		if _, ok := fm.field(name); !ok {
			errs = append(errs, rejected("form", name, ErrUnknownField))
		}
	}
	errs = append(errs, fm.Input.SetValue(fm.snapshot()))
	return errors.Join(errs...)
}
