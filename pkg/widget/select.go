package widget

import (
	"strings"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/view"
)

// Select is a drop-down over string options. Its value is always one of
// the options; it defaults to the first.
type Select struct {
	base
	*view.Input[string]
	options  []string
	optNodes map[string]*dom.Node
}

// NewSelect builds a drop-down with the first option chosen.
func NewSelect(options []string, opts ...Option) *Select {
	o := applyOptions(opts)
	initial := ""
	if len(options) > 0 {
		initial = options[0]
	}
	s := &Select{
		Input:    view.NewInput(initial),
		options:  append([]string(nil), options...),
		optNodes: make(map[string]*dom.Node, len(options)),
	}

	var items []*dom.Node
	for _, opt := range s.options {
		node := dom.Option(dom.Value(opt), o.display(opt))
		if opt == initial {
			node.SetAttr("selected", "")
		}
		s.optNodes[opt] = node
		items = append(items, node)
	}

	control := dom.Select(items)
	control.On("change", func(ev dom.Event) error { return s.SetValue(ev.Value) })
	s.init("select", control, o)
	return s
}

// Options returns the configured options in order.
func (s *Select) Options() []string {
	return append([]string(nil), s.options...)
}

// SetValue chooses an option and notifies. The value must be one of the
// options; a drop-down cannot hold anything else.
func (s *Select) SetValue(v string) error {
	if _, ok := s.optNodes[v]; !ok {
		return rejected("select", v, ErrUnknownOption)
	}
	for opt, node := range s.optNodes {
		if opt == v {
			node.SetAttr("selected", "")
		} else {
			node.RemoveAttr("selected")
		}
	}
	return s.Input.SetValue(v)
}

// MultiSelect is a multiple-choice drop-down. Its value is the chosen
// subset of the options, kept in option order.
type MultiSelect struct {
	base
	*view.Input[[]string]
	options  []string
	optNodes map[string]*dom.Node
}

// NewMultiSelect builds a multiple-choice drop-down with nothing chosen.
func NewMultiSelect(options []string, opts ...Option) *MultiSelect {
	o := applyOptions(opts)
	m := &MultiSelect{
		Input:    view.NewInput[[]string](nil),
		options:  append([]string(nil), options...),
		optNodes: make(map[string]*dom.Node, len(options)),
	}

	var items []*dom.Node
	for _, opt := range m.options {
		node := dom.Option(dom.Value(opt), o.display(opt))
		m.optNodes[opt] = node
		items = append(items, node)
	}

	control := dom.Select(dom.Multiple(), items)
	// The live client joins the selected option values with newlines,
	// so options must not contain them.
	control.On("change", func(ev dom.Event) error {
		var chosen []string
		for _, line := range strings.Split(ev.Value, "\n") {
			if line != "" {
				chosen = append(chosen, line)
			}
		}
		return m.SetValue(chosen)
	})
	m.init("multiselect", control, o)
	return m
}

// Options returns the configured options in order.
func (m *MultiSelect) Options() []string {
	return append([]string(nil), m.options...)
}

// Value returns the chosen options in option order.
func (m *MultiSelect) Value() []string {
	return append([]string(nil), m.Input.Value()...)
}

// SetValue replaces the chosen subset and notifies. Every element must
// be one of the options; duplicates collapse and order normalizes.
func (m *MultiSelect) SetValue(v []string) error {
	chosen := make(map[string]bool, len(v))
	for _, item := range v {
		if _, ok := m.optNodes[item]; !ok {
			return rejected("multiselect", item, ErrUnknownOption)
		}
		chosen[item] = true
	}

	var normalized []string
	for _, opt := range m.options {
		node := m.optNodes[opt]
		if chosen[opt] {
			normalized = append(normalized, opt)
			node.SetAttr("selected", "")
		} else {
			node.RemoveAttr("selected")
		}
	}
	return m.Input.SetValue(normalized)
}
