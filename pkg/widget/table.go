package widget

import (
	"errors"
	"reflect"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/view"
)

// Column describes one table column: a header and how to read the cell
// value out of a row.
type Column[Row any] struct {
	Name  string
	Value func(Row) any
}

// ColumnsFor derives columns from Row by reflection: one column per
// exported struct field, in declaration order. Non-struct rows get a
// single column showing the row itself.
func ColumnsFor[Row any]() []Column[Row] {
	rt := reflect.TypeFor[Row]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return []Column[Row]{{Name: "Value", Value: func(r Row) any { return r }}}
	}

	var cols []Column[Row]
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		idx := i
		cols = append(cols, Column[Row]{
			Name: f.Name,
			Value: func(r Row) any {
				rv := reflect.Indirect(reflect.ValueOf(r))
				if !rv.IsValid() {
					return nil
				}
				return rv.Field(idx).Interface()
			},
		})
	}
	return cols
}

// Table displays rows with a checkbox per row. Its value is the chosen
// rows, in display order.
type Table[Row any] struct {
	base
	*view.Input[[]Row]
	cols        []Column[Row]
	rows        []Row
	selected    []bool
	boxes       []*dom.Node
	body        *dom.Node
	show        func(any) string
	rowsChanged view.Emitter
}

// NewTable builds a table with nothing chosen. A nil column list derives
// one column per exported field of Row.
func NewTable[Row any](rows []Row, cols []Column[Row], opts ...Option) *Table[Row] {
	o := applyOptions(opts)
	if len(cols) == 0 {
		cols = ColumnsFor[Row]()
	}
	t := &Table[Row]{
		Input: view.NewInput[[]Row](nil),
		cols:  cols,
		show:  o.display,
	}

	var headers []*dom.Node
	headers = append(headers, dom.Th())
	for _, col := range cols {
		headers = append(headers, dom.Th(col.Name))
	}
	t.body = dom.Tbody()

	control := dom.Table(
		dom.Thead(dom.Tr(headers)),
		t.body,
	)
	t.init("table", control, o)
	t.populate(rows)
	return t
}

// populate rebuilds the body for a fresh row set with nothing chosen.
func (t *Table[Row]) populate(rows []Row) {
	for _, tr := range t.body.Children() {
		tr.Remove()
	}
	t.rows = append([]Row(nil), rows...)
	t.selected = make([]bool, len(rows))
	t.boxes = make([]*dom.Node, len(rows))

	for i, row := range t.rows {
		box := dom.Input(dom.Type("checkbox"))
		box.On("change", func(ev dom.Event) error {
			return t.setRow(i, ev.Checked)
		})
		t.boxes[i] = box

		cells := []*dom.Node{dom.Td(box)}
		for _, col := range t.cols {
			cells = append(cells, dom.Td(t.show(col.Value(row))))
		}
		t.body.AppendChild(dom.Tr(cells))
	}
}

// Rows returns the displayed rows in order.
func (t *Table[Row]) Rows() []Row {
	return append([]Row(nil), t.rows...)
}

// SetRows replaces the displayed rows, notifying row listeners, and
// clears the selection, notifying value listeners.
func (t *Table[Row]) SetRows(rows []Row) error {
	t.populate(rows)
	err := t.rowsChanged.Emit()
	return errors.Join(err, t.Input.SetValue(nil))
}

// Value returns the chosen rows in display order.
func (t *Table[Row]) Value() []Row {
	return append([]Row(nil), t.Input.Value()...)
}

// SetValue replaces the selection and notifies. Every element must equal
// one of the displayed rows.
func (t *Table[Row]) SetValue(v []Row) error {
	chosen := make([]bool, len(t.rows))
	for _, want := range v {
		found := false
		for i, row := range t.rows {
			if view.Equal(row, want) {
				chosen[i] = true
				found = true
				break
			}
		}
		if !found {
			return rejected("table", want, ErrUnknownRow)
		}
	}
	t.apply(chosen)
	return t.Input.SetValue(t.chosenRows())
}

// ToggleRow flips the selection state of the i-th displayed row.
func (t *Table[Row]) ToggleRow(i int) error {
	if i < 0 || i >= len(t.rows) {
		return rejected("table", i, ErrUnknownRow)
	}
	return t.setRow(i, !t.selected[i])
}

// setRow applies one row's checkbox state and notifies.
func (t *Table[Row]) setRow(i int, on bool) error {
	if i < 0 || i >= len(t.rows) {
		return rejected("table", i, ErrUnknownRow)
	}
	t.selected[i] = on
	t.apply(t.selected)
	return t.Input.SetValue(t.chosenRows())
}

// apply reflects the selection into the checkboxes.
func (t *Table[Row]) apply(chosen []bool) {
	copy(t.selected, chosen)
	for i, box := range t.boxes {
		if t.selected[i] {
			box.SetAttr("checked", "")
		} else {
			box.RemoveAttr("checked")
		}
	}
}

// chosenRows collects the selected rows in display order.
func (t *Table[Row]) chosenRows() []Row {
	var out []Row
	for i, on := range t.selected {
		if on {
			out = append(out, t.rows[i])
		}
	}
	return out
}

// RowsView adapts the displayed rows to the view contract, so a table
// can be the target of a bind whose source produces row sets. Assigning
// replaces the rows and clears the selection.
func (t *Table[Row]) RowsView() view.View[[]Row] {
	return rowsView[Row]{t}
}

type rowsView[Row any] struct {
	t *Table[Row]
}

func (r rowsView[Row]) Value() []Row                       { return r.t.Rows() }
func (r rowsView[Row]) SetValue(v []Row) error             { return r.t.SetRows(v) }
func (r rowsView[Row]) Listen(fn view.Handler) func()      { return r.t.rowsChanged.Listen(fn) }
func (r rowsView[Row]) Disposal() (<-chan struct{}, error) { return r.t.Disposal() }
