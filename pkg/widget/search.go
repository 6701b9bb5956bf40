package widget

import (
	"strconv"
	"strings"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/view"
)

// Search filters a fixed list of rows by a query. Its value is the
// filtered rows and is derived: it changes only through the query, never
// by assignment. Use QueryView to bind the query string itself.
type Search struct {
	base
	data    []string
	query   *view.Input[string]
	results *view.Input[[]string]
	count   *dom.Node
}

// NewSearch builds a search box over rows. The empty query matches
// everything, so the initial value is all rows.
func NewSearch(rows []string, opts ...Option) *Search {
	o := applyOptions(opts)
	s := &Search{
		data:  append([]string(nil), rows...),
		query: view.NewInput(""),
	}
	s.results = view.NewInput(s.filter(""))

	control := dom.Input(dom.Type("search"))
	if o.placeholder != "" {
		control.SetAttr("placeholder", o.placeholder)
	}
	control.On("input", func(ev dom.Event) error { return s.SetQuery(ev.Value) })

	s.init("search", control, o)
	s.count = dom.Text(countLabel(len(s.data)))
	s.root.AppendChild(dom.Span(dom.Class("knob-count"), s.count))
	return s
}

// filter returns the rows containing the query, case-insensitively. The
// query is one plain substring; it is not split into terms.
func (s *Search) filter(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]string(nil), s.data...)
	}
	var out []string
	for _, row := range s.data {
		if strings.Contains(strings.ToLower(row), q) {
			out = append(out, row)
		}
	}
	return out
}

func countLabel(n int) string {
	if n == 1 {
		return "1 result"
	}
	return strconv.Itoa(n) + " results"
}

// Query returns the current query string.
func (s *Search) Query() string { return s.query.Value() }

// SetQuery replaces the query, recomputes the filtered rows, and
// notifies both the query listeners and the result listeners.
func (s *Search) SetQuery(q string) error {
	s.control.SetAttr("value", q)
	if err := s.query.SetValue(q); err != nil {
		return err
	}
	matched := s.filter(q)
	s.count.SetText(countLabel(len(matched)))
	return s.results.SetValue(matched)
}

// Value returns the rows matching the current query.
func (s *Search) Value() []string {
	return append([]string(nil), s.results.Value()...)
}

// SetValue always fails: the filtered rows are derived from the query.
func (s *Search) SetValue(v []string) error {
	return rejected("search", v, ErrReadOnly)
}

// Listen subscribes to changes of the filtered rows.
func (s *Search) Listen(fn view.Handler) func() {
	return s.results.Listen(fn)
}

// QueryView adapts the query string to the view contract so it can be
// bound like any other view. Its lifetime follows the search widget.
func (s *Search) QueryView() view.View[string] {
	return queryView{s}
}

type queryView struct {
	s *Search
}

func (q queryView) Value() string                  { return q.s.Query() }
func (q queryView) SetValue(v string) error        { return q.s.SetQuery(v) }
func (q queryView) Listen(fn view.Handler) func()  { return q.s.query.Listen(fn) }
func (q queryView) Disposal() (<-chan struct{}, error) {
	return q.s.Disposal()
}
