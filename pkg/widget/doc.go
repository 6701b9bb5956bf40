// Package widget provides small HTML form widgets for interactive
// documents: buttons, toggles, option groups, sliders, text fields,
// search, tables, pickers, and composite forms.
//
// Every widget satisfies the view contract from pkg/view: it holds a
// typed value, its setter notifies synchronously, and listeners can be
// added and removed. Widgets are independent implementations of that
// contract; none subclasses another. A widget also exposes its DOM
// subtree via Node() and its teardown signal via Disposal(), which is
// what view.Bind uses when no explicit lifetime is given:
//
//	slider := widget.NewRange(widget.WithMin(0), widget.WithMax(100))
//	number := widget.NewNumber(widget.WithMin(0), widget.WithMax(100))
//	doc.Root().AppendChild(slider.Node())
//	doc.Root().AppendChild(number.Node())
//	if err := view.Bind[float64](number, slider); err != nil {
//		...
//	}
//
// User interaction arrives as dom events dispatched to the widget's
// control; each widget parses, validates, and applies them through its
// own setter, so programmatic and interactive updates follow one path.
// Invalid values are rejected with a *ValidationError and leave the
// previous value in place.
package widget
