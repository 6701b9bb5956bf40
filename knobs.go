// Package knobs provides server-side HTML form widgets with typed
// values, change notification, and two-way binding, plus the live
// preview server that puts them in a browser.
//
// This is the recommended import for most applications:
//
//	import "github.com/knobs-dev/knobs"
//
// Usage:
//
//	slider := knobs.NewRange(knobs.WithLabel("Volume"), knobs.WithMax(11))
//	num := knobs.NewNumber(knobs.WithMax(11))
//	doc.Root().AppendChild(slider.Node())
//	doc.Root().AppendChild(num.Node())
//	knobs.Bind[float64](num, slider)
//
// Widgets and the binding machinery live in pkg/widget and pkg/view;
// custom markup around them is built with pkg/dom. The App in this
// package serves documents over WebSocket sessions.
package knobs

import (
	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/live"
	"github.com/knobs-dev/knobs/pkg/upload"
	"github.com/knobs-dev/knobs/pkg/view"
	"github.com/knobs-dev/knobs/pkg/widget"
)

// =============================================================================
// Views and binding (re-export from pkg/view)
// =============================================================================

// View is the capability contract shared by widgets and Input stores: a
// value, a notifying setter, and listener registration.
type View[T any] = view.View[T]

// AnyView is a type-erased View for heterogeneous composition.
type AnyView = view.AnyView

// Input is a headless value store implementing View.
type Input[T any] = view.Input[T]

// Binder carries the replaceable policies of a binding.
type Binder[T any] = view.Binder[T]

// Lifetime is a one-shot teardown token for bindings.
type Lifetime = view.Lifetime

// Handler is a change-notification callback.
type Handler = view.Handler

// NewInput creates a value store with no element attached.
func NewInput[T any](initial T) *Input[T] {
	return view.NewInput(initial)
}

// Bind keeps target and source mutually consistent until a lifetime
// resolves. Without an explicit lifetime the binding follows the
// target's document node.
func Bind[T any](target, source View[T], lifetime ...Lifetime) error {
	return view.Bind(target, source, lifetime...)
}

// BindMany synchronizes target with several sources; with more than one
// source, values fan in and nothing is written back.
func BindMany[T any](target View[T], sources []View[T], lifetime ...Lifetime) error {
	return view.BindMany(target, sources, lifetime...)
}

// AsAny wraps a typed view in the AnyView interface, for form fields.
func AsAny[T any](v View[T]) AnyView {
	return view.AsAny(v)
}

// NewLifetime returns a lifetime and the function that resolves it.
var NewLifetime = view.NewLifetime

// LifetimeFromContext derives a lifetime from a context's cancellation.
var LifetimeFromContext = view.LifetimeFromContext

// Binding errors.
var (
	ErrSelfBind     = view.ErrSelfBind
	ErrNoSources    = view.ErrNoSources
	ErrNoLifetime   = view.ErrNoLifetime
	ErrTypeMismatch = view.ErrTypeMismatch
)

// =============================================================================
// Widgets (re-export from pkg/widget)
// =============================================================================

// Widget type aliases.
type (
	Text        = widget.Text
	Textarea    = widget.Textarea
	Range       = widget.Range
	Number      = widget.Number
	Select      = widget.Select
	MultiSelect = widget.MultiSelect
	Radio       = widget.Radio
	Checkbox    = widget.Checkbox
	Toggle      = widget.Toggle
	Date        = widget.Date
	Datetime    = widget.Datetime
	Color       = widget.Color
	Search      = widget.Search
	File        = widget.File
	Form        = widget.Form
	Field       = widget.Field
)

// Button is a push button whose value is reduced on every click.
type Button[T any] = widget.Button[T]

// Table displays rows with a checkbox per row.
type Table[Row any] = widget.Table[Row]

// Column describes one table column.
type Column[Row any] = widget.Column[Row]

// ValidationError reports a value a widget refused.
type ValidationError = widget.ValidationError

// Widget constructors.
var (
	NewText        = widget.NewText
	NewTextarea    = widget.NewTextarea
	NewRange       = widget.NewRange
	NewNumber      = widget.NewNumber
	NewSelect      = widget.NewSelect
	NewMultiSelect = widget.NewMultiSelect
	NewRadio       = widget.NewRadio
	NewCheckbox    = widget.NewCheckbox
	NewToggle      = widget.NewToggle
	NewButton      = widget.NewButton
	NewDate        = widget.NewDate
	NewDatetime    = widget.NewDatetime
	NewColor       = widget.NewColor
	NewSearch      = widget.NewSearch
	NewFile        = widget.NewFile
	NewForm        = widget.NewForm
)

// NewButtonValue builds a button over an arbitrary value type.
func NewButtonValue[T any](label string, initial T, reduce func(T) T, opts ...Option) *Button[T] {
	return widget.NewButtonValue(label, initial, reduce, opts...)
}

// NewTable builds a table with nothing chosen.
func NewTable[Row any](rows []Row, cols []Column[Row], opts ...Option) *Table[Row] {
	return widget.NewTable(rows, cols, opts...)
}

// Option is a functional option for configuring widgets.
type Option = widget.Option

// Widget options.
var (
	WithLabel       = widget.WithLabel
	WithPlaceholder = widget.WithPlaceholder
	WithDisabled    = widget.WithDisabled
	WithClass       = widget.WithClass
	WithMin         = widget.WithMin
	WithMax         = widget.WithMax
	WithStep        = widget.WithStep
	WithRows        = widget.WithRows
	WithMaxLength   = widget.WithMaxLength
	WithAccept      = widget.WithAccept
	WithFormat      = widget.WithFormat
)

// =============================================================================
// Documents (re-export from pkg/dom)
// =============================================================================

// Document is a server-side element tree.
type Document = dom.Document

// Node is one element or text node in a document.
type Node = dom.Node

// Event is a user interaction dispatched to a node handler.
type Event = dom.Event

// NewDocument creates an empty document.
var NewDocument = dom.NewDocument

// Disposal returns a channel that closes when n leaves its document.
var Disposal = dom.Disposal

// =============================================================================
// Live sessions and uploads (re-export from pkg/live, pkg/upload)
// =============================================================================

// Session is one WebSocket connection and the document behind it.
type Session = live.Session

// Mount builds a session's document.
type Mount = live.Mount

// LiveConfig controls session timeouts and limits.
type LiveConfig = live.Config

// UploadFile describes a stored upload.
type UploadFile = upload.File

// UploadStore is the interface for upload storage backends.
type UploadStore = upload.Store

// NewDiskStore creates a filesystem-backed upload store.
var NewDiskStore = upload.NewDiskStore
