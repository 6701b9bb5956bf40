// Package dom provides the server-side document tree that widgets render
// into.
//
// Unlike a virtual DOM, this tree is live: nodes are mutated in place and a
// Document reports every mutation to registered observers. The live protocol
// translates those reports into patches for the browser, and Disposal turns
// them into teardown signals for bindings.
//
// # Building trees
//
// Elements are created with variadic factory functions in the style of
// ordinary HTML:
//
//	Div(Class("widget"),
//	    Label(For("q"), Text("Query")),
//	    Input(ID("q"), Type("text"), OnInput(handler)),
//	)
//
// # Observation and disposal
//
// A Document observes its own mutations. Disposal(n) returns a channel that
// closes when n stops being part of the document, evaluated after each
// mutating call. A node detached and reattached by two separate calls is
// treated as removed; a node moved within a single call is not.
//
// # Concurrency
//
// A Document and its nodes are confined to one goroutine. All mutation,
// dispatch, and rendering must happen from the same goroutine; only the
// channels returned by Disposal may be consumed elsewhere.
package dom
