// Package live runs widget documents over WebSocket connections.
//
// Each connection gets a Session owning a private dom.Document built by
// the application's Mount function. The session runs three goroutines:
//
//   - a read loop decoding frames off the wire and queueing events,
//   - an event loop applying events to node handlers and flushing the
//     resulting mutations to the client as patch frames,
//   - a write loop sending heartbeat pings.
//
// The document is touched only from the event loop, which satisfies the
// dom package's confinement rule without any locking. Code outside the
// loop mutates the document through Session.Dispatch.
//
// # Lifecycle
//
//	handler := live.Handler(func(doc *dom.Document) error {
//	    counter := widget.NewNumber(0)
//	    return doc.Root().AppendChild(counter.Node())
//	}, live.DefaultConfig())
//	mux.Handle("/live", handler)
//
// The handshake is a ClientHello/ServerHello exchange, after which the
// session streams the initial document as insert patches and then
// incremental patches as handlers mutate the tree. Handler errors are
// reported to the client as error frames; they never terminate the
// session.
//
// # Metrics
//
// The package maintains a process-wide Prometheus metrics set (active
// sessions, events, patches, errors, event duration) registered on the
// default registerer the first time a session starts.
package live
