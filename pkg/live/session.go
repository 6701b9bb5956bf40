package live

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/protocol"
	"github.com/knobs-dev/knobs/pkg/widget"
)

var (
	// ErrSessionClosed is returned when an operation is attempted on a
	// closed session.
	ErrSessionClosed = errors.New("live: session closed")
)

// Mount builds a session's document. It runs before mutation
// observation starts, so construction itself does not stream patches;
// the mounted tree is sent wholesale after the handshake.
type Mount func(doc *dom.Document) error

// Session is one WebSocket connection and the document behind it.
// The document is touched only from the event loop goroutine.
type Session struct {
	id  string
	doc *dom.Document

	conn    *websocket.Conn
	mu      sync.Mutex // protects conn writes
	closed  atomic.Bool
	started atomic.Bool

	// Sequence numbers for ordered delivery.
	sendSeq atomic.Uint64 // last patch sequence sent
	recvSeq atomic.Uint64 // last event sequence received
	ackSeq  atomic.Uint64 // last sequence acknowledged by the client

	events     chan *protocol.EventFrame
	dispatchCh chan func()
	done       chan struct{}

	// pending accumulates translated mutations during a dispatch.
	// Event loop only.
	pending []protocol.Patch
	trans   translator

	config Config
	logger *slog.Logger
	tracer trace.Tracer
}

// newSessionID generates a cryptographically random session id.
func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// NewSession builds a session around an upgraded connection. The mount
// function populates the document; observation starts after it returns.
func NewSession(conn *websocket.Conn, mount Mount, config Config) (*Session, error) {
	config = config.withDefaults()
	doc := dom.NewDocument()

	s := &Session{
		id:         newSessionID(),
		doc:        doc,
		conn:       conn,
		events:     make(chan *protocol.EventFrame, config.MaxEventQueue),
		dispatchCh: make(chan func(), 16),
		done:       make(chan struct{}),
		trans:      translator{root: doc.Root().ID()},
		config:     config,
		tracer:     otel.Tracer("knobs/live"),
	}
	s.logger = config.Logger.With("session_id", s.id)

	if mount != nil {
		if err := mount(doc); err != nil {
			return nil, fmt.Errorf("live: mount: %w", err)
		}
	}

	// The cancel function is deliberately dropped: unobserving would
	// touch the document from whichever goroutine closes the session,
	// and the document dies with the session anyway.
	if _, err := doc.Observe(s.observe); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Document returns the session's document. Touch it only via Dispatch.
func (s *Session) Document() *dom.Document { return s.doc }

// Done is closed when the session shuts down.
func (s *Session) Done() <-chan struct{} { return s.done }

// observe runs synchronously inside document mutations, which all
// happen on the event loop.
func (s *Session) observe(m dom.Mutation) {
	s.pending = append(s.pending, s.trans.patches(m)...)
}

// handshake runs the hello exchange and streams the initial document.
func (s *Session) handshake() error {
	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.config.HandshakeTimeout))

	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("live: handshake read: %w", err)
	}
	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		return fmt.Errorf("live: handshake: %w", err)
	}
	if frame.Type != protocol.FrameHello {
		return fmt.Errorf("live: handshake: unexpected %s frame", frame.Type)
	}
	hello, err := protocol.DecodeClientHello(frame.Body)
	if err != nil {
		return fmt.Errorf("live: handshake: %w", err)
	}
	s.logger.Debug("client hello", "page", hello.Page, "last_seq", hello.LastSeq)

	reply := &protocol.ServerHello{
		Status:     protocol.HelloOK,
		SessionID:  s.id,
		NextSeq:    s.sendSeq.Load() + 1,
		ServerTime: uint64(time.Now().UnixMilli()),
	}
	if err := s.writeFrame(protocol.NewFrame(protocol.FrameHello, protocol.EncodeServerHello(reply))); err != nil {
		return err
	}

	s.SendPatches(initialPatches(s.doc))
	return nil
}

// Start runs the session loops. Call after the handshake completes.
func (s *Session) Start() {
	if s.started.Swap(true) {
		return
	}
	recordSessionOpen()
	s.logger.Info("session started")

	go s.readLoop()
	go s.writeLoop()
	go s.eventLoop()
}

// readLoop reads frames off the wire until the connection drops.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				recordError("read")
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			recordError("bad_frame")
			s.sendError(protocol.ErrCodeBadFrame, "malformed frame")
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			s.handleEventFrame(frame.Body)

		case protocol.FrameAck:
			s.handleAck(frame.Body)

		case protocol.FramePing:
			s.handlePing(frame.Body)

		case protocol.FramePong:
			s.logger.Debug("pong received")

		default:
			s.logger.Warn("unexpected frame", "type", frame.Type)
		}
	}
}

// handleEventFrame decodes and queues an event from the client.
func (s *Session) handleEventFrame(body []byte) {
	ev, err := protocol.DecodeEvent(body)
	if err != nil {
		s.logger.Error("event decode error", "error", err)
		recordError("bad_event")
		s.sendError(protocol.ErrCodeBadEvent, "malformed event")
		return
	}

	select {
	case s.events <- ev:
	default:
		s.logger.Warn("event queue full, dropping event", "node", ev.Node, "type", ev.Type.String())
		recordError("queue_full")
		s.sendError(protocol.ErrCodeQueueFull, "event queue full")
	}
}

func (s *Session) handleAck(body []byte) {
	ack, err := protocol.DecodeAck(body)
	if err != nil {
		s.logger.Error("ack decode error", "error", err)
		return
	}
	s.ackSeq.Store(ack.LastSeq)
}

func (s *Session) handlePing(body []byte) {
	ts, err := protocol.DecodePing(body)
	if err != nil {
		s.logger.Error("ping decode error", "error", err)
		return
	}
	s.writeFrame(protocol.NewFrame(protocol.FramePong, protocol.EncodePing(ts)))
}

// writeLoop sends heartbeat pings until the session closes.
func (s *Session) writeLoop() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ping := protocol.NewFrame(protocol.FramePing, protocol.EncodePing(uint64(time.Now().UnixMilli())))
			if err := s.writeFrame(ping); err != nil {
				return
			}

		case <-s.done:
			return
		}
	}
}

// eventLoop is the only goroutine that touches the document.
func (s *Session) eventLoop() {
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)

		case fn := <-s.dispatchCh:
			s.runDispatch(fn)

		case <-s.done:
			return
		}
	}
}

// handleEvent applies one client event to the document and flushes the
// resulting patches. Handler errors are reported to the client; they
// never terminate the loop.
func (s *Session) handleEvent(ev *protocol.EventFrame) {
	s.recvSeq.Store(ev.Seq)

	name := ev.Type.DOMName()
	if name == "" {
		s.logger.Warn("unknown event type", "type", uint8(ev.Type))
		recordError("bad_event")
		s.sendError(protocol.ErrCodeBadEvent, "unknown event type")
		return
	}

	start := time.Now()
	_, span := s.tracer.Start(context.Background(), "live."+name,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("knobs.session_id", s.id),
			attribute.String("knobs.event_type", name),
			attribute.Int64("knobs.node", int64(ev.Node)),
		))
	defer span.End()

	err := s.applyEvent(ev, name)

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	recordEvent(name, status, time.Since(start))

	s.flush()
}

// applyEvent dispatches an event to its node handler with panic
// recovery. It reports anomalies to the client and returns the handler
// error, if any.
func (s *Session) applyEvent(ev *protocol.EventFrame, name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panic",
				"panic", r,
				"node", ev.Node,
				"type", name,
				"stack", string(debug.Stack()))
			recordError("panic")
			s.sendError(protocol.ErrCodeHandlerFailed, "handler panic")
			err = fmt.Errorf("live: handler panic: %v", r)
		}
	}()

	node := s.doc.FindByID(ev.Node)
	if node == nil {
		s.logger.Warn("event for unknown node", "node", ev.Node, "type", name)
		recordError("no_node")
		s.sendError(protocol.ErrCodeNoHandler, "no such node")
		return nil
	}

	handled, err := node.Dispatch(dom.Event{Type: name, Value: ev.Value, Checked: ev.Checked})
	if !handled {
		s.logger.Warn("no handler", "node", ev.Node, "type", name)
		recordError("no_handler")
		s.sendError(protocol.ErrCodeNoHandler, "no handler for "+name)
		return nil
	}
	if err != nil {
		var verr *widget.ValidationError
		if errors.As(err, &verr) {
			s.logger.Info("value rejected", "node", ev.Node, "error", err)
			s.sendError(protocol.ErrCodeRejected, verr.Error())
		} else {
			s.logger.Error("handler failed", "node", ev.Node, "error", err)
			recordError("handler")
			s.sendError(protocol.ErrCodeHandlerFailed, err.Error())
		}
		return err
	}
	return nil
}

// runDispatch runs a dispatched function with panic recovery, then
// flushes whatever it mutated.
func (s *Session) runDispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("dispatch panic", "panic", r, "stack", string(debug.Stack()))
		}
		s.flush()
	}()
	fn()
}

// Dispatch queues fn to run on the event loop, which is the only
// goroutine allowed to touch the session's document. Safe to call from
// any goroutine; mutations made by fn are flushed when it returns.
func (s *Session) Dispatch(fn func()) error {
	if fn == nil {
		return nil
	}
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.dispatchCh <- fn:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// flush sends accumulated patches as one sequenced frame.
func (s *Session) flush() {
	if len(s.pending) == 0 {
		return
	}
	patches := s.pending
	s.pending = nil
	s.SendPatches(patches)
}

// SendPatches encodes patches into the next sequenced frame and writes
// it out. Safe to call from any goroutine.
func (s *Session) SendPatches(patches []protocol.Patch) {
	pf := &protocol.PatchesFrame{
		Seq:     s.sendSeq.Add(1),
		Patches: patches,
	}
	if err := s.writeFrame(protocol.NewFrame(protocol.FramePatches, protocol.EncodePatches(pf))); err != nil {
		return
	}
	recordPatches(len(patches))
}

// sendError reports a protocol error to the client.
func (s *Session) sendError(code protocol.ErrorCode, message string) {
	em := &protocol.ErrorMessage{Code: code, Message: message}
	s.writeFrame(protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(em)))
}

// writeFrame writes one frame under the connection mutex. A write
// failure tears the session down.
func (s *Session) writeFrame(f *protocol.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, f.Encode()); err != nil {
		s.logger.Error("write error", "error", err)
		s.Close()
		return err
	}
	return nil
}

// Close shuts the session down. Idempotent and safe from any goroutine.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}

	close(s.done)

	s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	s.conn.Close()

	if s.started.Load() {
		recordSessionClose()
	}
	s.logger.Info("session closed",
		"recv_seq", s.recvSeq.Load(),
		"send_seq", s.sendSeq.Load(),
		"ack_seq", s.ackSeq.Load())
}
