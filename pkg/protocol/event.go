package protocol

// EventType identifies the type of client event.
type EventType uint8

// Event type constants. The set matches what form widgets handle; the
// decoder tolerates types it does not know so the client can be
// extended first.
const (
	EventClick  EventType = 0x01 // Button and row clicks
	EventInput  EventType = 0x02 // Value changing (text, slider)
	EventChange EventType = 0x03 // Value committed (select, checkbox)
	EventSubmit EventType = 0x04 // Form submission
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	switch et {
	case EventClick:
		return "Click"
	case EventInput:
		return "Input"
	case EventChange:
		return "Change"
	case EventSubmit:
		return "Submit"
	default:
		return "Unknown"
	}
}

// DOMName returns the DOM event name dispatched for this type, or ""
// for types this server does not handle.
func (et EventType) DOMName() string {
	switch et {
	case EventClick:
		return "click"
	case EventInput:
		return "input"
	case EventChange:
		return "change"
	case EventSubmit:
		return "submit"
	default:
		return ""
	}
}

// EventTypeFromName returns the wire type for a DOM event name, and
// whether the name is part of the protocol.
func EventTypeFromName(name string) (EventType, bool) {
	switch name {
	case "click":
		return EventClick, true
	case "input":
		return EventInput, true
	case "change":
		return EventChange, true
	case "submit":
		return EventSubmit, true
	default:
		return 0, false
	}
}

// EventFrame is a client event addressed to a node by its data-k id.
//
// Wire format: [Seq: varint][Type: 1 byte][Node: varint], followed by
// the value for input/change events and the checked byte for change
// events. Click and submit carry no payload beyond the target, which
// keeps them at a handful of bytes.
type EventFrame struct {
	Seq     uint64
	Type    EventType
	Node    uint64
	Value   string
	Checked bool
}

// EncodeEvent encodes an event frame to bytes.
func EncodeEvent(ev *EventFrame) []byte {
	e := NewEncoder()
	EncodeEventTo(e, ev)
	return e.Bytes()
}

// EncodeEventTo encodes an event frame using the provided encoder.
func EncodeEventTo(e *Encoder, ev *EventFrame) {
	e.WriteUvarint(ev.Seq)
	e.WriteByte(byte(ev.Type))
	e.WriteUvarint(ev.Node)

	switch ev.Type {
	case EventInput:
		e.WriteString(ev.Value)
	case EventChange:
		e.WriteString(ev.Value)
		e.WriteBool(ev.Checked)
	}
}

// DecodeEvent decodes an event frame from bytes.
func DecodeEvent(data []byte) (*EventFrame, error) {
	d := NewDecoder(data)
	return DecodeEventFrom(d)
}

// DecodeEventFrom decodes an event frame from a decoder.
func DecodeEventFrom(d *Decoder) (*EventFrame, error) {
	ev := &EventFrame{}
	var err error

	ev.Seq, err = d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	ev.Type = EventType(t)

	ev.Node, err = d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	switch ev.Type {
	case EventInput:
		ev.Value, err = d.ReadString()
	case EventChange:
		ev.Value, err = d.ReadString()
		if err != nil {
			return nil, err
		}
		ev.Checked, err = d.ReadBool()
	}
	if err != nil {
		return nil, err
	}

	return ev, nil
}
