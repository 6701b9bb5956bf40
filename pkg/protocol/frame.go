package protocol

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// Magic is the first byte of every frame.
	Magic = 0x4B

	// Version is the wire protocol version. A frame with a different
	// version byte is rejected.
	Version = 0x01

	// FrameHeaderSize is the size of the fixed frame header in bytes.
	// The varint body length follows the header.
	FrameHeaderSize = 4

	// MaxBodySize is the maximum frame body size.
	MaxBodySize = 1 << 20
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameHello   FrameType = 0x00 // Connection setup
	FrameEvent   FrameType = 0x01 // Client to server widget events
	FramePatches FrameType = 0x02 // Server to client DOM patches
	FrameAck     FrameType = 0x03 // Client acknowledges patches
	FramePing    FrameType = 0x04 // Keepalive probe
	FramePong    FrameType = 0x05 // Keepalive response
	FrameError   FrameType = 0x06 // Error report
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHello:
		return "Hello"
	case FrameEvent:
		return "Event"
	case FramePatches:
		return "Patches"
	case FrameAck:
		return "Ack"
	case FramePing:
		return "Ping"
	case FramePong:
		return "Pong"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags is the reserved flags byte of the header. No flags are
// assigned in protocol version 1; encoders write zero and decoders
// carry the byte through untouched.
type FrameFlags uint8

// Frame errors.
var (
	ErrBadMagic        = errors.New("protocol: bad frame magic")
	ErrVersionMismatch = errors.New("protocol: unsupported protocol version")
	ErrFrameTooLarge   = errors.New("protocol: frame body too large")
)

// Frame is a protocol frame: header plus body.
//
// Wire format:
//
//	┌──────────┬──────────┬──────────┬──────────┬─────────────┬──────┐
//	│ Magic    │ Version  │ Type     │ Flags    │ Body Length │ Body │
//	│ (1 byte) │ (1 byte) │ (1 byte) │ (1 byte) │ (varint)    │ ...  │
//	└──────────┴──────────┴──────────┴──────────┴─────────────┴──────┘
type Frame struct {
	Type  FrameType
	Flags FrameFlags
	Body  []byte
}

// NewFrame creates a frame with the given type and body.
func NewFrame(ft FrameType, body []byte) *Frame {
	return &Frame{Type: ft, Body: body}
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() []byte {
	length := len(f.Body)
	buf := make([]byte, 0, FrameHeaderSize+UvarintLen(uint64(length))+length)
	buf = append(buf, Magic, Version, byte(f.Type), byte(f.Flags))
	var tmp [MaxVarintLen]byte
	n := EncodeUvarint(tmp[:], uint64(length))
	buf = append(buf, tmp[:n]...)
	buf = append(buf, f.Body...)
	return buf
}

// DecodeFrame decodes a frame from bytes. The input must contain the
// complete frame; trailing bytes are ignored.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}
	if data[0] != Magic {
		return nil, ErrBadMagic
	}
	if data[1] != Version {
		return nil, ErrVersionMismatch
	}

	f := &Frame{Type: FrameType(data[2]), Flags: FrameFlags(data[3])}

	length, n := DecodeUvarint(data[FrameHeaderSize:])
	if n < 0 {
		return nil, io.ErrUnexpectedEOF
	}
	if length > MaxBodySize {
		return nil, ErrFrameTooLarge
	}
	body := data[FrameHeaderSize+n:]
	if uint64(len(body)) < length {
		return nil, io.ErrUnexpectedEOF
	}
	f.Body = make([]byte, length)
	copy(f.Body, body)
	return f, nil
}

// ReadFrame reads a complete frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	var header [FrameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	if header[0] != Magic {
		return nil, ErrBadMagic
	}
	if header[1] != Version {
		return nil, ErrVersionMismatch
	}

	f := &Frame{Type: FrameType(header[2]), Flags: FrameFlags(header[3])}

	length, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	if length > MaxBodySize {
		return nil, ErrFrameTooLarge
	}
	if length > 0 {
		f.Body = make([]byte, length)
		if _, err := io.ReadFull(r, f.Body); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteFrame writes a complete frame to w.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Body) > MaxBodySize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}

// readUvarint reads a varint from r one byte at a time.
func readUvarint(r io.Reader) (uint64, error) {
	var v uint64
	var shift uint
	var buf [1]byte

	for i := 0; ; i++ {
		if i >= MaxVarintLen {
			return 0, ErrVarintOverflow
		}
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		b := buf[0]
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, nil
		}
		shift += 7
	}
}
