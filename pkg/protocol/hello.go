package protocol

// HelloStatus represents the result of the session handshake.
type HelloStatus uint8

const (
	HelloOK          HelloStatus = 0x00
	HelloBusy        HelloStatus = 0x01 // Server at session capacity
	HelloUnsupported HelloStatus = 0x02 // Client protocol too old
)

// String returns the string representation of the handshake status.
func (hs HelloStatus) String() string {
	switch hs {
	case HelloOK:
		return "OK"
	case HelloBusy:
		return "Busy"
	case HelloUnsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// ClientHello is sent by the client as its first frame after the
// WebSocket connection is established.
type ClientHello struct {
	Page    string // Path of the page the client is viewing
	LastSeq uint64 // Last patch sequence applied (0 for a fresh page)
}

// EncodeClientHello encodes a ClientHello to bytes.
func EncodeClientHello(ch *ClientHello) []byte {
	e := NewEncoder()
	EncodeClientHelloTo(e, ch)
	return e.Bytes()
}

// EncodeClientHelloTo encodes a ClientHello using the provided encoder.
func EncodeClientHelloTo(e *Encoder, ch *ClientHello) {
	e.WriteString(ch.Page)
	e.WriteUvarint(ch.LastSeq)
}

// DecodeClientHello decodes a ClientHello from bytes.
func DecodeClientHello(data []byte) (*ClientHello, error) {
	d := NewDecoder(data)
	return DecodeClientHelloFrom(d)
}

// DecodeClientHelloFrom decodes a ClientHello from a decoder.
func DecodeClientHelloFrom(d *Decoder) (*ClientHello, error) {
	ch := &ClientHello{}
	var err error

	ch.Page, err = d.ReadString()
	if err != nil {
		return nil, err
	}

	ch.LastSeq, err = d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	return ch, nil
}

// ServerHello is the server's response to a ClientHello.
type ServerHello struct {
	Status     HelloStatus
	SessionID  string // Assigned session id
	NextSeq    uint64 // First patch sequence the server will send
	ServerTime uint64 // Server time in Unix milliseconds
}

// EncodeServerHello encodes a ServerHello to bytes.
func EncodeServerHello(sh *ServerHello) []byte {
	e := NewEncoder()
	EncodeServerHelloTo(e, sh)
	return e.Bytes()
}

// EncodeServerHelloTo encodes a ServerHello using the provided encoder.
func EncodeServerHelloTo(e *Encoder, sh *ServerHello) {
	e.WriteByte(byte(sh.Status))
	e.WriteString(sh.SessionID)
	e.WriteUvarint(sh.NextSeq)
	e.WriteUint64(sh.ServerTime)
}

// DecodeServerHello decodes a ServerHello from bytes.
func DecodeServerHello(data []byte) (*ServerHello, error) {
	d := NewDecoder(data)
	return DecodeServerHelloFrom(d)
}

// DecodeServerHelloFrom decodes a ServerHello from a decoder.
func DecodeServerHelloFrom(d *Decoder) (*ServerHello, error) {
	sh := &ServerHello{}

	status, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	sh.Status = HelloStatus(status)

	sh.SessionID, err = d.ReadString()
	if err != nil {
		return nil, err
	}

	sh.NextSeq, err = d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	sh.ServerTime, err = d.ReadUint64()
	if err != nil {
		return nil, err
	}

	return sh, nil
}
