package protocol

// Ack is sent by the client to acknowledge received patches. It lets
// the server garbage-collect anything retained for resync and notice a
// lagging client.
type Ack struct {
	LastSeq uint64 // Last received patch sequence
}

// EncodeAck encodes an Ack to bytes.
func EncodeAck(ack *Ack) []byte {
	e := NewEncoder()
	e.WriteUvarint(ack.LastSeq)
	return e.Bytes()
}

// DecodeAck decodes an Ack from bytes.
func DecodeAck(data []byte) (*Ack, error) {
	d := NewDecoder(data)
	lastSeq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	return &Ack{LastSeq: lastSeq}, nil
}

// EncodePing encodes a ping or pong body. Both carry only the sender's
// timestamp in Unix milliseconds; a pong echoes the ping's timestamp so
// the pinger can measure round-trip time.
func EncodePing(timestamp uint64) []byte {
	e := NewEncoder()
	e.WriteUvarint(timestamp)
	return e.Bytes()
}

// DecodePing decodes a ping or pong body.
func DecodePing(data []byte) (uint64, error) {
	d := NewDecoder(data)
	return d.ReadUvarint()
}
