package protocol

// MaxVarintLen is the maximum number of bytes a varint can occupy.
// A uint64 requires at most 10 bytes in varint encoding.
const MaxVarintLen = 10

// EncodeUvarint encodes an unsigned integer as a varint into buf and
// returns the number of bytes written. buf must have at least
// MaxVarintLen bytes available. Uses protobuf-style encoding: 7 bits of
// data per byte, MSB indicates continuation.
func EncodeUvarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// DecodeUvarint decodes an unsigned varint from buf.
// Returns (value, bytesRead). If bytesRead < 0, decoding failed:
//   - -1: buffer too short (incomplete varint)
//   - -2: varint overflow (more than 10 bytes)
func DecodeUvarint(buf []byte) (uint64, int) {
	var v uint64
	var shift uint

	for i, b := range buf {
		if i >= MaxVarintLen {
			return 0, -2
		}
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, -1
}

// UvarintLen returns the number of bytes needed to encode v as a varint.
func UvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}
