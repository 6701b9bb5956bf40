package protocol

// ErrorCode identifies the type of error reported over the wire.
type ErrorCode uint16

const (
	ErrCodeUnknown       ErrorCode = 0x0000 // Unclassified error
	ErrCodeBadFrame      ErrorCode = 0x0001 // Malformed frame
	ErrCodeBadEvent      ErrorCode = 0x0002 // Malformed event
	ErrCodeNoHandler     ErrorCode = 0x0003 // Event addressed an unknown node
	ErrCodeHandlerFailed ErrorCode = 0x0004 // Handler returned an error
	ErrCodeRejected      ErrorCode = 0x0005 // Value rejected by widget validation
	ErrCodeQueueFull     ErrorCode = 0x0006 // Event queue overflow
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrCodeUnknown:
		return "Unknown"
	case ErrCodeBadFrame:
		return "BadFrame"
	case ErrCodeBadEvent:
		return "BadEvent"
	case ErrCodeNoHandler:
		return "NoHandler"
	case ErrCodeHandlerFailed:
		return "HandlerFailed"
	case ErrCodeRejected:
		return "Rejected"
	case ErrCodeQueueFull:
		return "QueueFull"
	default:
		return "Unknown"
	}
}

// ErrorMessage is sent when a frame or event could not be processed.
// Non-fatal errors leave the connection open; the client decides how to
// surface them.
type ErrorMessage struct {
	Code    ErrorCode
	Message string
	Fatal   bool // True if the connection should close
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	if em.Fatal {
		return "fatal: " + em.Code.String() + ": " + em.Message
	}
	return em.Code.String() + ": " + em.Message
}

// EncodeErrorMessage encodes an ErrorMessage to bytes.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteUint16(uint16(em.Code))
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage decodes an ErrorMessage from bytes.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)

	code, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}

	message, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	fatal, err := d.ReadBool()
	if err != nil {
		return nil, err
	}

	return &ErrorMessage{Code: ErrorCode(code), Message: message, Fatal: fatal}, nil
}
