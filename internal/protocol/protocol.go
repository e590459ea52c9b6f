package protocol

import (
	"bytes"
	"fmt"
)

// Control token literals. Each token travels as the full payload of one
// UDP datagram; there is no framing beyond the datagram boundary.
const (
	TokenConnect    = "CONNECT"
	TokenHeartbeat  = "HEARTBEAT"
	TokenDisconnect = "DISCONNECT"
	TokenAck        = "ACK"
)

// MaxDatagramSize bounds both receive buffers and outbound payloads.
const MaxDatagramSize = 4096

// LineTerminator is appended to every broadcast data line.
const LineTerminator = "\r\n"

// Kind classifies one inbound client->server datagram.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnect
	KindHeartbeat
	KindDisconnect
)

func (k Kind) String() string {
	switch k {
	case KindConnect:
		return TokenConnect
	case KindHeartbeat:
		return TokenHeartbeat
	case KindDisconnect:
		return TokenDisconnect
	default:
		return "UNKNOWN"
	}
}

// Classify maps an inbound payload to its control kind. Surrounding
// whitespace is ignored so `CONNECT\n` and `CONNECT` are equivalent.
func Classify(payload []byte) (Kind, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return KindUnknown, ErrEmptyMessage
	}
	switch string(trimmed) {
	case TokenConnect:
		return KindConnect, nil
	case TokenHeartbeat:
		return KindHeartbeat, nil
	case TokenDisconnect:
		return KindDisconnect, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownMessage, previewPayload(trimmed))
	}
}

// IsAck reports whether a server->client payload is the ACK reply rather
// than a broadcast data line.
func IsAck(payload []byte) bool {
	return string(bytes.TrimSpace(payload)) == TokenAck
}

// EncodeLine frames one data line for broadcast.
func EncodeLine(line string) ([]byte, error) {
	if len(line)+len(LineTerminator) > MaxDatagramSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(line))
	}
	out := make([]byte, 0, len(line)+len(LineTerminator))
	out = append(out, line...)
	out = append(out, LineTerminator...)
	return out, nil
}

func previewPayload(p []byte) string {
	const max = 32
	if len(p) <= max {
		return string(p)
	}
	return string(p[:max]) + "..."
}
