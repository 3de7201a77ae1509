package kernel

import "errors"

// MaxPayloadBytes is the maximum payload size carried inline by a Message.
//
// Bulk data belongs to the owning task; messages carry events, not buffers.
const MaxPayloadBytes = 32

// Kind identifies the event carried by a Message.
type Kind uint16

// Handle identifies a registered task.
//
// Handles are issued in registration order starting at 0 and stay valid for
// the process lifetime.
type Handle uint8

// Broadcast addresses every registered task.
const Broadcast Handle = 0xFF

var ErrPayloadTooLarge = errors.New("payload too large")

// Message is an immutable addressed event.
type Message struct {
	kind Kind
	to   Handle
	n    uint8
	data [MaxPayloadBytes]byte
}

// NewMessage returns a broadcast message with no payload.
func NewMessage(kind Kind) Message {
	return Message{kind: kind, to: Broadcast}
}

// NewMessageTo returns a message addressed to a single task.
func NewMessageTo(kind Kind, to Handle) Message {
	return Message{kind: kind, to: to}
}

// WithPayload returns a copy of m carrying a copy of p.
func (m Message) WithPayload(p []byte) (Message, error) {
	if len(p) > MaxPayloadBytes {
		return m, ErrPayloadTooLarge
	}
	m.n = uint8(len(p))
	m.data = [MaxPayloadBytes]byte{}
	copy(m.data[:], p)
	return m, nil
}

// Kind returns the message kind.
func (m Message) Kind() Kind { return m.kind }

// To returns the destination handle (Broadcast for broadcasts).
func (m Message) To() Handle { return m.to }

// IsBroadcast reports whether m addresses every task.
func (m Message) IsBroadcast() bool { return m.to == Broadcast }

// Payload returns the payload bytes. The slice aliases the receiver copy.
func (m Message) Payload() []byte {
	n := int(m.n)
	if n > MaxPayloadBytes {
		n = MaxPayloadBytes
	}
	return m.data[:n]
}
