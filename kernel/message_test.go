package kernel

import (
	"bytes"
	"errors"
	"testing"
)

func TestMessageDefaultsToBroadcast(t *testing.T) {
	m := NewMessage(3)
	if !m.IsBroadcast() || m.To() != Broadcast {
		t.Fatalf("NewMessage(3).To() = %d, want Broadcast", m.To())
	}
	if len(m.Payload()) != 0 {
		t.Fatalf("Payload() len = %d, want 0", len(m.Payload()))
	}

	m = NewMessageTo(3, 2)
	if m.IsBroadcast() || m.To() != 2 || m.Kind() != 3 {
		t.Fatalf("NewMessageTo(3, 2) = kind %d to %d", m.Kind(), m.To())
	}
}

func TestMessagePayloadIsCopied(t *testing.T) {
	buf := []byte{1, 2, 3}
	m, err := NewMessageTo(1, 0).WithPayload(buf)
	if err != nil {
		t.Fatalf("WithPayload: %v", err)
	}
	buf[0] = 9
	if got := m.Payload(); !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("Payload() = %v, want [1 2 3]", got)
	}

	m2, _ := m.WithPayload([]byte{7})
	if !bytes.Equal(m.Payload(), []byte{1, 2, 3}) {
		t.Fatalf("original Payload() changed to %v", m.Payload())
	}
	if !bytes.Equal(m2.Payload(), []byte{7}) {
		t.Fatalf("copy Payload() = %v, want [7]", m2.Payload())
	}
}

func TestMessagePayloadBound(t *testing.T) {
	if _, err := NewMessage(1).WithPayload(make([]byte, MaxPayloadBytes)); err != nil {
		t.Fatalf("WithPayload(%d bytes): %v", MaxPayloadBytes, err)
	}
	if _, err := NewMessage(1).WithPayload(make([]byte, MaxPayloadBytes+1)); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("WithPayload(%d bytes) err = %v, want ErrPayloadTooLarge", MaxPayloadBytes+1, err)
	}
}
