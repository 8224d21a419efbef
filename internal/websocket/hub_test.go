package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

func TestNewMessageType(t *testing.T) {
	msg := NewMessage("registration", "withdrawn", "abc-123", nil)
	if msg.Type != "registration_withdrawn" {
		t.Errorf("type = %q, want registration_withdrawn", msg.Type)
	}
	if msg.ID != "abc-123" {
		t.Errorf("id = %q", msg.ID)
	}
}

func TestRegisterUnregister(t *testing.T) {
	h := testHub()
	c := &Client{hub: h, send: make(chan []byte, 1)}

	h.Register(c)
	if h.ClientCount() != 1 {
		t.Fatalf("count = %d, want 1", h.ClientCount())
	}

	h.Unregister(c)
	if h.ClientCount() != 0 {
		t.Fatalf("count = %d, want 0", h.ClientCount())
	}
	if _, open := <-c.send; open {
		t.Error("send channel should be closed after unregister")
	}
}

func TestBroadcastDeliversToClients(t *testing.T) {
	h := testHub()
	c := &Client{hub: h, send: make(chan []byte, 4)}
	h.Register(c)

	h.Broadcast(NewMessage("families", "changed", "", map[string]any{"reason": "billing"}))

	select {
	case data := <-c.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Type != "families_changed" {
			t.Errorf("type = %q", msg.Type)
		}
	default:
		t.Fatal("no message delivered")
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	h := testHub()
	c := &Client{hub: h, send: make(chan []byte)} // no buffer, nothing draining
	h.Register(c)

	// Must not block.
	h.Broadcast(NewMessage("registration", "created", "x", nil))
}
