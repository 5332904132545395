package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConn(room, id string, role Role) *Connection {
	return &Connection{
		ID:       id,
		RoomCode: room,
		Role:     role,
		Send:     make(chan []byte, 8),
	}
}

func recv(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func expectNothing(t *testing.T, conn *Connection) {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		if ok {
			t.Fatalf("unexpected message: %s", data)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastReachesOnlyTheRoom(t *testing.T) {
	h := NewHub()

	a1 := newTestConn("AAAAAA", "a1", RolePlayer)
	a2 := newTestConn("AAAAAA", "a2", RoleHost)
	b1 := newTestConn("BBBBBB", "b1", RolePlayer)
	h.Register(a1)
	h.Register(a2)
	h.Register(b1)

	h.BroadcastToRoom("AAAAAA", "question", map[string]int{"index": 0})

	for _, conn := range []*Connection{a1, a2} {
		msg := recv(t, conn)
		assert.Equal(t, "question", msg.Type)
		assert.JSONEq(t, `{"index":0}`, string(msg.Payload))
	}
	expectNothing(t, b1)
}

func TestSendToConnectionIsUnicast(t *testing.T) {
	h := NewHub()

	c1 := newTestConn("AAAAAA", "c1", RolePlayer)
	c2 := newTestConn("AAAAAA", "c2", RolePlayer)
	h.Register(c1)
	h.Register(c2)

	h.SendToConnection("AAAAAA", "c1", "approved", struct{}{})

	msg := recv(t, c1)
	assert.Equal(t, "approved", msg.Type)
	expectNothing(t, c2)
}

func TestSendToUnknownConnectionIsDropped(t *testing.T) {
	h := NewHub()

	c1 := newTestConn("AAAAAA", "c1", RolePlayer)
	h.Register(c1)

	h.SendToConnection("AAAAAA", "ghost", "approved", struct{}{})
	h.SendToConnection("BBBBBB", "c1", "approved", struct{}{})

	expectNothing(t, c1)
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	h := NewHub()

	c1 := newTestConn("AAAAAA", "c1", RolePlayer)
	h.Register(c1)
	h.Unregister(c1)

	select {
	case _, ok := <-c1.Send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}

	// Messages after unregister go nowhere.
	h.BroadcastToRoom("AAAAAA", "question", struct{}{})
}

func TestSlowConsumerDoesNotBlockBroadcast(t *testing.T) {
	h := NewHub()

	slow := &Connection{ID: "slow", RoomCode: "AAAAAA", Role: RolePlayer, Send: make(chan []byte, 1)}
	fast := newTestConn("AAAAAA", "fast", RolePlayer)
	h.Register(slow)
	h.Register(fast)

	// The slow consumer's buffer fills after one message; later ones drop.
	for i := 0; i < 5; i++ {
		h.BroadcastToRoom("AAAAAA", "question", map[string]int{"index": i})
	}

	for i := 0; i < 5; i++ {
		msg := recv(t, fast)
		assert.Equal(t, "question", msg.Type)
	}
	recv(t, slow)
	expectNothing(t, slow)
}
