package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Role is what a connection is attached as. Players hold a name; hosts and
// moderators subscribe to the same broadcasts without one.
type Role string

const (
	RoleHost      Role = "host"
	RoleModerator Role = "moderator"
	RolePlayer    Role = "player"
)

// Message is the WebSocket envelope format, inbound and outbound.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Connection is one WebSocket attachment to a room.
type Connection struct {
	ID       string
	RoomCode string
	Role     Role
	Name     string // player name, empty for host/moderator
	Send     chan []byte

	limiter *rate.Limiter
}

// BroadcastMessage routes one outbound message: to a single connection when
// ConnID is set, to the whole room otherwise.
type BroadcastMessage struct {
	RoomCode string
	ConnID   string
	Message  *Message
}

// Hub fans outbound messages to the connections of each room. It implements
// game.Broadcaster; sends never block the game core, messages to slow
// consumers are dropped.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[string]*Connection // roomCode -> connID -> conn

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// NewHub creates a hub and starts its routing loop.
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.RoomCode] == nil {
				h.conns[conn.RoomCode] = make(map[string]*Connection)
			}
			h.conns[conn.RoomCode][conn.ID] = conn
			h.mu.Unlock()
			log.Debug().Str("room", conn.RoomCode).Str("role", string(conn.Role)).Msg("connection registered")

		case conn := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.conns[conn.RoomCode]; ok {
				if existing, ok := room[conn.ID]; ok && existing == conn {
					delete(room, conn.ID)
					close(conn.Send)
					if len(room) == 0 {
						delete(h.conns, conn.RoomCode)
					}
				}
			}
			h.mu.Unlock()
			log.Debug().Str("room", conn.RoomCode).Str("role", string(conn.Role)).Msg("connection unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			if room, ok := h.conns[msg.RoomCode]; ok {
				if msg.ConnID != "" {
					if conn, ok := room[msg.ConnID]; ok {
						deliver(conn, data)
					}
				} else {
					for _, conn := range room {
						deliver(conn, data)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func deliver(conn *Connection, data []byte) {
	select {
	case conn.Send <- data:
	default:
		// Slow consumer; drop rather than stall the room.
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToRoom sends a message to every connection of a room (implements
// game.Broadcaster).
func (h *Hub) BroadcastToRoom(roomCode string, msgType string, payload interface{}) {
	h.enqueue(roomCode, "", msgType, payload)
}

// SendToConnection sends a message to one connection (implements
// game.Broadcaster).
func (h *Hub) SendToConnection(roomCode, connID string, msgType string, payload interface{}) {
	h.enqueue(roomCode, connID, msgType, payload)
}

func (h *Hub) enqueue(roomCode, connID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("payload marshal failed")
		return
	}
	msg := &BroadcastMessage{
		RoomCode: roomCode,
		ConnID:   connID,
		Message:  &Message{Type: msgType, Payload: data},
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Warn().Str("room", roomCode).Str("type", msgType).Msg("broadcast queue full, message dropped")
	}
}
