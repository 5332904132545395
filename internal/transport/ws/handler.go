package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"quizzone/internal/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // room codes gate access, not origins
	},
}

// Inbound event types. Players submit answers; hosts drive progression;
// moderators gate admission. request-leaderboard is accepted from both hosts
// and moderators.
const (
	evtSubmitAnswer       = "submit-answer"
	evtStartGame          = "start-game"
	evtAdvanceQuestion    = "advance-question"
	evtRequestRoundIntro  = "request-round-intro"
	evtRequestLeaderboard = "request-leaderboard"
	evtApprove            = "approve"
	evtRevoke             = "revoke"
)

type submitAnswerPayload struct {
	Option int `json:"option"`
}

type namePayload struct {
	Name string `json:"name"`
}

type leaderboardRequestPayload struct {
	Top int `json:"top"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// Handler upgrades connections and pipes inbound events into the game core.
type Handler struct {
	hub      *Hub
	registry *game.Registry
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub, registry *game.Registry) *Handler {
	return &Handler{hub: hub, registry: registry}
}

// PlayerWS handles GET /v1/ws/rooms/{code}/player?name=...
// The connection reserves the name on attach; a taken name closes the socket
// with a policy-violation close frame.
func (h *Handler) PlayerWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	name := r.URL.Query().Get("name")

	room, err := h.registry.Room(code)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := &Connection{
		ID:       uuid.NewString(),
		RoomCode: code,
		Role:     RolePlayer,
		Name:     name,
		Send:     make(chan []byte, 256),
		limiter:  rate.NewLimiter(5, 10),
	}
	h.hub.Register(conn)

	if err := room.Join(conn.ID, name); err != nil {
		h.hub.SendToConnection(code, conn.ID, "error", errorPayload{Error: err.Error()})
		closeWith(wsConn, websocket.ClosePolicyViolation, "name-taken")
		h.hub.Unregister(conn)
		if !errors.Is(err, game.ErrNameTaken) {
			log.Warn().Err(err).Str("room", code).Msg("player join failed")
		}
		return
	}

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn, room)
}

// HostWS handles GET /v1/ws/rooms/{code}/host.
func (h *Handler) HostWS(w http.ResponseWriter, r *http.Request) {
	h.attachObserver(w, r, RoleHost)
}

// ModeratorWS handles GET /v1/ws/rooms/{code}/moderator.
func (h *Handler) ModeratorWS(w http.ResponseWriter, r *http.Request) {
	h.attachObserver(w, r, RoleModerator)
}

// attachObserver subscribes a host or moderator to a room and hands them the
// current roster snapshot so they do not wait for the next change.
func (h *Handler) attachObserver(w http.ResponseWriter, r *http.Request, role Role) {
	code := mux.Vars(r)["code"]

	room, err := h.registry.Room(code)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := &Connection{
		ID:       uuid.NewString(),
		RoomCode: code,
		Role:     role,
		Send:     make(chan []byte, 256),
		limiter:  rate.NewLimiter(5, 10),
	}
	h.hub.Register(conn)
	h.hub.SendToConnection(code, conn.ID, game.MsgSnapshot, room.Snapshot())

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn, room)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection, room *game.Room) {
	defer func() {
		h.hub.Unregister(conn)
		if conn.Role == RolePlayer {
			room.Disconnect(conn.ID)
		}
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("room", conn.RoomCode).Msg("websocket read ended")
			}
			return
		}
		if !conn.limiter.Allow() {
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		h.dispatch(conn, room, &msg)
	}
}

// dispatch applies one inbound event. Unknown or mis-roled events are logged
// and dropped; no event here can take the process down.
func (h *Handler) dispatch(conn *Connection, room *game.Room, msg *Message) {
	switch {
	case conn.Role == RolePlayer && msg.Type == evtSubmitAnswer:
		var p submitAnswerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		room.SubmitAnswer(conn.ID, p.Option) // a rejected duplicate gets no feedback

	case conn.Role == RoleHost && msg.Type == evtStartGame:
		room.Start()

	case conn.Role == RoleHost && msg.Type == evtAdvanceQuestion:
		room.Advance()

	case conn.Role == RoleHost && msg.Type == evtRequestRoundIntro:
		room.RoundIntro()

	case (conn.Role == RoleHost || conn.Role == RoleModerator) && msg.Type == evtRequestLeaderboard:
		var p leaderboardRequestPayload
		_ = json.Unmarshal(msg.Payload, &p)
		room.PublishLeaderboard(p.Top)

	case conn.Role == RoleModerator && msg.Type == evtApprove:
		var p namePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		room.Approve(p.Name)

	case conn.Role == RoleModerator && msg.Type == evtRevoke:
		var p namePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		room.Revoke(p.Name)

	default:
		log.Debug().Str("room", conn.RoomCode).Str("role", string(conn.Role)).Str("type", msg.Type).Msg("event dropped")
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func closeWith(wsConn *websocket.Conn, code int, reason string) {
	wsConn.SetWriteDeadline(time.Now().Add(writeWait))
	wsConn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	wsConn.Close()
}
