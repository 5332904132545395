package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"quizzone/internal/game"
)

// RoomHandler handles room endpoints.
type RoomHandler struct {
	registry *game.Registry
}

// NewRoomHandler creates a new room handler.
func NewRoomHandler(registry *game.Registry) *RoomHandler {
	return &RoomHandler{registry: registry}
}

// CreateRoomRequest is the request body for creating a room.
type CreateRoomRequest struct {
	QuestionSetID string `json:"questionSetId"`
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionSetID == "" {
		writeError(w, http.StatusBadRequest, "questionSetId is required")
		return
	}

	code, err := h.registry.CreateRoom(r.Context(), req.QuestionSetID)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrContentNotFound):
			writeError(w, http.StatusNotFound, "question set not found")
		case errors.Is(err, game.ErrCodeExhausted):
			writeError(w, http.StatusServiceUnavailable, "could not allocate a room code")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"code": code})
}

// Get handles GET /v1/rooms/{code}.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	room, err := h.registry.Room(code)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	writeJSON(w, http.StatusOK, room.Summary())
}

// Leaderboard handles GET /v1/rooms/{code}/leaderboard.
func (h *RoomHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	room, err := h.registry.Room(code)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	top := 20
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		if n, err := strconv.Atoi(topStr); err == nil && n > 0 {
			top = n
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": room.Leaderboard(top)})
}
