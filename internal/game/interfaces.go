package game

import (
	"context"

	"quizzone/internal/model"
)

// QuestionProvider supplies the ordered question list a room is created from.
// A (nil, nil) return means the set does not exist.
type QuestionProvider interface {
	GetByID(ctx context.Context, id string) (*model.QuestionSet, error)
}

// ScoreStore persists the cumulative scores of a room, keyed by room code.
// Writes happen after every scored round and are best-effort: the in-memory
// scores map stays the source of truth whether or not the write lands.
type ScoreStore interface {
	Load(ctx context.Context, roomCode string) (map[string]int, error)
	Save(ctx context.Context, roomCode string, scores map[string]int) error
	Delete(ctx context.Context, roomCode string) error
}

// Broadcaster delivers outbound events to the connections attached to a room.
// Implementations must not block the caller.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msgType string, payload interface{})
	SendToConnection(roomCode, connID string, msgType string, payload interface{})
}

// CodeGenerator produces short random room codes. Uniqueness against live
// rooms is the registry's job, not the generator's.
type CodeGenerator interface {
	Generate(length int) (string, error)
}
