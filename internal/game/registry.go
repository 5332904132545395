package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	codeLength       = 6
	maxCodeAttempts  = 10
	defaultRoomTTL   = 2 * time.Hour
	janitorFrequency = time.Minute
)

// Registry owns every live room, keyed by room code. It is handed to the
// transport handlers explicitly; there is no package-level rooms map.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	provider    QuestionProvider
	store       ScoreStore
	codes       CodeGenerator
	scoring     Scoring
	broadcaster Broadcaster
}

// NewRegistry creates a registry over the given collaborators. The broadcaster
// is wired afterwards via SetBroadcaster, once the hub exists.
func NewRegistry(provider QuestionProvider, store ScoreStore, codes CodeGenerator, scoring Scoring) *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		provider: provider,
		store:    store,
		codes:    codes,
		scoring:  scoring,
	}
}

// SetBroadcaster wires the outbound event fabric. Rooms created before this
// call broadcast into the void, so call it before serving traffic.
func (g *Registry) SetBroadcaster(b Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.broadcaster = b
}

// CreateRoom loads the referenced question set, picks a code that no live room
// holds, and registers a fresh room. Any scores already persisted under the
// chosen code (a previous process, same code) seed the board.
func (g *Registry) CreateRoom(ctx context.Context, questionSetID string) (string, error) {
	qs, err := g.provider.GetByID(ctx, questionSetID)
	if err != nil {
		return "", fmt.Errorf("load question set: %w", err)
	}
	if qs == nil || len(qs.Questions) == 0 {
		return "", ErrContentNotFound
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	code := ""
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		candidate, err := g.codes.Generate(codeLength)
		if err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		if _, live := g.rooms[candidate]; !live {
			code = candidate
			break
		}
	}
	if code == "" {
		return "", ErrCodeExhausted
	}

	seed, err := g.store.Load(ctx, code)
	if err != nil {
		log.Warn().Err(err).Str("room", code).Msg("score preload failed, starting from zero")
		seed = nil
	}

	g.rooms[code] = newRoom(code, qs.Questions, seed, g.scoring, g.broadcaster, g.store)
	log.Info().Str("room", code).Int("questions", len(qs.Questions)).Msg("room created")
	return code, nil
}

// Room looks up a live room by code.
func (g *Registry) Room(code string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// StartJanitor reaps rooms idle beyond ttl until ctx is cancelled. ttl <= 0
// falls back to the default. Rooms are in-memory only, so without the janitor
// they live until process shutdown.
func (g *Registry) StartJanitor(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultRoomTTL
	}
	go func() {
		ticker := time.NewTicker(janitorFrequency)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				g.sweep(now, ttl)
			}
		}
	}()
}

func (g *Registry) sweep(now time.Time, ttl time.Duration) {
	g.mu.Lock()
	expired := make([]*Room, 0)
	for code, room := range g.rooms {
		if now.Sub(room.LastActive()) > ttl {
			delete(g.rooms, code)
			expired = append(expired, room)
		}
	}
	g.mu.Unlock()

	for _, room := range expired {
		if err := g.store.Delete(context.Background(), room.Code()); err != nil {
			log.Warn().Err(err).Str("room", room.Code()).Msg("score cleanup failed")
		}
		log.Info().Str("room", room.Code()).Msg("idle room reaped")
	}
}
