package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScoreStore persists per-room cumulative scores in Redis: one hash per room
// code, player name -> score, rewritten in full after every scored round.
type ScoreStore interface {
	Load(ctx context.Context, roomCode string) (map[string]int, error)
	Save(ctx context.Context, roomCode string, scores map[string]int) error
	Delete(ctx context.Context, roomCode string) error
}

type scoreStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScoreStore creates a Redis-backed score store.
func NewScoreStore(client *redis.Client) ScoreStore {
	return &scoreStore{
		client: client,
		ttl:    24 * time.Hour, // stale score hashes expire on their own
	}
}

func (s *scoreStore) key(roomCode string) string {
	return fmt.Sprintf("room:%s:scores", roomCode)
}

func (s *scoreStore) Load(ctx context.Context, roomCode string) (map[string]int, error) {
	raw, err := s.client.HGetAll(ctx, s.key(roomCode)).Result()
	if err != nil {
		return nil, err
	}
	scores := make(map[string]int, len(raw))
	for name, val := range raw {
		n, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		scores[name] = n
	}
	return scores, nil
}

func (s *scoreStore) Save(ctx context.Context, roomCode string, scores map[string]int) error {
	key := s.key(roomCode)

	// Full rewrite: delete then repopulate in one round trip, so a name that
	// somehow left the in-memory map does not linger in the hash.
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(scores) > 0 {
		fields := make(map[string]interface{}, len(scores))
		for name, score := range scores {
			fields[name] = score
		}
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *scoreStore) Delete(ctx context.Context, roomCode string) error {
	return s.client.Del(ctx, s.key(roomCode)).Err()
}
