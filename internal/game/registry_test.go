package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizzone/internal/model"
)

func testProvider() *fakeProvider {
	return &fakeProvider{sets: map[string]*model.QuestionSet{
		"set-1": {ID: "set-1", Name: "warmup", Questions: questions(3)},
		"empty": {ID: "empty", Name: "no questions"},
	}}
}

func newTestRegistry(codes CodeGenerator, store *fakeScoreStore) *Registry {
	reg := NewRegistry(testProvider(), store, codes, Scoring{BasePoints: 100, FirstBonus: 50})
	reg.SetBroadcaster(&fakeBroadcaster{})
	return reg
}

func TestCreateRoomUnknownQuestionSet(t *testing.T) {
	reg := newTestRegistry(NewCodeGenerator(), &fakeScoreStore{})

	_, err := reg.CreateRoom(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrContentNotFound)

	_, err = reg.CreateRoom(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestCreateRoomRetriesCollidingCodes(t *testing.T) {
	codes := &seqCodes{codes: []string{"AAAAAA", "AAAAAA", "BBBBBB"}}
	reg := newTestRegistry(codes, &fakeScoreStore{})

	first, err := reg.CreateRoom(context.Background(), "set-1")
	require.NoError(t, err)
	assert.Equal(t, "AAAAAA", first)

	// The generator repeats AAAAAA once before yielding a fresh code.
	second, err := reg.CreateRoom(context.Background(), "set-1")
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", second)
}

func TestCreateRoomGivesUpWhenCodesExhausted(t *testing.T) {
	codes := &seqCodes{codes: []string{"AAAAAA"}}
	reg := newTestRegistry(codes, &fakeScoreStore{})

	_, err := reg.CreateRoom(context.Background(), "set-1")
	require.NoError(t, err)

	_, err = reg.CreateRoom(context.Background(), "set-1")
	assert.ErrorIs(t, err, ErrCodeExhausted)
}

func TestConcurrentCreateRoomYieldsUniqueCodes(t *testing.T) {
	reg := newTestRegistry(NewCodeGenerator(), &fakeScoreStore{})

	const n = 20
	codes := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := reg.CreateRoom(context.Background(), "set-1")
			assert.NoError(t, err)
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]bool, n)
	for code := range codes {
		assert.Len(t, code, codeLength)
		assert.False(t, seen[code], "duplicate room code %s", code)
		seen[code] = true
	}
	assert.Len(t, seen, n)
}

func TestCreateRoomSeedsPersistedScores(t *testing.T) {
	store := &fakeScoreStore{preload: map[string]map[string]int{
		"AAAAAA": {"Alice": 200, "Bob": 50},
	}}
	reg := newTestRegistry(&seqCodes{codes: []string{"AAAAAA"}}, store)

	code, err := reg.CreateRoom(context.Background(), "set-1")
	require.NoError(t, err)

	room, err := reg.Room(code)
	require.NoError(t, err)
	entries := room.Leaderboard(0)
	require.Len(t, entries, 2)
	assert.Equal(t, model.LeaderboardEntry{Name: "Alice", Score: 200, Rank: 1}, entries[0])
	assert.Equal(t, model.LeaderboardEntry{Name: "Bob", Score: 50, Rank: 2}, entries[1])
}

func TestRoomLookupNotFound(t *testing.T) {
	reg := newTestRegistry(NewCodeGenerator(), &fakeScoreStore{})

	_, err := reg.Room("NOSUCH")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestSweepReapsIdleRoomsOnly(t *testing.T) {
	store := &fakeScoreStore{}
	reg := newTestRegistry(&seqCodes{codes: []string{"AAAAAA", "BBBBBB"}}, store)

	idle, err := reg.CreateRoom(context.Background(), "set-1")
	require.NoError(t, err)
	busy, err := reg.CreateRoom(context.Background(), "set-1")
	require.NoError(t, err)

	// Only the busy room sees recent activity.
	busyRoom, err := reg.Room(busy)
	require.NoError(t, err)
	future := time.Now().Add(3 * time.Hour)
	busyRoom.mu.Lock()
	busyRoom.lastActive = future
	busyRoom.mu.Unlock()

	reg.sweep(future, 2*time.Hour)

	_, err = reg.Room(idle)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = reg.Room(busy)
	assert.NoError(t, err)

	store.mu.Lock()
	deletes := append([]string(nil), store.deletes...)
	store.mu.Unlock()
	assert.Equal(t, []string{idle}, deletes)
}

func TestGeneratedCodesUseSafeAlphabet(t *testing.T) {
	gen := NewCodeGenerator()
	for i := 0; i < 50; i++ {
		code, err := gen.Generate(codeLength)
		require.NoError(t, err)
		require.Len(t, code, codeLength)
		for _, c := range code {
			assert.Contains(t, codeAlphabet, string(c))
		}
	}
}
