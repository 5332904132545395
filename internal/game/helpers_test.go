package game

import (
	"context"
	"sync"
	"time"

	"quizzone/internal/model"
)

// recordedEvent is one outbound message captured by the fake broadcaster.
type recordedEvent struct {
	Room    string
	ConnID  string // empty for room-wide broadcasts
	Type    string
	Payload interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeBroadcaster) BroadcastToRoom(roomCode string, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{Room: roomCode, Type: msgType, Payload: payload})
}

func (f *fakeBroadcaster) SendToConnection(roomCode, connID string, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{Room: roomCode, ConnID: connID, Type: msgType, Payload: payload})
}

func (f *fakeBroadcaster) ofType(msgType string) []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]recordedEvent, 0)
	for _, e := range f.events {
		if e.Type == msgType {
			matched = append(matched, e)
		}
	}
	return matched
}

type fakeScoreStore struct {
	mu      sync.Mutex
	preload map[string]map[string]int
	saves   []map[string]int
	deletes []string
	saveErr error
}

func (f *fakeScoreStore) Load(_ context.Context, roomCode string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	scores := make(map[string]int)
	for name, score := range f.preload[roomCode] {
		scores[name] = score
	}
	return scores, nil
}

func (f *fakeScoreStore) Save(_ context.Context, roomCode string, scores map[string]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	snapshot := make(map[string]int, len(scores))
	for name, score := range scores {
		snapshot[name] = score
	}
	f.saves = append(f.saves, snapshot)
	return nil
}

func (f *fakeScoreStore) Delete(_ context.Context, roomCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, roomCode)
	return nil
}

func (f *fakeScoreStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

type fakeProvider struct {
	sets map[string]*model.QuestionSet
}

func (f *fakeProvider) GetByID(_ context.Context, id string) (*model.QuestionSet, error) {
	return f.sets[id], nil
}

// seqCodes hands out a fixed sequence of codes, then keeps repeating the last
// one. Lets tests force collisions deterministically.
type seqCodes struct {
	mu    sync.Mutex
	codes []string
	i     int
}

func (s *seqCodes) Generate(int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.codes[s.i]
	if s.i < len(s.codes)-1 {
		s.i++
	}
	return code, nil
}

// fakeClock advances one millisecond per reading, so consecutive submissions
// always carry strictly increasing timestamps.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func questions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			Text:          "question",
			Options:       []string{"a", "b", "c", "d"},
			CorrectOption: 0,
		}
	}
	return qs
}

func newTestRoom(qs []model.Question, b Broadcaster, store ScoreStore) *Room {
	r := newRoom("TEST42", qs, nil, Scoring{BasePoints: 100, FirstBonus: 50}, b, store)
	r.now = newFakeClock().Now
	return r
}
