package game

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"quizzone/internal/model"
)

// pendingAnswer is one recorded answer for the current question. The first
// submission per connection wins; later ones never overwrite it.
type pendingAnswer struct {
	option      int
	submittedAt time.Time
}

// Room is one isolated game: a question sequence, a roster of players, the
// answers collected for the current question, and cumulative scores. Every
// state transition runs under the room mutex, so handlers never observe a
// half-applied event regardless of how many players act concurrently.
// Independent rooms share nothing and run in parallel.
type Room struct {
	code      string
	questions []model.Question

	mu           sync.Mutex
	state        model.RoomState
	currentIndex int // next question to emit; last emitted is currentIndex-1

	reservedNames map[string]string // lowercased name -> name as first joined
	connections   map[string]string // connection ID -> player name
	enabled       map[string]bool   // approved names
	online        map[string]bool   // reserved name -> last-known connectivity
	pending       map[string]pendingAnswer
	scores        map[string]int
	nameOrder     []string // reservation order, breaks leaderboard ties

	lastActive time.Time

	scoring     Scoring
	broadcaster Broadcaster
	store       ScoreStore
	now         func() time.Time
}

func newRoom(code string, questions []model.Question, seedScores map[string]int, sc Scoring, b Broadcaster, store ScoreStore) *Room {
	r := &Room{
		code:          code,
		questions:     questions,
		state:         model.RoomNotStarted,
		reservedNames: make(map[string]string),
		connections:   make(map[string]string),
		enabled:       make(map[string]bool),
		online:        make(map[string]bool),
		pending:       make(map[string]pendingAnswer),
		scores:        make(map[string]int),
		scoring:       sc,
		broadcaster:   b,
		store:         store,
		now:           time.Now,
	}
	// Scores persisted under this code by a previous process seed the board.
	names := make([]string, 0, len(seedScores))
	for name := range seedScores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.scores[name] = seedScores[name]
		r.nameOrder = append(r.nameOrder, name)
	}
	r.lastActive = r.now()
	return r
}

// Code returns the immutable room code.
func (r *Room) Code() string {
	return r.code
}

// LastActive reports when the room last processed an event.
func (r *Room) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive
}

// Join reserves a name for a new connection. Names are unique per room for the
// room's whole life, compared case-insensitively: once "Alice" has joined,
// "alice" is taken forever, even after Alice disconnects.
func (r *Room) Join(connID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = r.now()

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ErrNameTaken
	}
	if _, taken := r.reservedNames[key]; taken {
		return ErrNameTaken
	}

	name = strings.TrimSpace(name)
	r.reservedNames[key] = name
	r.connections[connID] = name
	r.online[name] = true
	if _, known := r.scores[name]; !known {
		r.scores[name] = 0
		r.nameOrder = append(r.nameOrder, name)
	}

	r.send(connID, MsgWaiting, struct{}{})
	r.broadcastRosterLocked()
	return nil
}

// Approve marks a name as enabled to play. Idempotent; unknown names are a
// silent no-op, matching the moderator clicking a stale list.
func (r *Room) Approve(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = r.now()

	canonical, ok := r.reservedNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok || r.enabled[canonical] {
		return
	}
	r.enabled[canonical] = true

	for connID, owner := range r.connections {
		if owner == canonical {
			r.send(connID, MsgApproved, struct{}{})
		}
	}
	r.broadcast(MsgEnabledPlayers, EnabledPayload{Enabled: r.enabledListLocked()})
}

// Revoke removes a name from the enabled set. No-op if absent.
func (r *Room) Revoke(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = r.now()

	canonical, ok := r.reservedNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok || !r.enabled[canonical] {
		return
	}
	delete(r.enabled, canonical)
	r.broadcast(MsgEnabledPlayers, EnabledPayload{Enabled: r.enabledListLocked()})
}

// Disconnect detaches a connection. The name stays reserved and enabled; only
// the connection entry and its pending answer go away. Losing a player can be
// the event that completes the current round, so completion is re-checked.
func (r *Room) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = r.now()

	name, ok := r.connections[connID]
	if !ok {
		return
	}
	delete(r.connections, connID)
	delete(r.pending, connID)
	r.online[name] = false

	r.broadcastRosterLocked()
	r.maybeFinishRoundLocked()
}

// Start emits the first question. Only valid from the not-started state; a
// second start is dropped.
func (r *Room) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = r.now()

	if r.state != model.RoomNotStarted {
		return
	}
	r.advanceLocked()
}

// Advance moves to the next question, or ends the game when the sequence is
// exhausted. Dropped unless a question is being presented.
func (r *Room) Advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = r.now()

	if r.state != model.RoomPresenting {
		return
	}
	r.advanceLocked()
}

// advanceLocked is the only place currentIndex moves. Emitting a question
// resets the answer collector; running out of questions emits exactly one
// game-over carrying the final standings.
func (r *Room) advanceLocked() {
	if r.state == model.RoomFinished {
		return
	}
	if r.currentIndex >= len(r.questions) {
		r.state = model.RoomFinished
		r.broadcast(MsgGameOver, GameOverPayload{Standings: r.leaderboardLocked(0)})
		return
	}

	q := r.questions[r.currentIndex]
	r.state = model.RoomPresenting
	r.currentIndex++
	r.pending = make(map[string]pendingAnswer)

	r.broadcast(MsgQuestion, QuestionPayload{
		Index:   r.currentIndex - 1,
		Total:   len(r.questions),
		Text:    q.Text,
		Options: q.Options,
	})
}

// RoundIntro rebroadcasts the presentation metadata of the most recently
// emitted question. Silent no-op before the first emission.
func (r *Room) RoundIntro() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = r.now()

	if r.currentIndex == 0 || r.currentIndex > len(r.questions) {
		return
	}
	q := r.questions[r.currentIndex-1]
	r.broadcast(MsgRoundIntro, RoundIntroPayload{
		Index:           r.currentIndex - 1,
		Image:           q.Image,
		Video:           q.Video,
		IntroDurationMs: q.IntroDurationMs,
	})
}

// SubmitAnswer records an answer for the current question. First writer wins
// per connection; duplicates and out-of-round submissions report false and are
// otherwise dropped. Answering can complete the round.
func (r *Room) SubmitAnswer(connID string, option int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = r.now()

	if r.state != model.RoomPresenting {
		return false
	}
	if _, attached := r.connections[connID]; !attached {
		return false
	}
	if _, already := r.pending[connID]; already {
		return false
	}

	r.pending[connID] = pendingAnswer{option: option, submittedAt: r.now()}
	r.maybeFinishRoundLocked()
	return true
}

// maybeFinishRoundLocked closes the round the moment every connected player
// has answered. The check runs after every submit and every disconnect, and
// never on an empty roster, so an idle room does not burn through questions.
func (r *Room) maybeFinishRoundLocked() {
	if r.state != model.RoomPresenting || len(r.connections) == 0 {
		return
	}
	for connID := range r.connections {
		if _, answered := r.pending[connID]; !answered {
			return
		}
	}
	r.finishRoundLocked()
}

// finishRoundLocked scores the round once, notifies every connected player
// individually, persists the scores write-through, and advances.
func (r *Room) finishRoundLocked() {
	q := r.questions[r.currentIndex-1]
	outcomes := computeRoundResults(q, r.pending, r.connections, r.scoring)

	for _, o := range outcomes {
		if o.correct {
			r.scores[o.name] += o.points
		}
	}

	r.persistScoresLocked()

	for _, o := range outcomes {
		r.send(o.connID, MsgRoundResult, RoundResultPayload{
			Correct: o.correct,
			Rank:    o.rank,
			Points:  o.points,
			Score:   r.scores[o.name],
			Message: resultMessage(o.correct, o.rank),
		})
	}

	r.advanceLocked()
}

// persistScoresLocked writes the full scores map to the score store from a
// goroutine. A failed persist logs and moves on: the in-memory map is the
// source of truth for the next round, so the write is never retried here.
func (r *Room) persistScoresLocked() {
	if r.store == nil {
		return
	}
	snapshot := make(map[string]int, len(r.scores))
	for name, score := range r.scores {
		snapshot[name] = score
	}
	code := r.code
	store := r.store
	go func() {
		if err := store.Save(context.Background(), code, snapshot); err != nil {
			log.Warn().Err(err).Str("room", code).Msg("score persist failed")
		}
	}()
}

// Leaderboard returns the top n players by cumulative score; n <= 0 means all.
// Ties keep name-reservation order.
func (r *Room) Leaderboard(n int) []model.LeaderboardEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaderboardLocked(n)
}

// PublishLeaderboard broadcasts the current top-n standings to the room.
func (r *Room) PublishLeaderboard(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = r.now()
	r.broadcast(MsgLeaderboard, LeaderboardPayload{Leaderboard: r.leaderboardLocked(n)})
}

func (r *Room) leaderboardLocked(n int) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(r.nameOrder))
	for _, name := range r.nameOrder {
		entries = append(entries, model.LeaderboardEntry{Name: name, Score: r.scores[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Snapshot returns the roster view sent to hosts and moderators on attach.
func (r *Room) Snapshot() model.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.RoomSnapshot{
		Players: r.connectedNamesLocked(),
		Online:  r.onlineMapLocked(),
		Enabled: r.enabledListLocked(),
		State:   r.state,
		Index:   r.currentIndex,
	}
}

// Summary returns the REST view of the room.
func (r *Room) Summary() model.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.RoomSummary{
		Code:          r.code,
		State:         r.state,
		QuestionCount: len(r.questions),
		CurrentIndex:  r.currentIndex,
		Connected:     len(r.connections),
		Enabled:       len(r.enabled),
	}
}

func (r *Room) broadcastRosterLocked() {
	r.broadcast(MsgRoomPlayers, RoomPlayersPayload{Players: r.connectedNamesLocked()})
	r.broadcast(MsgPresence, PresencePayload{Online: r.onlineMapLocked()})
}

func (r *Room) connectedNamesLocked() []string {
	names := make([]string, 0, len(r.connections))
	for _, name := range r.connections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Room) onlineMapLocked() map[string]bool {
	online := make(map[string]bool, len(r.online))
	for name, up := range r.online {
		online[name] = up
	}
	return online
}

func (r *Room) enabledListLocked() []string {
	enabled := make([]string, 0, len(r.enabled))
	for name := range r.enabled {
		enabled = append(enabled, name)
	}
	sort.Strings(enabled)
	return enabled
}

func (r *Room) broadcast(msgType string, payload interface{}) {
	if r.broadcaster != nil {
		r.broadcaster.BroadcastToRoom(r.code, msgType, payload)
	}
}

func (r *Room) send(connID, msgType string, payload interface{}) {
	if r.broadcaster != nil {
		r.broadcaster.SendToConnection(r.code, connID, msgType, payload)
	}
}
