package game

import "quizzone/internal/model"

// Outbound message types. Room-wide unless noted.
const (
	MsgRoomPlayers    = "room-players"    // connected player names
	MsgPresence       = "presence"        // reserved name -> online
	MsgEnabledPlayers = "enabled-players" // moderator-approved names
	MsgQuestion       = "question"
	MsgRoundIntro     = "round-intro"
	MsgRoundResult    = "round-result" // unicast, one per connected player
	MsgGameOver       = "game-over"
	MsgLeaderboard    = "leaderboard"
	MsgWaiting        = "waiting"  // unicast join ack, pending approval
	MsgApproved       = "approved" // unicast, moderator enabled this player
	MsgSnapshot       = "snapshot" // unicast on host/moderator attach
)

// RoomPlayersPayload lists the currently connected player names.
type RoomPlayersPayload struct {
	Players []string `json:"players"`
}

// PresencePayload maps every reserved name to its last-known connectivity.
type PresencePayload struct {
	Online map[string]bool `json:"online"`
}

// EnabledPayload lists the names approved to answer.
type EnabledPayload struct {
	Enabled []string `json:"enabled"`
}

// QuestionPayload is the player-facing view of a question. The correct option
// stays server-side.
type QuestionPayload struct {
	Index   int      `json:"index"`
	Total   int      `json:"total"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// RoundIntroPayload carries the presentation beat shown before a question.
type RoundIntroPayload struct {
	Index           int    `json:"index"`
	Image           string `json:"image,omitempty"`
	Video           string `json:"video,omitempty"`
	IntroDurationMs int    `json:"introDurationMs,omitempty"`
}

// RoundResultPayload is the per-player feedback after a scored round.
type RoundResultPayload struct {
	Correct bool   `json:"correct"`
	Rank    int    `json:"rank,omitempty"` // 1-based among correct answers
	Points  int    `json:"points"`
	Score   int    `json:"score"` // cumulative
	Message string `json:"message"`
}

// GameOverPayload carries the final standings, emitted exactly once.
type GameOverPayload struct {
	Standings []model.LeaderboardEntry `json:"standings"`
}

// LeaderboardPayload is the on-demand cumulative ranking.
type LeaderboardPayload struct {
	Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
}
