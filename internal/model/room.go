package model

// RoomState mirrors the question sequencer state machine.
type RoomState string

const (
	RoomNotStarted RoomState = "not_started"
	RoomPresenting RoomState = "presenting"
	RoomFinished   RoomState = "finished"
)

// RoomSummary is the REST view of a room.
type RoomSummary struct {
	Code          string    `json:"code"`
	State         RoomState `json:"state"`
	QuestionCount int       `json:"questionCount"`
	CurrentIndex  int       `json:"currentIndex"`
	Connected     int       `json:"connected"`
	Enabled       int       `json:"enabled"`
}

// RoomSnapshot is sent to hosts and moderators when they attach, so they can
// render the current roster without waiting for the next change.
type RoomSnapshot struct {
	Players []string        `json:"players"` // currently connected names
	Online  map[string]bool `json:"online"`  // every reserved name -> last-known connectivity
	Enabled []string        `json:"enabled"`
	State   RoomState       `json:"state"`
	Index   int             `json:"index"` // questions emitted so far
}

// LeaderboardEntry is a single row of the cumulative ranking.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}
