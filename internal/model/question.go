package model

import "time"

// Question is a single trivia question presented to a room. CorrectOption is an
// index into Options and is never sent to players.
type Question struct {
	Text            string   `json:"text" bson:"text"`
	Options         []string `json:"options" bson:"options"`
	CorrectOption   int      `json:"correctOption" bson:"correctOption"`
	Image           string   `json:"image,omitempty" bson:"image,omitempty"`
	Video           string   `json:"video,omitempty" bson:"video,omitempty"`
	IntroDurationMs int      `json:"introDurationMs,omitempty" bson:"introDurationMs,omitempty"`
}

// QuestionSet is an ordered list of questions a room is seeded from, created
// ahead of time by the host.
type QuestionSet struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Name      string     `json:"name" bson:"name"`
	Questions []Question `json:"questions" bson:"questions"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}
