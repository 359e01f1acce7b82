// api/models/session.go
package models

import (
	"encoding/json"
)

// Event types. Emotion samples carry EventEmotion; anything the
// presentation layer reports (quiz attempts, video seeks) is a generic
// event and defaults to EventGeneric when no type is supplied.
const (
	EventEmotion = "emotion"
	EventGeneric = "event"
)

// Event is a single timestamped occurrence appended to a session's log.
// Events are immutable once appended; there is no edit or delete path.
type Event struct {
	Type    string          `json:"type"`
	Emotion string          `json:"emotion,omitempty"`
	Detail  json.RawMessage `json:"detail,omitempty"`
	TS      int64           `json:"ts"` // milliseconds since epoch
}

// Session is one learner's tracked interaction period.
// EndAt stays nil until the session is explicitly ended.
type Session struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	StartAt       int64          `json:"startAt"`
	EndAt         *int64         `json:"endAt"`
	EmotionCounts map[string]int `json:"emotionCounts"`
	Events        []Event        `json:"events"`
}

// SessionPatch carries a partial session update. Nil fields are left
// untouched by ApplyTo; set fields replace the target's wholesale
// (shallow merge, same as spreading one record over another).
type SessionPatch struct {
	UserID        *string
	StartAt       *int64
	EndAt         *int64
	EmotionCounts map[string]int
	Events        []Event
}

// ApplyTo merges the patch into target field by field.
func (p SessionPatch) ApplyTo(target *Session) {
	if p.UserID != nil {
		target.UserID = *p.UserID
	}
	if p.StartAt != nil {
		target.StartAt = *p.StartAt
	}
	if p.EndAt != nil {
		end := *p.EndAt
		target.EndAt = &end
	}
	if p.EmotionCounts != nil {
		target.EmotionCounts = p.EmotionCounts
	}
	if p.Events != nil {
		target.Events = p.Events
	}
}

// EmotionEventRequest is the body of a single emotion append. The
// endpoint also accepts a JSON array of these for batch appends.
type EmotionEventRequest struct {
	Emotion string `json:"emotion"`
	TS      int64  `json:"ts,omitempty"`
}

// GenericEventRequest is the body of a generic event append.
type GenericEventRequest struct {
	Type   string          `json:"type"`
	Detail json.RawMessage `json:"detail"`
}

// StartSessionRequest carries the optional learner identifier.
type StartSessionRequest struct {
	UserID string `json:"userId"`
}
