// api/models/analytics.go
package models

import "time"

// EmotionEventRecord is the flattened row shape mirrored into the
// analytics database. One row per appended emotion event.
type EmotionEventRecord struct {
	EventID   string    `json:"eventId"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	Emotion   string    `json:"emotion"`
	Timestamp time.Time `json:"timestamp"`
}

type TopEmotionResult struct {
	Emotion string `json:"emotion"`
	Count   uint64 `json:"count"`
}
