// api/store/analytics_store.go
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"studysynth/api/database"
	"studysynth/api/models"
	"studysynth/api/utils"
)

// AnalyticsStore mirrors emotion events into ClickHouse for reporting.
// It is strictly a reporting sink; the file-backed session store stays
// the source of truth.
type AnalyticsStore struct {
	DB *database.ClickHouseClient
}

type EmotionCountByTime struct {
	Time    time.Time `json:"time"`
	Emotion *string   `json:"emotion,omitempty"`
	Count   uint64    `json:"count"`
}

func NewAnalyticsStore(chClient *database.ClickHouseClient) *AnalyticsStore {
	return &AnalyticsStore{
		DB: chClient,
	}
}

func (s *AnalyticsStore) InsertEmotionEvents(ctx context.Context, events []models.EmotionEventRecord) error {
	if len(events) == 0 {
		return nil
	}

	// Column names and order must match the emotion_events table schema.
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO emotion_events (
			event_id, session_id, user_id, emotion, timestamp
		) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.EventID,
			event.SessionID,
			event.UserID,
			event.Emotion,
			event.Timestamp,
		)
		if err != nil {
			log.Printf("Error appending emotion event to batch (EventID: %s): %v", event.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	return nil
}

// GetEmotionCountsOverTime buckets emotion events by the given
// interval, optionally filtered to one label.
func (s *AnalyticsStore) GetEmotionCountsOverTime(ctx context.Context, interval string, start, end time.Time, emotionFilter string) ([]EmotionCountByTime, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	var args []interface{}
	args = append(args, start, end)

	selectCols := fmt.Sprintf("toStartOf%s(timestamp) as time_bucket, count() as total_events", interval)
	groupByCols := "time_bucket"
	whereClause := "WHERE timestamp >= ? AND timestamp <= ?"
	orderByCols := "time_bucket ASC"
	isFilteringByEmotion := emotionFilter != ""

	if isFilteringByEmotion {
		selectCols += ", emotion"
		groupByCols += ", emotion"
		whereClause += " AND emotion = ?"
		args = append(args, emotionFilter)
		orderByCols += ", emotion ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM emotion_events
		%s
		GROUP BY %s
		ORDER BY %s
	`, selectCols, whereClause, groupByCols, orderByCols)

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion counts over time: %w", err)
	}
	defer rows.Close()

	var results []EmotionCountByTime
	for rows.Next() {
		var (
			timeBucket    time.Time
			count         uint64
			emotionDB     string
			currentResult EmotionCountByTime
		)

		if isFilteringByEmotion {
			if err := rows.Scan(&timeBucket, &count, &emotionDB); err != nil {
				log.Printf("Error scanning row for emotion counts over time (with label filter): %v", err)
				continue
			}
			currentResult.Emotion = &emotionDB
		} else {
			if err := rows.Scan(&timeBucket, &count); err != nil {
				log.Printf("Error scanning row for emotion counts over time (no label filter): %v", err)
				continue
			}
			currentResult.Emotion = nil
		}

		currentResult.Time = timeBucket
		currentResult.Count = count
		results = append(results, currentResult)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during emotion counts over time query: %w", err)
	}

	return results, nil
}

// GetTopEmotions returns the most-observed labels in the window.
func (s *AnalyticsStore) GetTopEmotions(ctx context.Context, start, end time.Time, limit uint64) ([]models.TopEmotionResult, error) {
	if limit == 0 {
		limit = 10 // Default limit if 0 is passed
	}

	query := `
		SELECT emotion, count() as observation_count
		FROM emotion_events
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY emotion
		ORDER BY observation_count DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top emotions: %w", err)
	}
	defer rows.Close()

	var results []models.TopEmotionResult
	for rows.Next() {
		var emotion string
		var count uint64
		if err := rows.Scan(&emotion, &count); err != nil {
			log.Printf("Error scanning row for top emotions: %v", err)
			continue
		}
		results = append(results, models.TopEmotionResult{
			Emotion: emotion,
			Count:   count,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for top emotions: %w", err)
	}

	return results, nil
}
