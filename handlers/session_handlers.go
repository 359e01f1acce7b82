// api/handlers/session_handlers.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"studysynth/api/models"
	"studysynth/api/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandlers struct {
	Store store.SessionStore
	// Analytics is optional; when set, appended emotion events are
	// mirrored into ClickHouse best-effort.
	Analytics *store.AnalyticsStore
}

func NewSessionHandlers(s store.SessionStore, analytics *store.AnalyticsStore) *SessionHandlers {
	return &SessionHandlers{
		Store:     s,
		Analytics: analytics,
	}
}

// StartSession creates a new session record and returns its id.
// The body is optional; an absent or empty userId becomes "anon".
func (h *SessionHandlers) StartSession(c *gin.Context) {
	var req models.StartSessionRequest
	// The frontend sometimes posts an empty body here; that is fine.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = "anon"
	}

	session := &models.Session{
		ID:            uuid.New().String(),
		UserID:        userID,
		StartAt:       time.Now().UnixMilli(),
		EmotionCounts: make(map[string]int),
		Events:        []models.Event{},
	}
	h.Store.Create(session)

	c.JSON(http.StatusOK, gin.H{"success": true, "sessionId": session.ID})
}

// AppendEmotion records one or more emotion samples against a session.
// The body is either a single {emotion, ts} object or an array of
// them. The store recomputes the session's emotion tally from the
// appended events, so counts always match the event log.
func (h *SessionHandlers) AppendEmotion(c *gin.Context) {
	id := c.Param("id")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	items, err := decodeEmotionItems(body)
	if err != nil {
		log.Printf("Error decoding emotion append for session %s: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	for i := range items {
		if items[i].TS == 0 {
			items[i].TS = time.Now().UnixMilli()
		}
		h.Store.AppendEmotion(id, items[i].Emotion, items[i].TS)
		if !models.IsKnownEmotion(items[i].Emotion) {
			log.Printf("Session %s: emotion %q is outside the classifier vocabulary", id, items[i].Emotion)
		}
	}

	if h.Analytics != nil {
		h.mirrorToAnalytics(id, items)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// decodeEmotionItems accepts the single-or-batch shapes the frontend
// sends and rejects any item without an emotion label.
func decodeEmotionItems(body []byte) ([]models.EmotionEventRequest, error) {
	var items []models.EmotionEventRequest
	if err := json.Unmarshal(body, &items); err != nil {
		var single models.EmotionEventRequest
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, errors.New("invalid request body")
		}
		items = []models.EmotionEventRequest{single}
	}
	if len(items) == 0 {
		return nil, errors.New("no emotion events supplied")
	}
	for _, it := range items {
		if it.Emotion == "" {
			return nil, errors.New("emotion is required")
		}
	}
	return items, nil
}

// mirrorToAnalytics forwards the batch to ClickHouse without blocking
// or failing the request; analytics is a reporting mirror, never the
// source of truth.
func (h *SessionHandlers) mirrorToAnalytics(sessionID string, items []models.EmotionEventRequest) {
	userID := "anon"
	if sess, err := h.Store.Get(sessionID); err == nil {
		userID = sess.UserID
	}

	records := make([]models.EmotionEventRecord, 0, len(items))
	for _, it := range items {
		records = append(records, models.EmotionEventRecord{
			EventID:   uuid.New().String(),
			SessionID: sessionID,
			UserID:    userID,
			Emotion:   it.Emotion,
			Timestamp: time.UnixMilli(it.TS),
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := h.Analytics.InsertEmotionEvents(ctx, records); err != nil {
			log.Printf("Error mirroring %d emotion event(s) to analytics: %v", len(records), err)
		}
	}()
}

// AppendEvent records a generic interaction event (quiz attempt, video
// pause, ...) with a server-assigned timestamp.
func (h *SessionHandlers) AppendEvent(c *gin.Context) {
	id := c.Param("id")

	var req models.GenericEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	eventType := req.Type
	if eventType == "" {
		eventType = models.EventGeneric
	}

	h.Store.AppendEvent(id, models.Event{
		Type:   eventType,
		Detail: req.Detail,
		TS:     time.Now().UnixMilli(),
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// EndSession stamps the end time and returns the full record.
func (h *SessionHandlers) EndSession(c *gin.Context) {
	id := c.Param("id")

	session, err := h.Store.End(id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "session not found"})
			return
		}
		log.Printf("Error ending session %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to end session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// GetSummary returns the full session record.
func (h *SessionHandlers) GetSummary(c *gin.Context) {
	id := c.Param("id")

	session, err := h.Store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "session not found"})
			return
		}
		log.Printf("Error fetching session %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}
