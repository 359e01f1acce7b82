// api/handlers/analytics_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"studysynth/api/store"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandlers struct {
	AnalyticsStore *store.AnalyticsStore
}

func NewAnalyticsHandlers(s *store.AnalyticsStore) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		AnalyticsStore: s,
	}
}

// parseTimeRange reads the optional start/end query parameters,
// defaulting to the last 7 days ending now.
func parseTimeRange(c *gin.Context) (time.Time, time.Time, bool) {
	var start, end time.Time
	var err error

	startParam := c.Query("start")
	if startParam != "" {
		start, err = time.Parse(time.RFC3339, startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	} else {
		start = time.Now().UTC().Add(-7 * 24 * time.Hour)
	}

	endParam := c.Query("end")
	if endParam != "" {
		end, err = time.Parse(time.RFC3339, endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	} else {
		end = time.Now().UTC()
	}

	return start, end, true
}

// GetEmotionCountsOverTime reports bucketed emotion observation counts
// from the analytics mirror.
func (h *AnalyticsHandlers) GetEmotionCountsOverTime(c *gin.Context) {
	interval := c.Query("interval")
	if interval == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval query parameter is required (e.g., 'Day', 'Hour')"})
		return
	}

	emotionFilter := c.Query("emotion") // Will be "" if not provided

	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.AnalyticsStore.GetEmotionCountsOverTime(ctx, interval, start, end, emotionFilter)
	if err != nil {
		log.Printf("Error getting emotion counts over time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve emotion statistics"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetTopEmotions reports the most frequently observed labels.
func (h *AnalyticsHandlers) GetTopEmotions(c *gin.Context) {
	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	var limit uint64 = 10 // Default limit
	limitParam := c.Query("limit")
	if limitParam != "" {
		parsedLimit, err := strconv.ParseUint(limitParam, 10, 64)
		if err != nil || parsedLimit == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a positive integer."})
			return
		}
		limit = parsedLimit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.AnalyticsStore.GetTopEmotions(ctx, start, end, limit)
	if err != nil {
		log.Printf("Error getting top emotions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top emotion statistics"})
		return
	}

	c.JSON(http.StatusOK, results)
}
