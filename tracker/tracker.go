// api/tracker/tracker.go
package tracker

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"studysynth/api/models"

	"github.com/google/uuid"
)

// FrameSource abstracts the camera. Capture returns one encoded frame,
// or an error when no frame is available for this tick.
type FrameSource interface {
	Capture() ([]byte, error)
}

// Config controls the sampling aggregator.
type Config struct {
	ServerURL           string
	UserID              string
	SampleInterval      time.Duration
	WindowSize          int
	ConfidenceThreshold float64
}

// DefaultConfig returns the settings the frontend shipped with: a 5s
// sampling period, a 5-sample smoothing window and a 0.6 adoption
// threshold.
func DefaultConfig(serverURL string) Config {
	return Config{
		ServerURL:           serverURL,
		SampleInterval:      5 * time.Second,
		WindowSize:          5,
		ConfidenceThreshold: 0.6,
	}
}

// Tracker samples a FrameSource on a fixed period, classifies each
// frame through the backend relay, smooths the raw labels into a
// stable mood and accumulates engagement stats. Every network failure
// degrades to a skipped tick; nothing here ever surfaces an error to
// the presentation layer.
type Tracker struct {
	cfg    Config
	api    *APIClient
	frames FrameSource

	mu        sync.Mutex
	sessionID string
	stable    string
	window    []Sample
	stats     models.RollingStats
	lastTS    int64

	running  atomic.Bool
	stopChan chan struct{}
}

func NewTracker(cfg Config, frames FrameSource) *Tracker {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 5 * time.Second
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 5
	}
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = 0.6
	}
	return &Tracker{
		cfg:       cfg,
		api:       NewAPIClient(cfg.ServerURL),
		frames:    frames,
		sessionID: uuid.New().String(),
		stable:    models.EmotionNeutral,
		stats:     models.NewRollingStats(),
		stopChan:  make(chan struct{}),
	}
}

// Start registers a server session and begins the sampling loop. If
// the backend is unreachable the tracker keeps its locally generated
// session id and carries on; it never blocks on the registration.
func (t *Tracker) Start() {
	if !t.running.CompareAndSwap(false, true) {
		return
	}

	t.mu.Lock()
	t.lastTS = time.Now().UnixMilli()
	t.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		id, err := t.api.StartSession(ctx, t.cfg.UserID)
		if err != nil {
			log.Printf("Failed to start session on server, continuing with local id %s: %v", t.SessionID(), err)
			return
		}
		t.mu.Lock()
		t.sessionID = id
		t.mu.Unlock()
	}()

	go t.run()
}

func (t *Tracker) run() {
	ticker := time.NewTicker(t.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-ticker.C:
			// Each tick classifies independently, so a slow
			// classifier response can overlap the next tick.
			// Updates land in resolution order.
			go t.sample()
		}
	}
}

// sample runs one capture-and-classify pass. Any failure skips the
// tick without touching the window or the stats.
func (t *Tracker) sample() {
	frame, err := t.frames.Capture()
	if err != nil || len(frame) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	label, err := t.api.DetectEmotion(ctx, frame)
	if err != nil {
		log.Printf("Emotion detection failed, skipping tick: %v", err)
		return
	}

	ts := time.Now().UnixMilli()
	t.apply(label, ts)

	// Fire-and-forget report to the session log; network hiccups are
	// swallowed and never retried.
	sessionID := t.SessionID()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := t.api.SendEmotion(ctx, sessionID, label, ts); err != nil {
			log.Printf("Failed to report emotion event: %v", err)
		}
	}()
}

// apply folds one classified sample into the smoothing window and the
// rolling stats.
func (t *Tracker) apply(label string, ts int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.window = pushSample(t.window, Sample{Emotion: label, TS: ts}, t.cfg.WindowSize)

	if mode, conf := Majority(t.window); conf >= t.cfg.ConfidenceThreshold {
		t.stable = mode
	}

	deltaSec := float64(ts-t.lastTS) / 1000
	t.lastTS = ts
	t.stats.Accumulate(label, deltaSec)
}

// ReportEvent sends a generic interaction event (quiz attempt, video
// pause, ...) best-effort.
func (t *Tracker) ReportEvent(eventType string, detail json.RawMessage) {
	sessionID := t.SessionID()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := t.api.SendEvent(ctx, sessionID, eventType, detail); err != nil {
			log.Printf("Failed to report %s event: %v", eventType, err)
		}
	}()
}

// Stop cancels future ticks and ends the server session best-effort.
// In-flight samples are not cancelled; if their fire-and-forget report
// was already issued it still lands in the log.
func (t *Tracker) Stop() {
	if !t.running.CompareAndSwap(true, false) {
		return
	}
	close(t.stopChan)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := t.api.EndSession(ctx, t.SessionID()); err != nil {
		log.Printf("Failed to end session on server: %v", err)
	}
}

// SessionID returns the current session identifier (server-issued, or
// the local fallback when registration failed).
func (t *Tracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

// Snapshot returns the stable mood and a copy of the rolling stats for
// the presentation layer.
func (t *Tracker) Snapshot() (string, models.RollingStats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stable, t.stats.Clone()
}
