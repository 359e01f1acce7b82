// api/store/session_store.go
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"studysynth/api/models"
)

// ErrSessionNotFound is the explicit not-found signal for lookups,
// end and summary. Append paths never return it (see AppendEvent).
var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the durable keyed record of sessions and their
// append-only event logs.
type SessionStore interface {
	Create(session *models.Session)
	Get(id string) (*models.Session, error)
	Update(id string, patch models.SessionPatch) *models.Session
	AppendEvent(id string, event models.Event)
	AppendEmotion(id string, emotion string, ts int64)
	End(id string) (*models.Session, error)
}

// FileSessionStore keeps every session in memory and rewrites a single
// JSON snapshot file on each mutation. That is O(total sessions) per
// write, which is fine for the handful of concurrent learners this
// serves. If the snapshot write fails the in-memory mutation has
// already happened and stays visible to later reads in this process.
type FileSessionStore struct {
	mu       sync.Mutex
	path     string
	sessions map[string]*models.Session
}

// NewFileSessionStore loads the snapshot at path if one exists. A
// missing or unreadable snapshot starts the store empty with a logged
// warning instead of failing startup.
func NewFileSessionStore(path string) *FileSessionStore {
	s := &FileSessionStore{
		path:     path,
		sessions: make(map[string]*models.Session),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARNING: failed to load session snapshot %s: %v (starting empty)", path, err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.sessions); err != nil {
		log.Printf("WARNING: failed to parse session snapshot %s: %v (starting empty)", path, err)
		s.sessions = make(map[string]*models.Session)
		return s
	}
	log.Printf("Loaded %d session(s) from %s", len(s.sessions), path)
	return s
}

// persist serializes the entire store. Must be called with mu held.
// Failures are logged, not returned: the mutation already happened.
func (s *FileSessionStore) persist() {
	data, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		log.Printf("ERROR: failed to serialize session store: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		log.Printf("ERROR: failed to persist session store to %s: %v", s.path, err)
	}
}

// Create inserts a session keyed by its id, overwriting any existing
// record with the same id. Callers supply collision-free ids (UUIDs).
func (s *FileSessionStore) Create(session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = cloneSession(session)
	s.persist()
}

// Get returns a copy of the session, or ErrSessionNotFound. Copies
// never alias internal state, so a caller can never observe a record
// mid-write.
func (s *FileSessionStore) Get(id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return cloneSession(sess), nil
}

// Update shallow-merges the patch into the existing record; fields the
// patch leaves unset are preserved. If no record exists the patch
// becomes the entire record.
func (s *FileSessionStore) Update(id string, patch models.SessionPatch) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &models.Session{ID: id}
		s.sessions[id] = sess
	}
	patch.ApplyTo(sess)
	s.persist()
	return cloneSession(sess)
}

// AppendEvent appends to the session's ordered event log. Appending to
// an unknown id silently creates a placeholder record with no StartAt,
// matching the tolerant behavior the frontend relies on when its
// start-session call failed.
func (s *FileSessionStore) AppendEvent(id string, event models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendLocked(id, event)
	s.persist()
}

// AppendEmotion appends an emotion event and bumps the session's
// emotion tally under the same lock, so the counts always equal the
// number of emotion events recorded.
func (s *FileSessionStore) AppendEmotion(id string, emotion string, ts int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.appendLocked(id, models.Event{
		Type:    models.EventEmotion,
		Emotion: emotion,
		TS:      ts,
	})
	if sess.EmotionCounts == nil {
		sess.EmotionCounts = make(map[string]int)
	}
	sess.EmotionCounts[emotion]++
	s.persist()
}

// End sets the end timestamp and returns the full record. Re-ending an
// already-ended session overwrites EndAt; there is deliberately no
// double-end guard.
func (s *FileSessionStore) End(id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	now := time.Now().UnixMilli()
	sess.EndAt = &now
	s.persist()
	return cloneSession(sess), nil
}

func (s *FileSessionStore) appendLocked(id string, event models.Event) *models.Session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &models.Session{ID: id}
		s.sessions[id] = sess
	}
	sess.Events = append(sess.Events, event)
	return sess
}

func cloneSession(in *models.Session) *models.Session {
	out := *in
	if in.EndAt != nil {
		end := *in.EndAt
		out.EndAt = &end
	}
	if in.EmotionCounts != nil {
		out.EmotionCounts = make(map[string]int, len(in.EmotionCounts))
		for k, v := range in.EmotionCounts {
			out.EmotionCounts[k] = v
		}
	}
	if in.Events != nil {
		out.Events = append([]models.Event{}, in.Events...)
	}
	return &out
}
