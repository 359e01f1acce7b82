package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studysynth/api/models"
	"studysynth/api/store"
)

func newTestStore(t *testing.T) (*store.FileSessionStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.json")
	return store.NewFileSessionStore(path), path
}

func newTestSession(id string) *models.Session {
	return &models.Session{
		ID:            id,
		UserID:        "anon",
		StartAt:       time.Now().UnixMilli(),
		EmotionCounts: make(map[string]int),
		Events:        []models.Event{},
	}
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newTestStore(t)

	s.Create(newTestSession("s1"))

	got, err := s.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, "anon", got.UserID)
	assert.Nil(t, got.EndAt)

	// Returned records are copies; mutating one must not leak back.
	got.UserID = "mallory"
	got.Events = append(got.Events, models.Event{Type: "emotion", Emotion: "happy"})

	again, err := s.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "anon", again.UserID)
	assert.Empty(t, again.Events)
}

func TestGetUnknownSession(t *testing.T) {
	s, _ := newTestStore(t)

	got, err := s.Get("unknown-id")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestAppendEmotionKeepsCountsInSync(t *testing.T) {
	s, _ := newTestStore(t)
	s.Create(newTestSession("s1"))

	for _, emotion := range []string{"happy", "sad", "happy"} {
		s.AppendEmotion("s1", emotion, time.Now().UnixMilli())
	}

	got, err := s.Get("s1")
	require.NoError(t, err)
	assert.Len(t, got.Events, 3)
	assert.Equal(t, map[string]int{"happy": 2, "sad": 1}, got.EmotionCounts)

	// Counts must equal the number of emotion events per label.
	tally := make(map[string]int)
	for _, ev := range got.Events {
		require.Equal(t, models.EventEmotion, ev.Type)
		tally[ev.Emotion]++
	}
	assert.Equal(t, got.EmotionCounts, tally)
}

func TestAppendEventCreatesPlaceholder(t *testing.T) {
	s, _ := newTestStore(t)

	s.AppendEvent("ghost", models.Event{Type: "quiz_attempt", TS: 42})

	got, err := s.Get("ghost")
	require.NoError(t, err)
	assert.Equal(t, "ghost", got.ID)
	assert.Zero(t, got.StartAt, "placeholder sessions have no start time")
	require.Len(t, got.Events, 1)
	assert.Equal(t, "quiz_attempt", got.Events[0].Type)
}

func TestUpdateShallowMerge(t *testing.T) {
	s, _ := newTestStore(t)
	sess := newTestSession("s1")
	sess.UserID = "lea"
	s.Create(sess)

	end := int64(9999)
	s.Update("s1", models.SessionPatch{EndAt: &end})

	got, err := s.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "lea", got.UserID, "fields absent from the patch are preserved")
	require.NotNil(t, got.EndAt)
	assert.Equal(t, end, *got.EndAt)
}

func TestUpdateUnknownBecomesRecord(t *testing.T) {
	s, _ := newTestStore(t)

	user := "lea"
	s.Update("fresh", models.SessionPatch{UserID: &user})

	got, err := s.Get("fresh")
	require.NoError(t, err)
	assert.Equal(t, "lea", got.UserID)
}

func TestEndSession(t *testing.T) {
	s, _ := newTestStore(t)
	s.Create(newTestSession("s1"))

	ended, err := s.End("s1")
	require.NoError(t, err)
	require.NotNil(t, ended.EndAt)
	assert.GreaterOrEqual(t, *ended.EndAt, ended.StartAt)

	// Re-ending is permitted and overwrites the end timestamp.
	first := *ended.EndAt
	time.Sleep(5 * time.Millisecond)
	again, err := s.End("s1")
	require.NoError(t, err)
	require.NotNil(t, again.EndAt)
	assert.GreaterOrEqual(t, *again.EndAt, first)
}

func TestEndUnknownSession(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.End("unknown-id")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	s := store.NewFileSessionStore(path)

	s.Create(newTestSession("s1"))
	s.AppendEmotion("s1", "happy", 100)
	s.AppendEmotion("s1", "neutral", 200)
	s.AppendEvent("s1", models.Event{Type: "quiz_attempt", TS: 300})
	ended, err := s.End("s1")
	require.NoError(t, err)

	reloaded := store.NewFileSessionStore(path)
	got, err := reloaded.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, ended, got)
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := store.NewFileSessionStore(path)
	_, err := s.Get("anything")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	// Point the snapshot at a directory that does not exist so every
	// write fails; mutations must still be visible to readers.
	path := filepath.Join(t.TempDir(), "missing", "sessions.json")
	s := store.NewFileSessionStore(path)

	s.Create(newTestSession("s1"))
	s.AppendEmotion("s1", "happy", 100)

	got, err := s.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.EmotionCounts["happy"])
}
