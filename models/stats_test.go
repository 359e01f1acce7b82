package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulateCountsEverySample(t *testing.T) {
	stats := NewRollingStats()
	sequence := []string{"happy", "sad", "no_face_detected", "neutral", "happy", "fear"}
	for _, label := range sequence {
		stats.Accumulate(label, 5)
	}

	// Every classified sample is counted exactly once, no matter the
	// label.
	total := 0
	for _, c := range stats.EmotionCounts {
		total += c
	}
	assert.Equal(t, len(sequence), total)
	assert.Equal(t, 2, stats.EmotionCounts["happy"])

	assert.InDelta(t, 30, stats.TotalSec, 1e-9)
	// Everything but the no-face sample counts as engaged.
	assert.InDelta(t, 25, stats.EngagedSec, 1e-9)
	// Focused time covers neutral, happy and surprise only.
	assert.InDelta(t, 20, stats.FocusSec, 1e-9)
}

func TestAccumulateOnNilCountsMap(t *testing.T) {
	var stats RollingStats
	stats.Accumulate("happy", 1)
	assert.Equal(t, 1, stats.EmotionCounts["happy"])
}

func TestCloneIsIndependent(t *testing.T) {
	stats := NewRollingStats()
	stats.Accumulate("happy", 5)

	dup := stats.Clone()
	dup.Accumulate("sad", 5)

	assert.Equal(t, 1, len(stats.EmotionCounts))
	assert.Equal(t, 2, len(dup.EmotionCounts))
}

func TestFocusAndVocabularyHelpers(t *testing.T) {
	assert.True(t, IsFocusEmotion(EmotionNeutral))
	assert.True(t, IsFocusEmotion(EmotionHappy))
	assert.True(t, IsFocusEmotion(EmotionSurprise))
	assert.False(t, IsFocusEmotion(EmotionSad))
	assert.False(t, IsFocusEmotion(EmotionNoFace))

	for _, label := range EmotionLabels {
		assert.True(t, IsKnownEmotion(label))
	}
	assert.False(t, IsKnownEmotion("bored"))
}
