package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplesOf(labels ...string) []Sample {
	out := make([]Sample, len(labels))
	for i, l := range labels {
		out[i] = Sample{Emotion: l, TS: int64(i)}
	}
	return out
}

func TestMajorityEmptyWindow(t *testing.T) {
	label, conf := Majority(nil)
	assert.Equal(t, "", label)
	assert.Zero(t, conf)
}

func TestMajorityAdoptsDominantLabel(t *testing.T) {
	label, conf := Majority(samplesOf("happy", "sad", "happy", "happy", "neutral"))
	assert.Equal(t, "happy", label)
	assert.InDelta(t, 0.6, conf, 1e-9)
}

func TestMajoritySplitStaysBelowThreshold(t *testing.T) {
	// A 2-2-1 split gives at most 0.4 confidence, which must not
	// reach the 0.6 adoption threshold.
	label, conf := Majority(samplesOf("happy", "happy", "sad", "sad", "neutral"))
	assert.Less(t, conf, 0.6)
	assert.InDelta(t, 0.4, conf, 1e-9)
	assert.Contains(t, []string{"happy", "sad"}, label)
}

func TestMajorityTieGoesToFirstEncountered(t *testing.T) {
	label, conf := Majority(samplesOf("sad", "happy", "sad", "happy"))
	assert.Equal(t, "sad", label)
	assert.InDelta(t, 0.5, conf, 1e-9)
}

func TestPushSampleEvictsOldestFIFO(t *testing.T) {
	var window []Sample
	labels := []string{"sad", "happy", "happy", "neutral", "angry", "fear"}
	for _, l := range labels {
		window = pushSample(window, Sample{Emotion: l}, 5)
	}

	assert.Len(t, window, 5)
	// The 1st sample ("sad") is gone; the window holds the 5 newest.
	got := make([]string, len(window))
	for i, s := range window {
		got[i] = s.Emotion
	}
	assert.Equal(t, []string{"happy", "happy", "neutral", "angry", "fear"}, got)
}

func TestSixthSampleRemovesFirstFromVote(t *testing.T) {
	var window []Sample
	// Three "sad" votes up front, then a run of "happy".
	for _, l := range []string{"sad", "sad", "sad", "happy", "happy"} {
		window = pushSample(window, Sample{Emotion: l}, 5)
	}
	label, conf := Majority(window)
	assert.Equal(t, "sad", label)
	assert.InDelta(t, 0.6, conf, 1e-9)

	window = pushSample(window, Sample{Emotion: "happy"}, 5)
	label, conf = Majority(window)
	assert.Equal(t, "happy", label)
	assert.InDelta(t, 0.6, conf, 1e-9)
}
