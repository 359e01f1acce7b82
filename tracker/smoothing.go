// api/tracker/smoothing.go
package tracker

// Sample is one raw classifier observation.
type Sample struct {
	Emotion string
	TS      int64
}

// Majority computes the most frequent label in the window and its
// share of the window. Ties go to the label whose winning count was
// reached first in insertion order. An empty window yields ("", 0).
func Majority(window []Sample) (string, float64) {
	if len(window) == 0 {
		return "", 0
	}

	freq := make(map[string]int, len(window))
	for _, s := range window {
		freq[s.Emotion]++
	}

	best := ""
	bestCount := 0
	for _, s := range window {
		if c := freq[s.Emotion]; c > bestCount {
			best = s.Emotion
			bestCount = c
		}
	}

	return best, float64(bestCount) / float64(len(window))
}

// pushSample appends to a bounded FIFO window, evicting the oldest
// sample on overflow.
func pushSample(window []Sample, s Sample, capacity int) []Sample {
	window = append(window, s)
	if len(window) > capacity {
		window = window[1:]
	}
	return window
}
