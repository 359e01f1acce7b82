// api/models/stats.go
package models

// RollingStats accumulates engagement durations on the client side.
// Derived purely from wall-clock deltas between consecutive successful
// samples; it is never persisted and is lost on tracker restart.
type RollingStats struct {
	TotalSec      float64        `json:"totalSec"`
	EngagedSec    float64        `json:"engagedSec"`
	FocusSec      float64        `json:"focusSec"`
	EmotionCounts map[string]int `json:"emotionCounts"`
}

// NewRollingStats returns zeroed stats with an initialized counts map.
func NewRollingStats() RollingStats {
	return RollingStats{EmotionCounts: make(map[string]int)}
}

// Accumulate folds one classified sample into the stats. deltaSec is
// the elapsed time since the previous successful sample.
func (s *RollingStats) Accumulate(label string, deltaSec float64) {
	s.TotalSec += deltaSec
	if label != EmotionNoFace {
		s.EngagedSec += deltaSec
	}
	if IsFocusEmotion(label) {
		s.FocusSec += deltaSec
	}
	if s.EmotionCounts == nil {
		s.EmotionCounts = make(map[string]int)
	}
	s.EmotionCounts[label]++
}

// Clone returns a copy safe to hand to callers while the tracker keeps
// mutating the original.
func (s RollingStats) Clone() RollingStats {
	out := s
	out.EmotionCounts = make(map[string]int, len(s.EmotionCounts))
	for k, v := range s.EmotionCounts {
		out.EmotionCounts[k] = v
	}
	return out
}
