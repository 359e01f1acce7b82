// api/models/emotions.go
package models

// Labels emitted by the FER2013-based classifier, plus the explicit
// no-face marker it returns when detection finds nothing.
const (
	EmotionHappy    = "happy"
	EmotionSad      = "sad"
	EmotionAngry    = "angry"
	EmotionSurprise = "surprise"
	EmotionNeutral  = "neutral"
	EmotionFear     = "fear"
	EmotionDisgust  = "disgust"
	EmotionNoFace   = "no_face_detected"
)

// EmotionLabels is the full classifier vocabulary.
var EmotionLabels = []string{
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionSurprise,
	EmotionNeutral,
	EmotionFear,
	EmotionDisgust,
	EmotionNoFace,
}

// IsKnownEmotion reports whether label belongs to the classifier
// vocabulary. The session API deliberately does not reject unknown
// labels (the store just counts them); this exists for the tracker and
// the analytics layer.
func IsKnownEmotion(label string) bool {
	for _, l := range EmotionLabels {
		if l == label {
			return true
		}
	}
	return false
}

// IsFocusEmotion reports whether label counts toward focused time.
func IsFocusEmotion(label string) bool {
	switch label {
	case EmotionNeutral, EmotionHappy, EmotionSurprise:
		return true
	default:
		return false
	}
}
