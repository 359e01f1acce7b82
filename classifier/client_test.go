package classifier_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studysynth/api/classifier"
)

func TestDetectSendsBase64AndReturnsLabel(t *testing.T) {
	frame := []byte{0xff, 0xd8, 0xff, 0xe0} // jpeg magic, close enough

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Image string `json:"image"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		require.NoError(t, err)
		assert.Equal(t, frame, decoded)

		json.NewEncoder(w).Encode(map[string]string{"emotion": "neutral"})
	}))
	defer srv.Close()

	label, err := classifier.NewClient(srv.URL).Detect(context.Background(), frame)
	require.NoError(t, err)
	assert.Equal(t, "neutral", label)
}

func TestDetectRejectsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := classifier.NewClient(srv.URL).Detect(context.Background(), []byte("frame"))
	assert.Error(t, err)
}

func TestDetectRejectsMissingEmotion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "bad image"})
	}))
	defer srv.Close()

	_, err := classifier.NewClient(srv.URL).Detect(context.Background(), []byte("frame"))
	assert.Error(t, err)
}
