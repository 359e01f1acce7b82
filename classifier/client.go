// api/classifier/client.go
package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const defaultURL = "http://localhost:8000/api/detect"

// Client talks to the external emotion-classification service. The
// service accepts a base64-encoded image and answers with a single
// label from the FER2013 vocabulary, or "no_face_detected".
type Client struct {
	url  string
	http *http.Client
}

// NewClientFromEnv builds a client from CLASSIFIER_URL, falling back
// to the local development default.
func NewClientFromEnv() *Client {
	url := os.Getenv("CLASSIFIER_URL")
	if url == "" {
		url = defaultURL
	}
	return NewClient(url)
}

// NewClient builds a client for the given detect endpoint. The 20s
// timeout matches how long the model is allowed to take on a cold
// start.
func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 20 * time.Second},
	}
}

type detectRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Emotion string `json:"emotion"`
	Error   string `json:"error,omitempty"`
}

// Detect submits one encoded image frame and returns the raw label.
func (c *Client) Detect(ctx context.Context, image []byte) (string, error) {
	body, err := json.Marshal(detectRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode classifier response: %w", err)
	}
	if out.Emotion == "" {
		return "", fmt.Errorf("classifier response missing emotion: %s", out.Error)
	}
	return out.Emotion, nil
}
