// api/tracker/api_client.go
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"studysynth/api/models"
)

// APIClient is the tracker's view of the session backend: the session
// lifecycle endpoints plus the detect-emotion relay.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

type sessionEnvelope struct {
	Success   bool            `json:"success"`
	SessionID string          `json:"sessionId"`
	Session   *models.Session `json:"session"`
	Error     string          `json:"error"`
}

func (c *APIClient) postJSON(ctx context.Context, path string, payload interface{}) (*sessionEnvelope, error) {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	var out sessionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, out.Error)
	}
	return &out, nil
}

// StartSession asks the backend for a fresh session id.
func (c *APIClient) StartSession(ctx context.Context, userID string) (string, error) {
	out, err := c.postJSON(ctx, "/session/start", models.StartSessionRequest{UserID: userID})
	if err != nil {
		return "", err
	}
	return out.SessionID, nil
}

// SendEmotion appends one emotion sample to the session log.
func (c *APIClient) SendEmotion(ctx context.Context, sessionID, emotion string, ts int64) error {
	_, err := c.postJSON(ctx, "/session/"+sessionID+"/emotion", models.EmotionEventRequest{
		Emotion: emotion,
		TS:      ts,
	})
	return err
}

// SendEvent appends a generic interaction event.
func (c *APIClient) SendEvent(ctx context.Context, sessionID, eventType string, detail json.RawMessage) error {
	_, err := c.postJSON(ctx, "/session/"+sessionID+"/event", models.GenericEventRequest{
		Type:   eventType,
		Detail: detail,
	})
	return err
}

// EndSession stamps the session's end time and returns the record.
func (c *APIClient) EndSession(ctx context.Context, sessionID string) (*models.Session, error) {
	out, err := c.postJSON(ctx, "/session/"+sessionID+"/end", nil)
	if err != nil {
		return nil, err
	}
	return out.Session, nil
}

// GetSummary fetches the full session record.
func (c *APIClient) GetSummary(ctx context.Context, sessionID string) (*models.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/session/"+sessionID+"/summary", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	var out sessionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode summary response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summary returned status %d: %s", resp.StatusCode, out.Error)
	}
	return out.Session, nil
}

// DetectEmotion posts one captured frame through the backend relay and
// returns the raw classifier label.
func (c *APIClient) DetectEmotion(ctx context.Context, frame []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "frame.jpg")
	if err != nil {
		return "", fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := part.Write(frame); err != nil {
		return "", fmt.Errorf("failed to write frame to form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect-emotion", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build detect request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("detect request failed: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Success bool   `json:"success"`
		Emotion string `json:"emotion"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode detect response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		return "", fmt.Errorf("detect returned status %d: %s", resp.StatusCode, out.Error)
	}
	if out.Emotion == "" {
		return models.EmotionNoFace, nil
	}
	return out.Emotion, nil
}
