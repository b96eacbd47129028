package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/logger"
)

// synthesizeRequest is the TTS service request body
type synthesizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Client calls an external text-to-speech service and stores the returned
// audio under audioDir, served by the API at /audio/<file>.
type Client struct {
	httpClient *http.Client
	baseURL    string
	audioDir   string
	enabled    bool
}

// NewClient creates a TTS client. The audio directory is created eagerly so
// synthesis never races directory creation.
func NewClient(baseURL, audioDir string, enabled bool) (*Client, error) {
	if enabled {
		if err := os.MkdirAll(audioDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create audio dir %s: %w", audioDir, err)
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		baseURL:  baseURL,
		audioDir: audioDir,
		enabled:  enabled,
	}, nil
}

// Enabled reports whether audio synthesis is turned on
func (c *Client) Enabled() bool {
	return c.enabled
}

// Synthesize converts text to speech and returns the URL path of the stored
// audio file. All failures wrap ErrTTSUnavailable; callers treat audio as
// best-effort.
func (c *Client) Synthesize(ctx context.Context, text, language string) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("%w: tts disabled", domain.ErrTTSUnavailable)
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty text", domain.ErrTTSUnavailable)
	}

	payload, err := json.Marshal(synthesizeRequest{Text: text, Language: language})
	if err != nil {
		return "", fmt.Errorf("%w: encode: %v", domain.ErrTTSUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/synthesize", c.baseURL), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTTSUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTTSUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrTTSUnavailable, resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", domain.ErrTTSUnavailable, err)
	}

	filename := fmt.Sprintf("%s.mp3", uuid.NewString())
	if err := os.WriteFile(filepath.Join(c.audioDir, filename), audio, 0o644); err != nil {
		return "", fmt.Errorf("%w: write: %v", domain.ErrTTSUnavailable, err)
	}

	audioURL := "/audio/" + filename
	logger.Debugf("generated audio: %s", audioURL)
	return audioURL, nil
}

// CleanupOldFiles deletes audio files older than maxAge. Best effort.
func (c *Client) CleanupOldFiles(maxAge time.Duration) {
	entries, err := os.ReadDir(c.audioDir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(c.audioDir, entry.Name()))
		}
	}
}
