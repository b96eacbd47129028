package detector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/logger"
	"golang.org/x/time/rate"
)

// ModeRemote calls the YOLO inference service; ModeMock returns synthetic
// boxes for local development and tests.
const (
	ModeRemote = "remote"
	ModeMock   = "mock"
)

// detectRequest is the inference service request body
type detectRequest struct {
	Image         string  `json:"image"`
	MinConfidence float64 `json:"min_confidence"`
}

// detectResponse is the inference service response body
type detectResponse struct {
	ModelLoaded bool `json:"model_loaded"`
	Detections  []struct {
		BBox       []float64 `json:"bbox"`
		ClassName  string    `json:"class_name"`
		Confidence float64   `json:"confidence"`
	} `json:"detections"`
}

// healthResponse is the inference service health body
type healthResponse struct {
	ModelLoaded bool `json:"model_loaded"`
}

// Client talks to the YOLO inference service over HTTP
type Client struct {
	httpClient  *http.Client
	baseURL     string
	mode        string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new detector client
func NewClient(baseURL, mode string) *Client {
	// The inference service runs one model on one GPU/CPU; keep a modest
	// ceiling so bursts degrade to per-request errors instead of queueing.
	limiter := rate.NewLimiter(rate.Limit(10), 20)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		mode:        mode,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait duration before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Detect runs object detection on a full frame and returns boxes with
// confidence at or above minConfidence, in the detector's own order.
func (c *Client) Detect(ctx context.Context, imageBytes []byte, minConfidence float64) ([]domain.DetectionBox, error) {
	if c.mode == ModeMock {
		return c.mockDetections(imageBytes)
	}

	payload, err := json.Marshal(detectRequest{
		Image:         base64.StdEncoding.EncodeToString(imageBytes),
		MinConfidence: minConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode detect request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/detect", c.baseURL)

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if c.debug {
				logger.Warnf("[DETECTOR] request error (attempt %d): %v", attempt, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrInferenceFailed, err)
			sleepCtx(ctx, exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusServiceUnavailable:
			// Model still loading or unloaded; not worth retrying here.
			return nil, fmt.Errorf("%w: inference service returned 503", domain.ErrDetectorUnavailable)
		case resp.StatusCode != http.StatusOK:
			if c.debug {
				logger.Warnf("[DETECTOR] status %d (attempt %d): %s", resp.StatusCode, attempt, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrInferenceFailed, resp.StatusCode)
			sleepCtx(ctx, exponentialBackoff(attempt))
			continue
		}

		var detectResp detectResponse
		if err := json.Unmarshal(body, &detectResp); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", domain.ErrInferenceFailed, err)
		}

		boxes := make([]domain.DetectionBox, 0, len(detectResp.Detections))
		for _, d := range detectResp.Detections {
			if len(d.BBox) != 4 {
				continue
			}
			boxes = append(boxes, domain.DetectionBox{
				ID:         uuid.NewString(),
				BBox:       [4]float64{d.BBox[0], d.BBox[1], d.BBox[2], d.BBox[3]},
				ClassLabel: d.ClassName,
				Confidence: d.Confidence,
			})
		}

		if c.debug {
			logger.Debugf("[DETECTOR] %d boxes above %.2f", len(boxes), minConfidence)
		}
		return boxes, nil
	}

	return nil, lastErr
}

// Ready reports whether the detection model is loaded
func (c *Client) Ready(ctx context.Context) bool {
	if c.mode == ModeMock {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	return health.ModelLoaded
}

// mockDetections fabricates two boxes scaled to the frame size, mirroring
// the layout a shelf shot typically produces.
func (c *Client) mockDetections(imageBytes []byte) ([]domain.DetectionBox, error) {
	width, height := 640.0, 480.0
	if cfg, err := decodeConfig(imageBytes); err == nil {
		width, height = float64(cfg.Width), float64(cfg.Height)
	}

	return []domain.DetectionBox{
		{
			ID:         uuid.NewString(),
			BBox:       [4]float64{width * 0.1, height * 0.1, width * 0.4, height * 0.5},
			ClassLabel: "milk_carton",
			Confidence: 0.92,
		},
		{
			ID:         uuid.NewString(),
			BBox:       [4]float64{width * 0.5, height * 0.2, width * 0.8, height * 0.6},
			ClassLabel: "biscuit_pack",
			Confidence: 0.81,
		},
	}, nil
}
