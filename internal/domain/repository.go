package domain

import (
	"context"
	"time"
)

// Detector runs object detection on a full camera frame.
type Detector interface {
	Detect(ctx context.Context, imageBytes []byte, minConfidence float64) ([]DetectionBox, error)
	Ready(ctx context.Context) bool
}

// OCRClient extracts brand/name/quantity text from a cropped product image.
type OCRClient interface {
	Extract(ctx context.Context, imageJPEG []byte, language string) (OCRExtraction, error)
	Configured() bool
}

// TTSClient synthesizes speech and returns a URL path to the audio file.
type TTSClient interface {
	Synthesize(ctx context.Context, text, language string) (string, error)
	Enabled() bool
}

// CatalogRepository exposes the product catalog as immutable snapshots.
// Snapshot never blocks on a reload in progress.
type CatalogRepository interface {
	Snapshot() *CatalogSnapshot
	Reload(ctx context.Context) (*CatalogSnapshot, error)
	Ping(ctx context.Context) error
}

// OrderRepository persists confirmed orders.
type OrderRepository interface {
	Create(ctx context.Context, order *OrderRecord) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
