package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/smartshop/backend/internal/domain"
)

func priceOf(p float64) *float64 { return &p }

// testCatalogEntries is a small grocery catalog shared across tests
func testCatalogEntries() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{
			ProductID: "prod-amul-milk-fc",
			Brand:     "Amul",
			Name:      "Full Cream Milk",
			Variants: []domain.Variant{
				{Size: "500ml", Price: priceOf(30), Currency: "INR"},
				{Size: "1L", Price: priceOf(58), Currency: "INR"},
			},
		},
		{
			ProductID: "prod-parle-marie",
			Brand:     "Parle",
			Name:      "Marie Gold Biscuits",
			Variants: []domain.Variant{
				{Size: "120g", Price: priceOf(25), Currency: "INR"},
			},
		},
		{
			ProductID: "prod-tata-tea-gold",
			Brand:     "Tata",
			Name:      "Tea Gold",
			Variants: []domain.Variant{
				{Size: "250g", Price: priceOf(140), Currency: "INR"},
			},
		},
	}
}

// fakeCatalog serves a fixed snapshot
type fakeCatalog struct {
	snapshot *domain.CatalogSnapshot
	pingErr  error
}

func newFakeCatalog(entries []domain.CatalogEntry) *fakeCatalog {
	return &fakeCatalog{snapshot: domain.NewCatalogSnapshot(entries)}
}

func (f *fakeCatalog) Snapshot() *domain.CatalogSnapshot { return f.snapshot }

func (f *fakeCatalog) Reload(ctx context.Context) (*domain.CatalogSnapshot, error) {
	return f.snapshot, nil
}

func (f *fakeCatalog) Ping(ctx context.Context) error { return f.pingErr }

// fakeOCR returns a fixed extraction or error for every crop
type fakeOCR struct {
	mu         sync.Mutex
	extraction domain.OCRExtraction
	err        error
	calls      int
}

func (f *fakeOCR) Extract(ctx context.Context, imageJPEG []byte, language string) (domain.OCRExtraction, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return domain.OCRExtraction{}, f.err
	}
	e := f.extraction
	e.Language = language
	return e, nil
}

func (f *fakeOCR) Configured() bool { return true }

func (f *fakeOCR) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeTTS records synthesis calls
type fakeTTS struct {
	mu      sync.Mutex
	url     string
	err     error
	enabled bool
	calls   int
}

func (f *fakeTTS) Synthesize(ctx context.Context, text, language string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakeTTS) Enabled() bool { return f.enabled }

func (f *fakeTTS) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeCache is a minimal in-memory CacheRepository without TTL handling
type fakeCache struct {
	mu   sync.Mutex
	data map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]interface{})}
}

func (f *fakeCache) Get(ctx context.Context, key string) (interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok, nil
}

// fakeDetector returns fixed boxes or an error
type fakeDetector struct {
	boxes []domain.DetectionBox
	err   error
	ready bool
}

func (f *fakeDetector) Detect(ctx context.Context, imageBytes []byte, minConfidence float64) ([]domain.DetectionBox, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.boxes, nil
}

func (f *fakeDetector) Ready(ctx context.Context) bool { return f.ready }

// fakeOrderRepo captures the persisted record
type fakeOrderRepo struct {
	record *domain.OrderRecord
	err    error
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.OrderRecord) error {
	if f.err != nil {
		return f.err
	}
	f.record = order
	return nil
}
