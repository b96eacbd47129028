package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"testing"

	"github.com/smartshop/backend/internal/domain"
)

// testDataURL builds a small JPEG frame as a data URL
func testDataURL(t *testing.T, width, height int) string {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode test frame: %v", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestPipeline(detector domain.Detector, ocr domain.OCRClient, entries []domain.CatalogEntry) *PredictionService {
	return NewPredictionService(
		detector,
		NewFusionService(ocr, FusionConfig{Concurrency: 2}),
		NewMatchingService(newFakeCatalog(entries), MatchConfig{MinScore: 0.3}),
		NewAssemblyService(nil, nil, 0),
		PredictionConfig{DefaultMinConfidence: 0.25, DefaultLanguage: "en"},
	)
}

func TestPredict(t *testing.T) {
	ctx := context.Background()

	t.Run("full pipeline resolves a catalog product", func(t *testing.T) {
		detector := &fakeDetector{
			boxes: []domain.DetectionBox{
				{ID: "box-1", BBox: [4]float64{10, 10, 100, 100}, ClassLabel: "milk_carton", Confidence: 0.92},
			},
			ready: true,
		}
		ocr := &fakeOCR{extraction: domain.OCRExtraction{
			Brand:        "Amul",
			ProductName:  "Full Cream Milk",
			QuantityText: "500ml",
		}}

		svc := newTestPipeline(detector, ocr, testCatalogEntries())

		result, err := svc.Predict(ctx, &domain.PredictionRequest{Image: testDataURL(t, 320, 240)})
		if err != nil {
			t.Fatalf("Predict() error = %v, want nil", err)
		}

		resp := result.Response
		if resp.Status != "ok" {
			t.Errorf("Status = %s, want ok", resp.Status)
		}
		if resp.TotalItems != 1 {
			t.Fatalf("TotalItems = %d, want 1", resp.TotalItems)
		}
		d := resp.Detections[0]
		if d.Brand != "Amul" || d.ProductName != "Full Cream Milk" || d.QuantityText != "500ml" {
			t.Errorf("detection fields = %+v", d)
		}
		if resp.Summary != "Detected 1 product. Amul Full Cream Milk 500ml." {
			t.Errorf("Summary = %q", resp.Summary)
		}

		if len(result.Matches) != 1 {
			t.Fatalf("len(Matches) = %d, want 1", len(result.Matches))
		}
		match := result.Matches[0]
		if match.Fallback {
			t.Fatal("Fallback = true, want catalog match")
		}
		if match.Match.Variants[0].Price == nil || *match.Match.Variants[0].Price != 30 {
			t.Errorf("cheapest variant price = %v, want 30", match.Match.Variants[0].Price)
		}
	})

	t.Run("ocr outage degrades detections but keeps them", func(t *testing.T) {
		detector := &fakeDetector{
			boxes: []domain.DetectionBox{
				{ID: "box-1", BBox: [4]float64{10, 10, 100, 100}, ClassLabel: "milk_carton", Confidence: 0.92},
				{ID: "box-2", BBox: [4]float64{120, 10, 200, 100}, ClassLabel: "biscuit_pack", Confidence: 0.81},
			},
			ready: true,
		}
		ocr := &fakeOCR{err: domain.ErrOCRQuotaExceeded}

		svc := newTestPipeline(detector, ocr, testCatalogEntries())

		result, err := svc.Predict(ctx, &domain.PredictionRequest{Image: testDataURL(t, 320, 240)})
		if err != nil {
			t.Fatalf("Predict() error = %v, want nil", err)
		}

		resp := result.Response
		if resp.TotalItems != 2 {
			t.Fatalf("TotalItems = %d, want 2", resp.TotalItems)
		}
		for _, d := range resp.Detections {
			if !d.OCRFailed {
				t.Errorf("detection %s: OCRFailed = false, want true", d.ID)
			}
			if d.Brand != "" || d.ProductName != "" {
				t.Errorf("detection %s carries OCR fields despite failure", d.ID)
			}
		}
		if resp.Detections[0].ClassName != "milk_carton" || resp.Detections[1].ClassName != "biscuit_pack" {
			t.Error("detector order not preserved")
		}
		for i, match := range result.Matches {
			if !match.Fallback {
				t.Errorf("match %d claimed %s despite failed OCR, want fallback", i, match.Match.ProductID)
			}
		}
	})

	t.Run("request min confidence overrides the default", func(t *testing.T) {
		detector := &fakeDetector{
			boxes: []domain.DetectionBox{
				{ID: "box-1", BBox: [4]float64{10, 10, 100, 100}, ClassLabel: "milk_carton", Confidence: 0.92},
				{ID: "box-2", BBox: [4]float64{120, 10, 200, 100}, ClassLabel: "biscuit_pack", Confidence: 0.40},
			},
			ready: true,
		}

		svc := newTestPipeline(detector, &fakeOCR{}, testCatalogEntries())

		min := 0.5
		result, err := svc.Predict(ctx, &domain.PredictionRequest{
			Image:         testDataURL(t, 320, 240),
			MinConfidence: &min,
		})
		if err != nil {
			t.Fatalf("Predict() error = %v, want nil", err)
		}
		if result.Response.TotalItems != 1 {
			t.Errorf("TotalItems = %d, want 1", result.Response.TotalItems)
		}
	})

	t.Run("invalid base64 payload", func(t *testing.T) {
		svc := newTestPipeline(&fakeDetector{ready: true}, &fakeOCR{}, testCatalogEntries())

		_, err := svc.Predict(ctx, &domain.PredictionRequest{Image: "data:image/jpeg;base64,%%%not-base64%%%"})
		if !errors.Is(err, domain.ErrInvalidImage) {
			t.Errorf("Predict() error = %v, want ErrInvalidImage", err)
		}
	})

	t.Run("valid base64 but not an image", func(t *testing.T) {
		svc := newTestPipeline(&fakeDetector{ready: true}, &fakeOCR{}, testCatalogEntries())

		payload := base64.StdEncoding.EncodeToString([]byte("definitely not a jpeg"))
		_, err := svc.Predict(ctx, &domain.PredictionRequest{Image: payload})
		if !errors.Is(err, domain.ErrInvalidImage) {
			t.Errorf("Predict() error = %v, want ErrInvalidImage", err)
		}
	})

	t.Run("empty image is an invalid request", func(t *testing.T) {
		svc := newTestPipeline(&fakeDetector{ready: true}, &fakeOCR{}, testCatalogEntries())

		if _, err := svc.Predict(ctx, &domain.PredictionRequest{}); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Predict() error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("detector outage propagates", func(t *testing.T) {
		detector := &fakeDetector{err: domain.ErrDetectorUnavailable}
		svc := newTestPipeline(detector, &fakeOCR{}, testCatalogEntries())

		_, err := svc.Predict(ctx, &domain.PredictionRequest{Image: testDataURL(t, 320, 240)})
		if !errors.Is(err, domain.ErrDetectorUnavailable) {
			t.Errorf("Predict() error = %v, want ErrDetectorUnavailable", err)
		}
	})

	t.Run("ready delegates to the detector", func(t *testing.T) {
		svc := newTestPipeline(&fakeDetector{ready: true}, &fakeOCR{}, nil)
		if !svc.Ready(ctx) {
			t.Error("Ready() = false, want true")
		}

		svc = newTestPipeline(&fakeDetector{ready: false}, &fakeOCR{}, nil)
		if svc.Ready(ctx) {
			t.Error("Ready() = true, want false")
		}
	})
}
