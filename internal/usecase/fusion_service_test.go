package usecase

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/smartshop/backend/internal/domain"
)

func testFrame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 200, 200))
}

func testBox(id, label string, confidence float64) domain.DetectionBox {
	return domain.DetectionBox{
		ID:         id,
		BBox:       [4]float64{10, 10, 100, 100},
		ClassLabel: label,
		Confidence: confidence,
	}
}

func TestFuse(t *testing.T) {
	t.Run("drops boxes below min confidence", func(t *testing.T) {
		svc := NewFusionService(&fakeOCR{}, FusionConfig{Concurrency: 2})

		boxes := []domain.DetectionBox{
			testBox("a", "milk_carton", 0.9),
			testBox("b", "biscuit_pack", 0.2),
			testBox("c", "soda_bottle", 0.5),
		}

		candidates, err := svc.Fuse(context.Background(), testFrame(), boxes, 0.4, "en")
		if err != nil {
			t.Fatalf("Fuse() error = %v, want nil", err)
		}
		if len(candidates) != 2 {
			t.Fatalf("len(candidates) = %d, want 2", len(candidates))
		}
		if candidates[0].Box.ID != "a" || candidates[1].Box.ID != "c" {
			t.Errorf("surviving boxes = %s, %s, want a, c", candidates[0].Box.ID, candidates[1].Box.ID)
		}
	})

	t.Run("preserves detector order across concurrent ocr", func(t *testing.T) {
		ocr := &fakeOCR{err: errors.New("down")}
		svc := NewFusionService(ocr, FusionConfig{Concurrency: 8})

		boxes := make([]domain.DetectionBox, 10)
		for i := range boxes {
			boxes[i] = testBox(fmt.Sprintf("box-%d", i), "item", 0.9)
		}

		candidates, err := svc.Fuse(context.Background(), testFrame(), boxes, 0.25, "en")
		if err != nil {
			t.Fatalf("Fuse() error = %v, want nil", err)
		}
		for i, c := range candidates {
			if c.Box.ID != fmt.Sprintf("box-%d", i) {
				t.Errorf("candidates[%d].Box.ID = %s, want box-%d", i, c.Box.ID, i)
			}
		}
	})

	t.Run("ocr failure degrades the candidate instead of dropping it", func(t *testing.T) {
		ocr := &fakeOCR{err: domain.ErrOCRTimeout}
		svc := NewFusionService(ocr, FusionConfig{})

		boxes := []domain.DetectionBox{testBox("a", "milk_carton", 0.9)}

		candidates, err := svc.Fuse(context.Background(), testFrame(), boxes, 0.25, "en")
		if err != nil {
			t.Fatalf("Fuse() error = %v, want nil", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("len(candidates) = %d, want 1", len(candidates))
		}
		if !candidates[0].OCRFailed {
			t.Error("OCRFailed = false, want true")
		}
		if candidates[0].DisplayLabel != "milk_carton" {
			t.Errorf("DisplayLabel = %q, want class label fallback", candidates[0].DisplayLabel)
		}
	})

	t.Run("display label joins present ocr fields", func(t *testing.T) {
		ocr := &fakeOCR{extraction: domain.OCRExtraction{
			Brand:        "Amul",
			ProductName:  "Full Cream Milk",
			QuantityText: "500ml",
		}}
		svc := NewFusionService(ocr, FusionConfig{})

		boxes := []domain.DetectionBox{testBox("a", "milk_carton", 0.9)}

		candidates, err := svc.Fuse(context.Background(), testFrame(), boxes, 0.25, "en")
		if err != nil {
			t.Fatalf("Fuse() error = %v, want nil", err)
		}
		if got := candidates[0].DisplayLabel; got != "Amul Full Cream Milk 500ml" {
			t.Errorf("DisplayLabel = %q, want %q", got, "Amul Full Cream Milk 500ml")
		}
	})

	t.Run("cancelled context surfaces as error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := NewFusionService(&fakeOCR{}, FusionConfig{})
		boxes := []domain.DetectionBox{testBox("a", "milk_carton", 0.9)}

		if _, err := svc.Fuse(ctx, testFrame(), boxes, 0.25, "en"); err == nil {
			t.Error("Fuse() error = nil, want context error")
		}
	})

	t.Run("no boxes yields empty candidates", func(t *testing.T) {
		svc := NewFusionService(&fakeOCR{}, FusionConfig{})

		candidates, err := svc.Fuse(context.Background(), testFrame(), nil, 0.25, "en")
		if err != nil {
			t.Fatalf("Fuse() error = %v, want nil", err)
		}
		if len(candidates) != 0 {
			t.Errorf("len(candidates) = %d, want 0", len(candidates))
		}
	})
}

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain value", "Amul", "Amul"},
		{"collapses inner whitespace", "  Full   Cream  Milk ", "Full Cream Milk"},
		{"punctuation only becomes absent", "---", ""},
		{"empty stays empty", "", ""},
		{"digits survive", "500ml", "500ml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeField(tt.input); got != tt.want {
				t.Errorf("sanitizeField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
