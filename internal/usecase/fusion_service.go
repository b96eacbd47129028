package usecase

import (
	"context"
	"image"
	"strings"
	"unicode"

	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/infrastructure/imaging"
	"github.com/smartshop/backend/internal/logger"
	"golang.org/x/sync/errgroup"
)

// cropPadding expands each detection box by 10% per side before OCR so
// label text clipped by a tight box is still readable.
const cropPadding = 0.10

// cropJPEGQuality balances OCR legibility against upload size
const cropJPEGQuality = 85

// FusionConfig holds configuration for the fusion engine
type FusionConfig struct {
	Concurrency int
}

// FusionService merges detector boxes with per-region OCR extractions.
// OCR calls fan out concurrently; results are joined back into the
// detector's original box order.
type FusionService struct {
	ocr         domain.OCRClient
	concurrency int
}

// NewFusionService creates a fusion service
func NewFusionService(ocr domain.OCRClient, config FusionConfig) *FusionService {
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &FusionService{
		ocr:         ocr,
		concurrency: concurrency,
	}
}

// Fuse drops boxes below minConfidence, runs OCR on each surviving box and
// builds fused candidates in the original box order. A failed OCR call
// degrades that one candidate (ocr_failed, class label only); it is never
// dropped. The only error returned is context cancellation.
func (s *FusionService) Fuse(
	ctx context.Context,
	frame image.Image,
	boxes []domain.DetectionBox,
	minConfidence float64,
	language string,
) ([]domain.FusedCandidate, error) {
	survivors := make([]domain.DetectionBox, 0, len(boxes))
	for _, box := range boxes {
		if box.Confidence >= minConfidence {
			survivors = append(survivors, box)
		}
	}

	// Indexed result slot per box keeps the join ordered regardless of
	// which OCR call completes first.
	candidates := make([]domain.FusedCandidate, len(survivors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, box := range survivors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			candidates[i] = s.fuseOne(gctx, frame, box, language)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return candidates, nil
}

// fuseOne crops one region, runs OCR and builds the candidate
func (s *FusionService) fuseOne(ctx context.Context, frame image.Image, box domain.DetectionBox, language string) domain.FusedCandidate {
	candidate := domain.FusedCandidate{Box: box}

	crop := imaging.CropRegion(frame, box.BBox, cropPadding)
	cropJPEG, err := imaging.EncodeJPEG(crop, cropJPEGQuality)
	if err == nil {
		var extraction domain.OCRExtraction
		extraction, err = s.ocr.Extract(ctx, cropJPEG, language)
		if err == nil {
			candidate.OCR = sanitizeExtraction(extraction)
		}
	}

	if err != nil {
		logger.WithError(err).Warnf("ocr failed for detection %s", box.ID)
		candidate.OCRFailed = true
	}

	candidate.DisplayLabel = buildDisplayLabel(box, candidate.OCR)
	return candidate
}

// sanitizeExtraction enforces the optional-field convention at the adapter
// boundary: fields that are pure noise collapse to absent (empty string).
func sanitizeExtraction(e domain.OCRExtraction) domain.OCRExtraction {
	e.Brand = sanitizeField(e.Brand)
	e.ProductName = sanitizeField(e.ProductName)
	e.QuantityText = sanitizeField(e.QuantityText)
	e.RawText = strings.TrimSpace(e.RawText)
	return e
}

// sanitizeField trims a field and collapses punctuation-only noise to absent
func sanitizeField(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return s
		}
	}
	return ""
}

// buildDisplayLabel joins the present OCR fields in brand, name, quantity
// order; with nothing extracted it falls back to the detector class label,
// so the label is never empty.
func buildDisplayLabel(box domain.DetectionBox, ocr domain.OCRExtraction) string {
	parts := make([]string, 0, 3)
	for _, field := range []string{ocr.Brand, ocr.ProductName, ocr.QuantityText} {
		if field != "" {
			parts = append(parts, field)
		}
	}

	if len(parts) == 0 {
		return box.ClassLabel
	}
	return strings.Join(parts, " ")
}
