package usecase

import (
	"context"
	"time"

	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/infrastructure/imaging"
	"github.com/smartshop/backend/internal/logger"
)

// PredictionConfig holds configuration for the prediction pipeline
type PredictionConfig struct {
	DefaultMinConfidence float64
	DefaultLanguage      string
}

// PredictResult carries the client response together with the internal
// pipeline artifacts, which the product/order flows build on.
type PredictResult struct {
	Response   domain.PredictionResponse
	Candidates []domain.FusedCandidate
	Matches    []domain.MatchResult
}

// PredictionService runs the full pipeline for one frame:
// decode -> detect -> fuse -> match -> assemble.
type PredictionService struct {
	detector  domain.Detector
	fusion    *FusionService
	matcher   *MatchingService
	assembler *AssemblyService
	config    PredictionConfig
}

// NewPredictionService creates a prediction service with its collaborators
func NewPredictionService(
	detector domain.Detector,
	fusion *FusionService,
	matcher *MatchingService,
	assembler *AssemblyService,
	config PredictionConfig,
) *PredictionService {
	if config.DefaultMinConfidence <= 0 {
		config.DefaultMinConfidence = 0.25
	}
	if config.DefaultLanguage == "" {
		config.DefaultLanguage = "en"
	}

	return &PredictionService{
		detector:  detector,
		fusion:    fusion,
		matcher:   matcher,
		assembler: assembler,
		config:    config,
	}
}

// Predict processes one prediction request. Unrecoverable failures
// (bad image, detector down, catalog unreachable) return an error; adapter
// degradation (OCR, TTS) is absorbed into the response.
func (s *PredictionService) Predict(ctx context.Context, request *domain.PredictionRequest) (*PredictResult, error) {
	if request == nil || request.Image == "" {
		return nil, domain.ErrInvalidRequest
	}

	start := time.Now()

	minConfidence := s.config.DefaultMinConfidence
	if request.MinConfidence != nil {
		minConfidence = *request.MinConfidence
	}

	language := request.Language
	if language == "" {
		language = s.config.DefaultLanguage
	}

	includeAudio := true
	if request.IncludeAudio != nil {
		includeAudio = *request.IncludeAudio
	}

	rawImage, err := imaging.DecodeDataURL(request.Image)
	if err != nil {
		return nil, err
	}
	frame, err := imaging.Decode(rawImage)
	if err != nil {
		return nil, err
	}

	boxes, err := s.detector.Detect(ctx, rawImage, minConfidence)
	if err != nil {
		return nil, err
	}

	candidates, err := s.fusion.Fuse(ctx, frame, boxes, minConfidence, language)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.MatchResult, len(candidates))
	for i, candidate := range candidates {
		match, err := s.matcher.Match(candidate)
		if err != nil {
			return nil, err
		}
		matches[i] = match
	}

	response := s.assembler.Assemble(ctx, candidates, matches, AssembleOptions{
		MinConfidence: minConfidence,
		IncludeAudio:  includeAudio,
		Language:      language,
	})
	response.ProcessingTimeMS = time.Since(start).Milliseconds()

	logger.Infof("prediction complete: %d items in %dms", response.TotalItems, response.ProcessingTimeMS)

	return &PredictResult{
		Response:   response,
		Candidates: candidates,
		Matches:    matches,
	}, nil
}

// Ready reports whether the detection model is available
func (s *PredictionService) Ready(ctx context.Context) bool {
	return s.detector.Ready(ctx)
}
