package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/logger"
)

// AssembleOptions are the caller-controlled knobs for one response
type AssembleOptions struct {
	MinConfidence float64
	IncludeAudio  bool
	Language      string
}

// AssemblyService builds the final prediction response: confidence
// filtering, summary text and best-effort audio. Identical summaries reuse
// cached audio instead of re-synthesizing.
type AssemblyService struct {
	tts        domain.TTSClient
	audioCache domain.CacheRepository
	audioTTL   time.Duration
}

// NewAssemblyService creates an assembly service. tts and audioCache may be
// nil; audio is then simply omitted.
func NewAssemblyService(tts domain.TTSClient, audioCache domain.CacheRepository, audioTTL time.Duration) *AssemblyService {
	if audioTTL <= 0 {
		audioTTL = 24 * time.Hour
	}

	return &AssemblyService{
		tts:        tts,
		audioCache: audioCache,
		audioTTL:   audioTTL,
	}
}

// Assemble filters candidates below the requested confidence (a second
// gate; upstream normally filtered already), builds the summary and
// optional audio, and returns the response. Zero detections is a normal
// "ok" outcome. matches must be index-aligned with candidates.
func (s *AssemblyService) Assemble(
	ctx context.Context,
	candidates []domain.FusedCandidate,
	matches []domain.MatchResult,
	opts AssembleOptions,
) domain.PredictionResponse {
	filtered := make([]domain.FusedCandidate, 0, len(candidates))
	for i, c := range candidates {
		if c.Box.Confidence < opts.MinConfidence {
			continue
		}
		filtered = append(filtered, c)

		if i < len(matches) {
			logger.Debugf("detection %s resolved to %s", c.Box.ID, matchSummary(matches[i]))
		}
	}

	detections := make([]domain.Detection, 0, len(filtered))
	for _, c := range filtered {
		detections = append(detections, c.ToDetection())
	}

	summary := BuildSummary(filtered)

	response := domain.PredictionResponse{
		Status:     "ok",
		Detections: detections,
		Summary:    summary,
		TotalItems: len(detections),
	}

	if opts.IncludeAudio && summary != "" {
		response.AudioURL = s.synthesizeAudio(ctx, summary, opts.Language)
	}

	return response
}

// BuildSummary produces the spoken summary for a set of candidates
func BuildSummary(candidates []domain.FusedCandidate) string {
	switch n := len(candidates); {
	case n == 0:
		return "No products detected."
	case n == 1:
		return fmt.Sprintf("Detected 1 product. %s.", candidates[0].DisplayLabel)
	default:
		return fmt.Sprintf("Detected %d products. %s. And %d more.", n, candidates[0].DisplayLabel, n-1)
	}
}

// synthesizeAudio returns an audio URL for the summary, or "" when TTS is
// disabled or failing. Audio never blocks the primary result.
func (s *AssemblyService) synthesizeAudio(ctx context.Context, summary, language string) string {
	if s.tts == nil || !s.tts.Enabled() {
		return ""
	}

	key := audioCacheKey(summary, language)
	if s.audioCache != nil {
		if cached, err := s.audioCache.Get(ctx, key); err == nil {
			if url, ok := cached.(string); ok && url != "" {
				return url
			}
		}
	}

	audioURL, err := s.tts.Synthesize(ctx, summary, language)
	if err != nil {
		logger.WithError(err).Warnf("tts synthesis failed, omitting audio")
		return ""
	}

	if s.audioCache != nil {
		if err := s.audioCache.Set(ctx, key, audioURL, s.audioTTL); err != nil {
			logger.WithError(err).Debugf("failed to cache audio url")
		}
	}

	return audioURL
}

// audioCacheKey hashes the summary and language into a cache key
func audioCacheKey(summary, language string) string {
	sum := sha256.Sum256([]byte(language + "|" + summary))
	return "audio:" + hex.EncodeToString(sum[:])
}
