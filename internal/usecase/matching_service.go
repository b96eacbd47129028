package usecase

import (
	"fmt"

	"github.com/arbovm/levenshtein"
	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/logger"
)

// Fuzzy token equality: tokens of at least fuzzyMinTokenLen characters
// match within edit distance fuzzyEditDistance. Shorter tokens must match
// exactly to avoid false positives like "tea"/"sea".
const (
	fuzzyMinTokenLen  = 4
	fuzzyEditDistance = 1
)

// FallbackProductID identifies synthesized no-match results
const FallbackProductID = "fallback-001"

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinScore float64
}

// MatchingService resolves fused candidates against the catalog snapshot.
//
// Tie-break policy (deterministic, in order):
//  1. higher token-overlap score
//  2. catalog name whose normalized length is closest to the candidate's
//  3. shorter catalog name
//  4. lexicographically smaller product_id
type MatchingService struct {
	catalog  domain.CatalogRepository
	minScore float64
}

// NewMatchingService creates a matching service with the given configuration
func NewMatchingService(catalog domain.CatalogRepository, config MatchConfig) *MatchingService {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = 0.3
	}

	return &MatchingService{
		catalog:  catalog,
		minScore: minScore,
	}
}

// Match returns the best catalog match for a fused candidate, or a fallback
// result when the catalog has no plausible entry. Matching is a pure
// function of the candidate and the current snapshot.
func (s *MatchingService) Match(candidate domain.FusedCandidate) (domain.MatchResult, error) {
	snapshot := s.catalog.Snapshot()
	if snapshot == nil {
		return domain.MatchResult{}, domain.ErrCatalogUnavailable
	}

	// A candidate whose OCR failed, or that carries neither brand nor
	// product name, has only the detector class label to offer. Class
	// labels like "milk_carton" share tokens with real catalog names, so
	// letting them into the fuzzy pass would pin a branded product (and
	// its price) on an unidentified item. Those candidates go straight to
	// the price-pending fallback.
	if candidate.OCRFailed || (candidate.OCR.Brand == "" && candidate.OCR.ProductName == "") {
		return fallbackResult(candidate), nil
	}

	brand := candidate.OCR.Brand
	name := candidate.OCR.ProductName
	if name == "" {
		name = candidate.DisplayLabel
	}

	// Primary: exact normalized (brand, name)
	if entry, ok := snapshot.Lookup(brand, name); ok {
		return domain.MatchResult{
			Match:  entry.ToProductMatch(),
			Score:  1.0,
			Reason: "exact normalized brand and name match",
		}, nil
	}

	// Secondary: token overlap over names, scoped to brand when present
	if best, score, reason := s.fuzzyMatch(snapshot, brand, name); best != nil {
		return domain.MatchResult{
			Match:  best.ToProductMatch(),
			Score:  score,
			Reason: reason,
		}, nil
	}

	result := fallbackResult(candidate)
	logger.Debugf("match %q -> %s", candidate.DisplayLabel, matchSummary(result))
	return result, nil
}

// fuzzyMatch scans the snapshot for the highest token-overlap entry
func (s *MatchingService) fuzzyMatch(snapshot *domain.CatalogSnapshot, brand, name string) (*domain.CatalogEntry, float64, string) {
	candidateTokens := domain.TokenizeName(name)
	if len(candidateTokens) == 0 {
		return nil, 0, ""
	}

	normBrand := domain.NormalizeText(brand)
	normName := domain.NormalizeText(name)

	var (
		best      *domain.CatalogEntry
		bestScore float64
		bestDiff  int
		bestLen   int
	)

	entries := snapshot.Entries()
	for i := range entries {
		entry := &entries[i]

		if normBrand != "" && domain.NormalizeText(entry.Brand) != normBrand {
			continue
		}

		entryNorm := domain.NormalizeText(entry.Name)
		score := overlapScore(candidateTokens, domain.TokenizeName(entry.Name))
		if score < s.minScore {
			continue
		}

		diff := absInt(len(entryNorm) - len(normName))

		if best == nil || betterMatch(score, diff, len(entryNorm), entry.ProductID, bestScore, bestDiff, bestLen, best.ProductID) {
			best = entry
			bestScore = score
			bestDiff = diff
			bestLen = len(entryNorm)
		}
	}

	if best == nil {
		return nil, 0, ""
	}

	reason := fmt.Sprintf("token overlap %.2f on %q", bestScore, best.Name)
	if normBrand != "" {
		reason += fmt.Sprintf(" (brand-scoped to %q)", brand)
	}
	logger.Debugf("fuzzy match %q -> %s (%s)", name, best.ProductID, reason)
	return best, bestScore, reason
}

// betterMatch applies the documented tie-break ordering
func betterMatch(score float64, diff, nameLen int, productID string, bestScore float64, bestDiff, bestLen int, bestID string) bool {
	if score != bestScore {
		return score > bestScore
	}
	if diff != bestDiff {
		return diff < bestDiff
	}
	if nameLen != bestLen {
		return nameLen < bestLen
	}
	return productID < bestID
}

// overlapScore is the fraction of candidate tokens found in the entry
// tokens, with fuzzy token equality.
func overlapScore(candidateTokens, entryTokens []string) float64 {
	if len(candidateTokens) == 0 || len(entryTokens) == 0 {
		return 0
	}

	matched := 0
	for _, ct := range candidateTokens {
		for _, et := range entryTokens {
			if tokensMatch(ct, et) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(candidateTokens))
}

// tokensMatch reports exact or near-exact token equality
func tokensMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) < fuzzyMinTokenLen || len(b) < fuzzyMinTokenLen {
		return false
	}
	if absInt(len(a)-len(b)) > fuzzyEditDistance {
		return false
	}
	return levenshtein.Distance(a, b) <= fuzzyEditDistance
}

// fallbackResult synthesizes a match carrying only the candidate's own
// display label and a single price-pending variant. The price stays absent
// rather than zero so no caller can mistake an unknown price for free.
func fallbackResult(candidate domain.FusedCandidate) domain.MatchResult {
	brand := candidate.OCR.Brand
	if brand == "" {
		brand = "Unknown"
	}

	size := candidate.OCR.QuantityText
	if size == "" {
		size = "Standard"
	}

	return domain.MatchResult{
		Match: domain.ProductMatch{
			ProductID:           FallbackProductID,
			Brand:               brand,
			Name:                candidate.DisplayLabel,
			Description:         "Product details not found in catalog",
			AvailableSizes:      []string{size},
			AvailableQuantities: append([]int(nil), domain.DefaultQuantities...),
			Variants: []domain.Variant{
				{Size: size, Currency: "INR", PricePending: true},
			},
		},
		Fallback: true,
		Reason:   "no catalog match; synthesized fallback with pending price",
	}
}

// absInt returns the absolute value of an int
func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// matchSummary is a short human-readable description used in debug logs
func matchSummary(result domain.MatchResult) string {
	if result.Fallback {
		return "fallback"
	}
	return fmt.Sprintf("%s (%.2f)", result.Match.ProductID, result.Score)
}
