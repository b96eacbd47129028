package domain

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// NormalizeText case-folds a string, strips punctuation and collapses
// whitespace. The loader and the matcher must normalize identically, which
// is why this lives next to the catalog snapshot.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = punctuationRegex.ReplaceAllString(result, " ")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// CatalogKey builds the normalized (brand, name) lookup key.
func CatalogKey(brand, name string) string {
	return NormalizeText(brand) + "|" + NormalizeText(name)
}

// TokenizeName splits a normalized string into tokens for fuzzy matching.
// Single-character tokens carry no signal and are dropped.
func TokenizeName(s string) []string {
	words := strings.Fields(NormalizeText(s))

	var tokens []string
	for _, word := range words {
		if len(word) <= 1 {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
