package metricscalculator

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// SimilarityRatio computes a normalized similarity between two texts in
// [0, 1], case-insensitive. It is the levenshtein ratio
// (lenSum - editDistance) / lenSum over runes.
func SimilarityRatio(text1, text2 string) float64 {
	if text1 == text2 {
		return 1.0
	}
	if text1 == "" && text2 == "" {
		return 1.0
	}
	if text1 == "" || text2 == "" {
		return 0.0
	}

	source := []rune(strings.ToLower(text1))
	target := []rune(strings.ToLower(text2))
	return levenshtein.RatioForStrings(source, target, levenshtein.DefaultOptions)
}

// KeywordOverlap scores how many of the query's words appear in the document,
// normalized by the query word count. Both sides are lowercased and
// whitespace-tokenized.
func KeywordOverlap(query, document string) float64 {
	queryWords := wordSet(query)
	if len(queryWords) == 0 {
		return 0.0
	}
	docWords := wordSet(document)

	common := 0
	for w := range queryWords {
		if _, ok := docWords[w]; ok {
			common++
		}
	}
	return float64(common) / float64(len(queryWords))
}

// SetOverlap computes |predicted ∩ expected| / |expected|. An empty expected
// set scores 0.
func SetOverlap(predicted, expected []string) float64 {
	if len(expected) == 0 {
		return 0.0
	}

	predictedSet := map[string]struct{}{}
	for _, p := range predicted {
		predictedSet[p] = struct{}{}
	}

	expectedSet := map[string]struct{}{}
	for _, e := range expected {
		expectedSet[e] = struct{}{}
	}

	common := 0
	for e := range expectedSet {
		if _, ok := predictedSet[e]; ok {
			common++
		}
	}
	return float64(common) / float64(len(expectedSet))
}

func wordSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
