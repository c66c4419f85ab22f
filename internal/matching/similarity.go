package matching

import "strings"

// LevenshteinDistance computes the edit distance between two strings using
// two rolling rows.
func LevenshteinDistance(a, b string) int {
	if a == "" {
		return len([]rune(b))
	}
	if b == "" {
		return len([]rune(a))
	}

	ra := []rune(a)
	rb := []rune(b)

	current := make([]int, len(rb)+1)
	previous := make([]int, len(rb)+1)
	for j := range current {
		current[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		previous, current = current, previous
		current[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				current[j] = previous[j-1]
			} else {
				current[j] = min(previous[j]+1, current[j-1]+1, previous[j-1]+1)
			}
		}
	}

	return current[len(rb)]
}

// Similarity is the normalized Levenshtein similarity in [0, 1]: 1.0 means
// identical. The caller is responsible for case/whitespace normalization.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	distance := LevenshteinDistance(a, b)
	maxLen := max(len([]rune(a)), len([]rune(b)))

	return 1.0 - float64(distance)/float64(maxLen)
}

// IsSimilarName reports whether two names are the same animal's name within
// the given threshold, after lower-casing and trimming both. Names identical
// after normalization match regardless of threshold.
func IsSimilarName(a, b string, threshold float64) bool {
	if a == "" || b == "" {
		return false
	}

	normA := strings.ToLower(strings.TrimSpace(a))
	normB := strings.ToLower(strings.TrimSpace(b))

	if normA == normB {
		return true
	}

	return Similarity(normA, normB) >= threshold
}
