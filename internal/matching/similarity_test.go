package matching

import (
	"math"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "husky", 5},
		{"husky", "", 5},
		{"husky", "husky", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"Lodgepole's Winter", "Lodgepoles Winter", 1},
		{"héllo", "hello", 1},
	}
	for _, tc := range cases {
		if got := LevenshteinDistance(tc.a, tc.b); got != tc.want {
			t.Errorf("LevenshteinDistance(%q, %q): want=%d got=%d", tc.a, tc.b, tc.want, got)
		}
	}
}

func TestLevenshteinDistanceSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"nanuk of siberia", "nanook of siberia"},
		{"zero", "hero"},
		{"a", "abcdef"},
	}
	for _, p := range pairs {
		ab := LevenshteinDistance(p[0], p[1])
		ba := LevenshteinDistance(p[1], p[0])
		if ab != ba {
			t.Errorf("distance not symmetric for %q/%q: %d vs %d", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"husky", "", 0.0},
		{"", "husky", 0.0},
		{"husky", "husky", 1.0},
		{"abcd", "abce", 0.75},
		{"ab", "cd", 0.0},
	}
	for _, tc := range cases {
		got := Similarity(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Similarity(%q, %q): want=%v got=%v", tc.a, tc.b, tc.want, got)
		}
	}
}

func TestSimilarityRangeAndApostrophes(t *testing.T) {
	// A single dropped apostrophe in a long registered name must stay above
	// the fuzzy-match threshold.
	got := Similarity("lodgepole's winter storm", "lodgepoles winter storm")
	if got < DefaultNameThreshold {
		t.Fatalf("apostrophe variant similarity: want>=%v got=%v", DefaultNameThreshold, got)
	}
	if got < 0 || got > 1 {
		t.Fatalf("similarity out of range: %v", got)
	}
}

func TestIsSimilarName(t *testing.T) {
	cases := []struct {
		a, b      string
		threshold float64
		want      bool
	}{
		{"", "anything", 0.1, false},
		{"anything", "", 0.1, false},
		{"  Nanuk  ", "nanuk", 0.99, true},
		{"Nanuk", "Nanook", 0.8, true},
		{"Nanuk", "Balto", 0.8, false},
		// Identical after normalization matches even with an impossible
		// threshold.
		{"BALTO", " balto ", 2.0, true},
	}
	for _, tc := range cases {
		if got := IsSimilarName(tc.a, tc.b, tc.threshold); got != tc.want {
			t.Errorf("IsSimilarName(%q, %q, %v): want=%v got=%v", tc.a, tc.b, tc.threshold, tc.want, got)
		}
	}
}
