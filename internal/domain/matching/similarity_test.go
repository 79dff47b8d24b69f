package matching

import (
	"math"
	"testing"
)

func TestSimilarity_Identity(t *testing.T) {
	for _, s := range []string{"Lotte Kopecky", "jr", "(x)", "  ", "Team A Pro"} {
		if got := Similarity(s, s); got != 1 {
			t.Fatalf("Similarity(%q, %q) = %v, want 1", s, s, got)
		}
	}
}

func TestSimilarity_EmptyIsZero(t *testing.T) {
	for _, s := range []string{"", "Lotte Kopecky", "jr"} {
		if got := Similarity("", s); got != 0 {
			t.Fatalf("Similarity(\"\", %q) = %v, want 0", s, got)
		}
		if got := Similarity(s, ""); got != 0 {
			t.Fatalf("Similarity(%q, \"\") = %v, want 0", s, got)
		}
	}
	if got := Similarity("jr", "sr"); got != 0 {
		t.Fatalf("names that normalize to nothing must not match, got %v", got)
	}
}

func TestSimilarity_Scores(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{a: "KOPECKY Lotte", b: "Lotte Kopecky", want: 1},
		{a: "WIEBES Lorena", b: "Wiebes Lorena", want: 1},
		{a: "Team A", b: "Team A Pro", want: 0.85},
		{a: "Lorena Wiebes", b: "Lorina Wiebbes", want: 16.0 / 18.0},
		{a: "Lorena Wiebes", b: "Lorena-Wiebes", want: 12.0 / 13.0},
	}
	for _, tc := range tests {
		got := Similarity(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if reverse := Similarity(tc.b, tc.a); math.Abs(reverse-got) > 1e-9 {
			t.Fatalf("Similarity not symmetric for %q/%q: %v vs %v", tc.a, tc.b, got, reverse)
		}
	}
}

func TestFindBestMatch_ThresholdBoundary(t *testing.T) {
	query := "Team A"
	candidates := []string{"Canyon Sram", "Team A Pro"}
	score := Similarity(query, "Team A Pro")

	atBoundary := FindBestMatch(query, candidates, score)
	if !atBoundary.Found() || atBoundary.Index != 1 || atBoundary.Name != "Team A Pro" {
		t.Fatalf("expected match at inclusive boundary, got %+v", atBoundary)
	}

	above := FindBestMatch(query, candidates, score+1e-9)
	if above.Found() {
		t.Fatalf("expected no match above best score, got %+v", above)
	}
	if above.Score != score {
		t.Fatalf("expected best score %v on rejection, got %v", score, above.Score)
	}
}

func TestFindBestMatch_FirstCandidateWinsTies(t *testing.T) {
	got := FindBestMatch("Lotte Kopecky", []string{"", "KOPECKY Lotte", "Lotte Kopecky"}, DefaultThreshold)
	if got.Index != 1 {
		t.Fatalf("expected first tied candidate, got index %d", got.Index)
	}
}

func TestFindBestMatch_EmptyInputs(t *testing.T) {
	if got := FindBestMatch("", []string{"Lotte Kopecky"}, 0); got.Found() || got.Score != 0 {
		t.Fatalf("empty query must not match, got %+v", got)
	}
	if got := FindBestMatch("Lotte Kopecky", nil, 0); got.Found() {
		t.Fatalf("no candidates must not match, got %+v", got)
	}
	if got := FindBestMatch("Lotte Kopecky", []string{"", ""}, 0); got.Found() {
		t.Fatalf("empty candidates must not match, got %+v", got)
	}
}
