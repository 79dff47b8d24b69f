package matching

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// DefaultThreshold is the minimum similarity accepted as a match.
	DefaultThreshold = 0.8
	// HighConfidence separates high-confidence fuzzy matches from plain fuzzy ones.
	HighConfidence = 0.9

	surnameBoost     = 0.2
	sharedTokenBoost = 0.1
)

// Similarity scores two names in [0,1]. The base score is the longest
// matching blocks ratio of the normalized names, taken in written order and
// with tokens sorted, so "KOPECKY Lotte" and "Lotte Kopecky" agree. Matching
// last tokens add 0.2 and any shared token adds 0.1, capped at 1.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	wordsA, wordsB := strings.Fields(na), strings.Fields(nb)
	score := max(ratio(na, nb), ratio(sortedTokens(wordsA), sortedTokens(wordsB)))

	if wordsA[len(wordsA)-1] == wordsB[len(wordsB)-1] {
		score += surnameBoost
	}
	if sharesToken(wordsA, wordsB) {
		score += sharedTokenBoost
	}
	return min(1, max(0, score))
}

// BestMatch is the outcome of FindBestMatch. Index is -1 when no candidate
// cleared the threshold; Score still carries the best score seen.
type BestMatch struct {
	Index int
	Name  string
	Score float64
}

func (m BestMatch) Found() bool {
	return m.Index >= 0
}

// FindBestMatch returns the highest scoring candidate when its score is at
// least threshold. Ties keep the earliest candidate; empty candidates are skipped.
func FindBestMatch(query string, candidates []string, threshold float64) BestMatch {
	best := BestMatch{Index: -1}
	if query == "" {
		return best
	}

	bestIndex := -1
	for i, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if score := Similarity(query, candidate); score > best.Score {
			best.Score = score
			bestIndex = i
		}
	}

	if bestIndex >= 0 && best.Score >= threshold {
		best.Index = bestIndex
		best.Name = candidates[bestIndex]
	}
	return best
}

func ratio(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func sortedTokens(words []string) string {
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

func sharesToken(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, word := range b {
		set[word] = struct{}{}
	}
	for _, word := range a {
		if _, ok := set[word]; ok {
			return true
		}
	}
	return false
}
