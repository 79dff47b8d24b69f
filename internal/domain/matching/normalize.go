package matching

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parentheticalRegex = regexp.MustCompile(`\([^)]*\)\s*`)
	suffixTokens       = map[string]struct{}{"jr": {}, "sr": {}, "ii": {}, "iii": {}}
	sharpS             = strings.NewReplacer("ß", "ss")
)

// Normalize canonicalizes a rider or team name for comparison: lower case,
// accents folded, parenthetical asides removed, "Surname, Given" reordered to
// "Given Surname" and generational suffixes dropped. The rewrite steps repeat
// until the name stops changing, so Normalize is idempotent even when a
// reorder brings a new "(...)" group together.
func Normalize(name string) string {
	if name == "" {
		return ""
	}

	normalized := strings.Join(strings.Fields(foldAccents(strings.ToLower(name))), " ")
	// Every changing pass shortens the name or removes a comma.
	for range len(normalized) + 1 {
		next := rewriteName(normalized)
		if next == normalized {
			break
		}
		normalized = next
	}
	return normalized
}

func rewriteName(name string) string {
	name = parentheticalRegex.ReplaceAllString(name, "")

	if parts := strings.Split(name, ","); len(parts) == 2 {
		name = strings.TrimSpace(parts[1]) + " " + strings.TrimSpace(parts[0])
	}

	words := strings.Fields(name)
	kept := words[:0]
	for _, word := range words {
		if _, ok := suffixTokens[word]; ok {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

func foldAccents(s string) string {
	s = sharpS.Replace(s)
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		return s
	}
	return folded
}
