package rider

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugOverrides covers names whose provider slug cannot be derived from the roster spelling.
var slugOverrides = map[string]string{
	"LE COURT PIENAAR Kimberley": "kimberley-le-court",
}

// DisplayName turns "SURNAME Given" into "Given Surname". Names that do not
// follow the layout are returned trimmed.
func DisplayName(fullName string) string {
	surname, given := splitRosterName(fullName)
	if len(surname) == 0 || len(given) == 0 {
		return strings.Join(strings.Fields(fullName), " ")
	}

	for i, part := range surname {
		surname[i] = titleCase(part)
	}
	return strings.Join(append(given, surname...), " ")
}

// ProfileSlug builds the provider slug for a roster name, e.g.
// "BRAUßE Franziska" -> "franziska-brausse".
func ProfileSlug(fullName string) string {
	if slug, ok := slugOverrides[strings.TrimSpace(fullName)]; ok {
		return slug
	}

	surname, given := splitRosterName(fullName)
	parts := append(given, surname...)
	if len(surname) == 0 || len(given) == 0 {
		parts = strings.Fields(fullName)
	}
	return strings.ToLower(asciiFold(strings.Join(parts, "-")))
}

// ProfileURL is the provider path of a rider page.
func ProfileURL(fullName string) string {
	slug := ProfileSlug(fullName)
	if slug == "" {
		return ""
	}
	return "rider/" + slug
}

func splitRosterName(fullName string) (surname []string, given []string) {
	parts := strings.Fields(fullName)
	if len(parts) < 2 {
		return nil, nil
	}
	for i, part := range parts {
		if !isUpper(part) {
			return parts[:i], parts[i:]
		}
	}
	return parts, nil
}

func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		// ß has no single-rune upper case form and appears inside upper-case surnames.
		if unicode.IsLower(r) && unicode.ToUpper(r) != r {
			return false
		}
	}
	return hasLetter
}

func titleCase(s string) string {
	out := []rune(strings.ToLower(s))
	capNext := true
	for i, r := range out {
		if capNext && unicode.IsLetter(r) {
			out[i] = unicode.ToUpper(r)
		}
		capNext = r == '-' || r == '\''
	}
	return string(out)
}

func asciiFold(s string) string {
	s = strings.NewReplacer("ß", "ss", "ẞ", "SS").Replace(s)
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		return s
	}
	return folded
}
