package registry

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonToken matches any run of characters outside the token alphabet.
	nonToken = regexp.MustCompile(`[^a-z0-9]+`)

	// foldMarks decomposes accented characters and strips the combining
	// marks, so "Máy" folds to "May" rather than losing the rune.
	foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	// foldStroke maps đ to d. The stroke is not a combining mark, so NFD
	// leaves it alone and the rune would otherwise be dropped wholesale.
	foldStroke = strings.NewReplacer("đ", "d", "Đ", "D")
)

// Slugify converts arbitrary display text into a canonical token:
// diacritics folded to their base letters, lowercased, every run of
// non-alphanumeric characters collapsed to a single hyphen, and leading or
// trailing hyphens trimmed.
//
// Slugify is deterministic and idempotent. Text with no alphanumeric
// content yields an empty string; callers must treat that as invalid and
// fall back to another token source.
func Slugify(text string) string {
	folded, _, err := transform.String(foldMarks, foldStroke.Replace(text))
	if err != nil {
		// Malformed input: fold what we can, the regexp below drops the rest.
		folded = text
	}

	s := strings.ToLower(folded)
	s = nonToken.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// ValidToken reports whether s already has canonical token shape:
// non-empty, [a-z0-9-] only, no leading/trailing/doubled hyphens.
func ValidToken(s string) bool {
	return s != "" && s == Slugify(s)
}
