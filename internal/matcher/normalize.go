package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes to NFKD and drops combining marks, so accented and
// stylized variants of Latin letters (fullwidth forms included) compare
// equal to their base form.
var foldMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds a string to the canonical form used for name matching:
// diacritics stripped, lowercased, with every non-alphanumeric run collapsed
// to a single space. "AWP | Dragón Loré" becomes "awp dragon lore".
func Normalize(s string) string {
	folded, _, err := transform.String(foldMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NameMatch reports whether the subscription pattern matches the listing
// name. Both sides are normalized; the match is a substring test.
func NameMatch(pattern, name string) bool {
	p := Normalize(pattern)
	if p == "" {
		return false
	}
	return strings.Contains(Normalize(name), p)
}
