// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make transliterates name to ASCII, lowercases it and joins the
// alphanumeric runs with single hyphens: "Crème Brûlée!" -> "creme-brulee",
// "Пицца" -> "pitstsa".
func Make(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	ascii := unidecode.Unidecode(folded)

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(ascii) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
