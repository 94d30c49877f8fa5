package wiktionary

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Label turns a word and an optional language hint into the page title the
// parse API expects. Reconstructed forms ("*wulfaz") and any word under a
// Proto- language resolve to Reconstruction:<Language>/<word>. Aggressive
// labels also drop diacritics and hyphens, which is how Wiktionary titles
// Latin and Old English entries written with macrons.
func Label(word, languageHint string, aggressive bool) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	if decoded, err := url.PathUnescape(word); err == nil {
		word = decoded
	}

	label := word
	if aggressive {
		label = strings.ReplaceAll(stripDiacritics(label), "-", "")
	}

	hint := strings.ReplaceAll(languageHint, " ", "_")
	switch {
	case strings.HasPrefix(word, "*") && hint != "":
		label = "Reconstruction:" + hint + "/" + strings.TrimPrefix(label, "*")
	case strings.HasPrefix(languageHint, "Proto-") && !strings.HasPrefix(word, "Reconstruction:"):
		label = "Reconstruction:" + hint + "/" + label
	}
	return label
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
