package domain

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	namespacePrefixRe = regexp.MustCompile(`[a-zA-Z_\-:]+/`)
	trailingPunctRe   = regexp.MustCompile(`[,.;:!?]+$`)
)

// CleanWord turns a page title or link path into a display word:
// URL-decodes it, drops namespace prefixes such as "Reconstruction:Proto-Germanic/",
// replaces underscores with spaces and trims trailing punctuation.
// The leading "*" of reconstructed forms is kept.
func CleanWord(word string) string {
	if decoded, err := url.PathUnescape(word); err == nil {
		word = decoded
	}
	word = namespacePrefixRe.ReplaceAllString(word, "")
	word = strings.ReplaceAll(word, "_", " ")
	word = strings.TrimSpace(word)
	word = trailingPunctRe.ReplaceAllString(word, "")
	return strings.TrimSpace(word)
}

// NormalizeLanguage converts URL-style language names ("Old_French") to
// their display form.
func NormalizeLanguage(language string) string {
	return strings.TrimSpace(strings.ReplaceAll(language, "_", " "))
}

// ListingKey identifies a listing within one traversal:
// word, the first three runes of the language and the first five runes of
// the first definition.
func ListingKey(l *WordListing) string {
	if l == nil {
		return "0"
	}
	return l.Word + "_" + prefixRunes(l.Language, 3) + "_" + prefixRunes(l.FirstDefinition(), 5)
}

// ListingIdentifier is the search identifier for unrolling l with the given
// descendant flags. It keys search pings and precomputed-record lookups.
func ListingIdentifier(l *WordListing, descendants, deep bool) string {
	var b strings.Builder
	b.WriteString(flag(descendants))
	b.WriteString(flag(deep))
	b.WriteByte('_')

	defs := 0
	if l != nil {
		defs = len(l.Definitions)
	}
	b.WriteString(url.QueryEscape(ListingKey(l) + strconv.Itoa(defs)))
	return b.String()
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func prefixRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
