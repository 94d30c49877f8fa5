package sense

import (
	"regexp"
	"strings"
)

var (
	trailingPunctRe = regexp.MustCompile(`[,."'!?]+$`)
	inflectionRe    = regexp.MustCompile(`(ed|ing|es)$`)
)

// ContentWords splits s on single spaces, trims trailing punctuation and
// drops stopwords. With normalize, the endings -ed, -ing and -es are cut
// off first. If every word is a stopword the unfiltered words are returned.
func ContentWords(s string, normalize bool) []string {
	var words []string
	for _, w := range strings.Split(s, " ") {
		w = trailingPunctRe.ReplaceAllString(w, "")
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	if normalize {
		for i, w := range words {
			words[i] = inflectionRe.ReplaceAllString(w, "")
		}
	}

	filtered := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopwords[w]; !stop {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) == 0 {
		return words
	}
	return filtered
}

// Jaccard is the overlap of the content words of a and b: the number of
// words of a that also occur in b, over the size of the union. Two empty
// inputs score 0.
func Jaccard(a, b string, normalize bool) float64 {
	wa := ContentWords(a, normalize)
	wb := ContentWords(b, normalize)

	inB := make(map[string]struct{}, len(wb))
	for _, w := range wb {
		inB[w] = struct{}{}
	}

	intersection := 0
	for _, w := range wa {
		if _, ok := inB[w]; ok {
			intersection++
		}
	}

	union := len(wa) + len(wb) - intersection
	if union <= 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

var stopwords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does", "doing",
	"down", "during", "each", "etc", "few", "for", "from", "further", "had", "has",
	"have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his",
	"how", "i", "if", "in", "into", "is", "it", "its", "itself", "just",
	"me", "more", "most", "my", "myself", "no", "nor", "not", "now", "of",
	"off", "on", "once", "one", "only", "or", "other", "our", "ours", "ourselves",
	"out", "over", "own", "same", "she", "should", "so", "some", "someone", "something",
	"such", "than", "that", "the", "their", "theirs", "them", "themselves", "then", "there",
	"these", "they", "this", "those", "through", "to", "too", "under", "until", "up",
	"used", "very", "was", "we", "were", "what", "when", "where", "which", "while",
	"who", "whom", "why", "will", "with", "would", "you", "your", "yours", "yourself",
	"yourselves", "A", "An", "The", "To", "Of", "Or", "Any", "One", "Someone", "Something",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
