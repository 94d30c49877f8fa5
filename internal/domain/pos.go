package domain

// PartOfSpeech is the Wiktionary heading that introduces a definition list.
type PartOfSpeech string

const (
	PartOfSpeechNoun         PartOfSpeech = "Noun"
	PartOfSpeechVerb         PartOfSpeech = "Verb"
	PartOfSpeechAdjective    PartOfSpeech = "Adjective"
	PartOfSpeechAdverb       PartOfSpeech = "Adverb"
	PartOfSpeechPronoun      PartOfSpeech = "Pronoun"
	PartOfSpeechConjunction  PartOfSpeech = "Conjunction"
	PartOfSpeechSuffix       PartOfSpeech = "Suffix"
	PartOfSpeechPrefix       PartOfSpeech = "Prefix"
	PartOfSpeechInfix        PartOfSpeech = "Infix"
	PartOfSpeechPreposition  PartOfSpeech = "Preposition"
	PartOfSpeechParticle     PartOfSpeech = "Particle"
	PartOfSpeechParticiple   PartOfSpeech = "Participle"
	PartOfSpeechProperNoun   PartOfSpeech = "Proper noun"
	PartOfSpeechInterjection PartOfSpeech = "Interjection"
	PartOfSpeechRoot         PartOfSpeech = "Root"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb,
		PartOfSpeechPronoun, PartOfSpeechConjunction, PartOfSpeechSuffix, PartOfSpeechPrefix,
		PartOfSpeechInfix, PartOfSpeechPreposition, PartOfSpeechParticle, PartOfSpeechParticiple,
		PartOfSpeechProperNoun, PartOfSpeechInterjection, PartOfSpeechRoot:
		return true
	}
	return false
}

// ParsePartOfSpeech maps a section heading to a PartOfSpeech.
// Headings are matched exactly, as Wiktionary renders them.
func ParsePartOfSpeech(heading string) (PartOfSpeech, bool) {
	p := PartOfSpeech(heading)
	if !p.IsValid() {
		return "", false
	}
	return p, true
}

var posClusters = [][]PartOfSpeech{
	{PartOfSpeechNoun, PartOfSpeechProperNoun, PartOfSpeechPronoun},
	{PartOfSpeechVerb, PartOfSpeechParticiple},
	{PartOfSpeechAdjective, PartOfSpeechAdverb, PartOfSpeechParticiple},
	{PartOfSpeechPrefix, PartOfSpeechSuffix, PartOfSpeechInfix, PartOfSpeechRoot},
	{PartOfSpeechPreposition, PartOfSpeechConjunction, PartOfSpeechParticle, PartOfSpeechInterjection},
}

// SimilarPartsOfSpeech reports whether a and b share a similarity cluster.
func SimilarPartsOfSpeech(a, b PartOfSpeech) bool {
	if a == "" || b == "" {
		return false
	}
	for _, cluster := range posClusters {
		var hasA, hasB bool
		for _, p := range cluster {
			hasA = hasA || p == a
			hasB = hasB || p == b
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}
