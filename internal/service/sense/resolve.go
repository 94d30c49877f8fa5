// Package sense picks which listing of a word a claim or gloss refers to.
package sense

import (
	"strings"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

const (
	nearMatchThreshold = 0.9
	nearMatchBonus     = 0.5
	normalizedWeight   = 0.5
	samePOSFactor      = 1.4
	similarPOSFactor   = 1.2
)

// Hint is what is known about the sense being looked for. Gloss wins over
// Claim.StatedGloss; without either, Context's word and first definition
// stand in as glosses.
type Hint struct {
	Claim   *domain.EtymologyClaim
	Context *domain.WordListing
	Gloss   string
}

// Resolve returns the candidate that best matches hint. The boolean is
// false only when there are no candidates.
func Resolve(candidates []domain.WordListing, hint Hint) (*domain.WordListing, bool) {
	switch len(candidates) {
	case 0:
		return nil, false
	case 1:
		return &candidates[0], true
	}

	scores := make([]float64, len(candidates))
	for _, gloss := range hint.glosses() {
		pos := hint.partOfSpeech(gloss)
		for i := range candidates {
			scores[i] += score(&candidates[i], gloss, pos)
		}
	}

	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return &candidates[best], true
}

func score(c *domain.WordListing, gloss string, pos domain.PartOfSpeech) float64 {
	var s float64
	if len(c.Definitions) > 0 && gloss != "" {
		for _, d := range c.Definitions {
			if d.IsInflection {
				continue
			}
			j := Jaccard(gloss, d.Text, false)
			s += j
			if j > nearMatchThreshold {
				s += nearMatchBonus
			}
			s += normalizedWeight * Jaccard(gloss, d.Text, true)
		}
		s /= float64(len(c.Definitions))
	}

	switch {
	case pos == "":
	case c.PartOfSpeech == pos:
		s *= samePOSFactor
	case domain.SimilarPartsOfSpeech(pos, c.PartOfSpeech):
		s *= similarPOSFactor
	}
	return s
}

func (h Hint) glosses() []string {
	stated := h.Gloss
	if stated == "" && h.Claim != nil {
		stated = h.Claim.StatedGloss
	}
	if stated != "" {
		return strings.Split(stated, ", ")
	}

	if h.Context == nil {
		return nil
	}
	var out []string
	for _, g := range []string{h.Context.Word, h.Context.FirstDefinition()} {
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}

// partOfSpeech is the context listing's part of speech, else a guess from
// the shape of the gloss.
func (h Hint) partOfSpeech(gloss string) domain.PartOfSpeech {
	if h.Context != nil && h.Context.PartOfSpeech != "" {
		return h.Context.PartOfSpeech
	}
	return InferPartOfSpeech(gloss)
}

// InferPartOfSpeech guesses a part of speech from how an English gloss is
// phrased: "to run" is a verb, "quickly" an adverb, "-ness" a suffix.
func InferPartOfSpeech(gloss string) domain.PartOfSpeech {
	switch {
	case strings.HasPrefix(gloss, "to "):
		return domain.PartOfSpeechVerb
	case strings.HasSuffix(gloss, "ly"):
		return domain.PartOfSpeechAdverb
	case strings.HasSuffix(gloss, "ing"):
		return domain.PartOfSpeechParticiple
	case strings.HasSuffix(gloss, "-"):
		return domain.PartOfSpeechPrefix
	case strings.HasPrefix(gloss, "-"):
		return domain.PartOfSpeechSuffix
	}
	return ""
}
