package sense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

func listing(pos domain.PartOfSpeech, defs ...string) domain.WordListing {
	l := domain.WordListing{Word: "knight", Language: "English", PartOfSpeech: pos}
	for _, d := range defs {
		l.Definitions = append(l.Definitions, domain.DefinitionSpec{Text: d})
	}
	return l
}

func TestResolve_NoCandidates(t *testing.T) {
	t.Parallel()

	got, ok := Resolve(nil, Hint{Gloss: "warrior"})
	assert.Nil(t, got)
	assert.False(t, ok)
}

func TestResolve_SingleCandidateIgnoresGloss(t *testing.T) {
	t.Parallel()

	only := []domain.WordListing{listing(domain.PartOfSpeechVerb, "To dub someone a knight.")}
	for _, hint := range []Hint{{}, {Gloss: "warrior"}, {Gloss: "completely unrelated words"}} {
		got, ok := Resolve(only, hint)
		require.True(t, ok)
		assert.Same(t, &only[0], got)
	}
}

func TestResolve_GlossOverlap(t *testing.T) {
	t.Parallel()

	candidates := []domain.WordListing{
		listing(domain.PartOfSpeechVerb, "To dub someone a knight."),
		listing(domain.PartOfSpeechNoun, "A warrior serving a lord."),
	}

	got, ok := Resolve(candidates, Hint{Gloss: "warrior"})
	require.True(t, ok)
	assert.Same(t, &candidates[1], got)
}

func TestResolve_StatedGlossTermsAreSummed(t *testing.T) {
	t.Parallel()

	candidates := []domain.WordListing{
		listing(domain.PartOfSpeechNoun, "a knight"),
		listing(domain.PartOfSpeechNoun, "a horse"),
	}
	hint := Hint{Claim: &domain.EtymologyClaim{StatedGloss: "horse, steed"}}

	got, _ := Resolve(candidates, hint)
	assert.Same(t, &candidates[1], got)
}

func TestResolve_ExplicitGlossBeatsClaimGloss(t *testing.T) {
	t.Parallel()

	candidates := []domain.WordListing{
		listing(domain.PartOfSpeechNoun, "a knight"),
		listing(domain.PartOfSpeechNoun, "a horse"),
	}
	hint := Hint{
		Gloss: "knight",
		Claim: &domain.EtymologyClaim{StatedGloss: "horse"},
	}

	got, _ := Resolve(candidates, hint)
	assert.Same(t, &candidates[0], got)
}

func TestResolve_ContextFallback(t *testing.T) {
	t.Parallel()

	candidates := []domain.WordListing{
		listing(domain.PartOfSpeechNoun, "horse"),
		listing(domain.PartOfSpeechNoun, "warrior"),
	}
	context := listing("", "A warrior")

	got, _ := Resolve(candidates, Hint{Context: &context})
	assert.Same(t, &candidates[1], got)
}

func TestResolve_PartOfSpeechMultiplier(t *testing.T) {
	t.Parallel()

	candidates := []domain.WordListing{
		listing(domain.PartOfSpeechNoun, "a run"),
		listing(domain.PartOfSpeechVerb, "a run"),
	}
	context := listing(domain.PartOfSpeechVerb, "to run")

	got, _ := Resolve(candidates, Hint{Context: &context, Gloss: "run"})
	assert.Same(t, &candidates[1], got)
}

func TestResolve_SimilarPartOfSpeech(t *testing.T) {
	t.Parallel()

	candidates := []domain.WordListing{
		listing(domain.PartOfSpeechVerb, "a mark"),
		listing(domain.PartOfSpeechProperNoun, "a mark"),
	}
	context := listing(domain.PartOfSpeechNoun, "a sign")

	got, _ := Resolve(candidates, Hint{Context: &context, Gloss: "mark"})
	assert.Same(t, &candidates[1], got)
}

func TestResolve_TieGoesToFirst(t *testing.T) {
	t.Parallel()

	candidates := []domain.WordListing{
		listing(domain.PartOfSpeechNoun, "a thing"),
		listing(domain.PartOfSpeechNoun, "a thing"),
	}

	got, ok := Resolve(candidates, Hint{Gloss: "nothing alike"})
	require.True(t, ok)
	assert.Same(t, &candidates[0], got)
}

func TestResolve_InflectionsDoNotScore(t *testing.T) {
	t.Parallel()

	candidates := []domain.WordListing{
		{Definitions: []domain.DefinitionSpec{{Text: "plural of horse", IsInflection: true, InflectionOf: "horse"}}},
		listing(domain.PartOfSpeechNoun, "a horse of war"),
	}

	got, _ := Resolve(candidates, Hint{Gloss: "horse"})
	assert.Same(t, &candidates[1], got)
}

func TestInferPartOfSpeech(t *testing.T) {
	t.Parallel()

	tests := map[string]domain.PartOfSpeech{
		"to run":  domain.PartOfSpeechVerb,
		"quickly": domain.PartOfSpeechAdverb,
		"running": domain.PartOfSpeechParticiple,
		"over-":   domain.PartOfSpeechPrefix,
		"-ness":   domain.PartOfSpeechSuffix,
		"horse":   "",
	}
	for gloss, want := range tests {
		assert.Equal(t, want, InferPartOfSpeech(gloss), gloss)
	}
}

func TestContentWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"quick", "brown", "fox"}, ContentWords("The quick,  brown fox!", false))
	assert.Equal(t, []string{"of", "the"}, ContentWords("of the", false))
	assert.Equal(t, []string{"walk", "runn", "box"}, ContentWords("walked running boxes", true))
	assert.Empty(t, ContentWords("", false))
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, Jaccard("horse", "a horse", false), 1e-9)
	assert.InDelta(t, 1.0/3, Jaccard("warrior", "A warrior serving a lord.", false), 1e-9)
	assert.InDelta(t, 0.0, Jaccard("horse", "knight", false), 1e-9)
	assert.InDelta(t, 1.0, Jaccard("walked", "walking", true), 1e-9)
	assert.Zero(t, Jaccard("", "", false))
}
