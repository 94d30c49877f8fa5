// Package claim infers "word X derives from word Y" assertions from
// segmented etymology prose.
package claim

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

// maxIterations bounds the number of matches Parse walks through while
// looking for the requested offset.
const maxIterations = 10

const capitalizedWords = `((?: [A-ZÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ-]*){0,3})`

var (
	relationshipRe = regexp.MustCompile(`(` + relationshipAlternatives() + `)(?: the)?(?: word)?` + capitalizedWords + `$`)
	negationRe     = regexp.MustCompile(`(?:^|[^A-Za-z])(?:[Nn]ot(?: [a-z]+)? |[Uu]n(?:[a-z]* )?)$`)
	alternativeRe  = regexp.MustCompile(`(?:(?:^|[^A-Za-z])or|[/,])` + capitalizedWords + `\s*$`)
	connectiveRe   = regexp.MustCompile(`(^|[) ])(or|[/,])\s*$`)
	glossRe        = regexp.MustCompile(`^ *\(["'“‘]([^”"'’]+)[”"'’]\) *`)
	anyGlossRe     = regexp.MustCompile(` *\(["'“‘][^”"'’]+[”"'’]\) *`)
	quotedStartRe  = regexp.MustCompile(`^\(["'“‘]`)
	affixRe        = regexp.MustCompile(`^\*?-`)
)

// relationshipAlternatives builds "[bB]orrowed from|[fF]rom|..." in
// domain.DerivationRelationships order.
func relationshipAlternatives() string {
	alts := make([]string, 0, len(domain.DerivationRelationships))
	for _, r := range domain.DerivationRelationships {
		s := r.String()
		first, size := utf8.DecodeRuneInString(s)
		lower, upper := strings.ToLower(string(first)), strings.ToUpper(string(first))
		alts = append(alts, "["+lower+upper+"]"+regexp.QuoteMeta(s[size:]))
	}
	return strings.Join(alts, "|")
}

type phase int

const (
	phasePrimary phase = iota
	phaseAlternative
)

// Parse returns the offset-th claim stated by segments: 0 is the primary
// derivation, N the Nth alternative listed after it ("from A or B").
// The second result is false when no claim can be read at that offset.
func Parse(segments []domain.Segment, offset int) (*domain.EtymologyClaim, bool) {
	units := functionalUnits(segments)
	if len(units) == 0 || offset < 0 {
		return nil, false
	}

	var (
		space        = units
		relationship domain.Relationship
		language     string
		current      int
		state        = phasePrimary
	)

	for iter := 0; iter < maxIterations && current <= offset; iter++ {
		var idx int

		if state == phasePrimary {
			if len(units) == 1 {
				// A lone link reads as a compound of that one term.
				if !units[0].IsLink() || offset != 0 {
					return nil, false
				}
				idx, relationship = 0, domain.RelationshipCompound
			} else {
				var ok bool
				idx, relationship, language, ok = findPrimary(space)
				if !ok {
					return nil, false
				}
				state = phaseAlternative
			}
		} else {
			if language == "" || relationship == "" {
				return nil, false
			}
			altLanguage, ok := findAlternative(space)
			if !ok {
				state = phasePrimary
				continue
			}
			idx = 1
			if altLanguage != "" {
				language = altLanguage
			}
		}

		link, err := url.Parse(space[idx].Link)
		if err != nil {
			return nil, false
		}
		gloss := statedGloss(space, idx)
		space = space[idx+1:]
		if l := linkLanguage(link); l != "" {
			language = l
		}

		if current < offset {
			current++
			continue
		}

		word, ok := linkWord(link)
		if !ok {
			return nil, false
		}
		return &domain.EtymologyClaim{
			Word:         word,
			Language:     language,
			Relationship: relationship,
			StatedGloss:  gloss,
		}, true
	}

	return nil, false
}

// findPrimary finds the first link preceded by a string that ends in a
// relationship phrase, optionally followed by up to three capitalised words
// naming the language.
func findPrimary(space []domain.Segment) (int, domain.Relationship, string, bool) {
	for i := 1; i < len(space); i++ {
		if !space[i].IsLink() || space[i-1].IsLink() {
			continue
		}
		if rel, lang, ok := matchRelationship(strings.TrimSpace(space[i-1].Text)); ok {
			return i, rel, lang, true
		}
	}
	return 0, "", "", false
}

// matchRelationship is relationshipRe with a negative lookbehind for
// "not", "not <word>" and words starting with "un" emulated by hand.
func matchRelationship(text string) (domain.Relationship, string, bool) {
	for start := 0; start <= len(text); {
		loc := relationshipRe.FindStringSubmatchIndex(text[start:])
		if loc == nil {
			return "", "", false
		}
		at := start + loc[0]
		if !negationRe.MatchString(text[:at]) {
			rel := strings.ToLower(text[start+loc[2] : start+loc[3]])
			lang := strings.TrimSpace(text[start+loc[4] : start+loc[5]])
			return domain.Relationship(rel), lang, true
		}
		_, size := utf8.DecodeRuneInString(text[at:])
		start = at + max(size, 1)
	}
	return "", "", false
}

// findAlternative matches only at the head of the search space: a string
// ending in "or", "," or "/" immediately followed by a link.
func findAlternative(space []domain.Segment) (string, bool) {
	if len(space) < 2 || space[0].IsLink() || !space[1].IsLink() {
		return "", false
	}
	m := alternativeRe.FindStringSubmatch(strings.TrimSpace(space[0].Text))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// statedGloss takes the gloss right after the link, else scans forward past
// strings that end in a connective.
func statedGloss(space []domain.Segment, idx int) string {
	if idx+1 < len(space) && space[idx+1].ContainedGloss != "" {
		return space[idx+1].ContainedGloss
	}
	for j := idx + 2; j < len(space); j++ {
		s := space[j]
		if s.IsLink() {
			continue
		}
		if !connectiveRe.MatchString(s.Text) || s.ContainedGloss != "" {
			return s.ContainedGloss
		}
	}
	return ""
}

// linkLanguage reads the language from the fragment (#Old_French) or from
// a Reconstruction:Lang/word path.
func linkLanguage(u *url.URL) string {
	if u.Fragment != "" {
		return strings.ReplaceAll(u.Fragment, "_", " ")
	}
	if _, rest, ok := strings.Cut(u.Path, "Reconstruction:"); ok {
		lang, _, _ := strings.Cut(rest, "/")
		return strings.ReplaceAll(lang, "_", " ")
	}
	return ""
}

// linkWord accepts /wiki/<title> and index.php?title=<title> links only.
func linkWord(u *url.URL) (string, bool) {
	if word, ok := strings.CutPrefix(u.Path, "/wiki/"); ok && word != "" {
		return word, true
	}
	if strings.HasSuffix(u.Path, "/index.php") {
		if title := u.Query().Get("title"); title != "" {
			return title, true
		}
	}
	return "", false
}

// functionalUnits normalises raw segments: trims and drops empty runs,
// demotes cross-reference links to text, collapses compounds to one
// representative link and lifts quoted parenthetical glosses out of text.
func functionalUnits(segments []domain.Segment) []domain.Segment {
	cleaned := make([]domain.Segment, 0, len(segments))
	for _, s := range segments {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text == "" {
			continue
		}
		if s.IsLink() && isCrossReference(s.Link) {
			s = domain.Segment{Kind: domain.SegmentString, Text: s.Text}
		}
		cleaned = append(cleaned, s)
	}
	cleaned = mergeStrings(cleaned)

	keep := collapseCompounds(cleaned)

	units := make([]domain.Segment, 0, len(cleaned))
	for i, s := range cleaned {
		if !keep[i] {
			continue
		}
		if !s.IsLink() {
			if m := glossRe.FindStringSubmatch(s.Text); m != nil {
				s.ContainedGloss = m[1]
			}
			s.Text = anyGlossRe.ReplaceAllString(s.Text, " ")
		}
		if s.Text == "" {
			continue
		}
		units = append(units, s)
	}
	return mergeStrings(units)
}

// isCrossReference reports links that point somewhere other than a word
// entry: Wikipedia, or any namespace other than Reconstruction.
func isCrossReference(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return true
	}
	if strings.Contains(u.Host, "wikipedia.org") {
		return true
	}
	parts := strings.Split(u.Path, ":")
	return len(parts) > 1 && !strings.HasSuffix(parts[0], "Reconstruction")
}

// mergeStrings joins adjacent string segments with a space. The first
// contained gloss survives.
func mergeStrings(in []domain.Segment) []domain.Segment {
	out := make([]domain.Segment, 0, len(in))
	for _, s := range in {
		if n := len(out); n > 0 && !s.IsLink() && !out[n-1].IsLink() {
			out[n-1].Text += " " + s.Text
			if out[n-1].ContainedGloss == "" {
				out[n-1].ContainedGloss = s.ContainedGloss
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// collapseCompounds marks which units survive compound collapsing. A run
// starts at a link followed by a string containing "+" and continues while
// links are joined by "+" strings. Of its links one is kept: the last that
// is not an affix, else the first followed by a quoted gloss, else the last.
func collapseCompounds(units []domain.Segment) []bool {
	keep := make([]bool, len(units))
	for i := range keep {
		keep[i] = true
	}

	for i, u := range units {
		if u.IsLink() || i == 0 || !keep[i] {
			continue
		}
		if !strings.Contains(u.Text, "+") || !units[i-1].IsLink() {
			continue
		}

		run := []int{i - 1, i}
		lastLink := i - 1
		for j := i + 1; j < len(units); j++ {
			if units[j].IsLink() {
				if !units[j-1].IsLink() && !strings.Contains(units[j-1].Text, "+") {
					break
				}
				lastLink = j
			}
			run = append(run, j)
		}
		// Prose after the last joined link belongs to the sentence, not the compound.
		for len(run) > 0 && run[len(run)-1] > lastLink {
			run = run[:len(run)-1]
		}

		chosen := chooseCompoundLink(units, run)
		for _, k := range run {
			if k != chosen {
				keep[k] = false
			}
		}
	}
	return keep
}

func chooseCompoundLink(units []domain.Segment, run []int) int {
	var links []int
	for _, k := range run {
		if units[k].IsLink() {
			links = append(links, k)
		}
	}

	chosen := -1
	for _, k := range links {
		t := strings.TrimSpace(units[k].Text)
		if !strings.HasSuffix(t, "-") && !affixRe.MatchString(t) {
			chosen = k
		}
	}
	if chosen >= 0 {
		return chosen
	}

	for _, k := range links {
		if k+1 < len(units) && !units[k+1].IsLink() && quotedStartRe.MatchString(strings.TrimSpace(units[k+1].Text)) {
			return k
		}
	}
	return links[len(links)-1]
}
