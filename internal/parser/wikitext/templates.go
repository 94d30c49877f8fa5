package wikitext

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

var etymologyTemplateRe = regexp.MustCompile(
	`\{\{((?:m(?:ention)?|uder|der(?:ived)?\+?|inh(?:erited)?\+?|bor(?:rowed)?\+?)\|[^}]+)\}\}`,
)

// Token is either interstitial prose or the body of a derivation template
// (the text between the braces).
type Token struct {
	Text     string
	Template bool
}

// Args splits a template token on pipes.
func (t Token) Args() []string {
	if !t.Template {
		return nil
	}
	return strings.Split(t.Text, "|")
}

// Name is the template name without a trailing "+".
func (t Token) Name() string {
	args := t.Args()
	if len(args) == 0 {
		return ""
	}
	return strings.TrimSuffix(args[0], "+")
}

// EtymologyTemplates splits text on derivation templates ({{der}}, {{inh}},
// {{bor}}, {{uder}}, {{m}} and their long forms). Tokens alternate: every
// template is preceded by a text token, possibly empty, and the last token
// is always text.
func EtymologyTemplates(text string) []Token {
	var tokens []Token
	last := 0
	for _, m := range etymologyTemplateRe.FindAllStringSubmatchIndex(text, -1) {
		tokens = append(tokens,
			Token{Text: text[last:m[0]]},
			Token{Text: text[m[2]:m[3]], Template: true},
		)
		last = m[1]
	}
	return append(tokens, Token{Text: text[last:]})
}

// templateRelationships is the relationship phrase each derivation template
// stands for. Mentions state no relationship of their own.
var templateRelationships = map[string]domain.Relationship{
	"der":       domain.RelationshipFrom,
	"derived":   domain.RelationshipFrom,
	"uder":      domain.RelationshipFrom,
	"inh":       domain.RelationshipInherited,
	"inherited": domain.RelationshipInherited,
	"bor":       domain.RelationshipBorrowed,
	"borrowed":  domain.RelationshipBorrowed,
}

// Mention is the source term a derivation template points at.
type Mention struct {
	Relationship domain.Relationship
	LanguageCode string
	Word         string
	Gloss        string
}

// Mention reads the source term out of a template token.
// The second result is false for text tokens and templates without a word.
func (t Token) Mention() (Mention, bool) {
	if !t.Template {
		return Mention{}, false
	}

	args := t.Args()
	var pos []string
	var gloss string
	for _, a := range args {
		key, value, isKeyed := strings.Cut(a, "=")
		if !isKeyed {
			pos = append(pos, a)
			continue
		}
		if gloss == "" && (key == "t" || key == "gloss") {
			gloss = value
		}
	}

	// {{m|lang|word|alt|gloss}} versus {{der|target|lang|word|alt|gloss}}.
	first := 2
	rel := templateRelationships[t.Name()]
	if rel == "" {
		first = 1
	}

	m := Mention{Relationship: rel, LanguageCode: at(pos, first)}
	m.Word = cleanTemplateWord(at(pos, first+1))
	if m.Word == "" {
		m.Word = cleanTemplateWord(at(pos, first+2))
	}
	m.Gloss = at(pos, first+3)
	if m.Gloss == "" {
		m.Gloss = gloss
	}

	if m.Word == "" || m.LanguageCode == "" {
		return Mention{}, false
	}
	return m, true
}

func at(s []string, i int) string {
	if i < len(s) {
		return strings.TrimSpace(s[i])
	}
	return ""
}

func cleanTemplateWord(w string) string {
	w = strings.TrimPrefix(w, "[[")
	w = strings.TrimSuffix(w, "]]")
	return strings.TrimSpace(w)
}

// ToSegments renders template tokens as the prose a reader would see, so
// wikitext etymologies feed the same claim parser as rendered HTML: the
// relationship phrase, then a link to siteURL/wiki/<word>#<Language>, then
// a quoted gloss. Templates without a readable word stay plain text.
func ToSegments(tokens []Token, siteURL string) []domain.Segment {
	site, err := url.Parse(siteURL)
	if err != nil {
		site = &url.URL{Scheme: "https", Host: "en.wiktionary.org"}
	}

	var out []domain.Segment
	text := func(s string) {
		if s == "" {
			return
		}
		if n := len(out); n > 0 && !out[n-1].IsLink() {
			out[n-1].Text += s
			return
		}
		out = append(out, domain.Segment{Kind: domain.SegmentString, Text: s})
	}

	for _, tok := range tokens {
		m, ok := tok.Mention()
		if !ok {
			if !tok.Template {
				text(tok.Text)
			}
			continue
		}

		if m.Relationship != "" {
			text(" " + m.Relationship.String() + " ")
		}

		language := domain.LanguageName(m.LanguageCode)
		target := site.ResolveReference(&url.URL{
			Path:     "/wiki/" + m.Word,
			Fragment: strings.ReplaceAll(language, " ", "_"),
		})
		out = append(out, domain.Segment{
			Kind: domain.SegmentLink,
			Text: m.Word,
			Link: target.String(),
		})

		if m.Gloss != "" {
			text(` ("` + m.Gloss + `")`)
		}
	}
	return out
}
