// Package wikitext recognises the few wikitext idioms etymology crawling
// depends on: descendant-list lines, derivation templates and section
// headings.
package wikitext

import (
	"regexp"
	"strings"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

var (
	bulletPrefixRe = regexp.MustCompile(`^\** *`)
	descendantRe   = regexp.MustCompile(`^\{\{(desc|l)\|`)
	glossArgRe     = regexp.MustCompile(`^t\d*\s*=(.+)$`)
	flagArgRe      = regexp.MustCompile(`= ?1$`)
	flagSuffixRe   = regexp.MustCompile(`\d? ?= ?1$`)
	inlineTagRe    = regexp.MustCompile(`<[a-z]+>`)
)

// UnknownWord stands in for a descendant whose form cannot be read.
const UnknownWord = "[?]"

// Line is one entry of a descendants list: its bullet depth and the
// pipe-separated arguments of its first template.
type Line struct {
	Depth int
	Args  []string
}

// DescendantLines keeps the lines of text that open with a {{desc|…}} or
// {{l|…}} template. Unbulleted lines and templates with fewer than two
// arguments are dropped.
func DescendantLines(text string) []Line {
	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		body := bulletPrefixRe.ReplaceAllString(raw, "")
		if !descendantRe.MatchString(body) {
			continue
		}

		depth := len(raw) - len(strings.TrimLeft(raw, "*"))
		args := strings.Split(firstTemplate(body), "|")
		if depth == 0 || len(args) < 2 {
			continue
		}
		lines = append(lines, Line{Depth: depth, Args: args})
	}
	return lines
}

func firstTemplate(body string) string {
	inner := strings.TrimPrefix(body, "{{")
	if i := strings.Index(inner, "{{"); i >= 0 {
		inner = inner[:i]
	}
	if i := strings.Index(inner, "}}"); i >= 0 {
		inner = inner[:i]
	}
	return inner
}

// positional returns the arguments that are not key=value pairs,
// template name included.
func (l Line) positional() []string {
	out := make([]string, 0, len(l.Args))
	for _, a := range l.Args {
		if !strings.Contains(a, "=") {
			out = append(out, a)
		}
	}
	return out
}

// Word is the descendant's written form: the word argument, else the
// alternative display form, else the transliteration, else UnknownWord.
func (l Line) Word() string {
	pos := l.positional()
	if len(pos) > 2 && pos[2] != "" {
		return pos[2]
	}
	if len(pos) > 3 && pos[3] != "" {
		return pos[3]
	}
	for _, a := range l.Args {
		if tr, ok := strings.CutPrefix(a, "tr="); ok {
			return inlineTagRe.ReplaceAllString(tr, "")
		}
	}
	return UnknownWord
}

// LanguageCode is the first positional argument that is not the template
// name.
func (l Line) LanguageCode() string {
	for _, a := range l.positional() {
		if a != "l" && a != "desc" {
			return a
		}
	}
	return ""
}

// Language is LanguageCode mapped to its display name.
func (l Line) Language() string {
	code := l.LanguageCode()
	if code == "" {
		return ""
	}
	return domain.LanguageName(code)
}

// Gloss returns the value of the first t= or tN= argument.
func (l Line) Gloss() string {
	for _, a := range l.Args {
		if m := glossArgRe.FindStringSubmatch(a); m != nil {
			return m[1]
		}
	}
	return ""
}

// Relationship reads the first recognised flag argument such as bor=1.
// Lines without one are inherited.
func (l Line) Relationship() domain.Relationship {
	for _, a := range l.Args {
		if !flagArgRe.MatchString(a) {
			continue
		}
		if r, ok := domain.DescendantTag(flagSuffixRe.ReplaceAllString(a, "")); ok {
			return r
		}
	}
	return domain.DescendantInherited
}

// Parent returns the nearest line before lines[i] that sits one level
// shallower, i.e. the term lines[i] actually descends from.
func Parent(lines []Line, i int) (Line, bool) {
	if i <= 0 || i >= len(lines) || lines[i].Depth <= 1 {
		return Line{}, false
	}
	for j := i - 1; j >= 0; j-- {
		if lines[j].Depth == lines[i].Depth-1 {
			return lines[j], true
		}
	}
	return Line{}, false
}
