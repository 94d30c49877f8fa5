// Package wikitest serves hand-built Wiktionary pages to code that reads
// pages through the wiktionary.Source methods.
package wikitest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/gezakerecsenyi/etymologez/internal/adapter/provider/wiktionary"
)

// SiteURL is the base URL fixture pages resolve their links against.
const SiteURL = "https://en.wiktionary.org"

// Section is one heading of a fixture page. Level 2 headings are languages.
type Section struct {
	Level    int
	Heading  string
	HTML     string
	Wikitext string
}

// Language starts a language block.
func Language(name string) Section {
	return Section{Level: 2, Heading: name}
}

// Etymology is an etymology heading with its prose as HTML and wikitext.
func Etymology(heading, markup, text string) Section {
	return Section{Level: 3, Heading: heading, HTML: markup, Wikitext: text}
}

// POS is a part-of-speech heading whose definitions are rendered as an
// ordered list. Definitions may contain markup.
func POS(heading string, level int, definitions ...string) Section {
	var b strings.Builder
	b.WriteString("<ol>")
	for _, d := range definitions {
		b.WriteString("<li>" + d + "</li>")
	}
	b.WriteString("</ol>")

	var w strings.Builder
	for _, d := range definitions {
		w.WriteString("# " + d + "\n")
	}
	return Section{Level: level, Heading: heading, HTML: b.String(), Wikitext: strings.TrimSuffix(w.String(), "\n")}
}

// Descendants is a descendants heading with wikitext lines.
func Descendants(level int, markup, text string) Section {
	return Section{Level: level, Heading: "Descendants", HTML: markup, Wikitext: text}
}

// Wiki is an in-memory wiki. It is safe for concurrent use.
type Wiki struct {
	mu         sync.Mutex
	pages      map[string]*wiktionary.Page
	categories map[string][]wiktionary.CategoryMember
	requests   map[string]int
	failing    map[string]error
	err        error
}

// New returns an empty Wiki.
func New() *Wiki {
	return &Wiki{
		pages:      make(map[string]*wiktionary.Page),
		categories: make(map[string][]wiktionary.CategoryMember),
		requests:   make(map[string]int),
		failing:    make(map[string]error),
	}
}

// Add registers a page under label, which is the title the API would use
// ("knight", "Reconstruction:Proto-Germanic/wulfaz").
func (w *Wiki) Add(label string, sections ...Section) {
	var (
		toc    []wiktionary.Section
		markup strings.Builder
		text   strings.Builder
		seen   = make(map[string]int)
	)

	markup.WriteString(`<div class="mw-parser-output">`)
	for i, s := range sections {
		anchor := strings.ReplaceAll(s.Heading, " ", "_")
		seen[anchor]++
		if n := seen[anchor]; n > 1 {
			anchor += "_" + strconv.Itoa(n)
		}

		toc = append(toc, wiktionary.Section{
			Index:    strconv.Itoa(i + 1),
			TocLevel: s.Level - 1,
			Level:    s.Level,
			Heading:  s.Heading,
			Anchor:   anchor,
		})

		fmt.Fprintf(&markup, `<div class="mw-heading mw-heading%d"><h%d id="%s">%s</h%d></div>`,
			s.Level, s.Level, html.EscapeString(anchor), html.EscapeString(s.Heading), s.Level)
		markup.WriteString(s.HTML)

		eq := strings.Repeat("=", s.Level)
		text.WriteString(eq + s.Heading + eq + "\n")
		if s.Wikitext != "" {
			text.WriteString(s.Wikitext + "\n")
		}
	}
	markup.WriteString(`</div>`)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pages[label] = wiktionary.NewPage(label, SiteURL, toc, markup.String(), text.String())
}

// AddCategory registers a category by title and page id.
func (w *Wiki) AddCategory(title string, pageID int, members ...wiktionary.CategoryMember) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.categories[title] = members
	w.categories[strconv.Itoa(pageID)] = members
}

// Fail makes every later lookup return err.
func (w *Wiki) Fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = err
}

// FailPage makes lookups of the page under label return err.
func (w *Wiki) FailPage(label string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failing[label] = err
}

// Requests is how many times the page under label was looked up.
func (w *Wiki) Requests(label string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.requests[label]
}

// Page resolves word the way the API client does: the plain label first,
// then the aggressive one.
func (w *Wiki) Page(_ context.Context, word, language string) (*wiktionary.Page, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return nil, w.err
	}
	for _, aggressive := range []bool{false, true} {
		label := wiktionary.Label(word, language, aggressive)
		w.requests[label]++
		if err, ok := w.failing[label]; ok {
			return nil, err
		}
		if p, ok := w.pages[label]; ok {
			return p, nil
		}
	}
	return nil, nil
}

func (w *Wiki) SiteURL() string { return SiteURL }

// Scope returns ctx unchanged; fixture pages need no per-request loader.
func (w *Wiki) Scope(ctx context.Context) context.Context { return ctx }

func (w *Wiki) Sections(ctx context.Context, word, language string) ([]wiktionary.Section, error) {
	p, err := w.Page(ctx, word, language)
	if err != nil || p == nil {
		return nil, err
	}
	return p.Sections, nil
}

func (w *Wiki) SectionHTML(ctx context.Context, word, language, index string) (*html.Node, *url.URL, error) {
	p, err := w.Page(ctx, word, language)
	if err != nil || p == nil {
		return nil, nil, err
	}
	return p.SectionHTML(index), p.BaseURL(), nil
}

func (w *Wiki) SectionWikitext(ctx context.Context, word, language, index string) (string, error) {
	p, err := w.Page(ctx, word, language)
	if err != nil || p == nil {
		return "", err
	}
	text, _ := p.SectionWikitext(index)
	return text, nil
}

func (w *Wiki) CategoryMembers(_ context.Context, title string, pageID int) ([]wiktionary.CategoryMember, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return nil, w.err
	}
	if pageID != 0 {
		return w.categories[strconv.Itoa(pageID)], nil
	}
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}
	return w.categories[strings.ReplaceAll(title, "_", " ")], nil
}
