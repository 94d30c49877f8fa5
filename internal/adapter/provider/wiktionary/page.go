package wiktionary

import (
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/gezakerecsenyi/etymologez/internal/parser/wikitext"
)

// Section is one table-of-contents entry of a page.
type Section struct {
	Index    string
	TocLevel int
	Level    int
	Heading  string
	Number   string
	Anchor   string
}

// Page is a fetched page: its sections plus the rendered HTML and the
// wikitext of the whole page. Section bodies are carved out on demand.
type Page struct {
	Label    string
	Title    string
	PageID   int
	Sections []Section
	HTML     string
	Wikitext string

	siteURL string

	once sync.Once
	doc  *html.Node
}

// NewPage assembles a Page from its parts. Links in markup resolve against
// siteURL/wiki/label.
func NewPage(label, siteURL string, sections []Section, markup, text string) *Page {
	return &Page{
		Label:    label,
		Title:    label,
		Sections: sections,
		HTML:     markup,
		Wikitext: text,
		siteURL:  siteURL,
	}
}

func newPage(label, siteURL string, p *apiParse) *Page {
	sections := make([]Section, 0, len(p.Sections))
	for _, s := range p.Sections {
		level, _ := strconv.Atoi(s.Level)
		sections = append(sections, Section{
			Index:    s.Index,
			TocLevel: s.TocLevel,
			Level:    level,
			Heading:  s.Line,
			Number:   s.Number,
			Anchor:   s.Anchor,
		})
	}

	page := NewPage(label, siteURL, sections, p.Text.Value, p.Wikitext.Value)
	page.Title = p.Title
	page.PageID = p.PageID
	return page
}

// BaseURL is the page's own URL; relative links in its HTML resolve
// against it.
func (p *Page) BaseURL() *url.URL {
	u, err := url.Parse(strings.TrimRight(p.siteURL, "/"))
	if err != nil {
		u, _ = url.Parse(defaultSiteURL)
	}
	u.Path += "/wiki/" + p.Label
	return u
}

// Section looks a section up by its API index.
func (p *Page) Section(index string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Index == index {
			return s, true
		}
	}
	return Section{}, false
}

var (
	headingSel        = cascadia.MustCompile("h1, h2, h3, h4, h5, h6")
	headingWrapperSel = cascadia.MustCompile("div.mw-heading")
)

// SectionHTML returns the rendered body of a section: its heading and every
// following sibling up to the next heading, copied into a fresh
// div.mw-parser-output. Returns nil if the section or its anchor is absent.
func (p *Page) SectionHTML(index string) *html.Node {
	s, ok := p.Section(index)
	if !ok || s.Anchor == "" {
		return nil
	}

	doc := p.document()
	if doc == nil {
		return nil
	}

	target := findByID(doc, s.Anchor)
	if target == nil {
		return nil
	}
	start := headingStart(target)

	container := dom.CreateElement("div")
	dom.SetAttribute(container, "class", "mw-parser-output")
	dom.AppendChild(container, dom.Clone(start, true))
	for n := dom.NextElementSibling(start); n != nil; n = dom.NextElementSibling(n) {
		if headingSel.Match(n) || headingWrapperSel.Match(n) {
			break
		}
		dom.AppendChild(container, dom.Clone(n, true))
	}
	return container
}

// SectionWikitext returns the wikitext of a section, heading line included.
func (p *Page) SectionWikitext(index string) (string, bool) {
	i, err := strconv.Atoi(index)
	if err != nil {
		return "", false
	}
	return wikitext.SectionText(p.Wikitext, i)
}

func (p *Page) document() *html.Node {
	p.once.Do(func() {
		if p.HTML == "" {
			return
		}
		doc, err := html.Parse(strings.NewReader(p.HTML))
		if err == nil {
			p.doc = doc
		}
	})
	return p.doc
}

// headingStart finds the element that opens a section given the element
// carrying its anchor id. Older markup puts the id on a span inside the
// heading; newer markup puts it on the heading and wraps that in
// div.mw-heading.
func headingStart(target *html.Node) *html.Node {
	n := target
	if !headingSel.Match(n) {
		for p := n.Parent; p != nil; p = p.Parent {
			if headingSel.Match(p) {
				n = p
				break
			}
		}
	}
	if n.Parent != nil && headingWrapperSel.Match(n.Parent) {
		return n.Parent
	}
	return n
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && dom.ID(n) == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
