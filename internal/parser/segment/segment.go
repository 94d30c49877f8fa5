// Package segment flattens rendered etymology prose into ordered runs of
// plain text and hyperlinks.
package segment

import (
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

var parserOutputSel = cascadia.MustCompile(".mw-parser-output")

// Prose returns the etymology prose blocks of a rendered section: the first
// run of consecutive <p>/<ul> children of the first .mw-parser-output
// element. container itself counts when it carries that class.
func Prose(container *html.Node) []*html.Node {
	if container == nil {
		return nil
	}

	root := container
	if !parserOutputSel.Match(root) {
		root = parserOutputSel.MatchFirst(container)
		if root == nil {
			return nil
		}
	}

	var blocks []*html.Node
	for _, child := range dom.Children(root) {
		switch dom.TagName(child) {
		case "p", "ul":
			blocks = append(blocks, child)
		default:
			if len(blocks) > 0 {
				return blocks
			}
		}
	}
	return blocks
}

// Segment walks roots depth-first in document order. Text outside any
// anchor accumulates into string segments; the whole text of an outermost
// anchor becomes one link segment whose target is resolved against base.
// Anchors nested in anchors are flattened into the outer link.
func Segment(base *url.URL, roots ...*html.Node) []domain.Segment {
	w := &walker{base: base}
	for _, root := range roots {
		w.walk(root)
	}
	w.flush()
	return w.out
}

// SegmentProse is Segment applied to the Prose of container.
func SegmentProse(container *html.Node, base *url.URL) []domain.Segment {
	return Segment(base, Prose(container)...)
}

type walker struct {
	base *url.URL
	out  []domain.Segment
	text strings.Builder
}

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "a" && dom.HasAttribute(n, "href") {
			w.flush()
			w.out = append(w.out, domain.Segment{
				Kind: domain.SegmentLink,
				Text: dom.TextContent(n),
				Link: w.resolve(dom.GetAttribute(n, "href")),
			})
			return
		}
	case html.CommentNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *walker) flush() {
	if w.text.Len() == 0 {
		return
	}
	w.out = append(w.out, domain.Segment{Kind: domain.SegmentString, Text: w.text.String()})
	w.text.Reset()
}

func (w *walker) resolve(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if w.base == nil {
		return ref.String()
	}
	return w.base.ResolveReference(ref).String()
}
