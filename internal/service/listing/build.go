package listing

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

var descendantHeadings = []string{"Descendants", "Derived terms", "Extensions"}

var (
	olSel         = cascadia.MustCompile("ol")
	anchorSel     = cascadia.MustCompile("a")
	formOfSel     = cascadia.MustCompile(".form-of-definition")
	formOfLinkSel = cascadia.MustCompile(".form-of-definition-link a")
)

// Build reads every listing of word from its page. A language restricts the
// result to that language's block; underscores in it are read as spaces.
// Listings are split at each "Etymology" heading that follows definitions.
// Listings without an etymology section come first; the sort is stable.
// A missing page yields no listings, not an error.
func (s *Service) Build(ctx context.Context, word, language string) (*domain.WordData, error) {
	language = domain.NormalizeLanguage(language)
	display := word
	if decoded, err := url.PathUnescape(word); err == nil {
		display = decoded
	}

	sections, err := s.pages.Sections(ctx, word, language)
	if err != nil {
		return nil, fmt.Errorf("sections of %q: %w", word, err)
	}

	var (
		all          []domain.WordListing
		current      *domain.WordListing
		languageHere string
	)
	legal := func() bool { return language == "" || languageHere == language }
	fresh := func() *domain.WordListing {
		return &domain.WordListing{Word: word, Language: languageHere}
	}

	for _, sec := range sections {
		switch {
		case sec.TocLevel == 1:
			if current != nil {
				all = append(all, *current)
			}
			languageHere = sec.Heading
			current = fresh()

		case strings.HasPrefix(sec.Heading, "Etymology"):
			if current != nil && len(current.Definitions) > 0 {
				all = append(all, *current)
				current = fresh()
			}
			if current != nil && legal() {
				current.EtymologySection = sec.Index
			}

		case isPartOfSpeech(sec.Heading) && legal():
			if current == nil {
				continue
			}
			current.PartOfSpeech = domain.PartOfSpeech(sec.Heading)

			node, _, err := s.pages.SectionHTML(ctx, word, language, sec.Index)
			if err != nil {
				return nil, fmt.Errorf("definitions of %q: %w", word, err)
			}
			current.Definitions = append(current.Definitions, Definitions(node)...)

		case current != nil && slices.Contains(descendantHeadings, sec.Heading) && legal():
			current.DescendantSections = append(current.DescendantSections, sec.Index)
		}
	}
	if current != nil && legal() {
		all = append(all, *current)
	}

	listings := make([]domain.WordListing, 0, len(all))
	for _, l := range all {
		if language != "" && l.Language != language {
			continue
		}
		l.Word = display
		listings = append(listings, l)
	}
	slices.SortStableFunc(listings, func(a, b domain.WordListing) int {
		return hasEtymology(a) - hasEtymology(b)
	})

	s.log.DebugContext(ctx, "built listings",
		slog.String("word", display),
		slog.String("language", language),
		slog.Int("count", len(listings)),
	)

	return &domain.WordData{Word: display, Listings: listings}, nil
}

func isPartOfSpeech(heading string) bool {
	_, ok := domain.ParsePartOfSpeech(heading)
	return ok
}

func hasEtymology(l domain.WordListing) int {
	if l.EtymologySection != "" {
		return 1
	}
	return 0
}

// Definitions reads the first ordered list of a rendered part-of-speech
// section. Each item contributes the first line of its text with nested
// lists removed. Items marked up as form-of definitions are inflections of
// the word their form-of link (or, failing that, their last link) names.
func Definitions(section *html.Node) []domain.DefinitionSpec {
	if section == nil {
		return nil
	}
	ol := cascadia.Query(section, olSel)
	if ol == nil {
		return nil
	}

	var defs []domain.DefinitionSpec
	for _, li := range dom.Children(ol) {
		if dom.TagName(li) != "li" {
			continue
		}
		for _, nested := range cascadia.QueryAll(li, olSel) {
			if nested.Parent != nil {
				nested.Parent.RemoveChild(nested)
			}
		}

		var (
			text strings.Builder
			def  domain.DefinitionSpec
		)
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && formOfSel.Match(c) {
				def.InflectionOf = inflectionTarget(c)
				def.IsInflection = def.InflectionOf != ""
			}
			text.WriteString(dom.TextContent(c))
		}

		def.Text, _, _ = strings.Cut(text.String(), "\n")
		defs = append(defs, def)
	}
	return defs
}

func inflectionTarget(n *html.Node) string {
	if a := cascadia.Query(n, formOfLinkSel); a != nil {
		if t := dom.TextContent(a); t != "" {
			return t
		}
	}
	anchors := cascadia.QueryAll(n, anchorSel)
	if len(anchors) == 0 {
		return ""
	}
	return dom.TextContent(anchors[len(anchors)-1])
}
