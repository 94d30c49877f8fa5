package unroll

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/gezakerecsenyi/etymologez/internal/config"
	"github.com/gezakerecsenyi/etymologez/internal/domain"
	"github.com/gezakerecsenyi/etymologez/internal/parser/wikitext"
	"github.com/gezakerecsenyi/etymologez/internal/service/sense"
)

const (
	rootseeTemplate     = "{{rootsee"
	wikiPathPrefix      = "/wiki/"
	reconstructionSpace = "Reconstruction:"
)

var (
	derivedTermsLinkSel = cascadia.MustCompile(".derivedterms a")
	categoryLanguageRe  = regexp.MustCompile(`((?:[A-ZÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ-]* ){0,3})terms`)
)

// descendants walks the derived-terms categories of l's descendant
// sections first, then their descendant lists.
func (t *traversal) descendants(ctx context.Context, l *domain.WordListing, recurse recurseFunc) error {
	if err := t.categories(ctx, l); err != nil {
		return err
	}
	return t.descendantLines(ctx, l, recurse)
}

// ---------------------------------------------------------------------------
// Descendant lists
// ---------------------------------------------------------------------------

// descendantLines records an edge for every line of l's descendant lists
// and continues into each resolved descendant. Each listing's lists are
// read once per traversal.
func (t *traversal) descendantLines(ctx context.Context, l *domain.WordListing, recurse recurseFunc) error {
	if len(l.DescendantSections) == 0 || !t.descend(l) {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(t.svc.cfg.ChunkSize)
	for _, head := range l.DescendantSections {
		text, err := t.svc.pages.SectionWikitext(ctx, l.Word, l.Language, head)
		if t.skipFetch(ctx, err, l.Word) {
			continue
		}
		if err != nil {
			_ = g.Wait()
			return fmt.Errorf("descendants of %q: %w", l.Word, err)
		}

		lines := wikitext.DescendantLines(text)
		for i := range lines {
			g.Go(func() error {
				return t.descendantLine(ctx, l, lines, i, recurse)
			})
		}
	}
	return g.Wait()
}

func (t *traversal) descendantLine(
	ctx context.Context,
	l *domain.WordListing,
	lines []wikitext.Line,
	i int,
	recurse recurseFunc,
) error {
	line := lines[i]
	word := line.Word()
	if word == wikitext.UnknownWord {
		return nil
	}
	language := line.Language()

	rec := domain.DerivationRecord{
		ParentWord:       word,
		ParentLanguage:   language,
		OriginWord:       l.Word,
		OriginLanguage:   l.Language,
		OriginDefinition: l.Definitions,
		Relationship:     line.Relationship(),
		CreatedBy:        domain.SourceDescendantsSection,
	}
	if parent, ok := wikitext.Parent(lines, i); ok {
		rec.OriginWord = parent.Word()
		rec.OriginLanguage = parent.Language()
		rec.OriginDefinition = nil
	}

	data, err := t.svc.listings.Build(ctx, word, language)
	if t.skipFetch(ctx, err, word) {
		t.add(rec)
		return nil
	}
	if err != nil {
		return fmt.Errorf("build descendant %q: %w", word, err)
	}
	found, confident := sense.Resolve(data.Listings, sense.Hint{Context: l, Gloss: line.Gloss()})
	if found != nil {
		rec.ParentWord = found.Word
		rec.ParentDefinition = found.Definitions
		rec.IsPriorityChoice = confident
	}
	t.add(rec)

	if found == nil {
		return nil
	}

	next := *found
	if t.deep {
		var backup *domain.WordListing
		if t.svc.cfg.BackupMode == config.BackupModeAlways {
			backup = l
		}
		return recurse(&next, backup, true)
	}
	return t.descendantLines(ctx, &next, recurse)
}

// ---------------------------------------------------------------------------
// Derived-terms categories
// ---------------------------------------------------------------------------

type categoryLeaf struct {
	Word     string
	Language string
}

// categories handles root entries, whose descendants are listed in a
// category linked from a {{rootsee}} box instead of inline. Every leaf of
// the category tree that resolves to a listing is linked to l as a backup
// edge and unrolled with l as its fallback ancestor.
func (t *traversal) categories(ctx context.Context, l *domain.WordListing) error {
	for _, head := range l.DescendantSections {
		text, err := t.svc.pages.SectionWikitext(ctx, l.Word, l.Language, head)
		if t.skipFetch(ctx, err, l.Word) {
			continue
		}
		if err != nil {
			return fmt.Errorf("descendants of %q: %w", l.Word, err)
		}
		if !strings.Contains(text, rootseeTemplate) {
			continue
		}

		node, _, err := t.svc.pages.SectionHTML(ctx, l.Word, l.Language, head)
		if t.skipFetch(ctx, err, l.Word) {
			continue
		}
		if err != nil {
			return fmt.Errorf("descendants of %q: %w", l.Word, err)
		}
		title := derivedTermsCategory(node)
		if title == "" {
			continue
		}

		leaves, err := t.flatten(ctx, title, 0, categoryName(title), make(map[string]struct{}))
		if t.skipFetch(ctx, err, l.Word) {
			continue
		}
		if err != nil {
			return fmt.Errorf("category %q: %w", title, err)
		}
		t.log.DebugContext(ctx, "category leaves",
			slog.String("category", title),
			slog.Int("count", len(leaves)),
		)

		for chunk := range slices.Chunk(leaves, t.svc.cfg.ChunkSize) {
			if err := ctx.Err(); err != nil {
				return err
			}
			var g errgroup.Group
			for _, leaf := range chunk {
				g.Go(func() error {
					t.categoryLeaf(ctx, l, leaf)
					return nil
				})
			}
			_ = g.Wait()
		}
	}
	return nil
}

// categoryLeaf never fails the crawl; a leaf that cannot be read is logged
// and skipped.
func (t *traversal) categoryLeaf(ctx context.Context, l *domain.WordListing, leaf categoryLeaf) {
	data, err := t.svc.listings.Build(ctx, leaf.Word, leaf.Language)
	if err != nil {
		t.log.WarnContext(ctx, "category leaf failed",
			slog.String("word", leaf.Word),
			slog.String("error", err.Error()),
		)
		return
	}
	found, _ := sense.Resolve(data.Listings, sense.Hint{Context: l})
	if found == nil {
		return
	}

	t.add(domain.DerivationRecord{
		ParentWord:       found.Word,
		ParentLanguage:   found.Language,
		ParentDefinition: found.Definitions,
		OriginWord:       l.Word,
		OriginLanguage:   l.Language,
		OriginDefinition: l.Definitions,
		Relationship:     domain.DescendantInherited,
		IsBackupChoice:   true,
		CreatedBy:        domain.SourceCategoriesBackup,
	})

	next := *found
	if err := t.unroll(ctx, &next, l, t.deep); err != nil {
		t.log.WarnContext(ctx, "category leaf unroll failed",
			slog.String("word", leaf.Word),
			slog.String("error", err.Error()),
		)
	}
}

// flatten lists the pages under a category and, recursively, under its
// subcategories. A leaf's language is read from the name of the category
// that lists it.
func (t *traversal) flatten(
	ctx context.Context,
	title string,
	pageID int,
	name string,
	visited map[string]struct{},
) ([]categoryLeaf, error) {
	members, err := t.svc.pages.CategoryMembers(ctx, title, pageID)
	if err != nil {
		return nil, err
	}

	language := categoryLanguage(name)
	var leaves []categoryLeaf
	for _, m := range members {
		if !m.IsCategory() {
			leaves = append(leaves, leafOf(m.Title, language))
			continue
		}

		key := strconv.Itoa(m.PageID)
		if _, ok := visited[key]; ok {
			continue
		}
		visited[key] = struct{}{}

		sub, err := t.flatten(ctx, "", m.PageID, m.Title, visited)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, sub...)
	}
	return leaves, nil
}

// derivedTermsCategory reads the category title linked from the first
// .derivedterms box of a section.
func derivedTermsCategory(section *html.Node) string {
	if section == nil {
		return ""
	}
	a := cascadia.Query(section, derivedTermsLinkSel)
	if a == nil {
		return ""
	}
	_, title, ok := strings.Cut(dom.GetAttribute(a, "href"), wikiPathPrefix)
	if !ok {
		return ""
	}
	if i := strings.IndexAny(title, "?#"); i >= 0 {
		title = title[:i]
	}
	return title
}

func categoryName(title string) string {
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}
	return strings.ReplaceAll(title, "_", " ")
}

// categoryLanguage reads "Old English" out of names such as
// "Category:Old English terms derived from ...".
func categoryLanguage(name string) string {
	m := categoryLanguageRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// leafOf turns a member page title into a word. Reconstruction pages carry
// their own language.
func leafOf(title, language string) categoryLeaf {
	rest, ok := strings.CutPrefix(title, reconstructionSpace)
	if !ok {
		return categoryLeaf{Word: title, Language: language}
	}
	lang, word, ok := strings.Cut(rest, "/")
	if !ok {
		return categoryLeaf{Word: title, Language: language}
	}
	return categoryLeaf{Word: "*" + word, Language: domain.NormalizeLanguage(lang)}
}
