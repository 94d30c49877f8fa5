package listing

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
	"github.com/gezakerecsenyi/etymologez/internal/parser/claim"
	"github.com/gezakerecsenyi/etymologez/internal/service/sense"
)

// Populate resolves the offset-th etymology claim of l. The returned claim
// describes l itself; its From is the parsed source, if any.
//
// A listing with no etymology section but an inflection definition becomes
// an "inflection of" claim whose From is the populated claim of the
// inflected word's best listing. Otherwise the section's wikitext templates
// are tried before its rendered prose. Returns nil only for a nil listing.
func (s *Service) Populate(ctx context.Context, l *domain.WordListing, offset int) (*domain.EtymologyClaim, error) {
	return s.populate(ctx, l, offset, make(map[string]struct{}))
}

func (s *Service) populate(
	ctx context.Context,
	l *domain.WordListing,
	offset int,
	seen map[string]struct{},
) (*domain.EtymologyClaim, error) {
	if l == nil {
		return nil, nil
	}
	seen[domain.ListingKey(l)] = struct{}{}

	if l.EtymologySection == "" {
		return s.populateInflection(ctx, l, seen)
	}

	text, err := s.pages.SectionWikitext(ctx, l.Word, l.Language, l.EtymologySection)
	if err != nil {
		return nil, fmt.Errorf("etymology wikitext of %q: %w", l.Word, err)
	}
	node, base, err := s.pages.SectionHTML(ctx, l.Word, l.Language, l.EtymologySection)
	if err != nil {
		return nil, fmt.Errorf("etymology html of %q: %w", l.Word, err)
	}

	prose := claim.DOMSource{Section: node, Base: base}
	res, err := claim.FromSources(ctx, offset,
		claim.WikitextSource{Text: text, SiteURL: s.pages.SiteURL()},
		prose,
	)
	if err != nil {
		return nil, fmt.Errorf("parse etymology of %q: %w", l.Word, err)
	}

	raw, _ := prose.Segments(ctx)
	if len(raw) == 0 {
		raw = res.Segments
	}

	out := &domain.EtymologyClaim{
		Word:     l.Word,
		Language: l.Language,
		Raw:      raw,
	}
	if res.Claim != nil {
		from := *res.Claim
		if from.Language == "" {
			from.Language = l.Language
		}
		out.From = &from
		out.Relationship = from.Relationship
	}
	return out, nil
}

func (s *Service) populateInflection(
	ctx context.Context,
	l *domain.WordListing,
	seen map[string]struct{},
) (*domain.EtymologyClaim, error) {
	basic := &domain.EtymologyClaim{Word: l.Word, Language: l.Language}

	def, ok := l.InflectionDefinition()
	if !ok || def.InflectionOf == l.Word {
		return basic, nil
	}

	data, err := s.Build(ctx, def.InflectionOf, l.Language)
	if err != nil {
		return nil, err
	}

	out := &domain.EtymologyClaim{
		Word:         l.Word,
		Language:     l.Language,
		Relationship: domain.RelationshipInflection,
		Raw: []domain.Segment{{
			Kind: domain.SegmentString,
			Text: "Inflection of " + l.Language + " " + def.InflectionOf,
		}},
	}

	base, _ := sense.Resolve(data.Listings, sense.Hint{Claim: l.Etymology, Context: l})
	if base == nil {
		return out, nil
	}
	if _, looped := seen[domain.ListingKey(base)]; looped {
		return out, nil
	}

	from, err := s.populate(ctx, base, 0, seen)
	if err != nil {
		return nil, err
	}
	out.From = from
	return out, nil
}

// Listings builds word's listings and, with populate, resolves the first
// claim of each concurrently.
func (s *Service) Listings(ctx context.Context, word, language string, populate bool) ([]domain.WordListing, error) {
	if word == "" {
		return nil, domain.NewValidationError("word", "required")
	}

	data, err := s.Build(ctx, word, language)
	if err != nil {
		return nil, err
	}
	if !populate {
		return data.Listings, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range data.Listings {
		l := &data.Listings[i]
		g.Go(func() error {
			c, err := s.Populate(gctx, l, 0)
			if err != nil {
				return err
			}
			l.Etymology = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.ErrorContext(ctx, "populate listings",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return data.Listings, nil
}
