package claim

import (
	"context"
	"net/url"

	"golang.org/x/net/html"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
	"github.com/gezakerecsenyi/etymologez/internal/parser/segment"
	"github.com/gezakerecsenyi/etymologez/internal/parser/wikitext"
)

// Source yields the segmented prose of one etymology section. Sources are
// consulted lazily, so an implementation may fetch on demand.
type Source interface {
	Segments(ctx context.Context) ([]domain.Segment, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]domain.Segment, error)

func (f SourceFunc) Segments(ctx context.Context) ([]domain.Segment, error) { return f(ctx) }

// DOMSource segments a rendered section.
type DOMSource struct {
	Section *html.Node
	Base    *url.URL
}

func (s DOMSource) Segments(context.Context) ([]domain.Segment, error) {
	return segment.SegmentProse(s.Section, s.Base), nil
}

// WikitextSource renders a section's derivation templates into segments.
type WikitextSource struct {
	Text    string
	SiteURL string
}

func (s WikitextSource) Segments(context.Context) ([]domain.Segment, error) {
	return wikitext.ToSegments(wikitext.EtymologyTemplates(s.Text), s.SiteURL), nil
}

// Result is what FromSources found.
type Result struct {
	Claim    *domain.EtymologyClaim
	Segments []domain.Segment
}

// FromSources asks each source in turn for the offset-th claim and stops at
// the first hit. Without a hit, Result.Claim is nil and Result.Segments
// holds the last non-empty breakdown seen.
func FromSources(ctx context.Context, offset int, sources ...Source) (Result, error) {
	var res Result
	for _, src := range sources {
		if src == nil {
			continue
		}
		segs, err := src.Segments(ctx)
		if err != nil {
			return res, err
		}
		if len(segs) > 0 {
			res.Segments = segs
		}
		if c, ok := Parse(segs, offset); ok {
			res.Claim = c
			return res, nil
		}
	}
	return res, nil
}
