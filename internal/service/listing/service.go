// Package listing turns Wiktionary pages into word listings and resolves
// each listing's etymology claim.
package listing

import (
	"context"
	"log/slog"
	"net/url"

	"golang.org/x/net/html"

	"github.com/gezakerecsenyi/etymologez/internal/adapter/provider/wiktionary"
)

type pageSource interface {
	Sections(ctx context.Context, word, language string) ([]wiktionary.Section, error)
	SectionHTML(ctx context.Context, word, language, index string) (*html.Node, *url.URL, error)
	SectionWikitext(ctx context.Context, word, language, index string) (string, error)
	SiteURL() string
}

// Service builds listings from pages.
type Service struct {
	log         *slog.Logger
	pages       pageSource
	concurrency int
}

// NewService creates a listing service. concurrency bounds how many
// listings Listings populates at once.
func NewService(logger *slog.Logger, pages pageSource, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Service{
		log:         logger.With("service", "listing"),
		pages:       pages,
		concurrency: concurrency,
	}
}
