package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

// recordRepo defines the record reads needed by the graph service.
type recordRepo interface {
	RecordsBySearch(ctx context.Context, searchIdentifier string) ([]domain.DerivationRecord, error)
}

// Service reduces stored searches.
type Service struct {
	log     *slog.Logger
	records recordRepo
}

// NewService creates a new graph service instance.
func NewService(logger *slog.Logger, records recordRepo) *Service {
	return &Service{
		log:     logger.With("service", "graph"),
		records: records,
	}
}

// Request names a search and how to reduce it.
type Request struct {
	Listing              domain.WordListing
	IncludeDescendants   bool
	DeepDescendantSearch bool
	Options
}

// Validate checks all fields and collects all errors.
func (r *Request) Validate() error {
	var errs []domain.FieldError

	if r.Listing.Word == "" {
		errs = append(errs, domain.FieldError{Field: "listing.word", Message: "required"})
	}
	if r.Listing.Language == "" {
		errs = append(errs, domain.FieldError{Field: "listing.language", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Graph reduces whatever the search for req has stored so far. A search
// still running yields a partial graph.
func (s *Service) Graph(ctx context.Context, req Request) (*Graph, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	searchID := domain.ListingIdentifier(&req.Listing, req.IncludeDescendants, req.DeepDescendantSearch)
	records, err := s.records.RecordsBySearch(ctx, searchID)
	if err != nil {
		return nil, fmt.Errorf("records of %s: %w", searchID, err)
	}

	g := Reduce(records, req.Listing, req.Options)

	s.log.DebugContext(ctx, "graph reduced",
		slog.String("search", searchID),
		slog.Int("records", len(records)),
		slog.Int("nodes", g.Stats.NodesDrawn),
		slog.Int("edges", g.Stats.EdgesDrawn),
		slog.Int("clashes", g.Stats.Clashes),
		slog.Duration("took", g.Stats.ProcessingTime),
	)
	return g, nil
}
