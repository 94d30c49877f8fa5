// Package unroll walks a word's etymology back to its roots, and optionally
// forward through its descendants, writing every derivation edge it finds.
package unroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/gezakerecsenyi/etymologez/internal/adapter/provider/wiktionary"
	"github.com/gezakerecsenyi/etymologez/internal/config"
	"github.com/gezakerecsenyi/etymologez/internal/domain"
	"github.com/gezakerecsenyi/etymologez/internal/recordset"
)

// listingService builds and populates listings.
type listingService interface {
	Build(ctx context.Context, word, language string) (*domain.WordData, error)
	Populate(ctx context.Context, l *domain.WordListing, offset int) (*domain.EtymologyClaim, error)
}

// pageSource exposes the raw page data the descendant phase reads.
type pageSource interface {
	Scope(ctx context.Context) context.Context
	SectionHTML(ctx context.Context, word, language, index string) (*html.Node, *url.URL, error)
	SectionWikitext(ctx context.Context, word, language, index string) (string, error)
	CategoryMembers(ctx context.Context, title string, pageID int) ([]wiktionary.CategoryMember, error)
}

// recordRepo defines the record persistence needed by the unroller.
type recordRepo interface {
	UpsertRecords(ctx context.Context, records []domain.DerivationRecord) error
	PatchRecord(ctx context.Context, id string, patch domain.RecordPatch) error
	CompleteRecordsByListing(ctx context.Context, listingIdentifier string) ([]domain.DerivationRecord, error)
	DeleteBySearch(ctx context.Context, searchIdentifier string) (int64, error)
}

// pingRepo defines the search ping persistence needed by the unroller.
type pingRepo interface {
	GetPing(ctx context.Context, id string) (*domain.SearchPing, error)
	TouchPing(ctx context.Context, id string, at time.Time) error
	MarkFinished(ctx context.Context, id string) error
	DeletePing(ctx context.Context, id string) error
}

// txManager defines the transaction manager interface needed by the unroller.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements unroll operations.
type Service struct {
	log      *slog.Logger
	listings listingService
	pages    pageSource
	records  recordRepo
	pings    pingRepo
	tx       txManager
	cfg      config.UnrollConfig
	now      func() time.Time
}

// NewService creates a new unroll service instance.
func NewService(
	logger *slog.Logger,
	listings listingService,
	pages pageSource,
	records recordRepo,
	pings pingRepo,
	tx txManager,
	cfg config.UnrollConfig,
) *Service {
	if cfg.MaxOffsets <= 0 {
		cfg.MaxOffsets = 10
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 100
	}
	if cfg.BackupMode == "" {
		cfg.BackupMode = config.BackupModeCaller
	}
	return &Service{
		log:      logger.With("service", "unroll"),
		listings: listings,
		pages:    pages,
		records:  records,
		pings:    pings,
		tx:       tx,
		cfg:      cfg,
		now:      time.Now,
	}
}

// store joins the two repositories into the sink a record set writes to.
type store struct {
	recordRepo
	pingRepo
}

// Unroll runs one top-level search. A finished search, or one whose ping
// is younger than the freshness window, is reused without crawling. A stale
// unfinished search is purged and run again.
//
// Whatever the traversal found is flushed even when it fails.
func (s *Service) Unroll(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	searchID := req.SearchIdentifier()
	res := Result{SearchIdentifier: searchID}

	ping, err := s.ping(ctx, searchID)
	if err != nil {
		return res, err
	}
	if ping.IsFresh(s.now(), s.cfg.FreshnessWindow) {
		res.Reused = true
		return res, nil
	}
	if ping != nil {
		if err := s.purge(ctx, searchID); err != nil {
			return res, err
		}
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	ctx = s.pages.Scope(ctx)

	runID := uuid.NewString()
	log := s.log.With(slog.String("run_id", runID), slog.String("search", searchID))
	started := s.now()
	log.InfoContext(ctx, "unroll started",
		slog.String("word", req.Listing.Word),
		slog.String("language", req.Listing.Language),
		slog.Bool("descendants", req.IncludeDescendants),
		slog.Bool("deep", req.DeepDescendantSearch),
	)

	set := recordset.New(ctx, log, store{s.records, s.pings}, searchID, recordset.Options{
		MaxSize:      s.cfg.FlushSize,
		InitialFlush: s.cfg.InitialFlush,
		Now:          s.now,
	})

	tr := newTraversal(s, set, log, req.DeepDescendantSearch)
	root := req.Listing
	runErr := tr.unroll(ctx, &root, nil, req.IncludeDescendants)

	set.Commit()
	writeErr := set.AwaitAll()
	res.Records = set.Records()

	if runErr != nil {
		log.ErrorContext(ctx, "unroll failed",
			slog.Int("records", len(res.Records)),
			slog.String("error", runErr.Error()),
		)
		return res, fmt.Errorf("unroll %s: %w", searchID, runErr)
	}
	if writeErr != nil {
		log.ErrorContext(ctx, "unroll writes failed",
			slog.Int("records", len(res.Records)),
			slog.String("error", writeErr.Error()),
		)
		return res, fmt.Errorf("write records: %w", writeErr)
	}

	if err := s.pings.MarkFinished(context.WithoutCancel(ctx), searchID); err != nil {
		return res, fmt.Errorf("mark finished: %w", err)
	}

	log.InfoContext(ctx, "unroll finished",
		slog.Int("records", len(res.Records)),
		slog.Duration("took", s.now().Sub(started)),
	)
	return res, nil
}

// Reusable reports whether Unroll would reuse the stored search for req
// instead of crawling.
func (s *Service) Reusable(ctx context.Context, req Request) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, err
	}
	ping, err := s.ping(ctx, req.SearchIdentifier())
	if err != nil {
		return false, err
	}
	return ping.IsFresh(s.now(), s.cfg.FreshnessWindow), nil
}

// ping returns nil when the search never ran.
func (s *Service) ping(ctx context.Context, searchID string) (*domain.SearchPing, error) {
	p, err := s.pings.GetPing(ctx, searchID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ping: %w", err)
	}
	return p, nil
}

// purge removes a stale search's ping and records.
func (s *Service) purge(ctx context.Context, searchID string) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.pings.DeletePing(txCtx, searchID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete ping: %w", err)
		}
		n, err := s.records.DeleteBySearch(txCtx, searchID)
		if err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		s.log.InfoContext(txCtx, "purged stale search",
			slog.String("search", searchID),
			slog.Int64("records", n),
		)
		return nil
	})
}
