package unroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gezakerecsenyi/etymologez/internal/config"
	"github.com/gezakerecsenyi/etymologez/internal/domain"
	"github.com/gezakerecsenyi/etymologez/internal/recordset"
	"github.com/gezakerecsenyi/etymologez/internal/service/sense"
)

// traversal is the state of one top-level unroll. It is never shared
// between requests.
type traversal struct {
	svc  *Service
	set  *recordset.Set
	log  *slog.Logger
	deep bool

	mu        sync.Mutex
	visited   map[string]struct{}
	descended map[string]struct{}
}

func newTraversal(svc *Service, set *recordset.Set, log *slog.Logger, deep bool) *traversal {
	return &traversal{
		svc:       svc,
		set:       set,
		log:       log,
		deep:      deep,
		visited:   make(map[string]struct{}),
		descended: make(map[string]struct{}),
	}
}

// recurseFunc continues the traversal at next, either inline or on the
// caller's pending group.
type recurseFunc func(next, backup *domain.WordListing, descendants bool) error

func (t *traversal) visit(l *domain.WordListing) bool {
	return markOnce(&t.mu, t.visited, domain.ListingKey(l))
}

func (t *traversal) descend(l *domain.WordListing) bool {
	return markOnce(&t.mu, t.descended, domain.ListingKey(l))
}

func markOnce(mu *sync.Mutex, set map[string]struct{}, key string) bool {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := set[key]; ok {
		return false
	}
	set[key] = struct{}{}
	return true
}

// unroll follows l's etymology upward and, with descendants, its
// descendants downward. backup is the listing to fall back to when no
// ancestor can be resolved.
func (t *traversal) unroll(ctx context.Context, l, backup *domain.WordListing, descendants bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	listingID := domain.ListingIdentifier(l, descendants, t.deep)
	done, err := t.svc.records.CompleteRecordsByListing(ctx, listingID)
	if err != nil {
		return fmt.Errorf("complete records of %q: %w", l.Word, err)
	}
	if len(done) > 0 {
		t.reuse(ctx, done)
		return nil
	}

	if !t.visit(l) {
		return nil
	}

	var pending errgroup.Group
	recurse := func(next, nextBackup *domain.WordListing, desc bool) error {
		if t.svc.cfg.DepthFirst {
			return t.unroll(ctx, next, nextBackup, desc)
		}
		pending.Go(func() error {
			return t.unroll(ctx, next, nextBackup, desc)
		})
		return nil
	}

	ancestorID, err := t.ancestors(ctx, l, descendants, recurse)
	if err != nil {
		_ = pending.Wait()
		return err
	}

	if ancestorID == "" && backup != nil && t.svc.cfg.BackupMode != config.BackupModeNone {
		ancestorID = t.fallBack(l, backup)
	}

	if descendants {
		if err := t.descendants(ctx, l, recurse); err != nil {
			_ = pending.Wait()
			return err
		}
	}

	if err := pending.Wait(); err != nil {
		return err
	}

	if ancestorID != "" {
		complete := true
		t.set.Update(ancestorID, domain.RecordPatch{
			IsComplete:        &complete,
			ListingIdentifier: &listingID,
		})
	}
	return nil
}

// reuse copies the records of an earlier complete unroll of the same
// listing into this search.
func (t *traversal) reuse(ctx context.Context, done []domain.DerivationRecord) {
	own := t.set.SearchID()
	adopted := make([]domain.DerivationRecord, 0, len(done))
	for _, r := range done {
		if r.SearchIdentifier != own {
			adopted = append(adopted, r)
		}
	}
	t.set.Add(adopted...)

	t.log.DebugContext(ctx, "reused complete records", slog.Int("count", len(adopted)))
}

// ancestors tries each claim offset in turn until one resolves to a
// listing, records the edge and continues from that listing. It returns
// the id of the edge, or "" when no claim resolved.
func (t *traversal) ancestors(
	ctx context.Context,
	l *domain.WordListing,
	descendants bool,
	recurse recurseFunc,
) (string, error) {
	for offset := 0; offset < t.svc.cfg.MaxOffsets; offset++ {
		c := l.Etymology
		if offset > 0 || c == nil || c.From == nil {
			var err error
			c, err = t.svc.listings.Populate(ctx, l, offset)
			if t.skipFetch(ctx, err, l.Word) {
				return "", nil
			}
			if err != nil {
				return "", fmt.Errorf("populate %q at %d: %w", l.Word, offset, err)
			}
		}
		if c == nil || c.From == nil {
			return "", nil
		}
		l.Etymology = c

		data, err := t.svc.listings.Build(ctx, c.From.Word, c.From.Language)
		if t.skipFetch(ctx, err, c.From.Word) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("build %q: %w", c.From.Word, err)
		}
		src, confident := sense.Resolve(data.Listings, sense.Hint{Claim: c.From, Context: l})
		if src == nil {
			continue
		}

		rec := t.add(domain.DerivationRecord{
			ParentWord:       l.Word,
			ParentLanguage:   l.Language,
			ParentDefinition: l.Definitions,
			OriginWord:       src.Word,
			OriginLanguage:   src.Language,
			OriginDefinition: src.Definitions,
			Relationship:     c.Relationship,
			IsPriorityChoice: confident,
			CreatedBy:        domain.SourceParentFunction,
		})

		next := *src
		return rec.ID, recurse(&next, nil, descendants)
	}
	return "", nil
}

// fallBack links l to backup with an "ultimately from" edge and records
// that as l's etymology.
func (t *traversal) fallBack(l, backup *domain.WordListing) string {
	rec := t.add(domain.DerivationRecord{
		ParentWord:       l.Word,
		ParentLanguage:   l.Language,
		ParentDefinition: l.Definitions,
		OriginWord:       backup.Word,
		OriginLanguage:   backup.Language,
		OriginDefinition: backup.Definitions,
		Relationship:     domain.RelationshipUltimately,
		IsBackupChoice:   true,
		CreatedBy:        domain.SourceParentFunction,
	})

	l.Etymology = &domain.EtymologyClaim{
		Word:         backup.Word,
		Language:     backup.Language,
		Relationship: domain.RelationshipUltimately,
		Raw: []domain.Segment{{
			Kind: domain.SegmentString,
			Text: "Ultimately from " + backup.Language + " " + backup.Word,
		}},
	}
	return rec.ID
}

// skipFetch reports whether err is an upstream fetch failure. Such a
// failure ends the branch that needed the page and is only logged; the
// rest of the search carries on.
func (t *traversal) skipFetch(ctx context.Context, err error, word string) bool {
	if err == nil || !errors.Is(err, domain.ErrUpstream) {
		return false
	}
	t.log.WarnContext(ctx, "fetch failed, branch dropped",
		slog.String("word", word),
		slog.String("error", err.Error()),
	)
	return true
}

func (t *traversal) add(r domain.DerivationRecord) domain.DerivationRecord {
	return t.set.Add(r)[0]
}
