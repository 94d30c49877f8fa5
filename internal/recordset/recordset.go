// Package recordset buffers the derivation records of one unroll and writes
// them to the store in batches.
package recordset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

// Store is the persistence a Set writes through.
type Store interface {
	UpsertRecords(ctx context.Context, records []domain.DerivationRecord) error
	PatchRecord(ctx context.Context, id string, patch domain.RecordPatch) error
	TouchPing(ctx context.Context, id string, at time.Time) error
}

// Options tune flushing. Zero values take the defaults.
type Options struct {
	// MaxSize flushes the buffer once it holds more records than this.
	MaxSize int
	// InitialFlush is the lower threshold used for the first flush, so the
	// first records of a run show up early.
	InitialFlush int
	Now          func() time.Time
}

const (
	defaultMaxSize      = 40
	defaultInitialFlush = 10
)

// Set is owned by one top-level unroll. Writes run in the background;
// AwaitAll joins them.
type Set struct {
	log      *slog.Logger
	store    Store
	searchID string
	opts     Options
	ctx      context.Context

	mu      sync.Mutex
	pending map[string]domain.DerivationRecord
	order   []string
	all     map[string]domain.DerivationRecord
	seq     []string
	count   int
	initial bool

	wg    sync.WaitGroup
	errMu sync.Mutex
	errs  []error
}

// New creates a Set for searchID and writes its first ping. Writes are not
// cancelled with ctx, so a failing run can still flush what it found.
func New(ctx context.Context, logger *slog.Logger, store Store, searchID string, opts Options) *Set {
	if opts.MaxSize <= 0 {
		opts.MaxSize = defaultMaxSize
	}
	if opts.InitialFlush <= 0 {
		opts.InitialFlush = defaultInitialFlush
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Set{
		log:      logger.With("component", "recordset", "search_id", searchID),
		store:    store,
		searchID: searchID,
		opts:     opts,
		ctx:      context.WithoutCancel(ctx),
		pending:  make(map[string]domain.DerivationRecord),
		all:      make(map[string]domain.DerivationRecord),
		initial:  true,
	}
	s.touchPing()
	return s
}

// SearchID is the search identifier stamped on every record.
func (s *Set) SearchID() string { return s.searchID }

// Add normalises records, stamps them with the search identifier and their
// content id, and buffers them. It returns the records as stored.
func (s *Set) Add(records ...domain.DerivationRecord) []domain.DerivationRecord {
	now := s.opts.Now()
	out := make([]domain.DerivationRecord, 0, len(records))
	for _, r := range records {
		r.ParentWord = domain.CleanWord(r.ParentWord)
		r.OriginWord = domain.CleanWord(r.OriginWord)
		r.SearchIdentifier = s.searchID
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		r.ID = domain.RecordID(r)
		out = append(out, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range out {
		if _, ok := s.pending[r.ID]; !ok {
			s.order = append(s.order, r.ID)
		}
		s.pending[r.ID] = r
		if _, ok := s.all[r.ID]; !ok {
			s.seq = append(s.seq, r.ID)
		}
		s.all[r.ID] = r
		s.count++
	}

	if s.count > s.opts.MaxSize || (s.initial && s.count > s.opts.InitialFlush) {
		s.commitLocked()
		s.initial = false
		s.count = 0
	}
	return out
}

// Update patches a record. A buffered record is patched in place; otherwise
// the patch goes to the store, and a failure there is only logged.
func (s *Set) Update(id string, patch domain.RecordPatch) {
	s.mu.Lock()
	if r, ok := s.all[id]; ok {
		patch.Apply(&r)
		s.all[id] = r
	}
	if r, ok := s.pending[id]; ok {
		patch.Apply(&r)
		s.pending[id] = r
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.store.PatchRecord(s.ctx, id, patch); err != nil {
			s.log.WarnContext(s.ctx, "patch record failed",
				slog.String("record_id", id),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Commit writes the buffer in the background and refreshes the ping.
func (s *Set) Commit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked()
}

func (s *Set) commitLocked() {
	if len(s.order) > 0 {
		batch := make([]domain.DerivationRecord, 0, len(s.order))
		for _, id := range s.order {
			batch = append(batch, s.pending[id])
		}
		s.pending = make(map[string]domain.DerivationRecord)
		s.order = nil

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.store.UpsertRecords(s.ctx, batch); err != nil {
				s.fail(fmt.Errorf("upsert %d records: %w", len(batch), err))
			}
		}()
	}
	s.touchPing()
}

func (s *Set) touchPing() {
	at := s.opts.Now()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.store.TouchPing(s.ctx, s.searchID, at); err != nil {
			s.fail(fmt.Errorf("touch ping: %w", err))
		}
	}()
}

func (s *Set) fail(err error) {
	s.log.ErrorContext(s.ctx, "record write failed", slog.String("error", err.Error()))
	s.errMu.Lock()
	s.errs = append(s.errs, err)
	s.errMu.Unlock()
}

// AwaitAll blocks until every write started so far has settled and returns
// the failures joined. One failed write never stops the others.
func (s *Set) AwaitAll() error {
	s.wg.Wait()
	s.errMu.Lock()
	defer s.errMu.Unlock()
	err := errors.Join(s.errs...)
	s.errs = nil
	return err
}

// Pending is the number of records not yet handed to the store.
func (s *Set) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Records returns every record added so far, patches applied, in the order
// first added.
func (s *Set) Records() []domain.DerivationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DerivationRecord, 0, len(s.seq))
	for _, id := range s.seq {
		out = append(out, s.all[id])
	}
	return out
}
