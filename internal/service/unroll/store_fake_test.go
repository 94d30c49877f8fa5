package unroll

import (
	"context"
	"sync"
	"time"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

// memStore is an in-memory record and ping store.
type memStore struct {
	mu      sync.Mutex
	records map[string]domain.DerivationRecord
	pings   map[string]domain.SearchPing

	// CompleteRecordsByListingFunc, when set, replaces the lookup.
	CompleteRecordsByListingFunc func(ctx context.Context, listingIdentifier string) ([]domain.DerivationRecord, error)
}

func newMemStore() *memStore {
	return &memStore{
		records: make(map[string]domain.DerivationRecord),
		pings:   make(map[string]domain.SearchPing),
	}
}

func (m *memStore) UpsertRecords(_ context.Context, records []domain.DerivationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if old, ok := m.records[r.ID]; ok && old.IsComplete && !r.IsComplete {
			r.IsComplete = true
			r.ListingIdentifier = old.ListingIdentifier
		}
		m.records[r.ID] = r
	}
	return nil
}

func (m *memStore) PatchRecord(_ context.Context, id string, patch domain.RecordPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	patch.Apply(&r)
	m.records[id] = r
	return nil
}

func (m *memStore) CompleteRecordsByListing(ctx context.Context, listingIdentifier string) ([]domain.DerivationRecord, error) {
	if m.CompleteRecordsByListingFunc != nil {
		return m.CompleteRecordsByListingFunc(ctx, listingIdentifier)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DerivationRecord
	for _, r := range m.records {
		if r.IsComplete && r.ListingIdentifier == listingIdentifier {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) DeleteBySearch(_ context.Context, searchIdentifier string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.records {
		if r.SearchIdentifier == searchIdentifier {
			delete(m.records, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetPing(_ context.Context, id string) (*domain.SearchPing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) TouchPing(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.pings[id]
	p.ID = id
	p.LastUpdatedAt = at
	m.pings[id] = p
	return nil
}

func (m *memStore) MarkFinished(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pings[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsFinished = true
	m.pings[id] = p
	return nil
}

func (m *memStore) DeletePing(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pings, id)
	return nil
}

func (m *memStore) bySearch(searchIdentifier string) []domain.DerivationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DerivationRecord
	for _, r := range m.records {
		if r.SearchIdentifier == searchIdentifier {
			out = append(out, r)
		}
	}
	return out
}

func (m *memStore) ping(id string) (domain.SearchPing, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pings[id]
	return p, ok
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(context.Context) error) error
	calls       int
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}
