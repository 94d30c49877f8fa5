package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
	"github.com/gezakerecsenyi/etymologez/internal/service/graph"
	"github.com/gezakerecsenyi/etymologez/internal/service/unroll"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockListingService struct {
	ListingsFunc func(ctx context.Context, word, language string, populate bool) ([]domain.WordListing, error)
}

func (m *mockListingService) Listings(ctx context.Context, word, language string, populate bool) ([]domain.WordListing, error) {
	return m.ListingsFunc(ctx, word, language, populate)
}

type mockUnrollService struct {
	ReusableFunc func(ctx context.Context, req unroll.Request) (bool, error)
	UnrollFunc   func(ctx context.Context, req unroll.Request) (unroll.Result, error)
}

func (m *mockUnrollService) Reusable(ctx context.Context, req unroll.Request) (bool, error) {
	if m.ReusableFunc != nil {
		return m.ReusableFunc(ctx, req)
	}
	return false, req.Validate()
}

func (m *mockUnrollService) Unroll(ctx context.Context, req unroll.Request) (unroll.Result, error) {
	if m.UnrollFunc != nil {
		return m.UnrollFunc(ctx, req)
	}
	return unroll.Result{SearchIdentifier: req.SearchIdentifier()}, nil
}

type mockRecordReader struct {
	RecordsBySearchFunc func(ctx context.Context, searchIdentifier string) ([]domain.DerivationRecord, error)
}

func (m *mockRecordReader) RecordsBySearch(ctx context.Context, searchIdentifier string) ([]domain.DerivationRecord, error) {
	return m.RecordsBySearchFunc(ctx, searchIdentifier)
}

type mockGraphService struct {
	GraphFunc func(ctx context.Context, req graph.Request) (*graph.Graph, error)
}

func (m *mockGraphService) Graph(ctx context.Context, req graph.Request) (*graph.Graph, error) {
	return m.GraphFunc(ctx, req)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// ---------------------------------------------------------------------------
// Listings
// ---------------------------------------------------------------------------

func TestListingHandler_List(t *testing.T) {
	t.Parallel()

	var gotWord, gotLang string
	var gotPopulate bool
	svc := &mockListingService{ListingsFunc: func(_ context.Context, word, language string, populate bool) ([]domain.WordListing, error) {
		gotWord, gotLang, gotPopulate = word, language, populate
		return []domain.WordListing{{Word: "knight", Language: "English", PartOfSpeech: domain.PartOfSpeech("noun")}}, nil
	}}
	h := NewListingHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/listings?word=knight&language=English&populate=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "knight", gotWord)
	assert.Equal(t, "English", gotLang)
	assert.True(t, gotPopulate)

	listings := decode[[]domain.WordListing](t, rec)
	require.Len(t, listings, 1)
	assert.Equal(t, "knight", listings[0].Word)
}

func TestListingHandler_List_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		err      error
		wantCode int
	}{
		{"bad populate flag", "?word=knight&populate=maybe", nil, http.StatusBadRequest},
		{"missing word", "?language=English", domain.NewValidationError("word", "required"), http.StatusBadRequest},
		{"wiktionary down", "?word=knight", fmt.Errorf("wiktionary: %w", domain.ErrUpstream), http.StatusBadGateway},
		{"unexpected", "?word=knight", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockListingService{ListingsFunc: func(context.Context, string, string, bool) ([]domain.WordListing, error) {
				return nil, tt.err
			}}
			rec := httptest.NewRecorder()
			NewListingHandler(svc, testLogger()).List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/listings"+tt.query, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestListingHandler_List_EmptyIsArray(t *testing.T) {
	t.Parallel()

	svc := &mockListingService{ListingsFunc: func(context.Context, string, string, bool) ([]domain.WordListing, error) {
		return nil, nil
	}}
	rec := httptest.NewRecorder()
	NewListingHandler(svc, testLogger()).List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/listings?word=zzz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

// ---------------------------------------------------------------------------
// Unroll
// ---------------------------------------------------------------------------

const knightBody = `{"listing":{"word":"knight","language":"English","partOfSpeech":"noun"},"includeDescendants":true}`

func TestUnrollHandler_StartsBackgroundRun(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var got []unroll.Request
	svc := &mockUnrollService{UnrollFunc: func(ctx context.Context, req unroll.Request) (unroll.Result, error) {
		mu.Lock()
		got = append(got, req)
		mu.Unlock()
		return unroll.Result{}, nil
	}}
	h := NewUnrollHandler(context.Background(), svc, testLogger())

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/api/v1/unroll", strings.NewReader(knightBody)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	resp := decode[unrollResponse](t, rec)
	assert.False(t, resp.Reused)

	want := unroll.Request{
		Listing:            domain.WordListing{Word: "knight", Language: "English", PartOfSpeech: "noun"},
		IncludeDescendants: true,
	}
	assert.Equal(t, want.SearchIdentifier(), resp.SearchIdentifier)

	require.NoError(t, h.Wait(context.Background()))
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.True(t, got[0].IncludeDescendants)
	assert.Equal(t, "knight", got[0].Listing.Word)
}

func TestUnrollHandler_ReusedSearchDoesNotRun(t *testing.T) {
	t.Parallel()

	svc := &mockUnrollService{
		ReusableFunc: func(context.Context, unroll.Request) (bool, error) { return true, nil },
		UnrollFunc: func(context.Context, unroll.Request) (unroll.Result, error) {
			t.Error("Unroll should not be called for a reused search")
			return unroll.Result{}, nil
		},
	}
	h := NewUnrollHandler(context.Background(), svc, testLogger())

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/api/v1/unroll", strings.NewReader(knightBody)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, decode[unrollResponse](t, rec).Reused)
	require.NoError(t, h.Wait(context.Background()))
}

func TestUnrollHandler_BadRequests(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"not json":        `{listing`,
		"missing listing": `{"includeDescendants":true}`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h := NewUnrollHandler(context.Background(), &mockUnrollService{}, testLogger())
			rec := httptest.NewRecorder()
			h.Start(rec, httptest.NewRequest(http.MethodPost, "/api/v1/unroll", strings.NewReader(body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUnrollHandler_RunCancelledWithBase(t *testing.T) {
	t.Parallel()

	base, stop := context.WithCancel(context.Background())
	started := make(chan struct{})
	svc := &mockUnrollService{UnrollFunc: func(ctx context.Context, req unroll.Request) (unroll.Result, error) {
		close(started)
		<-ctx.Done()
		return unroll.Result{}, ctx.Err()
	}}
	h := NewUnrollHandler(base, svc, testLogger())

	reqCtx, endRequest := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/unroll", strings.NewReader(knightBody)).WithContext(reqCtx)
	h.Start(httptest.NewRecorder(), req)
	endRequest()

	<-started
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, h.Wait(ctx))
}

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

func TestRecordHandler_List(t *testing.T) {
	t.Parallel()

	records := &mockRecordReader{RecordsBySearchFunc: func(_ context.Context, search string) ([]domain.DerivationRecord, error) {
		if search != "knight:English" {
			return nil, nil
		}
		return []domain.DerivationRecord{{ID: "r1", ParentWord: "knight", OriginWord: "knyght"}}, nil
	}}
	h := NewRecordHandler(records, testLogger())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/records?search=knight:English", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]domain.DerivationRecord](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/records?search=water:English", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestRecordHandler_List_MissingSearch(t *testing.T) {
	t.Parallel()

	h := NewRecordHandler(&mockRecordReader{}, testLogger())
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[validationResponse](t, rec)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "search", resp.Fields[0].Field)
}

// ---------------------------------------------------------------------------
// Graph
// ---------------------------------------------------------------------------

func TestGraphHandler_Reduce(t *testing.T) {
	t.Parallel()

	var got graph.Request
	svc := &mockGraphService{GraphFunc: func(_ context.Context, req graph.Request) (*graph.Graph, error) {
		got = req
		return &graph.Graph{
			Nodes: []graph.Node{{ID: "knight__English", Label: "knight", Language: "English", IsSource: true}},
			Edges: []graph.Edge{},
		}, nil
	}}
	h := NewGraphHandler(svc, testLogger())

	body := `{"listing":{"word":"knight","language":"English"},"keepFalseRoots":true,"groupSiblings":true}`
	rec := httptest.NewRecorder()
	h.Reduce(rec, httptest.NewRequest(http.MethodPost, "/api/v1/graph", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.KeepFalseRoots)
	assert.True(t, got.GroupSiblings)
	assert.Equal(t, "knight", got.Listing.Word)

	g := decode[graph.Graph](t, rec)
	require.Len(t, g.Nodes, 1)
	assert.True(t, g.Nodes[0].IsSource)
}

func TestGraphHandler_Reduce_NotFound(t *testing.T) {
	t.Parallel()

	svc := &mockGraphService{GraphFunc: func(context.Context, graph.Request) (*graph.Graph, error) {
		return nil, fmt.Errorf("search knight:English: %w", domain.ErrNotFound)
	}}
	rec := httptest.NewRecorder()
	NewGraphHandler(svc, testLogger()).Reduce(rec, httptest.NewRequest(http.MethodPost, "/api/v1/graph",
		strings.NewReader(`{"listing":{"word":"knight","language":"English"}}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---------------------------------------------------------------------------
// Router
// ---------------------------------------------------------------------------

func TestRouter_MountsRoutes(t *testing.T) {
	t.Parallel()

	var wrapped []string
	api := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped = append(wrapped, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
	router := NewRouter(Handlers{
		Health: NewHealthHandler(&storePingerMock{}, "test"),
		Listings: NewListingHandler(&mockListingService{ListingsFunc: func(context.Context, string, string, bool) ([]domain.WordListing, error) {
			return nil, nil
		}}, testLogger()),
		Unroll:  NewUnrollHandler(context.Background(), &mockUnrollService{}, testLogger()),
		Records: NewRecordHandler(&mockRecordReader{}, testLogger()),
		Graph:   NewGraphHandler(&mockGraphService{}, testLogger()),
	}, api)

	tests := []struct {
		method, path string
		wantCode     int
	}{
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/api/v1/listings?word=knight", http.StatusOK},
		{http.MethodGet, "/api/v1/records", http.StatusBadRequest},
		{http.MethodDelete, "/api/v1/listings", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.wantCode, rec.Code, "%s %s", tt.method, tt.path)
	}
	assert.NotContains(t, wrapped, "/live")
	assert.Contains(t, wrapped, "/api/v1/listings")
}
