package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gezakerecsenyi/etymologez/internal/config"
	"github.com/gezakerecsenyi/etymologez/internal/domain"
	"github.com/gezakerecsenyi/etymologez/internal/transport/middleware"
)

func TestLimitUnrollStarts(t *testing.T) {
	t.Parallel()

	rl := middleware.NewRateLimiter(1, time.Hour)
	t.Cleanup(rl.Stop)

	h := limitUnrollStarts(rl)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	do := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusAccepted, do(http.MethodPost, "/api/v1/unroll"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/api/v1/unroll"))
	assert.Equal(t, http.StatusAccepted, do(http.MethodGet, "/api/v1/records"))
	assert.Equal(t, http.StatusAccepted, do(http.MethodPost, "/api/v1/graph"))
}

func TestOpenStores_SQLite(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Store: config.StoreConfig{
		Driver:     config.StoreDriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "records.db"),
	}}
	ctx := context.Background()

	stores, err := OpenStores(ctx, cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(stores.Close)

	require.NoError(t, stores.Ping(ctx))
	require.NoError(t, stores.Pings.TouchPing(ctx, "search-1", time.Now()))

	err = stores.Tx.RunInTx(ctx, func(ctx context.Context) error {
		return stores.Pings.MarkFinished(ctx, "search-1")
	})
	require.NoError(t, err)

	p, err := stores.Pings.GetPing(ctx, "search-1")
	require.NoError(t, err)
	assert.True(t, p.IsFinished)

	_, err = stores.Pings.GetPing(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Store: config.StoreConfig{Driver: "mongo"}}
	_, err := OpenStores(context.Background(), cfg, slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "mongo")
}
