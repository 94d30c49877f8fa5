package ping_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gezakerecsenyi/etymologez/internal/adapter/postgres/ping"
	"github.com/gezakerecsenyi/etymologez/internal/adapter/postgres/testhelper"
	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

func TestRepo_PingLifecycle(t *testing.T) {
	t.Parallel()
	repo := ping.New(testhelper.SetupTestDB(t))
	ctx := context.Background()
	id := testhelper.UniqueSearch()

	_, err := repo.GetPing(ctx, id)
	require.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)

	first := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	require.NoError(t, repo.TouchPing(ctx, id, first))

	got, err := repo.GetPing(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.LastUpdatedAt.Equal(first))
	assert.False(t, got.IsFinished)

	later := first.Add(30 * time.Minute)
	require.NoError(t, repo.TouchPing(ctx, id, later))
	require.NoError(t, repo.MarkFinished(ctx, id))

	got, err = repo.GetPing(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.LastUpdatedAt.Equal(later))
	assert.True(t, got.IsFinished)

	require.NoError(t, repo.DeletePing(ctx, id))
	_, err = repo.GetPing(ctx, id)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)

	// Deleting again is fine.
	assert.NoError(t, repo.DeletePing(ctx, id))
}

func TestRepo_MarkFinished_NotFound(t *testing.T) {
	t.Parallel()
	repo := ping.New(testhelper.SetupTestDB(t))

	err := repo.MarkFinished(context.Background(), testhelper.UniqueSearch())

	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
}
