package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gezakerecsenyi/etymologez/internal/adapter/postgres"
	"github.com/gezakerecsenyi/etymologez/internal/adapter/postgres/testhelper"
)

func pingExists(t *testing.T, pool *pgxpool.Pool, id string) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM search_pings WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("pingExists query: %v", err)
	}
	return exists
}

func insertPing(ctx context.Context, pool *pgxpool.Pool, id string) error {
	_, err := postgres.QuerierFromCtx(ctx, pool).Exec(ctx,
		`INSERT INTO search_pings (id, last_updated_at) VALUES ($1, now())`, id,
	)
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	id := testhelper.UniqueSearch()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertPing(ctx, pool, id)
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !pingExists(t, pool, id) {
		t.Fatal("expected ping to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	id := testhelper.UniqueSearch()
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertPing(ctx, pool, id); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if pingExists(t, pool, id) {
		t.Fatal("expected ping NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	id := testhelper.UniqueSearch()

	defer func() {
		if r := recover(); r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}
		if pingExists(t, pool, id) {
			t.Fatal("expected ping NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertPing(ctx, pool, id); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_QuerierFromCtx_UsesTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	id := testhelper.UniqueSearch()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertPing(ctx, pool, id); err != nil {
			return err
		}

		// Visible inside the transaction, not yet outside.
		var exists bool
		q := postgres.QuerierFromCtx(ctx, pool)
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM search_pings WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			t.Error("expected ping to be visible within the transaction")
		}
		if pingExists(t, pool, id) {
			t.Error("expected ping to be invisible outside the transaction before commit")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !pingExists(t, pool, id) {
		t.Fatal("expected ping to exist after committed transaction")
	}
}
