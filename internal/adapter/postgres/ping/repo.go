// Package ping stores search liveness pings in PostgreSQL.
package ping

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/gezakerecsenyi/etymologez/internal/adapter/postgres"
	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

const (
	table  = "search_pings"
	entity = "search_ping"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const touchSQL = `
INSERT INTO search_pings (id, last_updated_at)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET last_updated_at = EXCLUDED.last_updated_at`

// Repo provides ping persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetPing returns the ping for a search identifier.
// Returns domain.ErrNotFound if the search never ran.
func (r *Repo) GetPing(ctx context.Context, id string) (*domain.SearchPing, error) {
	query, args, err := psql.Select("id", "last_updated_at", "is_finished").
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var p domain.SearchPing
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).
		Scan(&p.ID, &p.LastUpdatedAt, &p.IsFinished)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return &p, nil
}

// TouchPing creates the ping or moves its timestamp to at.
func (r *Repo) TouchPing(ctx context.Context, id string, at time.Time) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, touchSQL, id, at.UTC()); err != nil {
		return postgres.MapError(err, entity, id)
	}
	return nil
}

// MarkFinished flags the search as complete.
// Returns domain.ErrNotFound if the ping does not exist.
func (r *Repo) MarkFinished(ctx context.Context, id string) error {
	query, args, err := psql.Update(table).
		Set("is_finished", true).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, entity, id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, entity, id)
	}
	return nil
}

// DeletePing removes the ping. Deleting a missing ping is not an error.
func (r *Repo) DeletePing(ctx context.Context, id string) error {
	query, args, err := psql.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, entity, id)
	}
	return nil
}
