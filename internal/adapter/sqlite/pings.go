package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

const pingEntity = "search_ping"

// GetPing returns the ping for a search identifier.
// Returns domain.ErrNotFound if the search never ran.
func (s *Store) GetPing(ctx context.Context, id string) (*domain.SearchPing, error) {
	query, args, err := sq.Select("id", "last_updated_at", "is_finished").
		From("search_pings").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var p domain.SearchPing
	err = s.querier(ctx).QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.LastUpdatedAt, &p.IsFinished)
	if err != nil {
		return nil, mapError(err, pingEntity, id)
	}
	return &p, nil
}

// TouchPing creates the ping or moves its timestamp to at.
func (s *Store) TouchPing(ctx context.Context, id string, at time.Time) error {
	_, err := s.querier(ctx).ExecContext(ctx,
		`INSERT INTO search_pings (id, last_updated_at) VALUES (?, ?)
		 ON CONFLICT (id) DO UPDATE SET last_updated_at = excluded.last_updated_at`,
		id, at.UTC(),
	)
	return mapError(err, pingEntity, id)
}

// MarkFinished flags the search as complete.
// Returns domain.ErrNotFound if the ping does not exist.
func (s *Store) MarkFinished(ctx context.Context, id string) error {
	query, args, err := sq.Update("search_pings").Set("is_finished", true).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}
	res, err := s.querier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, pingEntity, id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s %s: %w", pingEntity, id, domain.ErrNotFound)
	}
	return nil
}

// DeletePing removes the ping. Deleting a missing ping is not an error.
func (s *Store) DeletePing(ctx context.Context, id string) error {
	query, args, err := sq.Delete("search_pings").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}
	_, err = s.querier(ctx).ExecContext(ctx, query, args...)
	return mapError(err, pingEntity, id)
}
