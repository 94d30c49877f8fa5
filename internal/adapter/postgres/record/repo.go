// Package record stores derivation records in PostgreSQL.
package record

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/gezakerecsenyi/etymologez/internal/adapter/postgres"
	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

const table = "records"

var columns = []string{
	"id", "parent_word", "parent_language", "parent_definition",
	"origin_word", "origin_language", "origin_definition",
	"relationship", "is_priority_choice", "is_backup_choice",
	"search_identifier", "listing_identifier", "is_complete",
	"created_by", "created_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// A record that was already marked complete stays complete when the same
// content is written again by a later flush.
const upsertSQL = `
INSERT INTO records (
    id, parent_word, parent_language, parent_definition,
    origin_word, origin_language, origin_definition,
    relationship, is_priority_choice, is_backup_choice,
    search_identifier, listing_identifier, is_complete,
    created_by, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (id) DO UPDATE SET
    listing_identifier = CASE WHEN records.is_complete
        THEN records.listing_identifier ELSE EXCLUDED.listing_identifier END,
    is_complete = records.is_complete OR EXCLUDED.is_complete`

// Repo provides record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// UpsertRecords writes records in one batch.
func (r *Repo) UpsertRecords(ctx context.Context, records []domain.DerivationRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		parentDef, err := encodeDefinitions(rec.ParentDefinition)
		if err != nil {
			return fmt.Errorf("record %s: %w", rec.ID, err)
		}
		originDef, err := encodeDefinitions(rec.OriginDefinition)
		if err != nil {
			return fmt.Errorf("record %s: %w", rec.ID, err)
		}
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		batch.Queue(upsertSQL,
			rec.ID, rec.ParentWord, rec.ParentLanguage, parentDef,
			rec.OriginWord, rec.OriginLanguage, originDef,
			string(rec.Relationship), rec.IsPriorityChoice, rec.IsBackupChoice,
			rec.SearchIdentifier, rec.ListingIdentifier, rec.IsComplete,
			string(rec.CreatedBy), createdAt,
		)
	}

	if err := r.sendBatchExec(ctx, batch); err != nil {
		return fmt.Errorf("upsert records: %w", err)
	}
	return nil
}

// PatchRecord applies patch to the record with id.
// Returns domain.ErrNotFound if no such record exists.
func (r *Repo) PatchRecord(ctx context.Context, id string, patch domain.RecordPatch) error {
	q := psql.Update(table).Where(sq.Eq{"id": id})
	set := false
	if patch.IsComplete != nil {
		q = q.Set("is_complete", *patch.IsComplete)
		set = true
	}
	if patch.ListingIdentifier != nil {
		q = q.Set("listing_identifier", *patch.ListingIdentifier)
		set = true
	}
	if !set {
		return nil
	}

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build patch query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "record", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "record", id)
	}
	return nil
}

// RecordsBySearch returns every record written by the search, oldest first.
func (r *Repo) RecordsBySearch(ctx context.Context, searchIdentifier string) ([]domain.DerivationRecord, error) {
	return r.list(ctx, psql.Select(columns...).From(table).
		Where(sq.Eq{"search_identifier": searchIdentifier}).
		OrderBy("created_at", "id"))
}

// CompleteRecordsByListing returns the records of any search that has
// already finished walking the listing.
func (r *Repo) CompleteRecordsByListing(ctx context.Context, listingIdentifier string) ([]domain.DerivationRecord, error) {
	return r.list(ctx, psql.Select(columns...).From(table).
		Where(sq.Eq{"listing_identifier": listingIdentifier, "is_complete": true}).
		OrderBy("created_at", "id"))
}

// DeleteBySearch removes every record written by the search.
func (r *Repo) DeleteBySearch(ctx context.Context, searchIdentifier string) (int64, error) {
	query, args, err := psql.Delete(table).Where(sq.Eq{"search_identifier": searchIdentifier}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "search", searchIdentifier)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.DerivationRecord, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []domain.DerivationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range batch.Len() {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

func scanRecord(row pgx.Row) (domain.DerivationRecord, error) {
	var (
		rec                  domain.DerivationRecord
		parentDef, originDef []byte
		relationship, by     string
	)
	err := row.Scan(
		&rec.ID, &rec.ParentWord, &rec.ParentLanguage, &parentDef,
		&rec.OriginWord, &rec.OriginLanguage, &originDef,
		&relationship, &rec.IsPriorityChoice, &rec.IsBackupChoice,
		&rec.SearchIdentifier, &rec.ListingIdentifier, &rec.IsComplete,
		&by, &rec.CreatedAt,
	)
	if err != nil {
		return rec, fmt.Errorf("scan record: %w", err)
	}
	rec.Relationship = domain.Relationship(relationship)
	rec.CreatedBy = domain.RecordSource(by)

	if rec.ParentDefinition, err = decodeDefinitions(parentDef); err != nil {
		return rec, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	if rec.OriginDefinition, err = decodeDefinitions(originDef); err != nil {
		return rec, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	return rec, nil
}

func encodeDefinitions(defs []domain.DefinitionSpec) ([]byte, error) {
	if defs == nil {
		defs = []domain.DefinitionSpec{}
	}
	b, err := json.Marshal(defs)
	if err != nil {
		return nil, fmt.Errorf("encode definitions: %w", err)
	}
	return b, nil
}

func decodeDefinitions(b []byte) ([]domain.DefinitionSpec, error) {
	var defs []domain.DefinitionSpec
	if err := json.Unmarshal(b, &defs); err != nil {
		return nil, fmt.Errorf("decode definitions: %w", err)
	}
	if len(defs) == 0 {
		return nil, nil
	}
	return defs, nil
}
