package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

var recordColumns = []string{
	"id", "parent_word", "parent_language", "parent_definition",
	"origin_word", "origin_language", "origin_definition",
	"relationship", "is_priority_choice", "is_backup_choice",
	"search_identifier", "listing_identifier", "is_complete",
	"created_by", "created_at",
}

const upsertRecordSQL = `
INSERT INTO records (
    id, parent_word, parent_language, parent_definition,
    origin_word, origin_language, origin_definition,
    relationship, is_priority_choice, is_backup_choice,
    search_identifier, listing_identifier, is_complete,
    created_by, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    listing_identifier = CASE WHEN records.is_complete
        THEN records.listing_identifier ELSE excluded.listing_identifier END,
    is_complete = records.is_complete OR excluded.is_complete`

// UpsertRecords writes records in one transaction, or in the caller's
// transaction when ctx carries one.
func (s *Store) UpsertRecords(ctx context.Context, records []domain.DerivationRecord) error {
	if len(records) == 0 {
		return nil
	}
	if !inTx(ctx) {
		return s.RunInTx(ctx, func(ctx context.Context) error {
			return s.UpsertRecords(ctx, records)
		})
	}

	q := s.querier(ctx)
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
			createdAt = time.Now()
		}

		_, err = q.ExecContext(ctx, upsertRecordSQL,
			rec.ID, rec.ParentWord, rec.ParentLanguage, parentDef,
			rec.OriginWord, rec.OriginLanguage, originDef,
			string(rec.Relationship), rec.IsPriorityChoice, rec.IsBackupChoice,
			rec.SearchIdentifier, rec.ListingIdentifier, rec.IsComplete,
			string(rec.CreatedBy), createdAt.UTC(),
		)
		if err != nil {
			return mapError(err, "record", rec.ID)
		}
	}
	return nil
}

// PatchRecord applies patch to the record with id.
// Returns domain.ErrNotFound if no such record exists.
func (s *Store) PatchRecord(ctx context.Context, id string, patch domain.RecordPatch) error {
	b := sq.Update("records").Where(sq.Eq{"id": id})
	set := false
	if patch.IsComplete != nil {
		b = b.Set("is_complete", *patch.IsComplete)
		set = true
	}
	if patch.ListingIdentifier != nil {
		b = b.Set("listing_identifier", *patch.ListingIdentifier)
		set = true
	}
	if !set {
		return nil
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build patch query: %w", err)
	}
	res, err := s.querier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "record", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// RecordsBySearch returns every record written by the search, oldest first.
func (s *Store) RecordsBySearch(ctx context.Context, searchIdentifier string) ([]domain.DerivationRecord, error) {
	return s.listRecords(ctx, sq.Select(recordColumns...).From("records").
		Where(sq.Eq{"search_identifier": searchIdentifier}).
		OrderBy("created_at", "id"))
}

// CompleteRecordsByListing returns the records of any search that has
// already finished walking the listing.
func (s *Store) CompleteRecordsByListing(ctx context.Context, listingIdentifier string) ([]domain.DerivationRecord, error) {
	return s.listRecords(ctx, sq.Select(recordColumns...).From("records").
		Where(sq.Eq{"listing_identifier": listingIdentifier, "is_complete": true}).
		OrderBy("created_at", "id"))
}

// DeleteBySearch removes every record written by the search.
func (s *Store) DeleteBySearch(ctx context.Context, searchIdentifier string) (int64, error) {
	query, args, err := sq.Delete("records").Where(sq.Eq{"search_identifier": searchIdentifier}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}
	res, err := s.querier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(err, "search", searchIdentifier)
	}
	return res.RowsAffected()
}

func (s *Store) listRecords(ctx context.Context, b sq.SelectBuilder) ([]domain.DerivationRecord, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := s.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []domain.DerivationRecord
	for rows.Next() {
		var (
			rec                  domain.DerivationRecord
			parentDef, originDef string
			relationship, by     string
		)
		err := rows.Scan(
			&rec.ID, &rec.ParentWord, &rec.ParentLanguage, &parentDef,
			&rec.OriginWord, &rec.OriginLanguage, &originDef,
			&relationship, &rec.IsPriorityChoice, &rec.IsBackupChoice,
			&rec.SearchIdentifier, &rec.ListingIdentifier, &rec.IsComplete,
			&by, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Relationship = domain.Relationship(relationship)
		rec.CreatedBy = domain.RecordSource(by)
		if rec.ParentDefinition, err = decodeDefinitions(parentDef); err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		if rec.OriginDefinition, err = decodeDefinitions(originDef); err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func encodeDefinitions(defs []domain.DefinitionSpec) (string, error) {
	if defs == nil {
		defs = []domain.DefinitionSpec{}
	}
	b, err := json.Marshal(defs)
	if err != nil {
		return "", fmt.Errorf("encode definitions: %w", err)
	}
	return string(b), nil
}

func decodeDefinitions(s string) ([]domain.DefinitionSpec, error) {
	var defs []domain.DefinitionSpec
	if err := json.Unmarshal([]byte(s), &defs); err != nil {
		return nil, fmt.Errorf("decode definitions: %w", err)
	}
	if len(defs) == 0 {
		return nil, nil
	}
	return defs, nil
}
