package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

// UniqueSearch returns a search identifier no other test uses.
func UniqueSearch() string {
	return "test-" + uuid.New().String()[:8] + ":English"
}

// NewRecord builds an inherited parent-function record for search with its
// id already computed.
func NewRecord(search, parent, origin string) domain.DerivationRecord {
	r := domain.DerivationRecord{
		ParentWord:       parent,
		ParentLanguage:   "English",
		ParentDefinition: []domain.DefinitionSpec{{Text: "a " + parent}},
		OriginWord:       origin,
		OriginLanguage:   "Middle English",
		Relationship:     domain.RelationshipInherited,
		IsPriorityChoice: true,
		SearchIdentifier: search,
		CreatedBy:        domain.SourceParentFunction,
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
	r.ID = domain.RecordID(r)
	return r
}

// CountRecords returns the number of stored records for search.
func CountRecords(t *testing.T, pool *pgxpool.Pool, search string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM records WHERE search_identifier = $1`, search,
	).Scan(&n)
	if err != nil {
		t.Fatalf("testhelper: CountRecords: %v", err)
	}
	return n
}
