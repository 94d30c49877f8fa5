package domain

import (
	"testing"
	"time"
)

func sampleRecord() DerivationRecord {
	return DerivationRecord{
		ParentWord:       "knight",
		ParentLanguage:   "English",
		ParentDefinition: []DefinitionSpec{{Text: "A warrior"}},
		OriginWord:       "cniht",
		OriginLanguage:   "Old English",
		Relationship:     RelationshipInherited,
		IsPriorityChoice: true,
		SearchIdentifier: "00_knight",
		CreatedBy:        SourceParentFunction,
	}
}

func TestRecordID_Deterministic(t *testing.T) {
	t.Parallel()

	a := sampleRecord()
	b := sampleRecord()
	if RecordID(a) != RecordID(b) {
		t.Fatal("identical records must hash to the same id")
	}
}

func TestRecordID_IgnoresMutableFields(t *testing.T) {
	t.Parallel()

	a := sampleRecord()
	b := sampleRecord()
	b.ID = "something"
	b.IsComplete = true
	b.ListingIdentifier = "00_x"
	b.CreatedAt = time.Now()
	if RecordID(a) != RecordID(b) {
		t.Fatal("completion fields must not change the id")
	}
}

func TestRecordID_NilAndEmptyDefinitionsMatch(t *testing.T) {
	t.Parallel()

	a := sampleRecord()
	b := sampleRecord()
	a.OriginDefinition = nil
	b.OriginDefinition = []DefinitionSpec{}
	if RecordID(a) != RecordID(b) {
		t.Fatal("nil and empty definitions must hash identically")
	}
}

func TestRecordID_EveryFieldMatters(t *testing.T) {
	t.Parallel()

	base := RecordID(sampleRecord())
	mutations := map[string]func(r *DerivationRecord){
		"parent word":     func(r *DerivationRecord) { r.ParentWord = "knave" },
		"parent language": func(r *DerivationRecord) { r.ParentLanguage = "Scots" },
		"parent def":      func(r *DerivationRecord) { r.ParentDefinition = []DefinitionSpec{{Text: "x"}} },
		"origin word":     func(r *DerivationRecord) { r.OriginWord = "cneht" },
		"origin language": func(r *DerivationRecord) { r.OriginLanguage = "Middle English" },
		"origin def":      func(r *DerivationRecord) { r.OriginDefinition = []DefinitionSpec{{Text: "boy"}} },
		"relationship":    func(r *DerivationRecord) { r.Relationship = RelationshipBorrowed },
		"priority":        func(r *DerivationRecord) { r.IsPriorityChoice = false },
		"backup":          func(r *DerivationRecord) { r.IsBackupChoice = true },
		"search id":       func(r *DerivationRecord) { r.SearchIdentifier = "10_knight" },
		"created by":      func(r *DerivationRecord) { r.CreatedBy = SourceDescendantsSection },
	}
	for name, mutate := range mutations {
		r := sampleRecord()
		mutate(&r)
		if RecordID(r) == base {
			t.Errorf("%s: id did not change", name)
		}
	}
}

func TestRecordID_Encoding(t *testing.T) {
	t.Parallel()

	id := RecordID(sampleRecord())
	// 20-byte SHA-1, unpadded base64.
	if len(id) != 27 {
		t.Fatalf("id length = %d, want 27 (%q)", len(id), id)
	}
	for _, r := range id {
		if r == '+' || r == '/' || r == '=' {
			t.Fatalf("id %q is not URL-safe", id)
		}
	}
}

func TestRecordPatch_Apply(t *testing.T) {
	t.Parallel()

	complete := true
	ident := "00_knight"
	r := sampleRecord()
	RecordPatch{IsComplete: &complete, ListingIdentifier: &ident}.Apply(&r)

	if !r.IsComplete || r.ListingIdentifier != ident {
		t.Fatalf("patch not applied: %+v", r)
	}

	RecordPatch{}.Apply(&r)
	if !r.IsComplete {
		t.Fatal("empty patch must not reset fields")
	}
}

func TestSearchPing_IsFresh(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	window := 2 * time.Minute

	var missing *SearchPing
	if missing.IsFresh(now, window) {
		t.Error("nil ping must not be fresh")
	}
	if !(&SearchPing{LastUpdatedAt: now.Add(-time.Minute)}).IsFresh(now, window) {
		t.Error("recent ping must be fresh")
	}
	if (&SearchPing{LastUpdatedAt: now.Add(-3 * time.Minute)}).IsFresh(now, window) {
		t.Error("stale ping must not be fresh")
	}
	if !(&SearchPing{LastUpdatedAt: now.Add(-time.Hour), IsFinished: true}).IsFresh(now, window) {
		t.Error("finished ping must block regardless of age")
	}
}
