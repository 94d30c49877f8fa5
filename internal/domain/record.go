package domain

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"time"
)

// RecordSource names the unroller step that produced a record.
type RecordSource string

const (
	SourceParentFunction     RecordSource = "parent-function"
	SourceDescendantsSection RecordSource = "descendants-section"
	SourceCategoriesBackup   RecordSource = "categories-backup"
)

// DerivationRecord is one persisted edge: Parent derives from Origin.
type DerivationRecord struct {
	ID                string           `json:"id"`
	ParentWord        string           `json:"parentWord"`
	ParentLanguage    string           `json:"parentLanguage"`
	ParentDefinition  []DefinitionSpec `json:"parentDefinition,omitempty"`
	OriginWord        string           `json:"originWord"`
	OriginLanguage    string           `json:"originLanguage"`
	OriginDefinition  []DefinitionSpec `json:"originDefinition,omitempty"`
	Relationship      Relationship     `json:"relationship"`
	IsPriorityChoice  bool             `json:"isPriorityChoice"`
	IsBackupChoice    bool             `json:"isBackupChoice"`
	SearchIdentifier  string           `json:"searchIdentifier"`
	ListingIdentifier string           `json:"listingIdentifier,omitempty"`
	IsComplete        bool             `json:"isComplete,omitempty"`
	CreatedBy         RecordSource     `json:"createdBy"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// RecordPatch is the only mutation allowed on a stored record.
type RecordPatch struct {
	IsComplete        *bool
	ListingIdentifier *string
}

// Apply copies the set fields of p onto r.
func (p RecordPatch) Apply(r *DerivationRecord) {
	if p.IsComplete != nil {
		r.IsComplete = *p.IsComplete
	}
	if p.ListingIdentifier != nil {
		r.ListingIdentifier = *p.ListingIdentifier
	}
}

// recordHashShape fixes the field order that RecordID hashes. Changing it
// changes every id, so it is part of the storage contract.
type recordHashShape struct {
	ParentWord       string           `json:"parentWord"`
	ParentLanguage   string           `json:"parentLanguage"`
	ParentDefinition []DefinitionSpec `json:"parentDefinition"`
	OriginWord       string           `json:"originWord"`
	OriginLanguage   string           `json:"originLanguage"`
	OriginDefinition []DefinitionSpec `json:"originDefinition"`
	Relationship     Relationship     `json:"relationship"`
	IsPriorityChoice bool             `json:"isPriorityChoice"`
	IsBackupChoice   bool             `json:"isBackupChoice"`
	SearchIdentifier string           `json:"searchIdentifier"`
	CreatedBy        RecordSource     `json:"createdBy"`
}

// RecordID returns the content address of r: SHA-1 over the canonical JSON
// of its identifying fields, encoded as unpadded URL-safe base64.
// ID, ListingIdentifier, IsComplete and CreatedAt do not contribute.
func RecordID(r DerivationRecord) string {
	shape := recordHashShape{
		ParentWord:       r.ParentWord,
		ParentLanguage:   r.ParentLanguage,
		ParentDefinition: nonNilDefinitions(r.ParentDefinition),
		OriginWord:       r.OriginWord,
		OriginLanguage:   r.OriginLanguage,
		OriginDefinition: nonNilDefinitions(r.OriginDefinition),
		Relationship:     r.Relationship,
		IsPriorityChoice: r.IsPriorityChoice,
		IsBackupChoice:   r.IsBackupChoice,
		SearchIdentifier: r.SearchIdentifier,
		CreatedBy:        r.CreatedBy,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a struct of strings, bools and slices cannot fail.
	_ = enc.Encode(shape)

	sum := sha1.Sum(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func nonNilDefinitions(d []DefinitionSpec) []DefinitionSpec {
	if d == nil {
		return []DefinitionSpec{}
	}
	return d
}

// SearchPing marks liveness and completion of one search identifier.
type SearchPing struct {
	ID            string    `json:"id"`
	LastUpdatedAt time.Time `json:"lastUpdated"`
	IsFinished    bool      `json:"isFinished,omitempty"`
}

// IsFresh reports whether the ping blocks a new run: either the run finished,
// or it was touched within window of now.
func (p *SearchPing) IsFresh(now time.Time, window time.Duration) bool {
	if p == nil {
		return false
	}
	return p.IsFinished || now.Sub(p.LastUpdatedAt) < window
}
