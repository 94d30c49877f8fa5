package unroll

import (
	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

// Request is one top-level unroll.
type Request struct {
	Listing domain.WordListing
	// IncludeDescendants also walks the root's descendant sections and
	// derived-terms categories.
	IncludeDescendants bool
	// DeepDescendantSearch fully unrolls every descendant found, including
	// its own descendants.
	DeepDescendantSearch bool
}

// Validate checks all fields and collects all errors.
func (r *Request) Validate() error {
	var errs []domain.FieldError

	if r.Listing.Word == "" {
		errs = append(errs, domain.FieldError{Field: "listing.word", Message: "required"})
	}
	if r.Listing.Language == "" {
		errs = append(errs, domain.FieldError{Field: "listing.language", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SearchIdentifier keys the request's ping and records.
func (r *Request) SearchIdentifier() string {
	return domain.ListingIdentifier(&r.Listing, r.IncludeDescendants, r.DeepDescendantSearch)
}

// Result reports how a request was served.
type Result struct {
	SearchIdentifier string
	// Reused is set when a finished or still-running search already covers
	// the request and nothing was crawled.
	Reused  bool
	Records []domain.DerivationRecord
}
