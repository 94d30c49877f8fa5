package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

type listingService interface {
	Listings(ctx context.Context, word, language string, populate bool) ([]domain.WordListing, error)
}

// ListingHandler serves word lookups.
type ListingHandler struct {
	svc listingService
	log *slog.Logger
}

func NewListingHandler(svc listingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{svc: svc, log: logger.With("handler", "listings")}
}

// List returns every listing of a word, optionally with its first
// etymology claim resolved.
// GET /api/v1/listings?word=knight&language=English&populate=true
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	populate := false
	if v := q.Get("populate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "populate must be a boolean")
			return
		}
		populate = b
	}

	listings, err := h.svc.Listings(r.Context(), q.Get("word"), q.Get("language"), populate)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if listings == nil {
		listings = []domain.WordListing{}
	}
	writeJSON(w, http.StatusOK, listings)
}
