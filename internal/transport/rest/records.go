package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

type recordReader interface {
	RecordsBySearch(ctx context.Context, searchIdentifier string) ([]domain.DerivationRecord, error)
}

// RecordHandler serves the records a search has flushed so far.
type RecordHandler struct {
	records recordReader
	log     *slog.Logger
}

func NewRecordHandler(records recordReader, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{records: records, log: logger.With("handler", "records")}
}

// List returns the stored records of a search.
// GET /api/v1/records?search=<searchIdentifier>
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	if search == "" {
		handleError(h.log, w, r, domain.NewValidationError("search", "required"))
		return
	}

	records, err := h.records.RecordsBySearch(r.Context(), search)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if records == nil {
		records = []domain.DerivationRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
