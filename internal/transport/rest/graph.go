package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
	"github.com/gezakerecsenyi/etymologez/internal/service/graph"
)

type graphService interface {
	Graph(ctx context.Context, req graph.Request) (*graph.Graph, error)
}

// GraphHandler serves reduced graphs of stored searches.
type GraphHandler struct {
	svc graphService
	log *slog.Logger
}

func NewGraphHandler(svc graphService, logger *slog.Logger) *GraphHandler {
	return &GraphHandler{svc: svc, log: logger.With("handler", "graph")}
}

type graphRequest struct {
	Listing              domain.WordListing `json:"listing"`
	IncludeDescendants   bool               `json:"includeDescendants"`
	DeepDescendantSearch bool               `json:"deepDescendantSearch"`
	KeepFalseRoots       bool               `json:"keepFalseRoots"`
	GroupSiblings        bool               `json:"groupSiblings"`
}

// Reduce returns the graph of whatever the search has stored so far.
// POST /api/v1/graph
func (h *GraphHandler) Reduce(w http.ResponseWriter, r *http.Request) {
	var body graphRequest
	if !decodeBody(w, r, &body) {
		return
	}

	g, err := h.svc.Graph(r.Context(), graph.Request{
		Listing:              body.Listing,
		IncludeDescendants:   body.IncludeDescendants,
		DeepDescendantSearch: body.DeepDescendantSearch,
		Options: graph.Options{
			KeepFalseRoots: body.KeepFalseRoots,
			GroupSiblings:  body.GroupSiblings,
		},
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
