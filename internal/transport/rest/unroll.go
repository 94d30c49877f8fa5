package rest

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
	"github.com/gezakerecsenyi/etymologez/internal/service/unroll"
)

type unrollService interface {
	Reusable(ctx context.Context, req unroll.Request) (bool, error)
	Unroll(ctx context.Context, req unroll.Request) (unroll.Result, error)
}

// UnrollHandler starts searches in the background. Runs outlive the
// request that started them and are bound to the handler's base context
// instead.
type UnrollHandler struct {
	svc  unrollService
	log  *slog.Logger
	base context.Context
	wg   sync.WaitGroup
}

// NewUnrollHandler creates an UnrollHandler whose runs are cancelled with
// base.
func NewUnrollHandler(base context.Context, svc unrollService, logger *slog.Logger) *UnrollHandler {
	return &UnrollHandler{svc: svc, log: logger.With("handler", "unroll"), base: base}
}

type unrollRequest struct {
	Listing              domain.WordListing `json:"listing"`
	IncludeDescendants   bool               `json:"includeDescendants"`
	DeepDescendantSearch bool               `json:"deepDescendantSearch"`
}

type unrollResponse struct {
	SearchIdentifier string `json:"searchIdentifier"`
	Reused           bool   `json:"reused"`
}

// Start accepts a search and answers before it is crawled. Records appear
// under the returned search identifier as they are flushed.
// POST /api/v1/unroll
func (h *UnrollHandler) Start(w http.ResponseWriter, r *http.Request) {
	var body unrollRequest
	if !decodeBody(w, r, &body) {
		return
	}
	req := unroll.Request{
		Listing:              body.Listing,
		IncludeDescendants:   body.IncludeDescendants,
		DeepDescendantSearch: body.DeepDescendantSearch,
	}

	reused, err := h.svc.Reusable(r.Context(), req)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if !reused {
		h.run(r.Context(), req)
	}

	writeJSON(w, http.StatusAccepted, unrollResponse{
		SearchIdentifier: req.SearchIdentifier(),
		Reused:           reused,
	})
}

func (h *UnrollHandler) run(reqCtx context.Context, req unroll.Request) {
	// Keep request-scoped values such as the page loader and request id.
	ctx, cancel := context.WithCancel(context.WithoutCancel(reqCtx))
	stop := context.AfterFunc(h.base, cancel)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer cancel()
		defer stop()

		if _, err := h.svc.Unroll(ctx, req); err != nil {
			h.log.ErrorContext(ctx, "background unroll failed",
				slog.String("search", req.SearchIdentifier()),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Wait blocks until every background run has returned or ctx is done.
func (h *UnrollHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
