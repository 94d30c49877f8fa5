package rest

import "net/http"

// Handlers groups every REST handler the router mounts.
type Handlers struct {
	Health   *HealthHandler
	Listings *ListingHandler
	Unroll   *UnrollHandler
	Records  *RecordHandler
	Graph    *GraphHandler
}

// NewRouter mounts the probes at the root and the API under /api/v1. api
// wraps the API routes only; probes stay unwrapped.
func NewRouter(h Handlers, api func(http.Handler) http.Handler) http.Handler {
	v1 := http.NewServeMux()
	v1.HandleFunc("GET /api/v1/listings", h.Listings.List)
	v1.HandleFunc("POST /api/v1/unroll", h.Unroll.Start)
	v1.HandleFunc("GET /api/v1/records", h.Records.List)
	v1.HandleFunc("POST /api/v1/graph", h.Graph.Reduce)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.Handle("/api/v1/", api(v1))
	return mux
}
