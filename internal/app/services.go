package app

import (
	"log/slog"

	"github.com/gezakerecsenyi/etymologez/internal/adapter/provider/wiktionary"
	"github.com/gezakerecsenyi/etymologez/internal/config"
	"github.com/gezakerecsenyi/etymologez/internal/service/graph"
	"github.com/gezakerecsenyi/etymologez/internal/service/listing"
	"github.com/gezakerecsenyi/etymologez/internal/service/unroll"
)

// Services is the wired service layer.
type Services struct {
	Source   *wiktionary.Source
	Listings *listing.Service
	Unroll   *unroll.Service
	Graph    *graph.Service
}

// NewServices wires the services over stores and the configured wiki.
func NewServices(cfg *config.Config, stores *Stores, logger *slog.Logger) *Services {
	client := wiktionary.NewClient(cfg.Wiktionary, logger)
	source := wiktionary.NewSource(client, cfg.Wiktionary)
	listings := listing.NewService(logger, source, cfg.Wiktionary.Concurrency)

	return &Services{
		Source:   source,
		Listings: listings,
		Unroll:   unroll.NewService(logger, listings, source, stores.Records, stores.Pings, stores.Tx, cfg.Unroll),
		Graph:    graph.NewService(logger, stores.Records),
	}
}
