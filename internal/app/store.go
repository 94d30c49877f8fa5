package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gezakerecsenyi/etymologez/internal/adapter/postgres"
	"github.com/gezakerecsenyi/etymologez/internal/adapter/postgres/ping"
	"github.com/gezakerecsenyi/etymologez/internal/adapter/postgres/record"
	"github.com/gezakerecsenyi/etymologez/internal/adapter/sqlite"
	"github.com/gezakerecsenyi/etymologez/internal/config"
	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

// RecordStore is the record persistence shared by every service.
type RecordStore interface {
	UpsertRecords(ctx context.Context, records []domain.DerivationRecord) error
	PatchRecord(ctx context.Context, id string, patch domain.RecordPatch) error
	RecordsBySearch(ctx context.Context, searchIdentifier string) ([]domain.DerivationRecord, error)
	CompleteRecordsByListing(ctx context.Context, listingIdentifier string) ([]domain.DerivationRecord, error)
	DeleteBySearch(ctx context.Context, searchIdentifier string) (int64, error)
}

// PingStore is the search ping persistence.
type PingStore interface {
	GetPing(ctx context.Context, id string) (*domain.SearchPing, error)
	TouchPing(ctx context.Context, id string, at time.Time) error
	MarkFinished(ctx context.Context, id string) error
	DeletePing(ctx context.Context, id string) error
}

// TxManager runs fn in a store transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Stores is an open record store backend.
type Stores struct {
	Records RecordStore
	Pings   PingStore
	Tx      TxManager
	Ping    func(ctx context.Context) error
	Close   func()
}

// OpenStores connects to the backend selected by cfg.Store.Driver.
// Postgres is migrated when database.auto_migrate is set; sqlite always is.
func OpenStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		s, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "sqlite store opened", slog.String("path", cfg.Store.SQLitePath))
		return &Stores{
			Records: s,
			Pings:   s,
			Tx:      s,
			Ping:    s.Ping,
			Close:   func() { _ = s.Close() },
		}, nil

	case config.StoreDriverPostgres:
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "postgres store connected",
			slog.Int("max_conns", int(cfg.Database.MaxConns)),
		)
		return &Stores{
			Records: record.New(pool),
			Pings:   ping.New(pool),
			Tx:      postgres.NewTxManager(pool),
			Ping:    pool.Ping,
			Close:   pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
