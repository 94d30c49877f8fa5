package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gezakerecsenyi/etymologez/internal/app"
	"github.com/gezakerecsenyi/etymologez/internal/config"
	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

// env is what a command runs against.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	stores *app.Stores
	svcs   *app.Services
}

func (e *env) close() {
	if e.stores != nil {
		e.stores.Close()
	}
}

// loadConfig reads configuration with the persistent store flags applied.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	store, err := cmd.Flags().GetString("store")
	if err != nil {
		return nil, fmt.Errorf("failed to read --store flag: %w", err)
	}
	path, err := cmd.Flags().GetString("sqlite-path")
	if err != nil {
		return nil, fmt.Errorf("failed to read --sqlite-path flag: %w", err)
	}
	store = strings.ToLower(strings.TrimSpace(store))
	path = strings.TrimSpace(path)

	return config.LoadWith(func(c *config.Config) {
		if path != "" {
			c.Store.Driver = config.StoreDriverSQLite
			c.Store.SQLitePath = path
		}
		if store != "" {
			c.Store.Driver = store
		}
	})
}

// openEnv loads configuration and opens the store and, with services,
// the crawler.
func openEnv(cmd *cobra.Command, services bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := app.NewLoggerTo(cmd.ErrOrStderr(), cfg.Log)

	stores, err := app.OpenStores(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: logger, stores: stores}
	if services {
		e.svcs = app.NewServices(cfg, stores, logger)
	}
	return e, nil
}

type listingFlags struct {
	Language    string
	Entry       int
	Descendants bool
	Deep        bool
}

func readListingFlags(cmd *cobra.Command) (listingFlags, error) {
	var f listingFlags
	var err error
	if f.Language, err = cmd.Flags().GetString("language"); err != nil {
		return f, fmt.Errorf("failed to read --language flag: %w", err)
	}
	if f.Entry, err = cmd.Flags().GetInt("entry"); err != nil {
		return f, fmt.Errorf("failed to read --entry flag: %w", err)
	}
	if f.Descendants, err = cmd.Flags().GetBool("descendants"); err != nil {
		return f, fmt.Errorf("failed to read --descendants flag: %w", err)
	}
	if f.Deep, err = cmd.Flags().GetBool("deep"); err != nil {
		return f, fmt.Errorf("failed to read --deep flag: %w", err)
	}
	f.Language = strings.TrimSpace(f.Language)
	return f, nil
}

type listingLister interface {
	Listings(ctx context.Context, word, language string, populate bool) ([]domain.WordListing, error)
}

// pickListing returns entry index of word's listings in language.
func pickListing(ctx context.Context, svc listingLister, word string, f listingFlags) (domain.WordListing, error) {
	listings, err := svc.Listings(ctx, word, f.Language, false)
	if err != nil {
		return domain.WordListing{}, err
	}
	if len(listings) == 0 {
		return domain.WordListing{}, fmt.Errorf("no %s entries for %q", f.Language, word)
	}
	if f.Entry < 0 || f.Entry >= len(listings) {
		return domain.WordListing{}, fmt.Errorf("entry %d out of range: %q has %d %s entries", f.Entry, word, len(listings), f.Language)
	}
	return listings[f.Entry], nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
