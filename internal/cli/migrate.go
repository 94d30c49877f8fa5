package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gezakerecsenyi/etymologez/internal/adapter/postgres"
	"github.com/gezakerecsenyi/etymologez/internal/app"
	"github.com/gezakerecsenyi/etymologez/internal/config"
)

// RunMigrate brings the selected store's schema up to date. SQLite is
// migrated whenever it is opened, so opening it is enough.
func RunMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := app.NewLoggerTo(cmd.ErrOrStderr(), cfg.Log)

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		if err := postgres.Migrate(cmd.Context(), cfg.Database.DSN, logger); err != nil {
			return err
		}
	default:
		stores, err := app.OpenStores(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		stores.Close()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s store migrated\n", cfg.Store.Driver)
	return nil
}
