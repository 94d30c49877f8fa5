package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func RunListings(cmd *cobra.Command, args []string) error {
	language, err := cmd.Flags().GetString("language")
	if err != nil {
		return fmt.Errorf("failed to read --language flag: %w", err)
	}
	populate, err := cmd.Flags().GetBool("populate")
	if err != nil {
		return fmt.Errorf("failed to read --populate flag: %w", err)
	}

	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.close()

	ctx := e.svcs.Source.Scope(cmd.Context())
	listings, err := e.svcs.Listings.Listings(ctx, args[0], strings.TrimSpace(language), populate)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), listings)
}
