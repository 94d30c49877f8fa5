package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gezakerecsenyi/etymologez/internal/service/graph"
)

func RunGraph(cmd *cobra.Command, args []string) error {
	f, err := readListingFlags(cmd)
	if err != nil {
		return err
	}
	var opts graph.Options
	if opts.KeepFalseRoots, err = cmd.Flags().GetBool("keep-false-roots"); err != nil {
		return fmt.Errorf("failed to read --keep-false-roots flag: %w", err)
	}
	if opts.GroupSiblings, err = cmd.Flags().GetBool("group-siblings"); err != nil {
		return fmt.Errorf("failed to read --group-siblings flag: %w", err)
	}
	first, err := cmd.Flags().GetBool("unroll")
	if err != nil {
		return fmt.Errorf("failed to read --unroll flag: %w", err)
	}

	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.close()

	if first {
		if _, err := runUnroll(cmd, e, args[0], f); err != nil {
			return err
		}
	}

	ctx := e.svcs.Source.Scope(cmd.Context())
	listing, err := pickListing(ctx, e.svcs.Listings, args[0], f)
	if err != nil {
		return err
	}
	g, err := e.svcs.Graph.Graph(ctx, graph.Request{
		Listing:              listing,
		IncludeDescendants:   f.Descendants,
		DeepDescendantSearch: f.Deep,
		Options:              opts,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), g)
}
