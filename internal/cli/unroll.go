package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gezakerecsenyi/etymologez/internal/service/unroll"
)

func RunUnroll(cmd *cobra.Command, args []string) error {
	f, err := readListingFlags(cmd)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.close()

	res, err := runUnroll(cmd, e, args[0], f)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), res.Records)
	}
	printUnrollSummary(cmd.OutOrStdout(), res)
	return nil
}

func runUnroll(cmd *cobra.Command, e *env, word string, f listingFlags) (unroll.Result, error) {
	ctx := e.svcs.Source.Scope(cmd.Context())
	listing, err := pickListing(ctx, e.svcs.Listings, word, f)
	if err != nil {
		return unroll.Result{}, err
	}
	return e.svcs.Unroll.Unroll(ctx, unroll.Request{
		Listing:              listing,
		IncludeDescendants:   f.Descendants,
		DeepDescendantSearch: f.Deep,
	})
}

func printUnrollSummary(w io.Writer, res unroll.Result) {
	if res.Reused {
		fmt.Fprintf(w, "search %s: reused stored records\n", res.SearchIdentifier)
		return
	}
	fmt.Fprintf(w, "search %s: %d records\n", res.SearchIdentifier, len(res.Records))
	for _, r := range res.Records {
		fmt.Fprintf(w, "  %s (%s) <- %s (%s) [%s]\n",
			r.ParentWord, r.ParentLanguage, r.OriginWord, r.OriginLanguage, r.Relationship)
	}
}
