// Package cli is the etymologez command line: listing lookup, one-shot
// unrolls and graph reduction against either record store.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "etymologez",
		Short: "Crawl Wiktionary etymologies into derivation records",
		Long: `etymologez reads a word's Wiktionary entries, follows their etymology
sections back through ancestor words, and stores every derivation it finds.
Stored searches can be reduced into a graph.

Configuration comes from config.yaml and the environment; --store and
--sqlite-path take precedence over both.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("store", "", "Record store: postgres|sqlite (default from config)")
	rootCmd.PersistentFlags().String("sqlite-path", "", "SQLite database file (implies --store sqlite)")

	listingsCmd := &cobra.Command{
		Use:   "listings <word>",
		Short: "List the entries Wiktionary has for a word",
		Args:  cobra.ExactArgs(1),
		RunE:  RunListings,
	}
	listingsCmd.Flags().StringP("language", "l", "", "Only entries in this language")
	listingsCmd.Flags().Bool("populate", false, "Resolve the first etymology claim of each entry")

	unrollCmd := &cobra.Command{
		Use:   "unroll <word>",
		Short: "Crawl a word's etymology and store the derivations",
		Args:  cobra.ExactArgs(1),
		RunE:  RunUnroll,
	}
	addListingFlags(unrollCmd)
	unrollCmd.Flags().Bool("json", false, "Print the records as JSON")

	graphCmd := &cobra.Command{
		Use:   "graph <word>",
		Short: "Reduce a stored search into a graph",
		Args:  cobra.ExactArgs(1),
		RunE:  RunGraph,
	}
	addListingFlags(graphCmd)
	graphCmd.Flags().Bool("unroll", false, "Run the search first")
	graphCmd.Flags().Bool("keep-false-roots", false, "Keep nodes unconnected to the word, tagged impure")
	graphCmd.Flags().Bool("group-siblings", false, "Group the children of each etymon")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations to the record store",
		Args:  cobra.NoArgs,
		RunE:  RunMigrate,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "etymologez %s\n", version)
		},
	}

	rootCmd.AddCommand(listingsCmd, unrollCmd, graphCmd, migrateCmd, versionCmd)
	return rootCmd
}

func addListingFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("language", "l", "English", "Language of the entry")
	cmd.Flags().IntP("entry", "e", 0, "Index of the entry among the word's listings")
	cmd.Flags().BoolP("descendants", "d", false, "Also walk descendant sections")
	cmd.Flags().Bool("deep", false, "Fully unroll every descendant found")
}
