package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/vows/internal/catalog"
	"github.com/jsamuelsen/vows/internal/domain"
)

var quotesFlags struct {
	author   string
	category string
}

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "List the bundled philosopher quotes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printQuotes(cmd.OutOrStdout(), catalog.Filter(quotesFlags.author, quotesFlags.category))
	},
}

func init() {
	quotesCmd.Flags().StringVar(&quotesFlags.author, "author", catalog.FilterAll, "only quotes by this author")
	quotesCmd.Flags().StringVar(&quotesFlags.category, "category", catalog.FilterAll, "only quotes in this category")

	rootCmd.AddCommand(quotesCmd)
}

func printQuotes(w io.Writer, quotes []domain.Quote) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tAUTHOR\tCATEGORY\tQUOTE")

	for _, q := range quotes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", q.ID, q.Author, q.Category, q.Text)
	}

	return tw.Flush()
}
