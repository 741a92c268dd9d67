package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSearchCmd(v *viper.Viper) *cobra.Command {
	var collection string
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Print priced matches for a query",
		Long: `Search prints the items matching the query, best match first, with their
final prices. Without --collection every collection is searched. An empty
query lists every item in catalog order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer s.Close()

			collections := s.Collections()
			if collection != "" {
				collections = []string{collection}
			}
			query := strings.Join(args, " ")

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLLECTION\tNAME\tPRICE\tSCORE")
			for _, name := range collections {
				matches, err := s.Render(name, query)
				if err != nil {
					return err
				}
				if limit > 0 && len(matches) > limit {
					matches = matches[:limit]
				}
				for _, m := range matches {
					fmt.Fprintf(tw, "%s\t%s\t$%s\t%.1f\n", name, m.Name, m.FinalPrice.StringFixed(0), m.Score)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&collection, "collection", "c", "", "search only this collection")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum matches per collection (0 for all)")
	return cmd
}
