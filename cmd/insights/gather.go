package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gatherCmd = &cobra.Command{
	Use:   "gather [company...]",
	Short: "Capture today's news and search results for companies",
	Long:  `Without arguments the companies listed under news.companies are gathered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		companies := args
		if len(companies) == 0 {
			companies = a.cfg.News.Companies
		}
		if len(companies) == 0 {
			return fmt.Errorf("no companies given and news.companies is empty")
		}

		for _, r := range a.gatherer.Gather(cmd.Context(), companies) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d articles, %d feed items, %d search results -> %s\n",
				r.Company, r.Articles, r.FeedHits, r.Searches, r.Dir)
		}
		return nil
	},
}
