package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"CompanyInsights/internal/model"
)

var summarizeDate string

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize the material gathered for a date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if summarizeDate != "" {
			if _, err := time.Parse(model.DateLayout, summarizeDate); err != nil {
				return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", summarizeDate)
			}
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		date := summarizeDate
		if date == "" {
			date = a.store.Today()
		}
		sums, err := a.summarizer.SummarizeDate(cmd.Context(), date)
		if err != nil {
			return err
		}
		for _, s := range sums {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", s.Company, s.Path)
		}
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeDate, "date", "", "date folder to summarize, YYYY-MM-DD (default today)")
}
