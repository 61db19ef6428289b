package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"CompanyInsights/internal/analysis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Find analogous competitor events and analyze their stock impact",
	Long: `Ask the model for competitors that went through a similar event, date each
event, pull the price window around it and produce a narrative report.`,
	RunE: runAnalyze,
}

var (
	analyzeCompany    string
	analyzeTicker     string
	analyzeEvent      string
	analyzeTickerMode string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCompany, "company", "", "company under analysis")
	analyzeCmd.Flags().StringVar(&analyzeTicker, "ticker", "", "stock ticker of the company")
	analyzeCmd.Flags().StringVar(&analyzeEvent, "event", "", "description of the event")
	analyzeCmd.Flags().StringVar(&analyzeTickerMode, "ticker-mode", "", "price lookup ticker: target or competitor (overrides config)")
	_ = analyzeCmd.MarkFlagRequired("company")
	_ = analyzeCmd.MarkFlagRequired("ticker")
	_ = analyzeCmd.MarkFlagRequired("event")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	switch analyzeTickerMode {
	case "", analysis.TickerModeTarget, analysis.TickerModeCompetitor:
	default:
		return fmt.Errorf("invalid --ticker-mode %q", analyzeTickerMode)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	orch := a.orchestrator
	if analyzeTickerMode != "" {
		orch = orch.WithTickerMode(analyzeTickerMode)
	}

	report, err := orch.Run(cmd.Context(), analyzeCompany, analyzeEvent, analyzeTicker)
	if err != nil {
		return err
	}

	path, err := a.store.WriteReport(report)
	if err != nil {
		a.logger.Error("write report failed", zap.Error(err))
	} else {
		a.logger.Info("report written", zap.String("path", path))
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Narrative)
	return nil
}
