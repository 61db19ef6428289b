package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"CompanyInsights/internal/scheduler"
)

var runOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daily gather and summarize schedule and answer chat commands",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "gather and summarize once at startup")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.NewScheduler(ctx, a.gatherer, a.summarizer, a.orchestrator, a.store,
		a.sender(), a.cfg.News.Companies, a.logger)
	if err := sched.RegisterAll(a.cfg.Schedule.GatherCron, a.cfg.Schedule.SummarizeCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if a.telegram != nil {
		go a.telegram.StartPolling(ctx, sched.HandleCommand)
		a.logger.Info("telegram polling started")
	}

	if runOnStart {
		a.logger.Info("run-on-start enabled, executing gather and summarize now")
		go func() {
			sched.RunGather(nil)
			sched.RunSummarize("")
		}()
	}

	a.logger.Info("insights is running, press Ctrl+C to stop",
		zap.Strings("companies", a.cfg.News.Companies),
		zap.String("gather_cron", a.cfg.Schedule.GatherCron),
		zap.String("summarize_cron", a.cfg.Schedule.SummarizeCron))

	<-ctx.Done()
	a.logger.Info("shutdown signal received, stopping")
	return nil
}
