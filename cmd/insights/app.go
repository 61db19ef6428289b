package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"CompanyInsights/internal/analysis"
	"CompanyInsights/internal/collector"
	"CompanyInsights/internal/config"
	"CompanyInsights/internal/llm"
	"CompanyInsights/internal/news"
	"CompanyInsights/internal/notifier"
	"CompanyInsights/internal/recorder"
	"CompanyInsights/internal/scraper"
	"CompanyInsights/internal/store"
	"CompanyInsights/internal/summarizer"
)

// app holds the wired components shared by every command.
type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	store        *store.Store
	recorder     recorder.Recorder
	orchestrator *analysis.Orchestrator
	gatherer     *news.Gatherer
	summarizer   *summarizer.Summarizer
	telegram     *notifier.TelegramNotifier // nil when not configured
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	model, err := llm.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init model: %w", err)
	}
	fetcher, err := collector.NewFetcher(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init price provider: %w", err)
	}
	logger.Info("components ready",
		zap.String("model", model.Name()),
		zap.String("prices", fetcher.Name()))

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			rec = sr
		}
	}

	st := store.New(cfg.Storage.DataDir, cfg.Storage.ReportsDir)
	col := collector.NewCollector(fetcher, cfg.Analysis.DaysBefore, cfg.Analysis.DaysAfter, logger)

	a := &app{
		cfg:          cfg,
		logger:       logger,
		store:        st,
		recorder:     rec,
		orchestrator: analysis.NewOrchestrator(model, col, rec, cfg.Analysis, logger),
		gatherer:     newGatherer(cfg, st, logger),
		summarizer:   summarizer.New(model, st, rec, logger),
	}
	if cfg.TelegramEnabled() {
		a.telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
	}
	return a, nil
}

func newGatherer(cfg *config.Config, st *store.Store, logger *zap.Logger) *news.Gatherer {
	n := cfg.News
	var newsProvider, feeds news.Provider
	var search news.Searcher
	if n.NewsAPIKey != "" {
		newsProvider = news.NewNewsAPI(n.NewsAPIKey, n.Days, n.MaxResults, n.Domains, n.RateLimit, logger)
	} else {
		logger.Warn("NEWS_API_KEY not set, skipping NewsAPI")
	}
	if len(n.Feeds) > 0 {
		feeds = news.NewFeedProvider(n.Feeds, n.Days, logger)
	}
	if n.TavilyKey != "" {
		search = news.NewTavily(n.TavilyKey, n.MaxResults, n.RateLimit, logger)
	} else {
		logger.Warn("TAVILY_API_KEY not set, skipping web search")
	}
	return news.NewGatherer(newsProvider, feeds, search, scraper.New(cfg, logger), st, n.Days, logger)
}

// sender returns the notifier as a Sender, or nil when Telegram is off.
func (a *app) sender() notifier.Sender {
	if a.telegram == nil {
		return nil
	}
	return a.telegram
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.logger.Warn("close recorder", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	var zc zap.Config
	if format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = lvl
	return zc.Build()
}
