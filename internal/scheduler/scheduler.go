package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"CompanyInsights/internal/analysis"
	"CompanyInsights/internal/model"
	"CompanyInsights/internal/news"
	"CompanyInsights/internal/notifier"
	"CompanyInsights/internal/store"
	"CompanyInsights/internal/summarizer"
)

// Scheduler manages the cron tasks and chat commands. Jobs never overlap.
type Scheduler struct {
	Cron         *cron.Cron
	Gatherer     *news.Gatherer
	Summarizer   *summarizer.Summarizer
	Orchestrator *analysis.Orchestrator
	Store        *store.Store
	Notifier     notifier.Sender // nil disables delivery
	Companies    []string
	Ctx          context.Context

	mu     sync.Mutex
	logger *zap.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, g *news.Gatherer, sum *summarizer.Summarizer, orch *analysis.Orchestrator,
	st *store.Store, sender notifier.Sender, companies []string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Gatherer:     g,
		Summarizer:   sum,
		Orchestrator: orch,
		Store:        st,
		Notifier:     sender,
		Companies:    companies,
		Ctx:          ctx,
		logger:       logger,
	}
}

// RegisterAll registers the daily gather and summarize tasks.
func (s *Scheduler) RegisterAll(gatherCron, summarizeCron string) error {
	if _, err := s.Cron.AddFunc(gatherCron, func() { s.RunGather(nil) }); err != nil {
		return fmt.Errorf("register gather task: %w", err)
	}
	if _, err := s.Cron.AddFunc(summarizeCron, func() { s.RunSummarize("") }); err != nil {
		return fmt.Errorf("register summarize task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunGather gathers news for companies, or for the configured list when
// companies is empty.
func (s *Scheduler) RunGather(companies []string) []news.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(companies) == 0 {
		companies = s.Companies
	}
	s.logger.Info("running gather task", zap.Strings("companies", companies))
	results := s.Gatherer.Gather(s.Ctx, companies)

	lines := make([]notifier.GatherLine, len(results))
	for i, r := range results {
		lines[i] = notifier.GatherLine{Company: r.Company, Articles: r.Articles, Searches: r.Searches, FeedHits: r.FeedHits}
	}
	s.trySend(notifier.FormatGather(s.Store.Today(), lines))
	return results
}

// RunSummarize summarizes the folders of date, or of today when date is empty.
func (s *Scheduler) RunSummarize(date string) []summarizer.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if date == "" {
		date = s.Store.Today()
	}
	s.logger.Info("running summarize task", zap.String("date", date))
	sums, err := s.Summarizer.SummarizeDate(s.Ctx, date)
	if err != nil {
		s.logger.Error("summarize task failed", zap.Error(err))
		s.trySend(notifier.FormatError("summarize", err))
		return sums
	}
	for _, sum := range sums {
		s.trySend(notifier.FormatSummary(sum.Company, date, sum.Text))
	}
	return sums
}

// RunAnalysis runs one analysis and writes its report files.
func (s *Scheduler) RunAnalysis(company, ticker, event string) (*model.AnalysisReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.Orchestrator.Run(s.Ctx, company, event, ticker)
	if err != nil {
		s.trySend(notifier.FormatError("analysis of "+company, err))
		return nil, err
	}
	if path, err := s.Store.WriteReport(report); err != nil {
		s.logger.Error("write report failed", zap.Error(err))
	} else {
		s.logger.Info("report written", zap.String("path", path))
	}
	s.trySend(notifier.FormatReport(report))
	return report, nil
}

// HandleCommand processes a chat command and returns a reply. Task output is
// delivered through the notifier, so task commands reply with nothing.
func (s *Scheduler) HandleCommand(command string) string {
	name, args, _ := strings.Cut(strings.TrimSpace(command), " ")
	args = strings.TrimSpace(args)

	switch name {
	case "/gather":
		s.RunGather(parseCompanies(args))
		return ""
	case "/summarize":
		if args != "" {
			if _, err := time.Parse(model.DateLayout, args); err != nil {
				return "Usage: /summarize [YYYY-MM-DD]"
			}
		}
		s.RunSummarize(args)
		return ""
	case "/analyze":
		company, ticker, event, ok := ParseAnalyze(args)
		if !ok {
			return "Usage: /analyze company|ticker|event description"
		}
		_, _ = s.RunAnalysis(company, ticker, event)
		return ""
	default:
		return notifier.FormatHelp()
	}
}

// ParseAnalyze splits "company|ticker|event" into its parts.
func ParseAnalyze(args string) (company, ticker, event string, ok bool) {
	parts := strings.SplitN(args, "|", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	company = strings.TrimSpace(parts[0])
	ticker = strings.ToUpper(strings.TrimSpace(parts[1]))
	event = strings.TrimSpace(parts[2])
	if company == "" || ticker == "" || event == "" {
		return "", "", "", false
	}
	return company, ticker, event, true
}

// parseCompanies splits on commas when present so names may contain spaces,
// otherwise on whitespace.
func parseCompanies(args string) []string {
	if !strings.Contains(args, ",") {
		return strings.Fields(args)
	}
	var out []string
	for _, p := range strings.Split(args, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.logger.Error("send notification failed", zap.Error(err))
	}
}
