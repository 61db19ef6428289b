// Package analysis runs the analogous-event pipeline: discover competitor
// events, date them, pull the surrounding price window and ask the model for
// a narrative.
package analysis

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"CompanyInsights/internal/collector"
	"CompanyInsights/internal/config"
	"CompanyInsights/internal/extractor"
	"CompanyInsights/internal/llm"
	"CompanyInsights/internal/model"
	"CompanyInsights/internal/recorder"
	"CompanyInsights/internal/resolver"
)

const (
	TickerModeTarget     = "target"
	TickerModeCompetitor = "competitor"
)

var tickerPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// Orchestrator drives one analysis run at a time. It holds no per-run state.
type Orchestrator struct {
	model     llm.Model
	resolver  *resolver.Resolver
	collector *collector.Collector
	recorder  recorder.Recorder
	cfg       config.Analysis
	tickers   map[string]string // normalized competitor name -> ticker
	logger    *zap.Logger
}

// NewOrchestrator wires the pipeline. rec may be nil.
func NewOrchestrator(m llm.Model, c *collector.Collector, rec recorder.Recorder, cfg config.Analysis, logger *zap.Logger) *Orchestrator {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if cfg.MaxCompetitors <= 0 {
		cfg.MaxCompetitors = 3
	}
	if cfg.TickerMode == "" {
		cfg.TickerMode = TickerModeTarget
	}
	return &Orchestrator{
		model:     m,
		resolver:  resolver.New(m, logger),
		collector: c,
		recorder:  rec,
		cfg:       cfg,
		tickers:   normalizeTickerMap(cfg.Tickers),
		logger:    logger,
	}
}

// WithTickerMode returns a copy of o using mode for price lookups.
func (o *Orchestrator) WithTickerMode(mode string) *Orchestrator {
	cp := *o
	cp.cfg.TickerMode = mode
	return &cp
}

// Run executes discover, resolve, fetch, analyze and synthesize for one event.
// Only model failures in discover or synthesize abort the run.
func (o *Orchestrator) Run(ctx context.Context, company, event, ticker string) (*model.AnalysisReport, error) {
	log := o.logger.With(zap.String("company", company), zap.String("ticker", ticker))
	log.Info("analysis started", zap.String("event", event), zap.String("ticker_mode", o.cfg.TickerMode))

	resp, err := o.model.Invoke(ctx, discoverPrompt(event, o.cfg.MaxCompetitors))
	if err != nil {
		return nil, fmt.Errorf("discover analogs: %w", err)
	}
	candidates := extractor.Extract(resp.Content)
	if len(candidates) == 0 {
		log.Warn("no competitor events extracted from model output")
	}

	analogs := make([]model.AnalogEvent, len(candidates))
	for i, c := range candidates {
		analogs[i] = model.AnalogEvent{
			Competitor: c.Competitor,
			Reasoning:  c.Reasoning,
			EventDate:  o.resolver.Resolve(ctx, resolveQuery(c)),
		}
		log.Info("analog resolved",
			zap.String("competitor", c.Competitor),
			zap.Stringp("event_date", analogs[i].EventDate))
	}

	for i := range analogs {
		o.processAnalog(ctx, &analogs[i], ticker)
	}

	resp, err = o.model.Invoke(ctx, synthesisPrompt(company, event, analogs))
	if err != nil {
		return nil, fmt.Errorf("synthesize report: %w", err)
	}

	report := &model.AnalysisReport{
		RunID:     uuid.NewString(),
		Company:   company,
		Event:     event,
		Ticker:    ticker,
		Narrative: resp.Content,
		Analogs:   analogs,
		CreatedAt: time.Now().UTC(),
	}
	if err := o.recorder.RecordAnalysis(report); err != nil {
		log.Warn("record analysis failed", zap.Error(err))
	}
	log.Info("analysis completed", zap.String("run_id", report.RunID), zap.Int("analogs", len(analogs)))
	return report, nil
}

// processAnalog attaches stock data to a single analog. It never fails; any
// problem ends up as a no-data status on the record.
func (o *Orchestrator) processAnalog(ctx context.Context, a *model.AnalogEvent, target string) {
	a.Ticker = o.lookupTicker(ctx, a.Competitor, target)
	a.StockData = o.collector.Collect(ctx, a.Ticker, a.EventDate)
	if !a.StockData.HasData() {
		o.logger.Info("analog has no price data",
			zap.String("competitor", a.Competitor),
			zap.String("status", string(a.StockData.Status)),
			zap.String("reason", a.StockData.Reason))
	}
}

func (o *Orchestrator) lookupTicker(ctx context.Context, competitor, target string) string {
	if o.cfg.TickerMode != TickerModeCompetitor {
		return target
	}
	if t, ok := o.tickers[tickerKey(competitor)]; ok {
		return t
	}

	resp, err := o.model.Invoke(ctx, tickerPrompt(competitor))
	if err != nil {
		o.logger.Warn("ticker lookup failed", zap.String("competitor", competitor), zap.Error(err))
		return ""
	}
	return normalizeTicker(resp.Content)
}

func tickerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// normalizeTickerMap keys the configured tickers by normalized name. When
// several names collapse to one key the alphabetically first spelling wins.
func normalizeTickerMap(in map[string]string) map[string]string {
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]string, len(in))
	for _, name := range names {
		key := tickerKey(name)
		if _, seen := out[key]; seen || key == "" {
			continue
		}
		out[key] = strings.ToUpper(strings.TrimSpace(in[name]))
	}
	return out
}

func normalizeTicker(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	s = strings.ToUpper(strings.Trim(s, " \t\"'`.$"))
	if s == "NONE" || !tickerPattern.MatchString(s) {
		return ""
	}
	return s
}
