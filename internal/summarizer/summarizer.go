// Package summarizer condenses a day's gathered material into one summary per
// company.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"CompanyInsights/internal/llm"
	"CompanyInsights/internal/recorder"
	"CompanyInsights/internal/store"
)

const promptTemplate = `Extract the essential one-liners summarizing key events in the business news.
Then, analyze the overall sentiment, financial tone, and any unique insights that a human might not recognize immediately.

Here is the news data:
%s

Provide:
1. Essential one-liners for what happened.
2. Sentiment analysis (positive/negative/neutral).
3. Any unique or hidden insights.`

// Summary is the outcome for one company.
type Summary struct {
	Company string
	Path    string
	Text    string
	Sources int
}

// Summarizer asks the model for a summary of each company folder.
type Summarizer struct {
	model    llm.Model
	store    *store.Store
	recorder recorder.Recorder
	logger   *zap.Logger
}

// New creates a Summarizer. rec may be nil.
func New(m llm.Model, st *store.Store, rec recorder.Recorder, logger *zap.Logger) *Summarizer {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Summarizer{model: m, store: st, recorder: rec, logger: logger}
}

// Prompt builds the summary request for the given texts.
func Prompt(texts []string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(texts, "\n\n"))
}

// SummarizeDate summarizes every company folder of date. Companies without
// text files are skipped; a model failure for one company is logged and the
// rest continue.
func (s *Summarizer) SummarizeDate(ctx context.Context, date string) ([]Summary, error) {
	companies, err := s.store.ListCompanies(date)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		s.logger.Info("nothing to summarize", zap.String("date", date))
		return nil, nil
	}

	var out []Summary
	for _, company := range companies {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		sum, err := s.SummarizeCompany(ctx, date, company)
		if err != nil {
			s.logger.Error("summary failed", zap.String("company", company), zap.Error(err))
			continue
		}
		if sum == nil {
			continue
		}
		out = append(out, *sum)
	}
	return out, nil
}

// SummarizeCompany returns nil without error when the company folder holds no
// text files.
func (s *Summarizer) SummarizeCompany(ctx context.Context, date, company string) (*Summary, error) {
	dir, err := s.store.CompanyDir(date, company)
	if err != nil {
		return nil, err
	}
	texts, err := s.store.LoadTexts(dir)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		s.logger.Debug("no articles for company", zap.String("company", company))
		return nil, nil
	}

	resp, err := s.model.Invoke(ctx, Prompt(texts))
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", company, err)
	}
	text := strings.TrimSpace(resp.Content)

	path, err := s.store.SaveSummary(date, company, text)
	if err != nil {
		return nil, err
	}
	if err := s.recorder.RecordSummary(&recorder.SummaryEvent{
		Company: company, Date: date, Path: path, Sources: len(texts),
	}); err != nil {
		s.logger.Warn("record summary failed", zap.Error(err))
	}

	s.logger.Info("summary saved", zap.String("company", company), zap.String("path", path))
	return &Summary{Company: company, Path: path, Text: text, Sources: len(texts)}, nil
}
