// Package resolver turns a prose description of a past event into a calendar
// date by asking the model and normalizing whatever it answers.
package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"CompanyInsights/internal/llm"
	"CompanyInsights/internal/model"
)

const datePrompt = `Here is a query of an event for a company:
%s

Please infer the most likely date this event happened. Return your response in strictly YYYY-MM-DD format.
Provide the date only. Do not be conversational. Output only the date.

The output should be nothing but one line in the format below:
YYYY-MM-DD`

var (
	isoPattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	usPattern   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	longPattern = regexp.MustCompile(`^[A-Za-z]+ \d{1,2}, \d{4}$`)
	yearPattern = regexp.MustCompile(`^\d{4}$`)
)

// Resolver asks a model for the date of an event.
type Resolver struct {
	model  llm.Model
	logger *zap.Logger
}

// New creates a Resolver backed by m.
func New(m llm.Model, logger *zap.Logger) *Resolver {
	return &Resolver{model: m, logger: logger}
}

// Resolve returns the normalized date for query, or nil when the model fails
// or its answer cannot be normalized.
func (r *Resolver) Resolve(ctx context.Context, query string) *string {
	resp, err := r.model.Invoke(ctx, fmt.Sprintf(datePrompt, query))
	if err != nil {
		r.logger.Warn("date inference failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	date, ok := Normalize(resp.Content)
	if !ok {
		r.logger.Info("model answer is not a date", zap.String("answer", resp.Content))
		return nil
	}
	return &date
}

// Normalize converts s to YYYY-MM-DD. Accepted inputs, tried in order:
// YYYY-MM-DD (returned unchanged), MM/DD/YYYY, "Month D, YYYY" and a bare year,
// which maps to January 1st.
func Normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch {
	case isoPattern.MatchString(s):
		return s, true
	case usPattern.MatchString(s):
		return reformat("01/02/2006", s)
	case longPattern.MatchString(s):
		return reformat("January 2, 2006", s)
	case yearPattern.MatchString(s):
		return s + "-01-01", true
	}
	return "", false
}

func reformat(layout, s string) (string, bool) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", false
	}
	return t.Format(model.DateLayout), true
}
