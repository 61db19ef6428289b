package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CompanyInsights/internal/model"
)

// ErrNoData is returned when a provider has no bars for the requested window.
var ErrNoData = errors.New("no price data for window")

// HistoryFetcher retrieves daily price bars for a ticker over [start, end].
type HistoryFetcher interface {
	History(ctx context.Context, ticker string, start, end time.Time) ([]model.PriceBar, error)
	Name() string
}

// InvalidDateError reports an event date that is not a valid calendar date.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid event date format: %s", e.Value)
}

// EventWindow parses an ISO date and returns the window from before days
// earlier to after days later.
func EventWindow(date string, before, after int) (start, end time.Time, err error) {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, &InvalidDateError{Value: date}
	}
	return d.AddDate(0, 0, -before), d.AddDate(0, 0, after), nil
}
