package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"CompanyInsights/internal/calculator"
	"CompanyInsights/internal/config"
	"CompanyInsights/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.PriceBar
	Err   error

	// Calls records every ticker requested, in order.
	Calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) History(_ context.Context, ticker string, start, end time.Time) ([]model.PriceBar, error) {
	m.Calls = append(m.Calls, ticker)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(ticker, m.Price, start, end), nil
}

func generateMockBars(symbol string, basePrice float64, start, end time.Time) []model.PriceBar {
	var bars []model.PriceBar
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001)
		bars = append(bars, model.PriceBar{
			Symbol: symbol,
			Date:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}

// NewFetcher builds the provider selected by cfg.Prices.Provider.
func NewFetcher(cfg *config.Config, logger *zap.Logger) (HistoryFetcher, error) {
	switch cfg.Prices.Provider {
	case "yahoo", "":
		return NewYahooFetcher(cfg.Proxy, logger), nil
	case "alpaca":
		return NewAlpacaFetcher(cfg.Prices.APIKey, cfg.Prices.APISecret, "", cfg.Prices.Feed, logger), nil
	case "mock":
		return &MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown price provider %q", cfg.Prices.Provider)
	}
}

// Collector fetches the price window around an event date and derives its
// insights.
type Collector struct {
	Fetcher    HistoryFetcher
	DaysBefore int
	DaysAfter  int
	logger     *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher HistoryFetcher, daysBefore, daysAfter int, logger *zap.Logger) *Collector {
	return &Collector{Fetcher: fetcher, DaysBefore: daysBefore, DaysAfter: daysAfter, logger: logger}
}

// Collect always returns a StockData; failures become a no-data status with
// a reason instead of an error.
func (c *Collector) Collect(ctx context.Context, ticker string, date *string) *model.StockData {
	if date == nil {
		return &model.StockData{Status: model.DataMissing, Reason: "no valid event date provided"}
	}
	if ticker == "" {
		return &model.StockData{Status: model.DataMissing, Reason: "no ticker available"}
	}

	start, end, err := EventWindow(*date, c.DaysBefore, c.DaysAfter)
	if err != nil {
		return &model.StockData{Status: model.DataInvalidDate, Reason: err.Error()}
	}
	window := &model.StockData{
		Start: start.Format(model.DateLayout),
		End:   end.Format(model.DateLayout),
	}

	bars, err := c.Fetcher.History(ctx, ticker, start, end)
	switch {
	case errors.Is(err, ErrNoData), err == nil && len(bars) == 0:
		window.Status = model.DataMissing
		window.Reason = fmt.Sprintf("no stock data found for %s between %s and %s", ticker, window.Start, window.End)
		return window
	case err != nil:
		c.logger.Warn("price fetch failed",
			zap.String("provider", c.Fetcher.Name()),
			zap.String("ticker", ticker),
			zap.Error(err))
		window.Status = model.DataFetchFailed
		window.Reason = err.Error()
		return window
	}

	window.Status = model.DataOK
	window.Insights = calculator.Analyze(bars)
	return window
}
