package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"go.uber.org/zap"

	"CompanyInsights/internal/model"
)

// AlpacaFetcher implements HistoryFetcher using Alpaca market data.
type AlpacaFetcher struct {
	client *marketdata.Client
	feed   marketdata.Feed
	logger *zap.Logger
}

// NewAlpacaFetcher creates a fetcher authenticated with the given key pair.
// baseURL may be empty to use Alpaca's production data endpoint.
func NewAlpacaFetcher(apiKey, apiSecret, baseURL, feed string, logger *zap.Logger) *AlpacaFetcher {
	return &AlpacaFetcher{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		feed:   marketdata.Feed(feed),
		logger: logger,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// History returns daily bars between start and end.
func (f *AlpacaFetcher) History(ctx context.Context, ticker string, start, end time.Time) ([]model.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := f.client.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        end.AddDate(0, 0, 1),
		Feed:       f.feed,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoData
	}

	bars := make([]model.PriceBar, len(raw))
	for i, b := range raw {
		ts := b.Timestamp.UTC()
		bars[i] = model.PriceBar{
			Symbol: ticker,
			Date:   time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		}
	}
	f.logger.Debug("alpaca history fetched",
		zap.String("ticker", ticker), zap.Int("bars", len(bars)))
	return bars, nil
}
