package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"CompanyInsights/internal/calculator"
	"CompanyInsights/internal/model"
)

func strPtr(s string) *string { return &s }

func TestEventWindow(t *testing.T) {
	start, end, err := EventWindow("2021-03-15", 30, 30)
	require.NoError(t, err)
	assert.Equal(t, "2021-02-13", start.Format(model.DateLayout))
	assert.Equal(t, "2021-04-14", end.Format(model.DateLayout))
}

func TestEventWindow_InvalidDate(t *testing.T) {
	for _, in := range []string{"2021-13-45", "", "03/15/2021"} {
		_, _, err := EventWindow(in, 30, 30)
		var dateErr *InvalidDateError
		require.ErrorAs(t, err, &dateErr, "input %q", in)
		assert.Equal(t, in, dateErr.Value)
	}
}

func TestCollect_Statuses(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *MockFetcher
		ticker  string
		date    *string
		want    model.DataStatus
		calls   int
	}{
		{"null date", &MockFetcher{Price: 100}, "SBUX", nil, model.DataMissing, 0},
		{"invalid date", &MockFetcher{Price: 100}, "SBUX", strPtr("2021-13-45"), model.DataInvalidDate, 0},
		{"no ticker", &MockFetcher{Price: 100}, "", strPtr("2021-03-15"), model.DataMissing, 0},
		{"empty history", &MockFetcher{Bars: []model.PriceBar{}}, "SBUX", strPtr("2021-03-15"), model.DataMissing, 1},
		{"provider no data", &MockFetcher{Err: ErrNoData}, "SBUX", strPtr("2021-03-15"), model.DataMissing, 1},
		{"provider error", &MockFetcher{Err: errors.New("boom")}, "SBUX", strPtr("2021-03-15"), model.DataFetchFailed, 1},
		{"ok", &MockFetcher{Price: 100}, "SBUX", strPtr("2021-03-15"), model.DataOK, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(tt.fetcher, 30, 30, zaptest.NewLogger(t))
			got := c.Collect(context.Background(), tt.ticker, tt.date)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Status)
			assert.Len(t, tt.fetcher.Calls, tt.calls)
			if tt.want == model.DataOK {
				assert.True(t, got.HasData())
				assert.Contains(t, got.Insights, tt.ticker)
				assert.Equal(t, "2021-02-13", got.Start)
			} else {
				assert.NotEmpty(t, got.Reason)
				assert.Empty(t, got.Insights)
			}
		})
	}
}

func TestMockFetcher_SkipsWeekends(t *testing.T) {
	m := &MockFetcher{Price: 10}
	// 2024-01-06 is a Saturday
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	bars, err := m.History(context.Background(), "X", start, start.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Friday, bars[0].Date.Weekday())
	assert.Equal(t, time.Monday, bars[1].Date.Weekday())
}

const chartJSON = `{"chart":{"result":[{"meta":{"symbol":"SBUX","gmtoffset":-14400},
"timestamp":[1615815000,1615901400,1615987800],
"indicators":{"quote":[{"open":[100,101,null],"high":[102,103,null],"low":[99,100,null],
"close":[101,102,null],"volume":[1000,2000,null]}]}}],"error":null}}`

func TestYahooFetcher_History(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", zaptest.NewLogger(t))
	f.BaseURL = srv.URL

	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 3, 31, 0, 0, 0, 0, time.UTC)
	bars, err := f.History(context.Background(), "SBUX", start, end)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/SBUX", gotPath)
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "period1=1614556800")

	require.Len(t, bars, 2, "null bar should be skipped")
	assert.Equal(t, "2021-03-15", bars[0].Date.Format(model.DateLayout))
	assert.Equal(t, "2021-03-16", bars[1].Date.Format(model.DateLayout))
	assert.Equal(t, 102.0, bars[1].Close)
	assert.Equal(t, int64(2000), bars[1].Volume)
	assert.Equal(t, "SBUX", bars[0].Symbol)
}

func TestYahooFetcher_History_PartialSession(t *testing.T) {
	const partial = `{"chart":{"result":[{"meta":{"symbol":"SBUX","gmtoffset":-14400},
"timestamp":[1615815000,1615901400,1615987800],
"indicators":{"quote":[{"open":[100,101,102],"high":[102,103,104],"low":[99,100,101],
"close":[101,102,null],"volume":[1000,2000,500]}]}}],"error":null}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(partial))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", zaptest.NewLogger(t))
	f.BaseURL = srv.URL

	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 3, 31, 0, 0, 0, 0, time.UTC)
	bars, err := f.History(context.Background(), "SBUX", start, end)
	require.NoError(t, err)
	require.Len(t, bars, 2, "bar without a close should be skipped")
	for _, b := range bars {
		assert.NotZero(t, b.Close)
	}

	ins := calculator.Analyze(bars)["SBUX"]
	assert.InDelta(t, 0.99, ins.OverallPriceChange, 1e-9)
	require.NotNil(t, ins.MaxSingleDayDrop)
	assert.Greater(t, ins.MaxSingleDayDrop.Percentage, 0.0)
}

func TestYahooFetcher_SymbolMap(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", zaptest.NewLogger(t))
	f.BaseURL = srv.URL
	_, err := f.History(context.Background(), "SPX", time.Now().AddDate(0, 0, -5), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		noData bool
	}{
		{"not found", http.StatusNotFound, `{}`, true},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`, true},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Bad","description":"bad request"}}}`, false},
		{"server error", http.StatusInternalServerError, `oops`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := NewYahooFetcher("", zaptest.NewLogger(t))
			f.BaseURL = srv.URL
			_, err := f.History(context.Background(), "SBUX", time.Now().AddDate(0, 0, -5), time.Now())
			require.Error(t, err)
			assert.Equal(t, tt.noData, errors.Is(err, ErrNoData))
		})
	}
}

func TestAlpacaFetcher_History(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bars":{"SBUX":[
{"t":"2021-03-15T04:00:00Z","o":100,"h":102,"l":99,"c":101,"v":1000,"n":10,"vw":100.5},
{"t":"2021-03-16T04:00:00Z","o":101,"h":103,"l":100,"c":102,"v":2000,"n":12,"vw":101.5}
]},"next_page_token":null}`))
	}))
	defer srv.Close()

	f := NewAlpacaFetcher("key", "secret", srv.URL, "iex", zaptest.NewLogger(t))
	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.History(context.Background(), "SBUX", start, start.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "2021-03-15", bars[0].Date.Format(model.DateLayout))
	assert.Equal(t, 102.0, bars[1].Close)
	assert.Equal(t, int64(2000), bars[1].Volume)
}
