package calculator

import (
	"math"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"CompanyInsights/internal/model"
)

const (
	movingAvgPeriod  = 7
	highVolumeFactor = 1.5
	trailingAverages = 5

	// enough fraction digits to expand any percentage-sized float64 exactly
	exactDigits = 64
)

// Analyze groups bars by symbol and derives one insight per symbol.
// Empty input yields an empty map.
func Analyze(bars []model.PriceBar) map[string]model.SeriesInsight {
	groups := make(map[string][]model.PriceBar)
	for _, b := range bars {
		groups[b.Symbol] = append(groups[b.Symbol], b)
	}

	out := make(map[string]model.SeriesInsight, len(groups))
	for symbol, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})
		out[symbol] = analyzeGroup(group)
	}
	return out
}

func analyzeGroup(bars []model.PriceBar) model.SeriesInsight {
	closes := extractCloses(bars)
	returns := DailyReturns(closes)
	averages := RollingSMA(closes, movingAvgPeriod)

	insight := model.SeriesInsight{
		HighVolumeDays:      []model.VolumeDay{},
		Last5MovingAverages: lastDefined(averages, trailingAverages),
	}

	if len(bars) >= 2 && closes[0] != 0 {
		insight.OverallPriceChange = Round2((closes[len(closes)-1] - closes[0]) / closes[0] * 100)
	}

	gain, drop := -1, -1
	for i, r := range returns {
		if math.IsNaN(r) {
			continue
		}
		if gain < 0 || r > returns[gain] {
			gain = i
		}
		if drop < 0 || r < returns[drop] {
			drop = i
		}
	}
	if gain >= 0 {
		insight.MaxSingleDayGain = &model.DayMove{
			Date:       bars[gain].Date.Format(model.DateLayout),
			Percentage: Round2(returns[gain]),
		}
		insight.MaxSingleDayDrop = &model.DayMove{
			Date:       bars[drop].Date.Format(model.DateLayout),
			Percentage: Round2(returns[drop]),
		}
	}

	var total float64
	for _, b := range bars {
		total += float64(b.Volume)
	}
	threshold := highVolumeFactor * total / float64(len(bars))
	for _, b := range bars {
		if float64(b.Volume) > threshold {
			insight.HighVolumeDays = append(insight.HighVolumeDays, model.VolumeDay{
				Date:   b.Date.Format(model.DateLayout),
				Volume: b.Volume,
			})
		}
	}

	return insight
}

// DailyReturns returns the day-over-day percentage change of closes.
// Index 0 and any slot following a zero close are NaN.
func DailyReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		if i == 0 || closes[i-1] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (closes[i] - closes[i-1]) / closes[i-1] * 100
	}
	return out
}

// Volatility returns the intraday range (high minus low) of every bar.
func Volatility(bars []model.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High - b.Low
	}
	return out
}

// Round2 rounds the exact binary value of v to two decimal places, ties to
// even. 2.675 is stored just below the tie and becomes 2.67.
func Round2(v float64) float64 {
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', exactDigits, 64))
	if err != nil {
		return v
	}
	f, _ := d.RoundBank(2).Float64()
	return f
}

func lastDefined(series []float64, n int) []float64 {
	defined := make([]float64, 0, len(series))
	for _, v := range series {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}
	if len(defined) > n {
		defined = defined[len(defined)-n:]
	}
	return defined
}
