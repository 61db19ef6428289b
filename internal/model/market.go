package model

import "time"

// DateLayout is the calendar date format used across reports and prompts.
const DateLayout = "2006-01-02"

// PriceBar is a single daily bar as returned by a price-history provider.
type PriceBar struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// DayMove records the return of one trading day.
type DayMove struct {
	Date       string  `json:"date"`
	Percentage float64 `json:"percentage"`
}

// VolumeDay records a day whose volume stood out from the window average.
type VolumeDay struct {
	Date   string `json:"date"`
	Volume int64  `json:"volume"`
}

// SeriesInsight holds the statistics derived from one symbol's price window.
type SeriesInsight struct {
	OverallPriceChange  float64     `json:"overall_price_change"`
	MaxSingleDayGain    *DayMove    `json:"max_single_day_gain"`
	MaxSingleDayDrop    *DayMove    `json:"max_single_day_drop"`
	HighVolumeDays      []VolumeDay `json:"high_volume_days"`
	Last5MovingAverages []float64   `json:"last_5_moving_averages"`
}
