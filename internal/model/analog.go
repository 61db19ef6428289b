package model

import "time"

// Candidate is a competitor/event pair pulled out of model output.
type Candidate struct {
	Competitor string `json:"competitor"`
	Reasoning  string `json:"reasoning"`
}

// DataStatus tells whether an analog carries price insights or why it does not.
type DataStatus string

const (
	DataOK          DataStatus = "ok"
	DataMissing     DataStatus = "no_data"
	DataInvalidDate DataStatus = "invalid_date"
	DataFetchFailed DataStatus = "fetch_failed"
)

// StockData is attached to every analog once its price window was processed.
// Any status other than DataOK is a no-data marker and Insights is empty.
type StockData struct {
	Status   DataStatus               `json:"status"`
	Insights map[string]SeriesInsight `json:"insights,omitempty"`
	Reason   string                   `json:"reason,omitempty"`
	Start    string                   `json:"start,omitempty"`
	End      string                   `json:"end,omitempty"`
}

// HasData reports whether insights were computed.
func (s *StockData) HasData() bool {
	return s != nil && s.Status == DataOK && len(s.Insights) > 0
}

// AnalogEvent is a historical event at a competitor judged similar to the
// event under analysis.
type AnalogEvent struct {
	Competitor string     `json:"competitor"`
	Reasoning  string     `json:"reasoning"`
	EventDate  *string    `json:"event_date"`
	Ticker     string     `json:"ticker,omitempty"`
	StockData  *StockData `json:"stock_data"`
}

// AnalysisReport is the terminal artifact of one analysis run.
type AnalysisReport struct {
	RunID     string        `json:"run_id"`
	Company   string        `json:"company"`
	Event     string        `json:"event"`
	Ticker    string        `json:"ticker"`
	Narrative string        `json:"narrative"`
	Analogs   []AnalogEvent `json:"analogs"`
	CreatedAt time.Time     `json:"created_at"`
}
