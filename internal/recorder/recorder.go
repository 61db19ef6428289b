package recorder

import "CompanyInsights/internal/model"

// SummaryEvent records one generated company summary.
type SummaryEvent struct {
	Company string
	Date    string // YYYY-MM-DD folder the summary was built from
	Path    string
	Sources int // number of text files combined
}

// Recorder persists run history for later inspection.
type Recorder interface {
	RecordAnalysis(report *model.AnalysisReport) error
	RecordSummary(evt *SummaryEvent) error
	Close() error
}
