package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"CompanyInsights/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id     TEXT PRIMARY KEY,
			timestamp  INTEGER NOT NULL,
			company    TEXT NOT NULL,
			event      TEXT,
			ticker     TEXT,
			narrative  TEXT,
			analogs    INTEGER,
			with_data  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_company ON analysis_runs(company, timestamp)`,

		`CREATE TABLE IF NOT EXISTS analog_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES analysis_runs(run_id),
			position    INTEGER NOT NULL,
			competitor  TEXT NOT NULL,
			reasoning   TEXT,
			event_date  TEXT,
			ticker      TEXT,
			status      TEXT,
			stock_data  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analogs_run ON analog_events(run_id)`,

		`CREATE TABLE IF NOT EXISTS summaries (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			company    TEXT NOT NULL,
			date       TEXT,
			path       TEXT,
			sources    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_company ON summaries(company, date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordAnalysis stores the run and every analog in one transaction.
func (r *SQLiteRecorder) RecordAnalysis(report *model.AnalysisReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	withData := 0
	for _, a := range report.Analogs {
		if a.StockData.HasData() {
			withData++
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO analysis_runs
		(run_id, timestamp, company, event, ticker, narrative, analogs, with_data)
		VALUES (?,?,?,?,?,?,?,?)`,
		report.RunID, report.CreatedAt.Unix(), report.Company, report.Event,
		report.Ticker, report.Narrative, len(report.Analogs), withData,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, a := range report.Analogs {
		var date sql.NullString
		if a.EventDate != nil {
			date = sql.NullString{String: *a.EventDate, Valid: true}
		}
		var status string
		var stock []byte
		if a.StockData != nil {
			status = string(a.StockData.Status)
			if stock, err = json.Marshal(a.StockData); err != nil {
				return fmt.Errorf("marshal stock data: %w", err)
			}
		}
		_, err = tx.Exec(`INSERT INTO analog_events
			(run_id, position, competitor, reasoning, event_date, ticker, status, stock_data)
			VALUES (?,?,?,?,?,?,?,?)`,
			report.RunID, i, a.Competitor, a.Reasoning, date, a.Ticker, status, string(stock),
		)
		if err != nil {
			return fmt.Errorf("insert analog: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordSummary(evt *SummaryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO summaries
		(timestamp, company, date, path, sources)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Company, evt.Date, evt.Path, evt.Sources,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
