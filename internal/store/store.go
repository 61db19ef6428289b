// Package store keeps gathered articles, summaries and reports as plain files
// in a dated directory tree.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/pretty"

	"CompanyInsights/internal/model"
)

// SummariesDir is the per-date folder holding summaries. It is never treated
// as a company.
const SummariesDir = "summaries"

var nameReplacer = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

// Store roots the data and report trees.
type Store struct {
	DataDir    string
	ReportsDir string
	Now        func() time.Time
}

// New creates a Store rooted at the given directories.
func New(dataDir, reportsDir string) *Store {
	return &Store{DataDir: dataDir, ReportsDir: reportsDir, Now: time.Now}
}

// Today returns the current date folder name.
func (s *Store) Today() string {
	return s.Now().Format(model.DateLayout)
}

// DateDir returns <data_dir>/<date>.
func (s *Store) DateDir(date string) string {
	return filepath.Join(s.DataDir, date)
}

// CompanyDir creates and returns <data_dir>/<date>/<company>.
func (s *Store) CompanyDir(date, company string) (string, error) {
	dir := filepath.Join(s.DateDir(date), SafeName(company))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create company dir: %w", err)
	}
	return dir, nil
}

// Save writes content to dir/name, replacing any previous file.
func (s *Store) Save(dir, name, content string) error {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// LoadTexts returns the contents of every .txt file directly inside dir,
// ordered by file name.
func (s *Store) LoadTexts(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	texts := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		texts = append(texts, string(data))
	}
	return texts, nil
}

// ListCompanies returns the company folders gathered on date, skipping plain
// files and the summaries folder. A missing date folder yields no companies.
func (s *Store) ListCompanies(date string) ([]string, error) {
	entries, err := os.ReadDir(s.DateDir(date))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	var companies []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == SummariesDir {
			continue
		}
		companies = append(companies, e.Name())
	}
	return companies, nil
}

// SaveSummary writes <data_dir>/<date>/summaries/<company>_summary.txt.
func (s *Store) SaveSummary(date, company, summary string) (string, error) {
	dir := filepath.Join(s.DateDir(date), SummariesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create summaries dir: %w", err)
	}
	name := SafeName(company) + "_summary.txt"
	if err := s.Save(dir, name, summary); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// WriteReport stores the narrative as markdown and the full report as JSON
// under <reports_dir>/<date>/. It returns the markdown path.
func (s *Store) WriteReport(report *model.AnalysisReport) (string, error) {
	date := report.CreatedAt.Format(model.DateLayout)
	if report.CreatedAt.IsZero() {
		date = s.Today()
	}
	dir := filepath.Join(s.ReportsDir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	base := SafeName(report.Company) + "_analysis"
	mdPath := filepath.Join(dir, base+".md")
	if err := os.WriteFile(mdPath, []byte(renderMarkdown(report)), 0o644); err != nil {
		return "", fmt.Errorf("write report markdown: %w", err)
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, base+".json"), pretty.Pretty(raw), 0o644); err != nil {
		return "", fmt.Errorf("write report json: %w", err)
	}
	return mdPath, nil
}

func renderMarkdown(r *model.AnalysisReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", r.Company, r.Ticker)
	fmt.Fprintf(&b, "**Event:** %s\n\n", r.Event)
	fmt.Fprintf(&b, "Run `%s`, %s\n\n", r.RunID, r.CreatedAt.Format(time.RFC3339))
	b.WriteString("## Analogous events\n\n")
	if len(r.Analogs) == 0 {
		b.WriteString("None found.\n")
	}
	for _, a := range r.Analogs {
		date := "unknown"
		if a.EventDate != nil {
			date = *a.EventDate
		}
		status := model.DataMissing
		if a.StockData != nil {
			status = a.StockData.Status
		}
		fmt.Fprintf(&b, "- **%s** (%s, %s): %s\n", a.Competitor, date, status, a.Reasoning)
	}
	b.WriteString("\n## Analysis\n\n")
	b.WriteString(strings.TrimSpace(r.Narrative))
	b.WriteString("\n")
	return b.String()
}

// SafeName makes a company name usable as a single path element.
func SafeName(name string) string {
	n := strings.TrimSpace(nameReplacer.Replace(name))
	if n == "" || n == "." {
		return "_"
	}
	return n
}
