package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CompanyInsights/internal/model"
)

func newTestStore(t *testing.T) *Store {
	root := t.TempDir()
	s := New(filepath.Join(root, "daily_data"), filepath.Join(root, "reports"))
	s.Now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestCompanyDirLayout(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.CompanyDir(s.Today(), "Starbucks")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.DataDir, "2024-05-01", "Starbucks"), dir)
	assert.DirExists(t, dir)
}

func TestLoadTexts_OnlyTxt(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.CompanyDir("2024-05-01", "Tesla")
	require.NoError(t, err)

	require.NoError(t, s.Save(dir, "news_1.txt", "second"))
	require.NoError(t, s.Save(dir, "news_0.txt", "first"))
	require.NoError(t, s.Save(dir, "notes.md", "ignored"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	texts, err := s.LoadTexts(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, texts)
}

func TestListCompanies(t *testing.T) {
	s := newTestStore(t)
	for _, c := range []string{"Apple", "Tesla"} {
		_, err := s.CompanyDir("2024-05-01", c)
		require.NoError(t, err)
	}
	_, err := s.SaveSummary("2024-05-01", "Apple", "summary")
	require.NoError(t, err)
	require.NoError(t, s.Save(s.DateDir("2024-05-01"), "stray.txt", "x"))

	companies, err := s.ListCompanies("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Tesla"}, companies)

	none, err := s.ListCompanies("1999-01-01")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSaveSummary(t *testing.T) {
	s := newTestStore(t)
	path, err := s.SaveSummary("2024-05-01", "Apple", "one-liners")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.DataDir, "2024-05-01", "summaries", "Apple_summary.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one-liners", string(data))
}

func TestWriteReport(t *testing.T) {
	s := newTestStore(t)
	date := "2021-03-15"
	report := &model.AnalysisReport{
		RunID:     "abc",
		Company:   "Starbucks",
		Event:     "layoffs",
		Ticker:    "SBUX",
		Narrative: "  The stock will likely dip.\n",
		CreatedAt: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
		Analogs: []model.AnalogEvent{
			{Competitor: "Dunkin", Reasoning: "cut staff", EventDate: &date,
				StockData: &model.StockData{Status: model.DataOK}},
			{Competitor: "Peet's", Reasoning: "closed stores",
				StockData: &model.StockData{Status: model.DataMissing}},
		},
	}

	mdPath, err := s.WriteReport(report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.ReportsDir, "2024-05-02", "Starbucks_analysis.md"), mdPath)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Starbucks (SBUX)")
	assert.Contains(t, string(md), "- **Dunkin** (2021-03-15, ok): cut staff")
	assert.Contains(t, string(md), "- **Peet's** (unknown, no_data): closed stores")
	assert.Contains(t, string(md), "The stock will likely dip.\n")

	raw, err := os.ReadFile(filepath.Join(s.ReportsDir, "2024-05-02", "Starbucks_analysis.json"))
	require.NoError(t, err)
	var decoded model.AnalysisReport
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded.Analogs, 2)
	assert.Nil(t, decoded.Analogs[1].EventDate)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "AT&T", SafeName("AT&T"))
	assert.Equal(t, "A_B", SafeName("A/B"))
	assert.Equal(t, "_", SafeName("  "))
	assert.Equal(t, "_", SafeName(".."))
}
