package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
	assert.Equal(t, "yahoo", cfg.Prices.Provider)
	assert.Equal(t, 3, cfg.Analysis.MaxCompetitors)
	assert.Equal(t, 30, cfg.Analysis.DaysBefore)
	assert.Equal(t, 30, cfg.Analysis.DaysAfter)
	assert.Equal(t, "target", cfg.Analysis.TickerMode)
	assert.Equal(t, 7, cfg.News.Days)
	assert.Equal(t, 10, cfg.News.MaxResults)
	assert.Contains(t, cfg.News.Domains, "reuters.com")
	assert.Equal(t, "daily_data", cfg.Storage.DataDir)
	assert.Empty(t, cfg.Database.SQLitePath)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
llm:
  provider: claude
  api_key: from-file
analysis:
  max_competitors: 5
  ticker_mode: competitor
  tickers:
    Dunkin: DNKN
news:
  companies: [Starbucks]
`)
	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	t.Setenv("NEWS_COMPANIES", "Starbucks, Nike ,")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.BaseURL)
	assert.Equal(t, 5, cfg.Analysis.MaxCompetitors)
	assert.Equal(t, "competitor", cfg.Analysis.TickerMode)
	assert.Equal(t, "DNKN", cfg.Analysis.Tickers["Dunkin"])
	assert.Equal(t, []string{"Starbucks", "Nike"}, cfg.News.Companies)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ZeroWindowKept(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
analysis:
  days_before: 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Analysis.DaysBefore)
	assert.Equal(t, 30, cfg.Analysis.DaysAfter)
	require.NoError(t, cfg.Validate())

	cfg.Analysis.DaysAfter = -1
	assert.Error(t, cfg.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TAVILY_API_KEY=tvly-test\n"), 0o644))
	t.Setenv("TAVILY_API_KEY", "")
	os.Unsetenv("TAVILY_API_KEY")

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "tvly-test", cfg.News.TavilyKey)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown llm provider", func(c *Config) { c.LLM.Provider = "gpt" }, true},
		{"claude without key", func(c *Config) { c.LLM.Provider = "claude" }, true},
		{"alpaca without secret", func(c *Config) { c.Prices.Provider = "alpaca"; c.Prices.APIKey = "k" }, true},
		{"bad ticker mode", func(c *Config) { c.Analysis.TickerMode = "both" }, true},
		{"bad timeout", func(c *Config) { c.LLM.Timeout = "soon" }, true},
		{"bad feed url", func(c *Config) { c.News.Feeds = []string{"not a url"} }, true},
		{"too many competitors", func(c *Config) { c.Analysis.MaxCompetitors = 50 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
