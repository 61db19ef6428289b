package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LLM selects and configures the language model backend.
type LLM struct {
	Provider    string  `yaml:"provider" validate:"oneof=ollama claude gemini"`
	Model       string  `yaml:"model" validate:"required"`
	BaseURL     string  `yaml:"base_url" validate:"omitempty,url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float32 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" validate:"gte=0"`
	Timeout     string  `yaml:"timeout"`
}

// Prices configures the price-history provider.
type Prices struct {
	Provider  string `yaml:"provider" validate:"oneof=yahoo alpaca mock"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Feed      string `yaml:"feed"`
}

// Analysis tunes the analogous-event pipeline.
type Analysis struct {
	MaxCompetitors int               `yaml:"max_competitors" validate:"gte=1,lte=10"`
	DaysBefore     int               `yaml:"days_before" validate:"gte=0"`
	DaysAfter      int               `yaml:"days_after" validate:"gte=0"`
	TickerMode     string            `yaml:"ticker_mode" validate:"oneof=target competitor"`
	Tickers        map[string]string `yaml:"tickers"`
}

// News configures the gather and summarize workflows.
type News struct {
	Companies    []string `yaml:"companies"`
	NewsAPIKey   string   `yaml:"newsapi_key"`
	TavilyKey    string   `yaml:"tavily_key"`
	FirecrawlKey string   `yaml:"firecrawl_key"`
	Days         int      `yaml:"days" validate:"gte=1"`
	MaxResults   int      `yaml:"max_results" validate:"gte=1,lte=100"`
	Domains      []string `yaml:"domains"`
	Feeds        []string `yaml:"feeds" validate:"dive,url"`
	RateLimit    float64  `yaml:"rate_limit" validate:"gt=0"`
}

// Storage holds the flat-file locations.
type Storage struct {
	DataDir    string `yaml:"data_dir" validate:"required"`
	ReportsDir string `yaml:"reports_dir" validate:"required"`
}

// Config holds all application configuration.
type Config struct {
	LLM      LLM      `yaml:"llm"`
	Prices   Prices   `yaml:"prices"`
	Analysis Analysis `yaml:"analysis"`
	News     News     `yaml:"news"`
	Storage  Storage  `yaml:"storage"`
	Schedule struct {
		GatherCron    string `yaml:"gather_cron"`
		SummarizeCron string `yaml:"summarize_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" validate:"oneof=json console"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

const defaultWindowDays = 30

var defaultDomains = []string{
	"reuters.com", "bloomberg.com", "cnbc.com", "forbes.com",
	"marketwatch.com", "wsj.com", "businessinsider.com", "finance.yahoo.com",
}

// Load reads config from a YAML file, then .env, then environment overrides.
func Load(path string) (*Config, error) {
	// Zero is a valid window size, so these defaults are seeded before the
	// file is decoded instead of filled in afterwards.
	cfg := &Config{Analysis: Analysis{DaysBefore: defaultWindowDays, DaysAfter: defaultWindowDays}}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.LLM.Provider, "LLM_PROVIDER")
	set(&cfg.LLM.Model, "LLM_MODEL")
	set(&cfg.LLM.BaseURL, "OLLAMA_HOST")
	switch cfg.LLM.Provider {
	case "claude":
		set(&cfg.LLM.APIKey, "ANTHROPIC_API_KEY")
	case "gemini":
		set(&cfg.LLM.APIKey, "GEMINI_API_KEY")
	}
	set(&cfg.Prices.APIKey, "ALPACA_API_KEY")
	set(&cfg.Prices.APISecret, "ALPACA_SECRET_KEY")
	set(&cfg.News.NewsAPIKey, "NEWS_API_KEY")
	set(&cfg.News.TavilyKey, "TAVILY_API_KEY")
	set(&cfg.News.FirecrawlKey, "FIRECRAWL_API_KEY")
	set(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	set(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	set(&cfg.Proxy, "HTTPS_PROXY")
	set(&cfg.Database.SQLitePath, "SQLITE_PATH")
	set(&cfg.Log.Level, "LOG_LEVEL")
	if v := os.Getenv("NEWS_COMPANIES"); v != "" {
		cfg.News.Companies = splitList(v)
	}
	if v := os.Getenv("ANALYSIS_MAX_COMPETITORS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.MaxCompetitors = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case "claude":
			cfg.LLM.Model = "claude-sonnet-4-20250514"
		case "gemini":
			cfg.LLM.Model = "gemini-2.5-flash"
		default:
			cfg.LLM.Model = "llama3.2"
		}
	}
	if cfg.LLM.Provider == "ollama" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "http://localhost:11434"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4096
	}
	if cfg.LLM.Timeout == "" {
		cfg.LLM.Timeout = "5m"
	}
	if cfg.Prices.Provider == "" {
		cfg.Prices.Provider = "yahoo"
	}
	if cfg.Prices.Feed == "" {
		cfg.Prices.Feed = "iex"
	}
	if cfg.Analysis.MaxCompetitors == 0 {
		cfg.Analysis.MaxCompetitors = 3
	}
	if cfg.Analysis.TickerMode == "" {
		cfg.Analysis.TickerMode = "target"
	}
	if cfg.News.Days == 0 {
		cfg.News.Days = 7
	}
	if cfg.News.MaxResults == 0 {
		cfg.News.MaxResults = 10
	}
	if len(cfg.News.Domains) == 0 {
		cfg.News.Domains = defaultDomains
	}
	if cfg.News.RateLimit == 0 {
		cfg.News.RateLimit = 2
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "daily_data"
	}
	if cfg.Storage.ReportsDir == "" {
		cfg.Storage.ReportsDir = "reports"
	}
	if cfg.Schedule.GatherCron == "" {
		cfg.Schedule.GatherCron = "0 0 7 * * *"
	}
	if cfg.Schedule.SummarizeCron == "" {
		cfg.Schedule.SummarizeCron = "0 30 7 * * *"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate checks field constraints and the cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
		return fmt.Errorf("llm.timeout: %w", err)
	}
	if c.LLM.Provider != "ollama" && c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required for provider %s", c.LLM.Provider)
	}
	if c.Prices.Provider == "alpaca" && (c.Prices.APIKey == "" || c.Prices.APISecret == "") {
		return fmt.Errorf("prices.api_key and prices.api_secret are required for alpaca")
	}
	return nil
}

// LLMTimeout returns the parsed model call timeout.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// TelegramEnabled reports whether both Telegram credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
