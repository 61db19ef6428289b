package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const firecrawlBaseURL = "https://api.firecrawl.dev"

// Firecrawl scrapes pages through the Firecrawl API in markdown format.
type Firecrawl struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewFirecrawl creates a Firecrawl client limited to rps requests per second.
func NewFirecrawl(apiKey string, rps float64, logger *zap.Logger) *Firecrawl {
	if rps <= 0 {
		rps = 2
	}
	return &Firecrawl{
		BaseURL: firecrawlBaseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

type firecrawlRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type firecrawlResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			Title      string `json:"title"`
			StatusCode int    `json:"statusCode"`
		} `json:"metadata"`
	} `json:"data"`
}

func (f *Firecrawl) Scrape(ctx context.Context, target string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(firecrawlRequest{URL: target, Formats: []string{"markdown"}, OnlyMainContent: true})
	if err != nil {
		return "", err
	}
	endpoint := f.BaseURL + "/v1/scrape"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.APIKey)

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("firecrawl scrape: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("firecrawl read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(raw), Endpoint: endpoint}
	}

	var out firecrawlResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("firecrawl decode: %w", err)
	}
	if !out.Success {
		return "", fmt.Errorf("firecrawl: %s", out.Error)
	}

	f.logger.Debug("page scraped",
		zap.String("url", target),
		zap.String("title", out.Data.Metadata.Title),
		zap.Int("markdown_len", len(out.Data.Markdown)))
	return out.Data.Markdown, nil
}
