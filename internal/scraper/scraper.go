// Package scraper turns article URLs into readable markdown.
package scraper

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"CompanyInsights/internal/config"
)

// Scraper fetches the main content of a web page.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// APIError is returned when a scraping endpoint answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scraper api error: status %d, endpoint %s, body: %s", e.StatusCode, e.Endpoint, e.Body)
}

// New returns a Firecrawl scraper when an API key is configured, otherwise a
// direct HTML fetcher.
func New(cfg *config.Config, logger *zap.Logger) Scraper {
	if cfg.News.FirecrawlKey != "" {
		return NewFirecrawl(cfg.News.FirecrawlKey, cfg.News.RateLimit, logger)
	}
	return NewDirect(cfg.Proxy, logger)
}
