// Package news collects articles and search results about companies and
// writes them to the dated data tree.
package news

import (
	"context"
	"fmt"

	"CompanyInsights/internal/model"
)

// Provider returns recent articles that mention a company.
type Provider interface {
	Fetch(ctx context.Context, company string) ([]model.Article, error)
}

// Searcher runs a free-text web search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

// APIError is returned when a news or search endpoint answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("news api error: status %d, endpoint %s, body: %s", e.StatusCode, e.Endpoint, e.Body)
}
