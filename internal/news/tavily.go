package news

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

	"CompanyInsights/internal/model"
)

const tavilyBaseURL = "https://api.tavily.com"

// Tavily runs web searches through the Tavily API.
type Tavily struct {
	BaseURL    string
	APIKey     string
	MaxResults int
	Client     *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewTavily creates a Tavily client.
func NewTavily(apiKey string, maxResults int, rps float64, logger *zap.Logger) *Tavily {
	if rps <= 0 {
		rps = 2
	}
	return &Tavily{
		BaseURL:    tavilyBaseURL,
		APIKey:     apiKey,
		MaxResults: maxResults,
		Client:     &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

type tavilyRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results,omitempty"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

func (t *Tavily) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(tavilyRequest{Query: query, MaxResults: t.MaxResults, SearchDepth: "basic"})
	if err != nil {
		return nil, err
	}
	endpoint := t.BaseURL + "/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.APIKey)

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tavily read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw), Endpoint: endpoint}
	}

	var out tavilyResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("tavily decode: %w", err)
	}

	results := make([]model.SearchResult, len(out.Results))
	for i, r := range out.Results {
		results[i] = model.SearchResult{Title: r.Title, URL: r.URL, Content: r.Content, Score: r.Score}
	}
	t.logger.Debug("tavily search completed", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}
