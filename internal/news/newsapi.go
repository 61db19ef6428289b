package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"CompanyInsights/internal/model"
)

const newsAPIBaseURL = "https://newsapi.org"

const financialKeywords = "earnings OR revenue OR stock OR business OR financial OR market OR profit OR loss OR shares OR investor OR acquisition OR CEO"

// NewsAPI queries the NewsAPI "everything" endpoint restricted to business
// outlets.
type NewsAPI struct {
	BaseURL  string
	APIKey   string
	Days     int
	PageSize int
	Domains  []string
	Client   *http.Client
	Now      func() time.Time
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// NewNewsAPI creates a NewsAPI client.
func NewNewsAPI(apiKey string, days, pageSize int, domains []string, rps float64, logger *zap.Logger) *NewsAPI {
	if rps <= 0 {
		rps = 2
	}
	return &NewsAPI{
		BaseURL:  newsAPIBaseURL,
		APIKey:   apiKey,
		Days:     days,
		PageSize: pageSize,
		Domains:  domains,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Now:      time.Now,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		logger:   logger,
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Query builds the search expression for company.
func Query(company string) string {
	return fmt.Sprintf(`"%s" AND (%s)`, company, financialKeywords)
}

func (n *NewsAPI) Fetch(ctx context.Context, company string) ([]model.Article, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", Query(company))
	params.Set("from", n.Now().AddDate(0, 0, -n.Days).Format(model.DateLayout))
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(n.PageSize))
	if len(n.Domains) > 0 {
		params.Set("domains", strings.Join(n.Domains, ","))
	}
	endpoint := n.BaseURL + "/v2/everything"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", n.APIKey)

	resp, err := n.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("newsapi read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw), Endpoint: endpoint}
	}

	var out newsAPIResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}
	if out.Status != "ok" {
		return nil, fmt.Errorf("newsapi: %s: %s", out.Code, out.Message)
	}

	articles := make([]model.Article, 0, len(out.Articles))
	for _, a := range out.Articles {
		// Unparseable timestamps are left zero.
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, model.Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			Description: a.Description,
			PublishedAt: published,
		})
	}
	n.logger.Debug("newsapi articles fetched", zap.String("company", company), zap.Int("count", len(articles)))
	return articles, nil
}
