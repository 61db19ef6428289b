package news

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"CompanyInsights/internal/model"
	"CompanyInsights/internal/scraper"
	"CompanyInsights/internal/store"
)

const summaryExcerpt = 500

// Result describes what was captured for one company.
type Result struct {
	Company  string
	Dir      string
	Articles int
	Searches int
	FeedHits int
}

// Gatherer captures news, feed items and search results for companies into
// today's data folder. Any source may be nil.
type Gatherer struct {
	News    Provider
	Feeds   Provider
	Search  Searcher
	Scraper scraper.Scraper
	Store   *store.Store
	Days    int
	logger  *zap.Logger
}

// NewGatherer wires a Gatherer.
func NewGatherer(newsProvider, feeds Provider, search Searcher, sc scraper.Scraper, st *store.Store, days int, logger *zap.Logger) *Gatherer {
	return &Gatherer{
		News:    newsProvider,
		Feeds:   feeds,
		Search:  search,
		Scraper: sc,
		Store:   st,
		Days:    days,
		logger:  logger,
	}
}

// SearchQuery is the web search issued for every company.
func (g *Gatherer) SearchQuery(company string) string {
	return fmt.Sprintf("Tell me everything that happened with %s in the past %d days", company, g.Days)
}

// Gather processes companies one after another. A failure for one company is
// logged and does not stop the others.
func (g *Gatherer) Gather(ctx context.Context, companies []string) []Result {
	var results []Result
	for _, company := range companies {
		if err := ctx.Err(); err != nil {
			g.logger.Warn("gather cancelled", zap.Error(err))
			break
		}
		res, err := g.GatherCompany(ctx, company)
		if err != nil {
			g.logger.Error("gather failed", zap.String("company", company), zap.Error(err))
			continue
		}
		results = append(results, res)
	}
	return results
}

// GatherCompany captures every configured source for one company. Only a
// failure to create the company folder is returned; source errors are logged.
func (g *Gatherer) GatherCompany(ctx context.Context, company string) (Result, error) {
	log := g.logger.With(zap.String("company", company))
	log.Info("fetching news and search results")

	dir, err := g.Store.CompanyDir(g.Store.Today(), company)
	if err != nil {
		return Result{}, err
	}
	res := Result{Company: company, Dir: dir}

	if g.News != nil {
		articles, err := g.News.Fetch(ctx, company)
		if err != nil {
			log.Warn("news fetch failed", zap.Error(err))
		}
		for i, a := range articles {
			if err := g.Store.Save(dir, fmt.Sprintf("news_%d.txt", i), g.articleText(ctx, a)); err != nil {
				log.Warn("save article failed", zap.Error(err))
				continue
			}
			res.Articles++
		}
	}

	if g.Feeds != nil {
		items, err := g.Feeds.Fetch(ctx, company)
		if err != nil {
			log.Warn("feed fetch failed", zap.Error(err))
		}
		for i, a := range items {
			if err := g.Store.Save(dir, fmt.Sprintf("feed_%d.txt", i), feedText(a)); err != nil {
				log.Warn("save feed item failed", zap.Error(err))
				continue
			}
			res.FeedHits++
		}
	}

	if g.Search != nil {
		query := g.SearchQuery(company)
		hits, err := g.Search.Search(ctx, query)
		if err != nil {
			log.Warn("search failed", zap.Error(err))
		}

		var summary strings.Builder
		fmt.Fprintf(&summary, "Tavily Search Query: %s\n\n", query)
		for i, h := range hits {
			title := h.Title
			if title == "" {
				title = fmt.Sprintf("search_%d", i)
			}
			content := h.Content
			if content == "" {
				content = "No content available"
			}
			fmt.Fprintf(&summary, "Title: %s\nURL: %s\nRelevance Score: %v\nSummary: %s...\n\n",
				title, h.URL, h.Score, truncate(content, summaryExcerpt))

			full := fmt.Sprintf("Title: %s\nURL: %s\nRelevance Score: %v\n\nFull Content:\n%s", title, h.URL, h.Score, content)
			if err := g.Store.Save(dir, fmt.Sprintf("search_%d.txt", i), full); err != nil {
				log.Warn("save search result failed", zap.Error(err))
				continue
			}
			res.Searches++
		}
		if err := g.Store.Save(dir, "tavily_search_summary.txt", summary.String()); err != nil {
			log.Warn("save search summary failed", zap.Error(err))
		}
	}

	log.Info("company data saved",
		zap.String("dir", dir),
		zap.Int("articles", res.Articles),
		zap.Int("feed_items", res.FeedHits),
		zap.Int("search_results", res.Searches))
	return res, nil
}

func (g *Gatherer) articleText(ctx context.Context, a model.Article) string {
	title := a.Title
	if title == "" {
		title = "No Title"
	}

	var content string
	switch {
	case a.URL == "":
		content = "No URL available."
	case g.Scraper == nil:
		content = a.Description
	default:
		scraped, err := g.Scraper.Scrape(ctx, a.URL)
		if err != nil {
			g.logger.Warn("scrape failed", zap.String("url", a.URL), zap.Error(err))
			content = fmt.Sprintf("Error scraping %s: %v", a.URL, err)
		} else {
			content = scraped
		}
	}
	return fmt.Sprintf("Title: %s\nURL: %s\n\n%s", title, a.URL, content)
}

func feedText(a model.Article) string {
	published := "unknown"
	if !a.PublishedAt.IsZero() {
		published = a.PublishedAt.Format(model.DateLayout)
	}
	return fmt.Sprintf("Title: %s\nURL: %s\nSource: %s\nPublished: %s\n\n%s",
		a.Title, a.URL, a.Source, published, a.Description)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
