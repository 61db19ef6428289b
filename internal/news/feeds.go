package news

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"CompanyInsights/internal/model"
)

// FeedProvider scans RSS/Atom feeds for items that mention a company.
type FeedProvider struct {
	Feeds  []string
	Days   int
	Now    func() time.Time
	parser *gofeed.Parser
	logger *zap.Logger
}

// NewFeedProvider creates a provider over the given feed URLs.
func NewFeedProvider(feeds []string, days int, logger *zap.Logger) *FeedProvider {
	p := gofeed.NewParser()
	p.UserAgent = "Mozilla/5.0"
	return &FeedProvider{Feeds: feeds, Days: days, Now: time.Now, parser: p, logger: logger}
}

// Fetch returns matching items from every reachable feed. Unreachable feeds
// are logged and skipped.
func (f *FeedProvider) Fetch(ctx context.Context, company string) ([]model.Article, error) {
	needle := strings.ToLower(company)
	cutoff := f.Now().AddDate(0, 0, -f.Days)

	var articles []model.Article
	for _, feedURL := range f.Feeds {
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			f.logger.Warn("feed fetch failed", zap.String("feed", feedURL), zap.Error(err))
			continue
		}
		for _, item := range feed.Items {
			text := strings.ToLower(item.Title + " " + item.Description)
			if !strings.Contains(text, needle) {
				continue
			}
			var published time.Time
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
				if f.Days > 0 && published.Before(cutoff) {
					continue
				}
			}
			articles = append(articles, model.Article{
				Title:       item.Title,
				URL:         item.Link,
				Source:      feed.Title,
				Description: item.Description,
				PublishedAt: published,
			})
		}
	}
	return articles, nil
}
