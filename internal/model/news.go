package model

import "time"

// Article is a news item returned by a news provider.
type Article struct {
	Title       string
	URL         string
	Source      string
	Description string
	PublishedAt time.Time
}

// SearchResult is one hit from the web search provider.
type SearchResult struct {
	Title   string
	URL     string
	Content string
	Score   float64
}
