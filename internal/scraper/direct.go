package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// maxPageBytes caps how much of a page is read.
const maxPageBytes = 5 << 20

// Direct fetches a page itself and converts its main content to markdown.
type Direct struct {
	Client *http.Client
	logger *zap.Logger
}

// NewDirect creates a direct scraper with optional proxy support.
func NewDirect(proxyURL string, logger *zap.Logger) *Direct {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Direct{
		Client: &http.Client{Timeout: 30 * time.Second, Transport: transport},
		logger: logger,
	}
}

func (d *Direct) Scrape(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := d.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body), Endpoint: target}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	markdown, err := ToMarkdown(doc, target)
	if err != nil {
		return "", err
	}
	d.logger.Debug("page scraped", zap.String("url", target), zap.Int("markdown_len", len(markdown)))
	return markdown, nil
}

// ToMarkdown strips page chrome and converts the main content area.
func ToMarkdown(doc *goquery.Document, pageURL string) (string, error) {
	doc.Find("script, style, noscript, nav, header, footer, aside, form, iframe").Remove()

	sel := doc.Find("article").First()
	if sel.Length() == 0 {
		sel = doc.Find("main").First()
	}
	if sel.Length() == 0 {
		sel = doc.Find("body").First()
	}

	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", fmt.Errorf("extract content: %w", err)
	}

	domain := ""
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		domain = u.Scheme + "://" + u.Host
	}
	converted, err := md.NewConverter(domain, true, nil).ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	converted = strings.TrimSpace(converted)
	if title != "" && !strings.Contains(converted, title) {
		converted = "# " + title + "\n\n" + converted
	}
	return converted, nil
}
