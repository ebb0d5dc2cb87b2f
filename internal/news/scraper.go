// Package news fetches headline titles used for the macro event scan and
// the theme ranking. Headlines are optional input; every caller must
// tolerate an empty list.
package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// DefaultSearchBaseURL is the production Google News search endpoint.
const DefaultSearchBaseURL = "https://news.google.com/search"

const defaultMaxHeadlines = 30

// Scraper pulls headline titles from a Google News search page.
type Scraper struct {
	Client  *resty.Client
	BaseURL string
	Log     zerolog.Logger
}

func NewScraper(client *resty.Client, log zerolog.Logger) *Scraper {
	return &Scraper{Client: client, Log: log}
}

// Headlines searches for query and returns up to defaultMaxHeadlines
// titles in page order. A failed scrape returns the error to the caller;
// it is the caller's choice to continue without headlines.
func (s *Scraper) Headlines(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	base := s.BaseURL
	if base == "" {
		base = DefaultSearchBaseURL
	}
	searchURL := fmt.Sprintf("%s?q=%s&hl=zh-CN&gl=CN&ceid=CN:zh-Hans", base, url.QueryEscape(query))

	resp, err := s.Client.R().
		SetContext(ctx).
		Get(searchURL)
	if err != nil {
		return nil, fmt.Errorf("fetch headlines for %q: %w", query, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("headline search for %q returned %d", query, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("parse headline page for %q: %w", query, err)
	}

	titles := extractTitles(doc)
	if len(titles) > defaultMaxHeadlines {
		titles = titles[:defaultMaxHeadlines]
	}

	s.Log.Debug().Str("query", query).Int("headlines", len(titles)).Msg("headlines scraped")
	return titles, nil
}

// extractTitles pulls article titles in document order. The page layout
// shifts periodically, so both h3 and h4 slots are checked.
func extractTitles(doc *goquery.Document) []string {
	var titles []string
	doc.Find("article").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find("h3").Text())
		if title == "" {
			title = strings.TrimSpace(sel.Find("h4").Text())
		}
		if title == "" {
			return
		}
		titles = append(titles, title)
	})
	return titles
}
