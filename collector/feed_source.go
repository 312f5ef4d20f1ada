package collector

import (
	"context"
	"time"

	"portal-noticias/config"
	"portal-noticias/extractor"
	"portal-noticias/feeder"
)

type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string, maxAge time.Duration, limit int) ([]feeder.FeedItem, error)
}

type PageExtractor interface {
	FetchAndExtract(ctx context.Context, pageURL string) (*extractor.Article, error)
}

// FeedSource turns recent RSS items into candidates. Failures are logged and skipped.
type FeedSource struct {
	feeds    FeedFetcher
	pages    PageExtractor
	maxItems int
	maxAge   time.Duration
}

func NewFeedSource(feeds FeedFetcher, pages PageExtractor, maxItems int) *FeedSource {
	return &FeedSource{feeds: feeds, pages: pages, maxItems: maxItems, maxAge: 24 * time.Hour}
}

func (f *FeedSource) Candidates(ctx context.Context, feedURLs []string) []Candidate {
	var out []Candidate
	for _, feedURL := range feedURLs {
		items, err := f.feeds.Fetch(ctx, feedURL, f.maxAge, f.maxItems)
		if err != nil {
			config.Logger.Warnf("feed fetch failed (%s): %v", feedURL, err)
			continue
		}
		for _, item := range items {
			if ctx.Err() != nil {
				return out
			}
			page, err := f.pages.FetchAndExtract(ctx, item.Link)
			if err != nil {
				config.Logger.Warnf("feed item extract failed (%s): %v", item.Link, err)
				continue
			}
			c := Candidate{
				URL:         item.Link,
				Title:       item.Title,
				Description: item.Description,
				Markdown:    page.Text,
				Image:       item.Image,
			}
			if c.Title == "" {
				c.Title = page.Title
			}
			if c.Image == "" {
				c.Image = page.Image
			}
			out = append(out, c)
		}
	}
	return out
}
