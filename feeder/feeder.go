package feeder

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"portal-noticias/httpclient"
)

type FeedItem struct {
	Title       string
	Link        string
	Description string
	Image       string
	PublishedAt time.Time
}

type Feeder struct {
	client *http.Client
	now    func() time.Time
}

func New(client *http.Client) *Feeder {
	if client == nil {
		client = httpclient.New(httpclient.Config{Timeout: 20 * time.Second})
	}
	return &Feeder{client: client, now: time.Now}
}

// Fetch 는 RSS/Atom 피드에서 maxAge 이내의 항목을 최신순으로 최대 limit 개 반환한다.
// 발행일이 없는 항목은 제외한다.
func (f *Feeder) Fetch(ctx context.Context, feedURL string, maxAge time.Duration, limit int) ([]FeedItem, error) {
	fp := gofeed.NewParser()
	fp.Client = f.client
	fp.UserAgent = "PortalNoticiasBot/1.0"

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}
	return filterItems(feed.Items, f.now().Add(-maxAge), limit), nil
}

func filterItems(items []*gofeed.Item, since time.Time, limit int) []FeedItem {
	var out []FeedItem
	for _, item := range items {
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}
		if published.IsZero() || published.Before(since) {
			continue
		}
		fi := FeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			Description: strings.TrimSpace(item.Description),
			PublishedAt: published,
		}
		if item.Image != nil {
			fi.Image = item.Image.URL
		}
		if fi.Image == "" {
			for _, enc := range item.Enclosures {
				if strings.HasPrefix(enc.Type, "image/") {
					fi.Image = enc.URL
					break
				}
			}
		}
		out = append(out, fi)
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
