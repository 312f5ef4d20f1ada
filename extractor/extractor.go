// Package extractor pulls the readable article body out of a news page.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"portal-noticias/httpclient"
)

const maxPageSize = 5 * 1024 * 1024

// minTextLen 보다 짧은 readability 결과는 실패로 보고 trafilatura 로 재시도한다.
const minTextLen = 200

var ErrEmptyContent = errors.New("extractor: empty content")

type Article struct {
	Title string
	Text  string
	Image string
}

type Extractor struct {
	client *http.Client
}

func New(client *http.Client) *Extractor {
	if client == nil {
		client = httpclient.NewDefault()
	}
	return &Extractor{client: client}
}

// FetchAndExtract downloads pageURL and extracts it.
func (e *Extractor) FetchAndExtract(ctx context.Context, pageURL string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PortalNoticiasBot/1.0)")
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpclient.NewHTTPError(resp)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return Extract(string(body), pageURL)
}

// Extract 는 readability 를 먼저 쓰고, 실패하거나 본문이 너무 짧으면 trafilatura 로 대체한다.
func Extract(htmlStr, pageURL string) (*Article, error) {
	u, _ := url.Parse(pageURL)

	primary, rerr := withReadability(htmlStr, u)
	if rerr == nil && utf8.RuneCountInString(primary.Text) >= minTextLen {
		return primary, nil
	}

	fallback, terr := withTrafilatura(htmlStr, u)
	if terr == nil && fallback.Text != "" {
		if primary != nil {
			if fallback.Title == "" {
				fallback.Title = primary.Title
			}
			if fallback.Image == "" {
				fallback.Image = primary.Image
			}
		}
		return fallback, nil
	}

	if primary != nil && primary.Text != "" {
		return primary, nil
	}
	return nil, errors.Join(ErrEmptyContent, rerr, terr)
}

func withReadability(htmlStr string, u *url.URL) (*Article, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}
	article, err := readability.FromDocument(doc, u)
	if err != nil {
		return nil, err
	}
	return &Article{
		Title: strings.TrimSpace(article.Title),
		Text:  strings.TrimSpace(article.TextContent),
		Image: article.Image,
	}, nil
}

func withTrafilatura(htmlStr string, u *url.URL) (*Article, error) {
	opts := trafilatura.Options{
		IncludeImages: true,
		OriginalURL:   u,
	}
	res, err := trafilatura.Extract(strings.NewReader(htmlStr), opts)
	if err != nil {
		return nil, err
	}
	return &Article{
		Title: strings.TrimSpace(res.Metadata.Title),
		Text:  strings.TrimSpace(res.ContentText),
		Image: res.Metadata.Image,
	}, nil
}
