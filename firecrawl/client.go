// Package firecrawl is a small client for the Firecrawl search and scrape API.
package firecrawl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"portal-noticias/config"
	"portal-noticias/httpclient"
)

const maxBodySize = 10 * 1024 * 1024

type Client struct {
	base   *httpclient.BaseClient
	apiKey string
}

// SearchRequest 는 검색 한 번의 파라미터이다.
type SearchRequest struct {
	Query string
	Limit int
	// TBS 는 검색 기간 필터이다. 예: "qdr:d" (최근 하루)
	TBS            string
	ScrapeMarkdown bool
}

// SearchResult is one candidate returned by Search.
type SearchResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Markdown    string `json:"markdown"`
	Image       string `json:"image,omitempty"`
	Source      string `json:"source"`
}

type searchPayload struct {
	Query         string         `json:"query"`
	Limit         int            `json:"limit,omitempty"`
	TBS           string         `json:"tbs,omitempty"`
	Lang          string         `json:"lang,omitempty"`
	Country       string         `json:"country,omitempty"`
	ScrapeOptions *scrapeOptions `json:"scrapeOptions,omitempty"`
}

type scrapeOptions struct {
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapePayload struct {
	URL string `json:"url"`
	scrapeOptions
}

type metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OGImage     string `json:"ogImage"`
	SourceURL   string `json:"sourceURL"`
}

type document struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Markdown    string   `json:"markdown"`
	Metadata    metadata `json:"metadata"`
}

type searchResponse struct {
	Success bool       `json:"success"`
	Data    []document `json:"data"`
	Error   string     `json:"error"`
}

type scrapeResponse struct {
	Success bool     `json:"success"`
	Data    document `json:"data"`
	Error   string   `json:"error"`
}

func New(cfg config.FirecrawlConfig) *Client {
	return &Client{
		base:   httpclient.NewBaseClient(cfg.BaseURL, httpclient.Config{Timeout: cfg.Timeout, LogBody: true}),
		apiKey: cfg.APIKey,
	}
}

// Search runs one search. Non-2xx responses are returned as *httpclient.HTTPError.
func (c *Client) Search(ctx context.Context, in SearchRequest) ([]SearchResult, error) {
	payload := searchPayload{
		Query:   in.Query,
		Limit:   in.Limit,
		TBS:     in.TBS,
		Lang:    "pt",
		Country: "br",
	}
	if in.ScrapeMarkdown {
		payload.ScrapeOptions = &scrapeOptions{Formats: []string{"markdown"}, OnlyMainContent: true}
	}

	var out searchResponse
	if err := c.post(ctx, "/v1/search", payload, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("firecrawl search failed: %s", out.Error)
	}

	results := make([]SearchResult, 0, len(out.Data))
	for _, d := range out.Data {
		results = append(results, d.toResult())
	}
	return results, nil
}

// Scrape fetches one page as markdown.
func (c *Client) Scrape(ctx context.Context, pageURL string) (*SearchResult, error) {
	payload := scrapePayload{
		URL:           pageURL,
		scrapeOptions: scrapeOptions{Formats: []string{"markdown"}, OnlyMainContent: true},
	}
	var out scrapeResponse
	if err := c.post(ctx, "/v1/scrape", payload, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("firecrawl scrape failed: %s", out.Error)
	}
	if out.Data.URL == "" {
		out.Data.URL = pageURL
	}
	res := out.Data.toResult()
	return &res, nil
}

func (c *Client) post(ctx context.Context, relPath string, payload any, out any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := c.base.NewJSONRequest(ctx, http.MethodPost, relPath, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.base.Do(req)
	if err != nil {
		return fmt.Errorf("firecrawl request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.NewHTTPError(resp)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("firecrawl response read failed: %w", err)
	}
	return json.Unmarshal(body, out)
}

func (d document) toResult() SearchResult {
	r := SearchResult{
		URL:         d.URL,
		Title:       d.Title,
		Description: d.Description,
		Markdown:    d.Markdown,
		Image:       d.Metadata.OGImage,
	}
	if r.URL == "" {
		r.URL = d.Metadata.SourceURL
	}
	if r.Title == "" {
		r.Title = d.Metadata.Title
	}
	if r.Description == "" {
		r.Description = d.Metadata.Description
	}
	r.Source = SourceName(r.URL)
	return r
}

// SourceName 은 URL 의 호스트에서 www. 를 뗀 값을 돌려준다.
func SourceName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// BuildQuery combines a topic with an OR-list of site: filters.
//
//	BuildQuery("economia", []string{"g1.globo.com", "uol.com.br"})
//	// economia (site:g1.globo.com OR site:uol.com.br)
func BuildQuery(topic string, sites []string) string {
	topic = strings.TrimSpace(topic)
	filters := make([]string, 0, len(sites))
	for _, s := range sites {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "https://")
		s = strings.TrimPrefix(s, "http://")
		s = strings.TrimSuffix(s, "/")
		if s == "" {
			continue
		}
		filters = append(filters, "site:"+s)
	}
	switch len(filters) {
	case 0:
		return topic
	case 1:
		return topic + " " + filters[0]
	}
	return topic + " (" + strings.Join(filters, " OR ") + ")"
}
