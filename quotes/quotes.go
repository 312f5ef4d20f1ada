// Package quotes fetches currency quotes (BRL pairs) from AwesomeAPI with an in-memory TTL cache.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"portal-noticias/config"
	"portal-noticias/httpclient"
)

// Quote 는 화면에 표시하는 한 통화쌍의 시세이다.
type Quote struct {
	Pair      string    `json:"pair"`
	Code      string    `json:"code"`
	CodeIn    string    `json:"codein"`
	Name      string    `json:"name"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	PctChange float64   `json:"pct_change"`
	UpdatedAt time.Time `json:"updated_at"`
}

// awesomeQuote 는 AwesomeAPI 응답 한 항목이다. 숫자도 문자열로 온다.
type awesomeQuote struct {
	Code      string `json:"code"`
	CodeIn    string `json:"codein"`
	Name      string `json:"name"`
	High      string `json:"high"`
	Low       string `json:"low"`
	PctChange string `json:"pctChange"`
	Bid       string `json:"bid"`
	Ask       string `json:"ask"`
	Timestamp string `json:"timestamp"`
}

type Client struct {
	base  *httpclient.BaseClient
	pairs []string
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	cached    []Quote
	fetchedAt time.Time
}

func New(cfg config.QuotesConfig) *Client {
	return &Client{
		base:  httpclient.NewBaseClient(cfg.BaseURL, httpclient.Config{Timeout: 10 * time.Second}),
		pairs: cfg.Pairs,
		ttl:   cfg.CacheTTL,
		now:   time.Now,
	}
}

// Latest returns cached quotes while they are younger than the TTL.
// When a refresh fails and stale quotes exist, the stale ones are returned.
func (c *Client) Latest(ctx context.Context) ([]Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.cached, nil
	}
	quotes, err := c.fetch(ctx)
	if err != nil {
		if c.cached != nil {
			config.Logger.Warnf("quotes: refresh failed, serving stale: %v", err)
			return c.cached, nil
		}
		return nil, err
	}
	c.cached = quotes
	c.fetchedAt = c.now()
	return quotes, nil
}

func (c *Client) fetch(ctx context.Context) ([]Quote, error) {
	req, err := c.base.NewRequest(ctx, http.MethodGet, "/json/last/"+strings.Join(c.pairs, ","), nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.base.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quotes request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.NewHTTPError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	var raw map[string]awesomeQuote
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("quotes decode failed: %w", err)
	}

	// 설정 순서를 유지하고 설정에 없는 키는 버린다
	out := make([]Quote, 0, len(raw))
	for _, pair := range c.pairs {
		q, ok := raw[strings.ReplaceAll(pair, "-", "")]
		if !ok {
			continue
		}
		out = append(out, q.toQuote(pair))
	}
	return out, nil
}

func (a awesomeQuote) toQuote(pair string) Quote {
	q := Quote{
		Pair:      pair,
		Code:      a.Code,
		CodeIn:    a.CodeIn,
		Name:      a.Name,
		Bid:       parseFloat(a.Bid),
		Ask:       parseFloat(a.Ask),
		High:      parseFloat(a.High),
		Low:       parseFloat(a.Low),
		PctChange: parseFloat(a.PctChange),
	}
	if sec, err := strconv.ParseInt(a.Timestamp, 10, 64); err == nil {
		q.UpdatedAt = time.Unix(sec, 0).UTC()
	}
	return q
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
