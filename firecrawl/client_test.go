package firecrawl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-noticias/config"
	"portal-noticias/httpclient"
)

func newTestClient(url string) *Client {
	return New(config.FirecrawlConfig{BaseURL: url, Timeout: 5 * time.Second, APIKey: "fc-test"})
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		sites []string
		want  string
	}{
		{"no sites", "economia", nil, "economia"},
		{"single site", "economia", []string{"g1.globo.com"}, "economia site:g1.globo.com"},
		{"many sites", "política", []string{"https://g1.globo.com/", " uol.com.br ", ""}, "política (site:g1.globo.com OR site:uol.com.br)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.topic, tt.sites))
		})
	}
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "Bearer fc-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "economia site:g1.globo.com", body["query"])
		assert.Equal(t, float64(5), body["limit"])
		assert.Equal(t, "qdr:d", body["tbs"])
		assert.NotNil(t, body["scrapeOptions"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[
			{"url":"https://www.g1.globo.com/a","title":"Dólar sobe","description":"desc","markdown":"# corpo",
			 "metadata":{"ogImage":"https://img/a.jpg"}}
		]}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Search(context.Background(), SearchRequest{
		Query: "economia site:g1.globo.com", Limit: 5, TBS: "qdr:d", ScrapeMarkdown: true,
	})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Dólar sobe", res[0].Title)
	assert.Equal(t, "# corpo", res[0].Markdown)
	assert.Equal(t, "https://img/a.jpg", res[0].Image)
	assert.Equal(t, "g1.globo.com", res[0].Source)
}

func TestSearchNon2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), SearchRequest{Query: "x"})
	var he *httpclient.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusTooManyRequests, he.StatusCode)
}

func TestScrapeFallsBackToMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/scrape", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"markdown":"texto","metadata":{"title":"Título","description":"Resumo"}}}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Scrape(context.Background(), "https://uol.com.br/x")
	require.NoError(t, err)
	assert.Equal(t, "Título", res.Title)
	assert.Equal(t, "Resumo", res.Description)
	assert.Equal(t, "https://uol.com.br/x", res.URL)
	assert.Equal(t, "uol.com.br", res.Source)
}
