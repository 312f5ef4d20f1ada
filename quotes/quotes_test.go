package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-noticias/config"
)

const sample = `{
 "USDBRL": {"code":"USD","codein":"BRL","name":"Dólar Americano/Real Brasileiro","high":"5.74","low":"5.66","pctChange":"0.35","bid":"5.7012","ask":"5.7042","timestamp":"1741615200"},
 "EURBRL": {"code":"EUR","codein":"BRL","name":"Euro/Real Brasileiro","high":"6.2","low":"6.1","pctChange":"-0.1","bid":"6.15","ask":"6.16","timestamp":"1741615200"}
}`

func TestLatestCachesWithinTTL(t *testing.T) {
	var calls atomic.Int32
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/json/last/USD-BRL,EUR-BRL", r.URL.Path)
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	c := New(config.QuotesConfig{BaseURL: srv.URL, Pairs: []string{"USD-BRL", "EUR-BRL"}, CacheTTL: 5 * time.Minute})
	c.now = func() time.Time { return now }

	q, err := c.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, q, 2)
	assert.Equal(t, "USD-BRL", q[0].Pair)
	assert.InDelta(t, 5.7012, q[0].Bid, 1e-9)
	assert.InDelta(t, -0.1, q[1].PctChange, 1e-9)
	assert.Equal(t, int64(1741615200), q[0].UpdatedAt.Unix())

	now = now.Add(time.Minute)
	_, err = c.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	// TTL 만료 후 실패하면 이전 값을 돌려준다
	now = now.Add(10 * time.Minute)
	status.Store(http.StatusTooManyRequests)
	q, err = c.Latest(context.Background())
	require.NoError(t, err)
	assert.Len(t, q, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLatestWithoutCacheReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(config.QuotesConfig{BaseURL: srv.URL, Pairs: []string{"USD-BRL"}, CacheTTL: time.Minute})
	_, err := c.Latest(context.Background())
	assert.Error(t, err)
}
