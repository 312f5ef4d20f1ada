package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() string {
	para := strings.Repeat("O Banco Central manteve a taxa Selic em 10,5% ao ano nesta quarta-feira. ", 8)
	return `<!doctype html><html><head><title>Copom mantém Selic</title>
<meta property="og:image" content="https://img.example.com/selic.jpg"></head>
<body><nav>menu | home | contato</nav>
<article><h1>Copom mantém Selic</h1><p>` + para + `</p><p>` + para + `</p></article>
<footer>todos os direitos reservados</footer></body></html>`
}

func TestExtract(t *testing.T) {
	a, err := Extract(samplePage(), "https://g1.globo.com/economia/selic")
	require.NoError(t, err)
	assert.Contains(t, a.Text, "Selic")
}

func TestExtractEmptyPage(t *testing.T) {
	_, err := Extract("<html><body></body></html>", "https://example.com")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestFetchAndExtractNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(nil).FetchAndExtract(context.Background(), srv.URL)
	assert.Error(t, err)
}
