package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/generator"
	"portal-noticias/httpclient"
	"portal-noticias/models"
)

func newTestServer(t *testing.T, stream string) (*httptest.Server, *dto.CreatePostRequestDTO) {
	t.Helper()
	var saved dto.CreatePostRequestDTO
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/admin/generate/stream", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, stream)
	})
	mux.HandleFunc("/api/v1/admin/posts", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(dto.PostDTO{ID: "abc", Title: saved.Title, Slug: "titulo-1"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &saved
}

func TestGenerateReturnsArticleAfterDone(t *testing.T) {
	stream := `data: {"type":"delta","content":"---TITULO---\nInflação cai"}` + "\n\n" +
		`data: {"type":"delta","content":"\n---CONTEUDO---\n<p>Texto</p>"}` + "\n\n" +
		`data: {"type":"done","article":{"title":"Inflação cai","content":"<p>Texto</p>","category":"Economia","isUrgent":true}}` + "\n\n" +
		"data: [DONE]\n\n"
	srv, saved := newTestServer(t, stream)
	c := newAdminClient(srv.URL+"/api/v1", "tok")

	var previews []string
	a, err := c.Generate(context.Background(), dto.GenerateRequestDTO{Topic: "inflação"}, func(p generator.Parsed) {
		previews = append(previews, p.Title)
	})
	require.NoError(t, err)
	assert.Equal(t, "Inflação cai", a.Title)
	assert.Len(t, previews, 2)

	post, err := c.CreatePost(context.Background(), postFromArticle(a, "", "https://g1.globo.com/x"))
	require.NoError(t, err)
	assert.Equal(t, "abc", post.ID)
	assert.Equal(t, "Economia", saved.Category)
	assert.True(t, saved.IsBreaking)
	assert.Equal(t, []string{"https://g1.globo.com/x"}, saved.Sources)
}

func TestGenerateWithoutDoneReturnsNothing(t *testing.T) {
	stream := `data: {"type":"delta","content":"---TITULO---\nParcial"}` + "\n\n"
	srv, _ := newTestServer(t, stream)
	c := newAdminClient(srv.URL+"/api/v1", "tok")

	a, err := c.Generate(context.Background(), dto.GenerateRequestDTO{Topic: "x"}, nil)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, generator.ErrStreamIncomplete)
}

func TestGenerateUnauthorized(t *testing.T) {
	srv, _ := newTestServer(t, "")
	c := newAdminClient(srv.URL+"/api/v1", "wrong")

	_, err := c.Generate(context.Background(), dto.GenerateRequestDTO{Topic: "x"}, nil)
	var httpErr *httpclient.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestPostFromArticleKeepsExplicitCategory(t *testing.T) {
	a := &generator.Article{Title: "T", Content: "C", Category: models.CategoryBrasil}
	req := postFromArticle(a, "Mundo", "")
	assert.Equal(t, "Mundo", req.Category)
	assert.Nil(t, req.Sources)
}
