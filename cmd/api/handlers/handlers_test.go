package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/cmd/api/middleware"
	"portal-noticias/cmd/api/services"
	"portal-noticias/collector"
	"portal-noticias/config"
	"portal-noticias/firecrawl"
	"portal-noticias/generator"
	"portal-noticias/httpclient"
	"portal-noticias/imageproxy"
	"portal-noticias/llm"
	"portal-noticias/models"
	"portal-noticias/notifier"
	"portal-noticias/repositories"
	"portal-noticias/revision"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{repositories.ErrNotFound, http.StatusNotFound},
		{repositories.ErrInvalidID, http.StatusBadRequest},
		{repositories.ErrDuplicate, http.StatusConflict},
		{services.ErrInvalidCategory, http.StatusBadRequest},
		{revision.ErrInvalidText, http.StatusBadRequest},
		{errors.Join(revision.ErrUpstream, errors.New("x")), http.StatusBadGateway},
		{fmt.Errorf("search: %w", &httpclient.HTTPError{StatusCode: 429}), http.StatusBadGateway},
		{services.ErrNoSource, http.StatusNotFound},
		{imageproxy.ErrNotImage, http.StatusUnsupportedMediaType},
		{imageproxy.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{imageproxy.ErrBlockedHost, http.StatusForbidden},
		{notifier.ErrPushNotConfigured, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, _ := statusFor(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// posts 는 PostStore 의 최소 메모리 구현이다.
type posts struct {
	items []models.Post
}

func (p *posts) List(context.Context, repositories.ListPostsOptions) ([]models.Post, int64, error) {
	return p.items, int64(len(p.items)), nil
}

func (p *posts) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	for i := range p.items {
		if p.items[i].Slug == slug {
			return &p.items[i], nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (p *posts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	for i := range p.items {
		if p.items[i].ID == id {
			return &p.items[i], nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (p *posts) FindBreaking(context.Context, time.Time) (*models.Post, error) {
	for i := range p.items {
		if p.items[i].IsBreaking {
			return &p.items[i], nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (p *posts) IncrementViewCount(ctx context.Context, slug string) error {
	_, err := p.FindBySlug(ctx, slug)
	return err
}

func (p *posts) Insert(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	p.items = append(p.items, *post)
	return nil
}

func (p *posts) UpdateFields(context.Context, primitive.ObjectID, bson.M) error { return nil }
func (p *posts) Delete(context.Context, primitive.ObjectID) error               { return nil }
func (p *posts) SetFeatured(context.Context, primitive.ObjectID, bool) error    { return nil }
func (p *posts) SetBreaking(context.Context, primitive.ObjectID, bool) error    { return nil }

func postRouter(store *posts) *gin.Engine {
	svc := services.NewPostService(store, nil)
	r := gin.New()
	r.GET("/posts", ListPostsHandler(svc))
	r.GET("/posts/breaking", BreakingPostHandler(svc))
	r.GET("/posts/:slug", GetPostHandler(svc))
	r.POST("/posts/:slug/view", IncrementPostViewCountHandler(svc))
	r.GET("/categories", ListCategoriesHandler())
	r.POST("/admin/posts", AdminCreatePostHandler(svc))
	r.PATCH("/admin/posts/:id/featured", AdminSetFeaturedHandler(svc))
	return r
}

func TestPublicPostRoutes(t *testing.T) {
	store := &posts{items: []models.Post{{ID: primitive.NewObjectID(), Slug: "a", Title: "A", Content: "<p>corpo</p>"}}}
	r := postRouter(store)

	w := perform(r, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.PaginationPostDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Empty(t, page.Data[0].Content)

	w = perform(r, http.MethodGet, "/posts/a", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "corpo")

	w = perform(r, http.MethodGet, "/posts/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(r, http.MethodGet, "/posts/breaking", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = perform(r, http.MethodPost, "/posts/a/view", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCategories(t *testing.T) {
	w := perform(postRouter(&posts{}), http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cats []dto.CategoryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	require.Len(t, cats, len(models.AllCategories))
	assert.Contains(t, cats, dto.CategoryDTO{Name: "Política", Slug: "politica"})
}

func TestAdminCreateAndToggleValidation(t *testing.T) {
	r := postRouter(&posts{})

	w := perform(r, http.MethodPost, "/admin/posts", `{"title":"T"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPost, "/admin/posts", `{"title":"T","content":"C","category":"Horóscopo"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_category")

	w = perform(r, http.MethodPost, "/admin/posts", `{"title":"T","content":"C","category":"Mundo"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = perform(r, http.MethodPatch, "/admin/posts/not-hex/featured", `{"value":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPatch, "/admin/posts/"+primitive.NewObjectID().Hex()+"/featured", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubRunner struct {
	trigger models.RunTrigger
	err     error
}

func (s *stubRunner) Run(_ context.Context, trigger models.RunTrigger) (*collector.RunResult, error) {
	s.trigger = trigger
	if s.err != nil {
		return nil, s.err
	}
	return &collector.RunResult{Success: true, Message: "ok", Posts: []models.CreatedPostSummary{}}, nil
}

func TestCollectHandlerTrigger(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		err     error
		want    models.RunTrigger
		status  int
	}{
		{"cron", "cron", nil, models.TriggerCron, http.StatusOK},
		{"admin", "editor-1", nil, models.TriggerManual, http.StatusOK},
		{"failure", "cron", errors.New("firecrawl down"), models.TriggerCron, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{err: tt.err}
			r := gin.New()
			r.POST("/collect", func(c *gin.Context) {
				c.Set(middleware.ContextSubject, tt.subject)
				c.Next()
			}, CollectHandler(runner))

			w := perform(r, http.MethodPost, "/collect", "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.want, runner.trigger)
			if tt.err != nil {
				assert.Contains(t, w.Body.String(), "firecrawl down")
			}
		})
	}
}

type stubWeb struct {
	results []firecrawl.SearchResult
}

func (s stubWeb) Search(context.Context, firecrawl.SearchRequest) ([]firecrawl.SearchResult, error) {
	return s.results, nil
}

func (s stubWeb) Scrape(context.Context, string) (*firecrawl.SearchResult, error) {
	return nil, errors.New("not used")
}

type stubGen struct {
	deltas []string
	err    error
}

func (s stubGen) Stream(_ context.Context, src generator.Source, onDelta func(string) error) (*generator.Article, error) {
	for _, d := range s.deltas {
		if err := onDelta(d); err != nil {
			return nil, err
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &generator.Article{Title: "Gerado", Content: "<p>x</p>", Category: models.Category(src.Category)}, nil
}

func TestGenerateStreamHandler(t *testing.T) {
	web := stubWeb{results: []firecrawl.SearchResult{{URL: "https://a", Title: "A", Markdown: "texto"}}}

	t.Run("success frames", func(t *testing.T) {
		svc := services.NewGenerateService(web, stubGen{deltas: []string{"---TITULO---", "Gerado"}}, "qdr:d")
		r := gin.New()
		r.POST("/generate", GenerateStreamHandler(svc))

		w := perform(r, http.MethodPost, "/generate", `{"topic":"dólar","category":"Economia"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

		body := w.Body.String()
		assert.Contains(t, body, `data: {"type":"delta","content":"---TITULO---"}`)
		assert.Contains(t, body, `"type":"done"`)
		assert.True(t, strings.HasSuffix(strings.TrimSpace(body), "data: [DONE]"))

		a, err := generator.ConsumeStream(context.Background(), strings.NewReader(body), nil)
		require.NoError(t, err)
		assert.Equal(t, "Gerado", a.Title)
		assert.Equal(t, models.CategoryEconomia, a.Category)
	})

	t.Run("error frame", func(t *testing.T) {
		svc := services.NewGenerateService(web, stubGen{err: errors.New("quota")}, "qdr:d")
		r := gin.New()
		r.POST("/generate", GenerateStreamHandler(svc))

		w := perform(r, http.MethodPost, "/generate", `{"topic":"dólar"}`)
		_, err := generator.ConsumeStream(context.Background(), strings.NewReader(w.Body.String()), nil)
		var streamErr *generator.StreamError
		require.ErrorAs(t, err, &streamErr)
		assert.Equal(t, "quota", streamErr.Message)
	})

	t.Run("missing topic is plain json", func(t *testing.T) {
		svc := services.NewGenerateService(web, stubGen{}, "qdr:d")
		r := gin.New()
		r.POST("/generate", GenerateStreamHandler(svc))

		w := perform(r, http.MethodPost, "/generate", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), services.ErrMissingTopic.Error())
	})
}

type stubLLM struct {
	text string
	err  error
}

func (s stubLLM) Complete(context.Context, llm.Request) (*llm.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Text: s.text}, nil
}

func (s stubLLM) Stream(context.Context, llm.Request, func(string) error) error { return nil }

func TestReviseHandler(t *testing.T) {
	tests := []struct {
		name   string
		client stubLLM
		body   string
		status int
	}{
		{"ok", stubLLM{text: `{"revisedText":"Texto revisado.","isUrgent":false}`}, `{"text":"Um texto com erros suficientes."}`, http.StatusOK},
		{"too short", stubLLM{}, `{"text":"curto"}`, http.StatusBadRequest},
		{"invalid json from model", stubLLM{text: "not json"}, `{"text":"Um texto com erros suficientes."}`, http.StatusBadGateway},
		{"upstream down", stubLLM{err: errors.New("503")}, `{"text":"Um texto com erros suficientes."}`, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/revise", ReviseHandler(revision.NewService(tt.client, config.LLMConfig{})))
			w := perform(r, http.MethodPost, "/revise", tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

type stubImages struct {
	img *imageproxy.Image
	err error
}

func (s stubImages) Fetch(context.Context, string) (*imageproxy.Image, error) { return s.img, s.err }

func TestImageProxyHandler(t *testing.T) {
	r := gin.New()
	r.GET("/ok", ImageProxyHandler(stubImages{img: &imageproxy.Image{ContentType: "image/png", Data: []byte{0x89, 'P'}}}))
	r.GET("/html", ImageProxyHandler(stubImages{err: imageproxy.ErrNotImage}))

	w := perform(r, http.MethodGet, "/ok?url=https://x/y.png", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=86400")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'; sandbox", w.Header().Get("Content-Security-Policy"))

	w = perform(r, http.MethodGet, "/html?url=https://x/", "")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}
