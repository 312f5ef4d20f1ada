package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-noticias/cmd/api/auth"
	"portal-noticias/collector"
	"portal-noticias/config"
	"portal-noticias/models"
)

type okRunner struct {
	trigger models.RunTrigger
}

func (r *okRunner) Run(_ context.Context, trigger models.RunTrigger) (*collector.RunResult, error) {
	r.trigger = trigger
	return &collector.RunResult{Success: true}, nil
}

func newTestRouter(t *testing.T, ping func(context.Context) error) (*gin.Engine, *auth.JWTManager, *okRunner) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewJWTManager(config.APIConfig{JWTSecret: "test-secret"})
	require.NoError(t, err)
	runner := &okRunner{}
	r := New(Deps{Collector: runner, Tokens: tokens, CronSecret: "cron-secret", Ping: ping})
	return r, tokens, runner
}

func do(r http.Handler, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestRouter(t, func(context.Context) error { return nil })
	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	r, _, _ = newTestRouter(t, func(context.Context) error { return errors.New("no mongo") })
	w = do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	r, tokens, _ := newTestRouter(t, nil)
	editor, err := tokens.Sign("editor-1", auth.RoleEditor)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/admin/collection/logs", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/admin/collection/logs", "garbage").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/v1/admin/collection/logs", editor).Code)
}

func TestCollectAcceptsCronSecretOrAdmin(t *testing.T) {
	r, tokens, runner := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/v1/collect", "cron-secret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TriggerCron, runner.trigger)

	admin, err := tokens.Sign("admin-1", auth.RoleAdmin)
	require.NoError(t, err)
	w = do(r, http.MethodPost, "/api/v1/collect", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TriggerManual, runner.trigger)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/v1/collect", "wrong").Code)
}
