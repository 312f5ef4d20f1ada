package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/cmd/api/services"
	"portal-noticias/config"
	"portal-noticias/httpclient"
	"portal-noticias/imageproxy"
	"portal-noticias/notifier"
	"portal-noticias/repositories"
	"portal-noticias/revision"
)

// statusFor 는 도메인 에러를 HTTP 상태 코드와 응답 메시지로 바꾼다.
func statusFor(err error) (int, string) {
	var httpErr *httpclient.HTTPError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repositories.ErrInvalidID):
		return http.StatusBadRequest, "invalid_id"
	case errors.Is(err, repositories.ErrDuplicate):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidConfigType),
		errors.Is(err, services.ErrInvalidConfigValue),
		errors.Is(err, services.ErrInvalidEndpoint),
		errors.Is(err, services.ErrMissingTopic),
		errors.Is(err, revision.ErrInvalidText),
		errors.Is(err, imageproxy.ErrInvalidURL):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNoSource):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, imageproxy.ErrBlockedHost):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, imageproxy.ErrNotImage):
		return http.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, imageproxy.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, notifier.ErrPushNotConfigured):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, revision.ErrUpstream), errors.As(err, &httpErr):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream_timeout"
	}
	return http.StatusInternalServerError, err.Error()
}

func writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		config.ErrorWithFields("request failed", config.Fields{
			"path":   c.FullPath(),
			"status": status,
			"error":  err.Error(),
		})
	}
	c.JSON(status, dto.ErrorResponseDTO{Error: msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: err.Error()})
}
