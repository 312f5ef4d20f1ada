package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/cmd/api/services"
	"portal-noticias/config"
	"portal-noticias/generator"
	"portal-noticias/revision"
)

// @Summary Search source articles
// @Tags ai
// @Accept json
// @Produce json
// @Param body body dto.SearchRequestDTO true "Query and optional site"
// @Success 200 {object} dto.SearchResponseDTO
// @Failure 502 {object} dto.ErrorResponseDTO
// @Security BearerAuth
// @Router /admin/search [post]
func SearchHandler(svc *services.GenerateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SearchRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		resp, err := svc.Search(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary Revise a draft
// @Description Editorial review of 10 to 50,000 characters of text
// @Tags ai
// @Accept json
// @Produce json
// @Param body body dto.ReviseRequestDTO true "Draft text"
// @Success 200 {object} revision.Revision
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 502 {object} dto.ErrorResponseDTO
// @Security BearerAuth
// @Router /admin/revise [post]
func ReviseHandler(svc *revision.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ReviseRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		rev, err := svc.Revise(c.Request.Context(), req.Text)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rev)
	}
}

// @Summary Stream a generated article
// @Description Server-sent events. Each frame is `data: {"type":"delta"|"done"|"error",...}` and the stream ends with `data: [DONE]`.
// @Tags ai
// @Accept json
// @Produce text/event-stream
// @Param body body dto.GenerateRequestDTO true "Topic or URL, optional category"
// @Success 200 {object} generator.StreamEvent
// @Failure 400 {object} dto.ErrorResponseDTO
// @Security BearerAuth
// @Router /admin/generate/stream [post]
func GenerateStreamHandler(svc *services.GenerateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.GenerateRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		// 클라이언트가 끊으면 요청 컨텍스트가 취소되어 LLM 스트림도 중단된다
		ctx := c.Request.Context()

		src, err := svc.ResolveSource(ctx, req)
		if err != nil {
			writeError(c, err)
			return
		}

		w := generator.NewSSEWriter(c.Writer)
		c.Status(http.StatusOK)

		article, err := svc.Stream(ctx, src, func(delta string) error {
			return w.Event(generator.StreamEvent{Type: generator.EventDelta, Content: delta})
		})
		if err != nil {
			if ctx.Err() != nil {
				config.Logger.Infof("generate stream: client went away: %v", ctx.Err())
				return
			}
			config.Logger.Errorf("generate stream failed: %v", err)
			_ = w.Event(generator.StreamEvent{Type: generator.EventError, Error: err.Error()})
			_ = w.Done()
			return
		}
		_ = w.Event(generator.StreamEvent{Type: generator.EventDone, Article: article})
		_ = w.Done()
	}
}
