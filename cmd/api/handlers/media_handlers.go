package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-noticias/imageproxy"
	"portal-noticias/quotes"
)

type QuoteSource interface {
	Latest(ctx context.Context) ([]quotes.Quote, error)
}

type ImageFetcher interface {
	Fetch(ctx context.Context, raw string) (*imageproxy.Image, error)
}

// @Summary Market quotes
// @Description USD, EUR and BTC to BRL, cached for a few minutes
// @Tags media
// @Produce json
// @Success 200 {array} quotes.Quote
// @Failure 502 {object} dto.ErrorResponseDTO
// @Router /quotes [get]
func QuotesHandler(src QuoteSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := src.Latest(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Cache-Control", "public, max-age=60")
		c.JSON(http.StatusOK, q)
	}
}

// @Summary Image proxy
// @Tags media
// @Produce image/*
// @Param url query string true "Absolute http(s) image URL"
// @Success 200
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 415 {object} dto.ErrorResponseDTO
// @Router /image-proxy [get]
func ImageProxyHandler(p ImageFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, err := p.Fetch(c.Request.Context(), c.Query("url"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Cache-Control", "public, max-age=86400, immutable")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", "default-src 'none'; sandbox")
		c.Data(http.StatusOK, img.ContentType, img.Data)
	}
}
