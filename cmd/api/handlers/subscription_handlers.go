package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/cmd/api/services"
)

// @Summary Subscribe to web push
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body dto.PushSubscribeRequestDTO true "Browser PushSubscription JSON"
// @Success 201 {object} dto.MessageResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Router /push/subscribe [post]
func PushSubscribeHandler(svc *services.SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.PushSubscribeRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := svc.SubscribePush(c.Request.Context(), req, c.Request.UserAgent()); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.MessageResponseDTO{Message: "subscribed"})
	}
}

// @Summary Unsubscribe from web push
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body dto.PushUnsubscribeRequestDTO true "Endpoint"
// @Success 200 {object} dto.MessageResponseDTO
// @Router /push/unsubscribe [post]
func PushUnsubscribeHandler(svc *services.SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.PushUnsubscribeRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := svc.UnsubscribePush(c.Request.Context(), req.Endpoint); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "unsubscribed"})
	}
}

// @Summary VAPID public key
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.VAPIDKeyResponseDTO
// @Failure 503 {object} dto.ErrorResponseDTO
// @Router /push/vapid-public-key [get]
func VAPIDPublicKeyHandler(svc *services.SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := svc.VAPIDPublicKey()
		if key == "" {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponseDTO{Error: "push_not_configured"})
			return
		}
		c.JSON(http.StatusOK, dto.VAPIDKeyResponseDTO{PublicKey: key})
	}
}

// @Summary Subscribe to the breaking-news newsletter
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body dto.NewsletterRequestDTO true "Email"
// @Success 201 {object} dto.MessageResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Router /newsletter/subscribe [post]
func NewsletterSubscribeHandler(svc *services.SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.NewsletterRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := svc.SubscribeNewsletter(c.Request.Context(), req.Email); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.MessageResponseDTO{Message: "subscribed"})
	}
}

// @Summary Unsubscribe from the newsletter
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body dto.NewsletterRequestDTO true "Email"
// @Success 200 {object} dto.MessageResponseDTO
// @Router /newsletter/unsubscribe [post]
func NewsletterUnsubscribeHandler(svc *services.SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.NewsletterRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := svc.UnsubscribeNewsletter(c.Request.Context(), req.Email); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "unsubscribed"})
	}
}

// @Summary Send a manual push
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body dto.PushSendRequestDTO true "Message"
// @Success 200 {object} notifier.PushReport
// @Failure 503 {object} dto.ErrorResponseDTO
// @Security BearerAuth
// @Router /admin/push/send [post]
func AdminPushSendHandler(svc *services.SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.PushSendRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		report, err := svc.SendPush(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
