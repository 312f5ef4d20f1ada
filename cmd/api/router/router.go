package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"portal-noticias/cmd/api/handlers"
	"portal-noticias/cmd/api/middleware"
	"portal-noticias/cmd/api/services"
	"portal-noticias/collector"
	_ "portal-noticias/docs"
	"portal-noticias/revision"
)

// Deps 는 라우터가 필요로 하는 서비스 묶음이다. main 에서 한 번 조립한다.
type Deps struct {
	Posts         *services.PostService
	Collection    *services.CollectionService
	Subscriptions *services.SubscriptionService
	Generate      *services.GenerateService
	Revision      *revision.Service
	Collector     collector.Runner
	Quotes        handlers.QuoteSource
	Images        handlers.ImageFetcher
	Tokens        middleware.TokenParser
	CronSecret    string
	// Ping 은 헬스 체크용 DB 확인이다.
	Ping func(ctx context.Context) error
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace())

	r.GET("/health", func(c *gin.Context) {
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		api.GET("/posts", handlers.ListPostsHandler(d.Posts))
		api.GET("/posts/breaking", handlers.BreakingPostHandler(d.Posts))
		api.GET("/posts/:slug", handlers.GetPostHandler(d.Posts))
		api.POST("/posts/:slug/view", handlers.IncrementPostViewCountHandler(d.Posts))
		api.GET("/categories", handlers.ListCategoriesHandler())

		api.GET("/quotes", handlers.QuotesHandler(d.Quotes))
		api.GET("/image-proxy", handlers.ImageProxyHandler(d.Images))

		api.POST("/push/subscribe", handlers.PushSubscribeHandler(d.Subscriptions))
		api.POST("/push/unsubscribe", handlers.PushUnsubscribeHandler(d.Subscriptions))
		api.GET("/push/vapid-public-key", handlers.VAPIDPublicKeyHandler(d.Subscriptions))
		api.POST("/newsletter/subscribe", handlers.NewsletterSubscribeHandler(d.Subscriptions))
		api.POST("/newsletter/unsubscribe", handlers.NewsletterUnsubscribeHandler(d.Subscriptions))

		api.POST("/collect", middleware.CronOrAdminMiddleware(d.CronSecret, d.Tokens), handlers.CollectHandler(d.Collector))
	}

	admin := api.Group("/admin", middleware.AdminAuthMiddleware(d.Tokens))
	{
		admin.GET("/posts", handlers.AdminListPostsHandler(d.Posts))
		admin.POST("/posts", handlers.AdminCreatePostHandler(d.Posts))
		admin.GET("/posts/:id", handlers.AdminGetPostHandler(d.Posts))
		admin.PUT("/posts/:id", handlers.AdminUpdatePostHandler(d.Posts))
		admin.DELETE("/posts/:id", handlers.AdminDeletePostHandler(d.Posts))
		admin.PATCH("/posts/:id/featured", handlers.AdminSetFeaturedHandler(d.Posts))
		admin.PATCH("/posts/:id/breaking", handlers.AdminSetBreakingHandler(d.Posts))

		admin.POST("/search", handlers.SearchHandler(d.Generate))
		admin.POST("/revise", handlers.ReviseHandler(d.Revision))
		admin.POST("/generate/stream", handlers.GenerateStreamHandler(d.Generate))

		admin.GET("/collection/logs", handlers.ListCollectionLogsHandler(d.Collection))
		admin.GET("/collection/config", handlers.ListCollectionConfigHandler(d.Collection))
		admin.POST("/collection/config", handlers.CreateCollectionConfigHandler(d.Collection))
		admin.PATCH("/collection/config/:id", handlers.UpdateCollectionConfigHandler(d.Collection))
		admin.DELETE("/collection/config/:id", handlers.DeleteCollectionConfigHandler(d.Collection))

		admin.POST("/push/send", handlers.AdminPushSendHandler(d.Subscriptions))
	}

	return r
}
