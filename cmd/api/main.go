package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"portal-noticias/cmd/api/auth"
	"portal-noticias/cmd/api/router"
	"portal-noticias/cmd/api/services"
	"portal-noticias/cmd/internal/app"
	"portal-noticias/config"
	"portal-noticias/db"
	"portal-noticias/firecrawl"
	"portal-noticias/generator"
	"portal-noticias/httpclient"
	"portal-noticias/imageproxy"
	"portal-noticias/notifier"
	"portal-noticias/quotes"
	"portal-noticias/revision"
)

// @title           Portal de Notícias API
// @version         1.0
// @description     Public news portal, admin CMS and AI-assisted collection
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx, cfg.Mongo); err != nil {
		config.Logger.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}
	defer db.Disconnect(context.Background())

	stores := app.NewStores(db.Database())

	tokens, err := auth.NewJWTManager(cfg.API)
	if err != nil {
		config.Logger.Errorf("jwt: %v", err)
		os.Exit(1)
	}

	client, err := app.NewLLM(ctx, cfg.LLM, stores.AILogs)
	if err != nil {
		config.Logger.Errorf("llm: %v", err)
		os.Exit(1)
	}

	publisher, _, closeBus, err := app.NewPublisher(ctx, cfg.Kafka)
	if err != nil {
		config.Logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer closeBus()

	push := notifier.NewPushSender(cfg.Push, stores.Push, httpclient.New(httpclient.Config{Timeout: 30 * time.Second}))
	gen := generator.New(client, generator.OptionsFromConfig(cfg.LLM, cfg.Collector))

	r := router.New(router.Deps{
		Posts:         services.NewPostService(stores.Posts, publisher),
		Collection:    services.NewCollectionService(stores.Logs, stores.Config),
		Subscriptions: services.NewSubscriptionService(stores.Push, stores.Newsletter, push),
		Generate:      services.NewGenerateService(firecrawl.New(cfg.Firecrawl), gen, cfg.Collector.DefaultTimeFilter),
		Revision:      revision.NewService(client, cfg.LLM),
		Collector:     app.NewCollector(cfg, stores, client, publisher),
		Quotes:        quotes.New(cfg.Quotes),
		Images:        imageproxy.New(cfg.ImageProxy),
		Tokens:        tokens,
		CronSecret:    cfg.API.CronSecret,
		Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.API.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Span-Id"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Logger.Infof("api listening on %s", cfg.API.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Errorf("http server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	config.Logger.Info("shutting down api...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.Errorf("graceful shutdown failed: %v", err)
	}
}
