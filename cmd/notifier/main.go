package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portal-noticias/cmd/internal/app"
	"portal-noticias/config"
	"portal-noticias/db"
	"portal-noticias/eventbus"
	"portal-noticias/httpclient"
	"portal-noticias/notifier"
)

const defaultGroupID = "portal-notifier"

// notifier 는 post.published 를 구독해 웹 푸시와 속보 메일을 보낸다.
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.Logging)

	if !cfg.Kafka.Enabled {
		config.Logger.Error("kafka.enabled is false: notifier has nothing to consume")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx, cfg.Mongo); err != nil {
		config.Logger.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}
	defer db.Disconnect(context.Background())

	stores := app.NewStores(db.Database())

	_, bus, closeBus, err := app.NewPublisher(ctx, cfg.Kafka)
	if err != nil {
		config.Logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer closeBus()

	push := notifier.NewPushSender(cfg.Push, stores.Push, httpclient.New(httpclient.Config{Timeout: 30 * time.Second}))
	mail := notifier.NewEmailSender(cfg.Email, stores.Newsletter, nil)
	siteURL := cfg.Push.SiteURL
	if siteURL == "" {
		siteURL = cfg.Email.SiteURL
	}
	h := notifier.NewHandler(push, mail, siteURL)

	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = defaultGroupID
	}

	config.Logger.Info("starting notifier service with eventbus...")
	err = bus.Subscribe(ctx, groupID, eventbus.NewTopic(cfg.Kafka.Topic), h.HandleEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		config.Logger.Errorf("subscriber stopped: %v", err)
		closeBus()
		os.Exit(1)
	}
	config.Logger.Info("notifier stopped")
}
