package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"portal-noticias/cmd/internal/app"
	"portal-noticias/collector"
	"portal-noticias/config"
	"portal-noticias/db"
	"portal-noticias/models"
)

// collector 는 schedule_interval 마다 수집을 실행한다. -once 는 한 번만 실행하고 종료한다.
func main() {
	once := flag.Bool("once", false, "run a single collection and exit")
	flag.Parse()

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

	svc := app.NewCollector(cfg, stores, client, publisher)

	if *once {
		res, err := svc.Run(ctx, models.TriggerManual)
		if err != nil {
			config.Logger.Errorf("collection failed: %v", err)
			closeBus()
			os.Exit(1)
		}
		config.InfoWithFields("collection finished", config.Fields{
			"collected": res.Collected,
			"duration":  res.Duration,
		})
		return
	}

	config.Logger.Info("starting collector scheduler...")
	sched := collector.NewScheduler(svc, stores.Config, cfg.Collector.DefaultInterval)
	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		config.Logger.Errorf("scheduler stopped: %v", err)
	}
	config.Logger.Info("collector stopped")
}
