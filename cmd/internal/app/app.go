// Package app 는 cmd/* 바이너리들이 공유하는 조립 코드이다.
package app

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"portal-noticias/collector"
	"portal-noticias/config"
	"portal-noticias/eventbus"
	"portal-noticias/events"
	"portal-noticias/extractor"
	"portal-noticias/feeder"
	"portal-noticias/firecrawl"
	"portal-noticias/generator"
	"portal-noticias/llm"
	"portal-noticias/quota"
	"portal-noticias/repositories"
)

// Stores groups the Mongo repositories shared by the binaries.
type Stores struct {
	Posts      *repositories.PostRepository
	Logs       *repositories.CollectionLogRepository
	Config     *repositories.CollectionConfigRepository
	Push       *repositories.PushSubscriptionRepository
	Newsletter *repositories.NewsletterRepository
	AILogs     *repositories.AILogRepository
}

func NewStores(d *mongo.Database) Stores {
	return Stores{
		Posts:      repositories.NewPostRepository(d),
		Logs:       repositories.NewCollectionLogRepository(d),
		Config:     repositories.NewCollectionConfigRepository(d),
		Push:       repositories.NewPushSubscriptionRepository(d),
		Newsletter: repositories.NewNewsletterRepository(d),
		AILogs:     repositories.NewAILogRepository(d),
	}
}

// NewLLM 은 provider 클라이언트를 만들고 ai_logs 기록을 붙인다.
func NewLLM(ctx context.Context, cfg config.LLMConfig, logs llm.LogStore) (llm.Client, error) {
	client, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return llm.WithLogging(client, cfg.Provider, logs), nil
}

// NewPublisher returns a nil publisher (no-op) when Kafka is disabled.
// The returned close func is always safe to call.
func NewPublisher(ctx context.Context, cfg config.KafkaConfig) (*events.Publisher, eventbus.EventBus, func(), error) {
	if !cfg.Enabled {
		config.Logger.Info("kafka disabled: post.published events are not emitted")
		return nil, nil, func() {}, nil
	}
	topic := eventbus.NewTopic(cfg.Topic)
	if err := eventbus.EnsureTopics(ctx, cfg.Brokers, topic, 3); err != nil {
		config.Logger.Warnf("failed to ensure topics: %v", err)
	}
	bus, err := eventbus.NewKafkaEventBus(cfg.Brokers)
	if err != nil {
		return nil, nil, func() {}, fmt.Errorf("event bus: %w", err)
	}
	return events.NewPublisher(bus, topic), bus, bus.Close, nil
}

// NewCollector 는 수집 서비스를 조립한다. pub 이 nil 이면 이벤트를 보내지 않는다.
func NewCollector(cfg config.AppConfig, s Stores, client llm.Client, pub *events.Publisher) *collector.Service {
	gen := generator.New(client, generator.OptionsFromConfig(cfg.LLM, cfg.Collector))
	deps := collector.Deps{
		Search:    firecrawl.New(cfg.Firecrawl),
		Generator: gen,
		Posts:     s.Posts,
		Logs:      s.Logs,
		Config:    s.Config,
		Feeds:     collector.NewFeedSource(feeder.New(nil), extractor.New(nil), cfg.Collector.FeedMaxItems),
		Quota:     quota.NewLimiter(cfg.LLM.Quota),
	}
	if pub != nil {
		deps.Publisher = pub
	}
	return collector.NewService(deps, cfg.Collector)
}
