package events

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"portal-noticias/config"
	"portal-noticias/eventbus"
	"portal-noticias/models"
)

const (
	PostPublished = "post.published"
	source        = "portal-noticias"
)

// PostPublishedEvent 는 포스트가 발행(또는 속보 지정)될 때 알림 서비스로 전달된다.
type PostPublishedEvent struct {
	PostID     primitive.ObjectID `json:"post_id"`
	Title      string             `json:"title"`
	Slug       string             `json:"slug"`
	Excerpt    string             `json:"excerpt"`
	CoverImage string             `json:"cover_image"`
	Category   models.Category    `json:"category"`
	IsBreaking bool               `json:"is_breaking"`
	Source     string             `json:"source"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func NewPostPublished(p *models.Post) PostPublishedEvent {
	return PostPublishedEvent{
		PostID:     p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Excerpt:    p.Excerpt,
		CoverImage: p.CoverImage,
		Category:   p.Category,
		IsBreaking: p.IsBreaking,
		Source:     source,
		OccurredAt: time.Now(),
	}
}

// Publisher 는 도메인 이벤트를 eventbus 로 보낸다.
type Publisher struct {
	bus   eventbus.EventBus
	topic eventbus.Topic
}

func NewPublisher(bus eventbus.EventBus, topic eventbus.Topic) *Publisher {
	return &Publisher{bus: bus, topic: topic}
}

// PostPublished sends a post.published event. A nil Publisher is a no-op.
func (p *Publisher) PostPublished(ctx context.Context, post *models.Post) error {
	if p == nil || p.bus == nil {
		return nil
	}
	evt, err := eventbus.NewJSONEvent(PostPublished, NewPostPublished(post))
	if err != nil {
		return err
	}
	if err := p.bus.Publish(ctx, p.topic.Base(), evt); err != nil {
		return err
	}
	config.Logger.Debugf("post.published 발행: %s", post.Slug)
	return nil
}
