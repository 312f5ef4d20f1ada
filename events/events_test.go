package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"portal-noticias/eventbus"
	"portal-noticias/models"
)

type recordingBus struct {
	topics []string
	events []eventbus.Event
}

func (b *recordingBus) Publish(ctx context.Context, topic string, e eventbus.Event) error {
	b.topics = append(b.topics, topic)
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) Subscribe(context.Context, string, eventbus.Topic, eventbus.EventHandler) error {
	return nil
}

func (b *recordingBus) Close() {}

func TestPublisherPostPublished(t *testing.T) {
	bus := &recordingBus{}
	pub := NewPublisher(bus, eventbus.NewTopic("portal.post.events"))
	post := &models.Post{ID: primitive.NewObjectID(), Title: "T", Slug: "t-1", IsBreaking: true, Category: models.CategoryBrasil}

	require.NoError(t, pub.PostPublished(context.Background(), post))
	require.Len(t, bus.events, 1)
	assert.Equal(t, "portal.post.events", bus.topics[0])
	assert.Equal(t, PostPublished, bus.events[0].Type)

	got, err := eventbus.DecodeJSON[PostPublishedEvent](bus.events[0])
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.PostID)
	assert.True(t, got.IsBreaking)
}

func TestNilPublisherIsNoop(t *testing.T) {
	var pub *Publisher
	assert.NoError(t, pub.PostPublished(context.Background(), &models.Post{}))
}
