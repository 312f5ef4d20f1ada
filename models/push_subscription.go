package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PushSubscription is a browser Web Push subscription.
// Collection: push_subscriptions
type PushSubscription struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	Endpoint  string             `bson:"endpoint" json:"endpoint"`
	P256dh    string             `bson:"p256dh" json:"p256dh"`
	Auth      string             `bson:"auth" json:"auth"`
	UserAgent string             `bson:"user_agent" json:"user_agent"`
}

// NewsletterSubscriber receives breaking-news emails.
// Collection: newsletter_subscribers
type NewsletterSubscriber struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	Email     string             `bson:"email" json:"email"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
}
