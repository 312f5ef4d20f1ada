package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"portal-noticias/db"
	"portal-noticias/models"
)

type PushSubscriptionRepository struct {
	col *mongo.Collection
}

func NewPushSubscriptionRepository(d *mongo.Database) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{col: d.Collection(db.ColPushSubscriptions)}
}

// Upsert stores a subscription keyed by endpoint; re-subscribing refreshes the keys.
func (r *PushSubscriptionRepository) Upsert(ctx context.Context, s models.PushSubscription) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"endpoint": s.Endpoint},
		bson.M{
			"$setOnInsert": bson.M{"created_at": time.Now()},
			"$set": bson.M{
				"p256dh":     s.P256dh,
				"auth":       s.Auth,
				"user_agent": s.UserAgent,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *PushSubscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"endpoint": endpoint})
	return err
}

func (r *PushSubscriptionRepository) All(ctx context.Context) ([]models.PushSubscription, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	subs := []models.PushSubscription{}
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

type NewsletterRepository struct {
	col *mongo.Collection
}

func NewNewsletterRepository(d *mongo.Database) *NewsletterRepository {
	return &NewsletterRepository{col: d.Collection(db.ColNewsletterSubscribers)}
}

// Subscribe 는 이메일을 소문자로 저장하고, 해지된 구독자는 다시 활성화한다.
func (r *NewsletterRepository) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$setOnInsert": bson.M{"created_at": time.Now()},
			"$set":         bson.M{"is_active": true},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *NewsletterRepository) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NewsletterRepository) ActiveEmails(ctx context.Context) ([]string, error) {
	cur, err := r.col.Find(ctx, bson.M{"is_active": true}, options.Find().SetProjection(bson.M{"email": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var emails []string
	for cur.Next(ctx) {
		var s models.NewsletterSubscriber
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		emails = append(emails, s.Email)
	}
	return emails, cur.Err()
}
