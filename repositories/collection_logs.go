package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"portal-noticias/db"
	"portal-noticias/models"
)

type CollectionLogRepository struct {
	col *mongo.Collection
}

func NewCollectionLogRepository(d *mongo.Database) *CollectionLogRepository {
	return &CollectionLogRepository{col: d.Collection(db.ColCollectionLogs)}
}

// RunOutcome 은 실행 종료 시 한 번 기록되는 결과이다.
type RunOutcome struct {
	Status            models.RunStatus
	ArticlesFound     int
	ArticlesCollected int
	Duration          time.Duration
	ErrorMessage      string
	CreatedPosts      []models.CreatedPostSummary
}

// Start inserts a running log row.
func (r *CollectionLogRepository) Start(ctx context.Context, trigger models.RunTrigger) (primitive.ObjectID, error) {
	row := models.CollectionLog{
		Status:       models.RunStatusRunning,
		Trigger:      trigger,
		StartedAt:    time.Now(),
		CreatedPosts: []models.CreatedPostSummary{},
	}
	res, err := r.col.InsertOne(ctx, row)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// Finish 는 running 상태의 로그만 갱신한다. 두 번째 호출은 ErrNotFound 를 반환한다.
func (r *CollectionLogRepository) Finish(ctx context.Context, id primitive.ObjectID, out RunOutcome) error {
	now := time.Now()
	set := bson.M{
		"status":             out.Status,
		"finished_at":        now,
		"articles_found":     out.ArticlesFound,
		"articles_collected": out.ArticlesCollected,
		"duration_ms":        out.Duration.Milliseconds(),
	}
	if out.ErrorMessage != "" {
		set["error_message"] = out.ErrorMessage
	}
	created := out.CreatedPosts
	if created == nil {
		created = []models.CreatedPostSummary{}
	}
	set["created_posts"] = created

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RunStatusRunning},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns logs newest first.
func (r *CollectionLogRepository) List(ctx context.Context, page, pageSize int) ([]models.CollectionLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	findOpts := options.Find().
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize)).
		SetSort(bson.D{{Key: "started_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	logs := []models.CollectionLog{}
	if err := cur.All(ctx, &logs); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
