package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"portal-noticias/db"
	"portal-noticias/models"
)

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(d *mongo.Database) *PostRepository {
	return &PostRepository{col: d.Collection(db.ColPosts)}
}

// Insert inserts a new post document and sets its ID.
func (r *PostRepository) Insert(ctx context.Context, p *models.Post) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Sources == nil {
		p.Sources = []string{}
	}
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return mapErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// RecentTitles returns the titles of the n most recently created posts.
func (r *PostRepository) RecentTitles(ctx context.Context, n int) ([]string, error) {
	findOpts := options.Find().
		SetLimit(int64(n)).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"title": 1})
	cur, err := r.col.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	titles := make([]string, 0, n)
	for cur.Next(ctx) {
		var doc struct {
			Title string `bson:"title"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		titles = append(titles, doc.Title)
	}
	return titles, cur.Err()
}

func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// FindByID returns a post by its ObjectID
func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// FindBreaking 는 현재 속보 슬롯의 포스트를 반환한다. 없으면 ErrNotFound.
func (r *PostRepository) FindBreaking(ctx context.Context, now time.Time) (*models.Post, error) {
	filter := bson.M{"is_breaking": true}
	for k, v := range publishedFilter(now) {
		filter[k] = v
	}
	var p models.Post
	if err := r.col.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

type ListPostsOptions struct {
	Page     int
	PageSize int
	Category string
	Featured *bool
	Breaking *bool
	// Query 는 title/excerpt 텍스트 인덱스 검색어이다.
	Query string
	// PublishedOnly 이면 scheduled_at 이 Now 이후인 포스트를 숨긴다.
	PublishedOnly bool
	Now           time.Time
}

func (o *ListPostsOptions) normalize() {
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.PageSize <= 0 || o.PageSize > 100 {
		o.PageSize = 20
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
}

func publishedFilter(now time.Time) bson.M {
	// nil 은 필드가 없는 문서도 매칭한다
	return bson.M{"$or": []bson.M{
		{"scheduled_at": nil},
		{"scheduled_at": bson.M{"$lte": now}},
	}}
}

func buildListFilter(opt ListPostsOptions) bson.M {
	filter := bson.M{}
	if c := strings.TrimSpace(opt.Category); c != "" {
		filter["category"] = c
	}
	if opt.Featured != nil {
		filter["is_featured"] = *opt.Featured
	}
	if opt.Breaking != nil {
		filter["is_breaking"] = *opt.Breaking
	}
	if q := strings.TrimSpace(opt.Query); q != "" {
		filter["$text"] = bson.M{"$search": q}
	}
	if opt.PublishedOnly {
		for k, v := range publishedFilter(opt.Now) {
			filter[k] = v
		}
	}
	return filter
}

// List returns posts with filters and pagination, sorted by created_at desc
func (r *PostRepository) List(ctx context.Context, opt ListPostsOptions) ([]models.Post, int64, error) {
	opt.normalize()
	filter := buildListFilter(opt)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSkip(int64((opt.Page - 1) * opt.PageSize)).
		SetLimit(int64(opt.PageSize)).
		SetSort(bson.D{
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		})
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	results := []models.Post{}
	if err := cur.All(ctx, &results); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// UpdateFields updates specific fields of a post
func (r *PostRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range updates {
		set[k] = v
	}
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepository) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) error {
	return r.UpdateFields(ctx, id, bson.M{"is_featured": featured})
}

// breakingSlotUpdate 는 대상 포스트만 true, 나머지 속보는 false 로 만드는 파이프라인이다.
func breakingSlotUpdate(id primitive.ObjectID) (bson.M, mongo.Pipeline) {
	filter := bson.M{"$or": []bson.M{
		{"is_breaking": true},
		{"_id": id},
	}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "is_breaking", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", id}}}},
			{Key: "updated_at", Value: "$$NOW"},
		}}},
	}
	return filter, pipeline
}

// SetBreaking 은 속보 슬롯을 하나의 UpdateMany 로 갱신한다.
// breaking=false 이면 해당 포스트만 해제한다.
func (r *PostRepository) SetBreaking(ctx context.Context, id primitive.ObjectID, breaking bool) error {
	if !breaking {
		return r.UpdateFields(ctx, id, bson.M{"is_breaking": false})
	}
	// 존재하지 않는 id 로 다른 속보를 지우지 않도록 먼저 확인한다
	if err := r.col.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err(); err != nil {
		return mapErr(err)
	}
	filter, pipeline := breakingSlotUpdate(id)
	_, err := r.col.UpdateMany(ctx, filter, pipeline)
	return err
}

// IncrementViewCount increments the view_count field by 1 for the given slug
func (r *PostRepository) IncrementViewCount(ctx context.Context, slug string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"slug": slug}, bson.M{
		"$inc": bson.M{"view_count": 1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
