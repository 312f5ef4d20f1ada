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

type CollectionConfigRepository struct {
	col *mongo.Collection
}

func NewCollectionConfigRepository(d *mongo.Database) *CollectionConfigRepository {
	return &CollectionConfigRepository{col: d.Collection(db.ColCollectionConfig)}
}

// ActiveValues returns the values of active rows of the given type, oldest first.
func (r *CollectionConfigRepository) ActiveValues(ctx context.Context, t models.ConfigType) ([]string, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetProjection(bson.M{"value": 1})
	cur, err := r.col.Find(ctx, bson.M{"type": t, "is_active": true}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	values := []string{}
	for cur.Next(ctx) {
		var doc struct {
			Value string `bson:"value"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		values = append(values, doc.Value)
	}
	return values, cur.Err()
}

// List returns every row, optionally filtered by type.
func (r *CollectionConfigRepository) List(ctx context.Context, t models.ConfigType) ([]models.CollectionConfig, error) {
	filter := bson.M{}
	if t != "" {
		filter["type"] = t
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "type", Value: 1},
		{Key: "created_at", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	rows := []models.CollectionConfig{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CollectionConfigRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CollectionConfig, error) {
	var row models.CollectionConfig
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&row); err != nil {
		return nil, mapErr(err)
	}
	return &row, nil
}

func (r *CollectionConfigRepository) Insert(ctx context.Context, row *models.CollectionConfig) error {
	now := time.Now()
	row.CreatedAt = now
	row.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, row)
	if err != nil {
		return mapErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		row.ID = oid
	}
	return nil
}

// Update 는 value 또는 is_active 를 바꾼다. nil 인 필드는 유지된다.
func (r *CollectionConfigRepository) Update(ctx context.Context, id primitive.ObjectID, value *string, active *bool) (*models.CollectionConfig, error) {
	set := bson.M{"updated_at": time.Now()}
	if value != nil {
		set["value"] = *value
	}
	if active != nil {
		set["is_active"] = *active
	}
	var row models.CollectionConfig
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&row)
	if err != nil {
		return nil, mapErr(err)
	}
	return &row, nil
}

func (r *CollectionConfigRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
