package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildListFilter(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		opt  ListPostsOptions
		want bson.M
	}{
		{
			name: "empty",
			opt:  ListPostsOptions{},
			want: bson.M{},
		},
		{
			name: "category and featured",
			opt:  ListPostsOptions{Category: " Economia ", Featured: boolPtr(true)},
			want: bson.M{"category": "Economia", "is_featured": true},
		},
		{
			name: "text search",
			opt:  ListPostsOptions{Query: "inflação"},
			want: bson.M{"$text": bson.M{"$search": "inflação"}},
		},
		{
			name: "published only hides scheduled",
			opt:  ListPostsOptions{PublishedOnly: true, Now: now, Breaking: boolPtr(false)},
			want: bson.M{
				"is_breaking": false,
				"$or": []bson.M{
					{"scheduled_at": nil},
					{"scheduled_at": bson.M{"$lte": now}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildListFilter(tt.opt))
		})
	}
}

func TestListOptionsNormalize(t *testing.T) {
	opt := ListPostsOptions{Page: -1, PageSize: 500}
	opt.normalize()
	assert.Equal(t, 1, opt.Page)
	assert.Equal(t, 20, opt.PageSize)
	assert.False(t, opt.Now.IsZero())
}

func TestBreakingSlotUpdateIsSingleStatement(t *testing.T) {
	id := primitive.NewObjectID()
	filter, pipeline := breakingSlotUpdate(id)

	// 기존 속보와 대상 포스트를 한 번에 매칭한다
	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	assert.Equal(t, []bson.M{{"is_breaking": true}, {"_id": id}}, or)

	require.Len(t, pipeline, 1)
	stage := pipeline[0]
	require.Equal(t, "$set", stage[0].Key)
	set := stage[0].Value.(bson.D)
	assert.Equal(t, "is_breaking", set[0].Key)
	assert.Equal(t, bson.D{{Key: "$eq", Value: bson.A{"$_id", id}}}, set[0].Value)
}

func TestParseObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := ParseObjectID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseObjectID("nope")
	assert.ErrorIs(t, err, ErrInvalidID)
}
