package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category 는 포털의 고정된 섹션 목록이다.
type Category string

const (
	CategoryBrasil         Category = "Brasil"
	CategoryEconomia       Category = "Economia"
	CategoryPolitica       Category = "Política"
	CategoryTecnologia     Category = "Tecnologia"
	CategoryEsportes       Category = "Esportes"
	CategorySaude          Category = "Saúde"
	CategoryEducacao       Category = "Educação"
	CategoryMundo          Category = "Mundo"
	CategoryEntretenimento Category = "Entretenimento"
)

// AllCategories 는 노출 순서대로 정렬된 카테고리 목록이다.
var AllCategories = []Category{
	CategoryBrasil,
	CategoryPolitica,
	CategoryEconomia,
	CategoryMundo,
	CategoryTecnologia,
	CategoryEsportes,
	CategorySaude,
	CategoryEducacao,
	CategoryEntretenimento,
}

// IsValid reports whether c is one of the fixed categories.
func (c Category) IsValid() bool {
	for _, v := range AllCategories {
		if v == c {
			return true
		}
	}
	return false
}

// PostOrigin 은 포스트 생성 주체이다.
type PostOrigin string

const (
	OriginAI     PostOrigin = "ai"
	OriginEditor PostOrigin = "editor"
)

// Post is a published (or scheduled) news article.
// Collection: posts
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Excerpt     string             `bson:"excerpt" json:"excerpt"`
	Content     string             `bson:"content" json:"content"`
	CoverImage  string             `bson:"cover_image" json:"cover_image"`
	Category    Category           `bson:"category" json:"category"`
	Author      string             `bson:"author" json:"author"`
	IsFeatured  bool               `bson:"is_featured" json:"is_featured"`
	IsBreaking  bool               `bson:"is_breaking" json:"is_breaking"`
	IsSensitive bool               `bson:"is_sensitive" json:"is_sensitive"`
	ScheduledAt *time.Time         `bson:"scheduled_at,omitempty" json:"scheduled_at,omitempty"`
	Sources     []string           `bson:"sources" json:"sources"`
	ViewCount   int64              `bson:"view_count" json:"view_count"`
	Origin      PostOrigin         `bson:"origin" json:"origin"`
}

// IsPublishedAt reports whether the post is visible to readers at t.
func (p Post) IsPublishedAt(t time.Time) bool {
	return p.ScheduledAt == nil || !p.ScheduledAt.After(t)
}
