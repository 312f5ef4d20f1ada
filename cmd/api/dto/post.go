package dto

import (
	"time"

	"portal-noticias/models"
)

// PostDTO 는 독자용 포스트 응답이다. 목록에서는 Content 를 비운다.
type PostDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content,omitempty"`
	CoverImage  string     `json:"cover_image"`
	Category    string     `json:"category"`
	Author      string     `json:"author"`
	IsFeatured  bool       `json:"is_featured"`
	IsBreaking  bool       `json:"is_breaking"`
	IsSensitive bool       `json:"is_sensitive"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Sources     []string   `json:"sources"`
	ViewCount   int64      `json:"view_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewPostDTO(p models.Post) PostDTO {
	sources := p.Sources
	if sources == nil {
		sources = []string{}
	}
	return PostDTO{
		ID:          p.ID.Hex(),
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		CoverImage:  p.CoverImage,
		Category:    string(p.Category),
		Author:      p.Author,
		IsFeatured:  p.IsFeatured,
		IsBreaking:  p.IsBreaking,
		IsSensitive: p.IsSensitive,
		ScheduledAt: p.ScheduledAt,
		Sources:     sources,
		ViewCount:   p.ViewCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewPostSummaryDTO 는 목록용으로 본문을 뺀 DTO 를 만든다.
func NewPostSummaryDTO(p models.Post) PostDTO {
	d := NewPostDTO(p)
	d.Content = ""
	return d
}

type CategoryDTO struct {
	Name string `json:"name" example:"Economia"`
	Slug string `json:"slug" example:"economia"`
}
