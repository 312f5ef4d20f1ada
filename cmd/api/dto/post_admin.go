package dto

import "time"

// CreatePostRequestDTO 는 편집자가 직접 작성하거나 스트리밍 생성 결과를 저장할 때 쓰인다.
type CreatePostRequestDTO struct {
	Title       string     `json:"title" binding:"required"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content" binding:"required"`
	CoverImage  string     `json:"cover_image"`
	Category    string     `json:"category" binding:"required"`
	Author      string     `json:"author"`
	Slug        string     `json:"slug"`
	IsFeatured  bool       `json:"is_featured"`
	IsBreaking  bool       `json:"is_breaking"`
	IsSensitive bool       `json:"is_sensitive"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Sources     []string   `json:"sources"`
}

// UpdatePostRequestDTO 는 nil 이 아닌 필드만 반영한다.
type UpdatePostRequestDTO struct {
	Title       *string    `json:"title"`
	Excerpt     *string    `json:"excerpt"`
	Content     *string    `json:"content"`
	CoverImage  *string    `json:"cover_image"`
	Category    *string    `json:"category"`
	Author      *string    `json:"author"`
	IsSensitive *bool      `json:"is_sensitive"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	// ClearSchedule 이 true 이면 scheduled_at 을 지워 즉시 공개한다.
	ClearSchedule bool     `json:"clear_schedule"`
	Sources       []string `json:"sources"`
}

type ToggleRequestDTO struct {
	Value *bool `json:"value" binding:"required"`
}

type SearchRequestDTO struct {
	Query string `json:"query" binding:"required"`
	Site  string `json:"site"`
	Limit int    `json:"limit"`
}

type SearchResultDTO struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Markdown    string `json:"markdown"`
}

type SearchResponseDTO struct {
	Success bool              `json:"success"`
	Results []SearchResultDTO `json:"results"`
}

type ReviseRequestDTO struct {
	Text string `json:"text" binding:"required"`
}

// GenerateRequestDTO 는 스트리밍 생성 요청이다. URL 이 있으면 검색 대신 해당 페이지를 원문으로 쓴다.
type GenerateRequestDTO struct {
	Topic    string `json:"topic"`
	URL      string `json:"url"`
	Category string `json:"category"`
}
