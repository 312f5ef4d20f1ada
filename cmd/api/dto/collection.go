package dto

import (
	"time"

	"portal-noticias/models"
)

type CollectionLogDTO struct {
	ID                string                      `json:"id"`
	Status            string                      `json:"status"`
	Trigger           string                      `json:"trigger"`
	StartedAt         time.Time                   `json:"started_at"`
	FinishedAt        *time.Time                  `json:"finished_at,omitempty"`
	ArticlesFound     int                         `json:"articles_found"`
	ArticlesCollected int                         `json:"articles_collected"`
	DurationMs        int64                       `json:"duration_ms"`
	ErrorMessage      *string                     `json:"error_message,omitempty"`
	CreatedPosts      []models.CreatedPostSummary `json:"created_posts"`
}

func NewCollectionLogDTO(l models.CollectionLog) CollectionLogDTO {
	created := l.CreatedPosts
	if created == nil {
		created = []models.CreatedPostSummary{}
	}
	return CollectionLogDTO{
		ID:                l.ID.Hex(),
		Status:            string(l.Status),
		Trigger:           string(l.Trigger),
		StartedAt:         l.StartedAt,
		FinishedAt:        l.FinishedAt,
		ArticlesFound:     l.ArticlesFound,
		ArticlesCollected: l.ArticlesCollected,
		DurationMs:        l.DurationMs,
		ErrorMessage:      l.ErrorMessage,
		CreatedPosts:      created,
	}
}

type CollectionConfigDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCollectionConfigDTO(c models.CollectionConfig) CollectionConfigDTO {
	return CollectionConfigDTO{
		ID:        c.ID.Hex(),
		Type:      string(c.Type),
		Value:     c.Value,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type CreateCollectionConfigRequestDTO struct {
	Type     string `json:"type" binding:"required"`
	Value    string `json:"value" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

type UpdateCollectionConfigRequestDTO struct {
	Value    *string `json:"value"`
	IsActive *bool   `json:"is_active"`
}
