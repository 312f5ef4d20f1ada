package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RunStatus 는 수집 실행 로그의 상태이다. running -> success | error 로 한 번만 전이한다.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
)

// RunTrigger 는 수집 실행을 시작시킨 주체이다.
type RunTrigger string

const (
	TriggerCron      RunTrigger = "cron"
	TriggerManual    RunTrigger = "manual"
	TriggerScheduler RunTrigger = "scheduler"
)

// CreatedPostSummary is the short form of a post created during a run.
type CreatedPostSummary struct {
	ID       primitive.ObjectID `bson:"id" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Slug     string             `bson:"slug" json:"slug"`
	Category Category           `bson:"category" json:"category"`
}

// CollectionLog is one row per collection run.
// Collection: collection_logs
type CollectionLog struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Status            RunStatus            `bson:"status" json:"status"`
	Trigger           RunTrigger           `bson:"trigger" json:"trigger"`
	StartedAt         time.Time            `bson:"started_at" json:"started_at"`
	FinishedAt        *time.Time           `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
	ArticlesFound     int                  `bson:"articles_found" json:"articles_found"`
	ArticlesCollected int                  `bson:"articles_collected" json:"articles_collected"`
	DurationMs        int64                `bson:"duration_ms" json:"duration_ms"`
	ErrorMessage      *string              `bson:"error_message,omitempty" json:"error_message,omitempty"`
	CreatedPosts      []CreatedPostSummary `bson:"created_posts" json:"created_posts"`
}
