package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConfigType 은 수집 설정 행의 종류이다.
type ConfigType string

const (
	ConfigSite             ConfigType = "site"
	ConfigTopic            ConfigType = "topic"
	ConfigTimeFilter       ConfigType = "time_filter"
	ConfigScheduleInterval ConfigType = "schedule_interval"
	ConfigFeed             ConfigType = "feed"
)

// IsValid reports whether t is a known config row type.
func (t ConfigType) IsValid() bool {
	switch t {
	case ConfigSite, ConfigTopic, ConfigTimeFilter, ConfigScheduleInterval, ConfigFeed:
		return true
	}
	return false
}

// CollectionConfig is a toggleable key/value row read fresh on every run.
// Collection: collection_config
type CollectionConfig struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	Type      ConfigType         `bson:"type" json:"type"`
	Value     string             `bson:"value" json:"value"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
}
