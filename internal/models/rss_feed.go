package models

import (
	"time"

	"gorm.io/datatypes"
)

// RssFeed is a syndication source whose items are ingested as posts.
type RssFeed struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Name          string                      `gorm:"size:100;not null" json:"name"`
	URL           string                      `gorm:"size:2048;not null;uniqueIndex" json:"url"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	IsActive      bool                        `gorm:"not null" json:"is_active"`
	LastFetchedAt *time.Time                  `json:"last_fetched_at"`
	LastError     string                      `gorm:"type:text" json:"last_error,omitempty"`
	CreatedBy     string                      `gorm:"size:36" json:"created_by"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}
