package models

import "time"

// ResourceLink points from a user to one of their external profiles.
type ResourceLink struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"size:36;not null;uniqueIndex:idx_resource_link_user_url" json:"user_id"`
	ServiceName string    `gorm:"size:64;not null" json:"service_name"`
	URL         string    `gorm:"size:2048;not null;uniqueIndex:idx_resource_link_user_url" json:"url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
