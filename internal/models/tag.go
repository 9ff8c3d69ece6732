package models

import "time"

// Tag is a free-text label shared across posts. Names are stored normalised.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:32;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"-"`

	PostCount int `gorm:"->;-:migration" json:"post_count,omitempty"`
}

// PostTag is the join row between posts and tags.
type PostTag struct {
	PostID    uint      `gorm:"primaryKey"`
	TagID     uint      `gorm:"primaryKey;index"`
	CreatedAt time.Time
}
