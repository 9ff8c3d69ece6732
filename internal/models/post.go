package models

import (
	"time"

	"gorm.io/gorm"
)

// Post sources.
const (
	SourceManual = "manual"
	SourceRSS    = "rss"
)

// Post is a shared article link, submitted by hand or ingested from a feed.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:300;not null" json:"title"`
	URL         string     `gorm:"size:2048;not null;index" json:"url"`
	Content     string     `gorm:"type:text" json:"content"`
	UserID      string     `gorm:"size:36;not null;index" json:"user_id"`
	Author      *Profile   `gorm:"foreignKey:UserID;references:ID" json:"author,omitempty"`
	Source      string     `gorm:"size:16;not null;default:manual;index" json:"source"`
	FeedID      *uint      `gorm:"index" json:"feed_id,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Tags        []Tag      `gorm:"many2many:post_tags" json:"tags"`

	// Computed at query time, never stored.
	LikesCount    int  `gorm:"->;-:migration" json:"likes_count"`
	CommentsCount int  `gorm:"->;-:migration" json:"comments_count"`
	Liked         bool `gorm:"->;-:migration" json:"liked"`
	Bookmarked    bool `gorm:"->;-:migration" json:"bookmarked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TagNames returns the names of the post's tags in order.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}
