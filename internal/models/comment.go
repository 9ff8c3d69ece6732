package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Comment is a remark on a post. ParentID links a reply to its top-level comment.
type Comment struct {
	ID        uint                            `gorm:"primaryKey" json:"id"`
	PostID    uint                            `gorm:"not null;index" json:"post_id"`
	ParentID  *uint                           `gorm:"index" json:"parent_id"`
	UserID    string                          `gorm:"size:36;not null;index" json:"user_id"`
	Author    *Profile                        `gorm:"foreignKey:UserID;references:ID" json:"author,omitempty"`
	Content   string                          `gorm:"type:text;not null" json:"content"`
	Reactions datatypes.JSONType[ReactionMap] `json:"reactions"`
	CreatedAt time.Time                       `json:"created_at"`
	UpdatedAt time.Time                       `json:"updated_at"`
	DeletedAt gorm.DeletedAt                  `gorm:"index" json:"-"`
}

// ReactionMap returns the comment's reactions, never nil.
func (c *Comment) ReactionMap() ReactionMap {
	m := c.Reactions.Data()
	if m == nil {
		return ReactionMap{}
	}
	return m
}

// SetReactionMap replaces the stored reactions.
func (c *Comment) SetReactionMap(m ReactionMap) {
	c.Reactions = datatypes.NewJSONType(m)
}

// ThreadComment is a top-level comment with its replies, oldest first.
type ThreadComment struct {
	*Comment
	Replies []*Comment `json:"replies"`
}
