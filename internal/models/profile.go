// Package models contains data structures for the application's domain models.
package models

import "time"

// Profile mirrors an identity owned by the auth backend. ID is the token subject.
type Profile struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Username    string    `gorm:"size:32;uniqueIndex" json:"username"`
	DisplayName string    `gorm:"size:100" json:"display_name"`
	AvatarURL   string    `gorm:"size:2048" json:"avatar_url"`
	IsAdmin     bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Contributor is a profile ranked by the number of posts it shared.
type Contributor struct {
	Profile   Profile `gorm:"embedded" json:"profile"`
	PostCount int     `json:"post_count"`
}
