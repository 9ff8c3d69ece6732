package database

import "sharehub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.Post{},
		&models.Tag{},
		&models.PostTag{},
		&models.Comment{},
		&models.Bookmark{},
		&models.PostLike{},
		&models.ResourceLink{},
		&models.RssFeed{},
	}
}
