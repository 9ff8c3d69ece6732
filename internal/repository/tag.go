package repository

import (
	"context"

	"sharehub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	ListWithCounts(ctx context.Context, limit int) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// ListWithCounts returns tags used by at least one live post, most used first.
func (r *tagRepository) ListWithCounts(ctx context.Context, limit int) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.id, tags.name, tags.created_at, COUNT(posts.id) AS post_count").
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("JOIN posts ON posts.id = post_tags.post_id AND posts.deleted_at IS NULL").
		Group("tags.id, tags.name, tags.created_at").
		Order("post_count DESC, tags.name ASC").
		Limit(limit).
		Scan(&tags).Error
	return tags, err
}

// ensureTags returns tag rows for names, creating the missing ones. Names must
// already be normalised.
func ensureTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	rows := make([]models.Tag, 0, len(names))
	for _, n := range names {
		rows = append(rows, models.Tag{Name: n})
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return nil, err
	}

	var found []models.Tag
	if err := tx.Where("name IN ?", names).Find(&found).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]models.Tag, len(found))
	for _, t := range found {
		byName[t.Name] = t
	}
	out := make([]models.Tag, 0, len(names))
	for _, n := range names {
		if t, ok := byName[n]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
