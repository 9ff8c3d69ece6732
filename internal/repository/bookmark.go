package repository

import (
	"context"

	"sharehub/internal/models"

	"gorm.io/gorm"
)

// BookmarkRepository defines the interface for bookmark data operations
type BookmarkRepository interface {
	Create(ctx context.Context, b *models.Bookmark) error
	GetByID(ctx context.Context, id uint) (*models.Bookmark, error)
	GetByUserAndPost(ctx context.Context, userID string, postID uint) (*models.Bookmark, error)
	ListByUser(ctx context.Context, userID string, read *bool, limit, offset int) ([]*models.Bookmark, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Create(ctx context.Context, b *models.Bookmark) error {
	return translateError(r.db.WithContext(ctx).Omit("Post").Create(b).Error)
}

func (r *bookmarkRepository) GetByID(ctx context.Context, id uint) (*models.Bookmark, error) {
	var b models.Bookmark
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookmarkRepository) GetByUserAndPost(ctx context.Context, userID string, postID uint) (*models.Bookmark, error) {
	var b models.Bookmark
	if err := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns the user's bookmarks newest first with their posts loaded.
// A nil read lists both read and unread bookmarks.
func (r *bookmarkRepository) ListByUser(ctx context.Context, userID string, read *bool, limit, offset int) ([]*models.Bookmark, error) {
	q := r.db.WithContext(ctx).
		Preload("Post", func(db *gorm.DB) *gorm.DB {
			return applyPostDetails(db, userID)
		}).
		Preload("Post.Author").
		Preload("Post.Tags").
		Where("user_id = ?", userID)
	if read != nil {
		q = q.Where("is_read = ?", *read)
	}

	var out []*models.Bookmark
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&out).Error
	return out, err
}

func (r *bookmarkRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Bookmark{ID: id}).Updates(fields).Error
}

func (r *bookmarkRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Bookmark{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
