package repository

import (
	"context"
	"time"

	"sharehub/internal/models"

	"gorm.io/gorm"
)

// RssFeedRepository defines the interface for feed configuration storage
type RssFeedRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*models.RssFeed, error)
	GetByID(ctx context.Context, id uint) (*models.RssFeed, error)
	Create(ctx context.Context, feed *models.RssFeed) error
	Update(ctx context.Context, feed *models.RssFeed) error
	Delete(ctx context.Context, id uint) error
	MarkFetched(ctx context.Context, id uint, at time.Time, fetchErr string) error
}

type rssFeedRepository struct {
	db *gorm.DB
}

// NewRssFeedRepository creates a new feed repository
func NewRssFeedRepository(db *gorm.DB) RssFeedRepository {
	return &rssFeedRepository{db: db}
}

func (r *rssFeedRepository) List(ctx context.Context, activeOnly bool) ([]*models.RssFeed, error) {
	q := r.db.WithContext(ctx).Order("name ASC, id ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var feeds []*models.RssFeed
	err := q.Find(&feeds).Error
	return feeds, err
}

func (r *rssFeedRepository) GetByID(ctx context.Context, id uint) (*models.RssFeed, error) {
	var feed models.RssFeed
	if err := r.db.WithContext(ctx).First(&feed, id).Error; err != nil {
		return nil, err
	}
	return &feed, nil
}

func (r *rssFeedRepository) Create(ctx context.Context, feed *models.RssFeed) error {
	return translateError(r.db.WithContext(ctx).Create(feed).Error)
}

func (r *rssFeedRepository) Update(ctx context.Context, feed *models.RssFeed) error {
	return translateError(r.db.WithContext(ctx).Model(feed).Updates(map[string]any{
		"name":      feed.Name,
		"url":       feed.URL,
		"tags":      feed.Tags,
		"is_active": feed.IsActive,
	}).Error)
}

func (r *rssFeedRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.RssFeed{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkFetched records the outcome of an ingestion run. An empty fetchErr clears the last error.
func (r *rssFeedRepository) MarkFetched(ctx context.Context, id uint, at time.Time, fetchErr string) error {
	return r.db.WithContext(ctx).Model(&models.RssFeed{ID: id}).Updates(map[string]any{
		"last_fetched_at": at,
		"last_error":      fetchErr,
	}).Error
}
