package repository

import (
	"context"

	"sharehub/internal/models"

	"gorm.io/gorm"
)

// ResourceLinkRepository defines the interface for resource link data operations
type ResourceLinkRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.ResourceLink, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	GetByID(ctx context.Context, id uint) (*models.ResourceLink, error)
	Create(ctx context.Context, link *models.ResourceLink) error
	Update(ctx context.Context, link *models.ResourceLink) error
	Delete(ctx context.Context, id uint) error
}

type resourceLinkRepository struct {
	db *gorm.DB
}

// NewResourceLinkRepository creates a new resource link repository
func NewResourceLinkRepository(db *gorm.DB) ResourceLinkRepository {
	return &resourceLinkRepository{db: db}
}

func (r *resourceLinkRepository) ListByUser(ctx context.Context, userID string) ([]*models.ResourceLink, error) {
	var links []*models.ResourceLink
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&links).Error
	return links, err
}

func (r *resourceLinkRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ResourceLink{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *resourceLinkRepository) GetByID(ctx context.Context, id uint) (*models.ResourceLink, error) {
	var link models.ResourceLink
	if err := r.db.WithContext(ctx).First(&link, id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *resourceLinkRepository) Create(ctx context.Context, link *models.ResourceLink) error {
	return translateError(r.db.WithContext(ctx).Create(link).Error)
}

func (r *resourceLinkRepository) Update(ctx context.Context, link *models.ResourceLink) error {
	return translateError(r.db.WithContext(ctx).Model(link).Updates(map[string]any{
		"service_name": link.ServiceName,
		"url":          link.URL,
	}).Error)
}

func (r *resourceLinkRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ResourceLink{}, id).Error
}
