package repository

import (
	"context"
	"log/slog"

	"sharehub/internal/cache"
	"sharehub/internal/middleware"
	"sharehub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
	SetAdmin(ctx context.Context, id string, admin bool) error
	ListAdmins(ctx context.Context) ([]*models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates the profile or updates its editable fields. is_admin is never
// written from here.
func (r *profileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "display_name", "avatar_url", "updated_at"}),
	}).Omit("is_admin").Create(p).Error
	if err != nil {
		return translateError(err)
	}
	if err := r.db.WithContext(ctx).First(p, "id = ?", p.ID).Error; err != nil {
		return err
	}
	r.invalidateAuthored(ctx, p.ID)
	return nil
}

// invalidateAuthored drops cached post views and rankings that embed the
// author's name.
func (r *profileRepository) invalidateAuthored(ctx context.Context, userID string) {
	if cache.GetClient() == nil {
		return
	}
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		middleware.Logger.WarnContext(ctx, "authored posts lookup failed", slog.String("error", err.Error()))
		return
	}
	cache.InvalidatePosts(ctx, ids)
	cache.InvalidateRankings(ctx)
}

// SetAdmin flips the admin flag. Only operator tooling calls it.
func (r *profileRepository) SetAdmin(ctx context.Context, id string, admin bool) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Update("is_admin", admin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *profileRepository) ListAdmins(ctx context.Context) ([]*models.Profile, error) {
	var admins []*models.Profile
	err := r.db.WithContext(ctx).Where("is_admin = ?", true).Order("username ASC").Find(&admins).Error
	return admins, err
}
