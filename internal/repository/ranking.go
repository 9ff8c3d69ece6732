package repository

import (
	"context"
	"time"

	"sharehub/internal/models"

	"gorm.io/gorm"
)

// Ranking orders.
const (
	RankByLikes    = "likes"
	RankByComments = "comments"
)

// RankingRepository computes popularity aggregates. A zero since means all time.
type RankingRepository interface {
	TopPosts(ctx context.Context, since time.Time, by string, limit int) ([]*models.Post, error)
	TopContributors(ctx context.Context, since time.Time, limit int) ([]models.Contributor, error)
	TopTags(ctx context.Context, since time.Time, limit int) ([]models.Tag, error)
}

type rankingRepository struct {
	db *gorm.DB
}

// NewRankingRepository creates a new ranking repository
func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

func (r *rankingRepository) TopPosts(ctx context.Context, since time.Time, by string, limit int) ([]*models.Post, error) {
	order := "likes_count DESC, comments_count DESC, posts.created_at DESC"
	if by == RankByComments {
		order = "comments_count DESC, likes_count DESC, posts.created_at DESC"
	}

	q := applyPostDetails(r.db.WithContext(ctx), "").
		Preload("Author").
		Preload("Tags")
	if !since.IsZero() {
		q = q.Where("posts.created_at >= ?", since)
	}

	var posts []*models.Post
	err := q.Order(order).Limit(limit).Find(&posts).Error
	return posts, err
}

// TopContributors counts hand-submitted posts per author; feed items are excluded.
func (r *rankingRepository) TopContributors(ctx context.Context, since time.Time, limit int) ([]models.Contributor, error) {
	join := "JOIN posts ON posts.user_id = profiles.id AND posts.deleted_at IS NULL AND posts.source = ?"
	args := []any{models.SourceManual}
	if !since.IsZero() {
		join += " AND posts.created_at >= ?"
		args = append(args, since)
	}

	var rows []models.Contributor
	err := r.db.WithContext(ctx).
		Table("profiles").
		Select("profiles.id, profiles.username, profiles.display_name, profiles.avatar_url, profiles.is_admin, profiles.created_at, profiles.updated_at, COUNT(posts.id) AS post_count").
		Joins(join, args...).
		Group("profiles.id, profiles.username, profiles.display_name, profiles.avatar_url, profiles.is_admin, profiles.created_at, profiles.updated_at").
		Order("post_count DESC, profiles.username ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *rankingRepository) TopTags(ctx context.Context, since time.Time, limit int) ([]models.Tag, error) {
	join := "JOIN posts ON posts.id = post_tags.post_id AND posts.deleted_at IS NULL"
	var args []any
	if !since.IsZero() {
		join += " AND posts.created_at >= ?"
		args = append(args, since)
	}

	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.id, tags.name, tags.created_at, COUNT(posts.id) AS post_count").
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins(join, args...).
		Group("tags.id, tags.name, tags.created_at").
		Order("post_count DESC, tags.name ASC").
		Limit(limit).
		Scan(&tags).Error
	return tags, err
}
