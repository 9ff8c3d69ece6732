package repository

import (
	"context"

	"sharehub/internal/cache"
	"sharehub/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	UpdateContent(ctx context.Context, comment *models.Comment) error
	DeleteWithReplies(ctx context.Context, id uint) error
	ToggleReaction(ctx context.Context, id uint, emoji, userID string) (models.ReactionMap, bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.Reactions.Data() == nil {
		comment.SetReactionMap(models.ReactionMap{})
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	cache.InvalidateRankings(ctx)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns every live comment of the post, oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) UpdateContent(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Model(&models.Comment{ID: comment.ID}).Update("content", comment.Content).Error
}

// DeleteWithReplies removes a comment together with the replies attached to it.
func (r *commentRepository) DeleteWithReplies(ctx context.Context, id uint) error {
	var postID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Comment
		if err := tx.Select("id", "post_id").First(&c, id).Error; err != nil {
			return err
		}
		postID = c.PostID
		return tx.Where("id = ? OR parent_id = ?", id, id).Delete(&models.Comment{}).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, postID)
	cache.InvalidateRankings(ctx)
	return nil
}

// ToggleReaction flips userID's emoji reaction under a row lock and returns the
// stored map and whether the reaction is now set.
func (r *commentRepository) ToggleReaction(ctx context.Context, id uint, emoji, userID string) (models.ReactionMap, bool, error) {
	var (
		result  models.ReactionMap
		reacted bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Comment
		if err := forUpdate(tx).Select("id", "reactions").First(&c, id).Error; err != nil {
			return err
		}
		m := c.ReactionMap().Clone()
		reacted = m.Toggle(emoji, userID)
		if err := tx.Model(&models.Comment{}).
			Where("id = ?", id).
			UpdateColumn("reactions", datatypes.NewJSONType(m)).Error; err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, reacted, nil
}
