package repository

import (
	"context"
	"strings"

	"sharehub/internal/cache"
	"sharehub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows a post listing. Zero values mean no filter.
type PostFilter struct {
	Tag      string
	AuthorID string
	Source   string
	Query    string
	FeedID   uint
}

// PostDependents counts the rows that block a non-forced delete.
type PostDependents struct {
	Comments  int64 `json:"comments"`
	Bookmarks int64 `json:"bookmarks"`
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagNames []string) error
	GetByID(ctx context.Context, id uint, viewerID string) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filter PostFilter, limit, offset int, viewerID string) ([]*models.Post, error)
	FindByURL(ctx context.Context, url string, excludeID uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post, tagNames *[]string) error
	CountDependents(ctx context.Context, id uint) (PostDependents, error)
	DeleteCascade(ctx context.Context, id uint) error
	Like(ctx context.Context, userID string, postID uint) (bool, error)
	Unlike(ctx context.Context, userID string, postID uint) (bool, error)
	LikesCount(ctx context.Context, postID uint) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and links it to tagNames, creating missing tags.
func (r *postRepository) Create(ctx context.Context, post *models.Post, tagNames []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := ensureTags(tx, tagNames)
		if err != nil {
			return err
		}
		post.Tags = tags
		return tx.Omit("Tags.*").Create(post).Error
	})
	if err != nil {
		return translateError(err)
	}
	cache.InvalidateRankings(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID string) (*models.Post, error) {
	var post models.Post
	load := func() error {
		return applyPostDetails(r.db.WithContext(ctx), viewerID).
			Preload("Author").
			Preload("Tags").
			First(&post, id).Error
	}

	var err error
	if viewerID == "" {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns posts newest first.
func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int, viewerID string) ([]*models.Post, error) {
	q := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("Author").
		Preload("Tags")

	if filter.Tag != "" {
		q = q.Where("posts.id IN (?)", r.db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", filter.Tag))
	}
	if filter.AuthorID != "" {
		q = q.Where("posts.user_id = ?", filter.AuthorID)
	}
	if filter.Source != "" {
		q = q.Where("posts.source = ?", filter.Source)
	}
	if filter.FeedID != 0 {
		q = q.Where("posts.feed_id = ?", filter.FeedID)
	}
	if s := strings.TrimSpace(filter.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ?", like, like)
	}

	var posts []*models.Post
	err := q.Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// FindByURL returns the live post with the given normalised url, ignoring excludeID.
func (r *postRepository) FindByURL(ctx context.Context, url string, excludeID uint) (*models.Post, error) {
	var post models.Post
	q := r.db.WithContext(ctx).Where("url = ?", url)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("id ASC").First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update saves the post's scalar fields. When tagNames is non-nil the tag set is replaced.
func (r *postRepository) Update(ctx context.Context, post *models.Post, tagNames *[]string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{ID: post.ID}).
			Updates(map[string]any{
				"title":   post.Title,
				"url":     post.URL,
				"content": post.Content,
			}).Error; err != nil {
			return err
		}
		if tagNames == nil {
			return nil
		}
		tags, err := ensureTags(tx, *tagNames)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Post{ID: post.ID}).Omit("Tags.*").Association("Tags").Replace(tags); err != nil {
			return err
		}
		post.Tags = tags
		return nil
	})
	if err != nil {
		return translateError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateRankings(ctx)
	return nil
}

func (r *postRepository) CountDependents(ctx context.Context, id uint) (PostDependents, error) {
	var deps PostDependents
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Comment{}).Where("post_id = ?", id).Count(&deps.Comments).Error; err != nil {
		return deps, err
	}
	if err := db.Model(&models.Bookmark{}).Where("post_id = ?", id).Count(&deps.Bookmarks).Error; err != nil {
		return deps, err
	}
	return deps, nil
}

// DeleteCascade removes the post with its comments, bookmarks, likes and tag links in one transaction.
func (r *postRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateRankings(ctx)
	return nil
}

// Like records a like and reports whether a new row was created.
func (r *postRepository) Like(ctx context.Context, userID string, postID uint) (bool, error) {
	like := models.PostLike{UserID: userID, PostID: postID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if res.Error != nil {
		return false, translateError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, postID)
		cache.InvalidateRankings(ctx)
	}
	return res.RowsAffected > 0, nil
}

// Unlike removes a like and reports whether one existed.
func (r *postRepository) Unlike(ctx context.Context, userID string, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.PostLike{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, postID)
		cache.InvalidateRankings(ctx)
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) LikesCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// applyPostDetails adds subqueries to fetch counts and per-viewer flags in a single query.
func applyPostDetails(db *gorm.DB, viewerID string) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) AS comments_count, " +
		"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) AS likes_count"

	if viewerID != "" {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM post_likes WHERE post_likes.post_id = posts.id AND post_likes.user_id = ?) AS liked"+
			", EXISTS(SELECT 1 FROM bookmarks WHERE bookmarks.post_id = posts.id AND bookmarks.user_id = ?) AS bookmarked",
			viewerID, viewerID)
	}

	return db.Select(selectQuery + ", false AS liked, false AS bookmarked")
}
