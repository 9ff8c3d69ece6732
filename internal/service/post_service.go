package service

import (
	"context"
	"strings"

	"sharehub/internal/models"
	"sharehub/internal/notifications"
	"sharehub/internal/repository"
	"sharehub/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID string) (bool, error)
	chat     *ChatDispatcher
}

type CreatePostInput struct {
	UserID  string
	Title   string
	URL     string
	Content string
	Tags    []string
}

// UpdatePostInput carries a partial update. Nil fields are left unchanged;
// a non-nil Tags replaces the whole tag set.
type UpdatePostInput struct {
	UserID  string
	PostID  uint
	Title   *string
	URL     *string
	Content *string
	Tags    *[]string
}

type DeletePostInput struct {
	UserID string
	PostID uint
	Force  bool
}

type ListPostsInput struct {
	Filter   repository.PostFilter
	Limit    int
	Offset   int
	ViewerID string
}

// URLCheck is the answer of the duplicate-url probe.
type URLCheck struct {
	Exists bool  `json:"exists"`
	PostID *uint `json:"post_id,omitempty"`
}

// LikeState is returned by like and unlike.
type LikeState struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

func NewPostService(
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID string) (bool, error),
	chat *ChatDispatcher,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		isAdmin:  isAdmin,
		chat:     chat,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if err := validation.ValidateText("title", title, true, validation.MaxTitleLength); err != nil {
		return nil, validationErr(err)
	}
	if err := validation.ValidateText("content", in.Content, false, validation.MaxContentLength); err != nil {
		return nil, validationErr(err)
	}
	url, err := validation.NormalizeURL(in.URL)
	if err != nil {
		return nil, validationErr(err)
	}
	tags, err := validation.NormalizeTags(in.Tags)
	if err != nil {
		return nil, validationErr(err)
	}

	if err := s.ensureURLAvailable(ctx, url, 0); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:   title,
		URL:     url,
		Content: in.Content,
		UserID:  in.UserID,
		Source:  models.SourceManual,
	}
	if err := s.postRepo.Create(ctx, post, tags); err != nil {
		if repository.IsDuplicate(err) {
			return nil, s.duplicateURLError(ctx, url, 0)
		}
		return nil, models.NewInternalError(err)
	}

	created, err := s.postRepo.GetByID(ctx, post.ID, in.UserID)
	if err != nil {
		return nil, mapRepoError(err, "Post", post.ID)
	}

	s.chat.send(ctx, in.UserID, notifications.NewPostMessage(
		s.chat.BaseURL(), created.ID, displayName(created.Author), created.Title, created.URL, created.TagNames()))

	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewerID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, mapRepoError(err, "Post", id)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (models.Page[*models.Post], error) {
	if in.Filter.Tag != "" {
		in.Filter.Tag = validation.NormalizeTag(in.Filter.Tag)
	}
	switch in.Filter.Source {
	case "", models.SourceManual, models.SourceRSS:
	default:
		return models.Page[*models.Post]{}, models.NewValidationError("source must be manual or rss")
	}

	posts, err := s.postRepo.List(ctx, in.Filter, in.Limit, in.Offset, in.ViewerID)
	if err != nil {
		return models.Page[*models.Post]{}, models.NewInternalError(err)
	}
	return models.NewPage(posts, in.Limit, in.Offset), nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, mapRepoError(err, "Post", in.PostID)
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validation.ValidateText("title", title, true, validation.MaxTitleLength); err != nil {
			return nil, validationErr(err)
		}
		post.Title = title
	}
	if in.Content != nil {
		if err := validation.ValidateText("content", *in.Content, false, validation.MaxContentLength); err != nil {
			return nil, validationErr(err)
		}
		post.Content = *in.Content
	}
	if in.URL != nil {
		url, err := validation.NormalizeURL(*in.URL)
		if err != nil {
			return nil, validationErr(err)
		}
		if url != post.URL {
			if err := s.ensureURLAvailable(ctx, url, post.ID); err != nil {
				return nil, err
			}
		}
		post.URL = url
	}

	var tags *[]string
	if in.Tags != nil {
		normalized, err := validation.NormalizeTags(*in.Tags)
		if err != nil {
			return nil, validationErr(err)
		}
		tags = &normalized
	}

	if err := s.postRepo.Update(ctx, post, tags); err != nil {
		if repository.IsDuplicate(err) {
			return nil, s.duplicateURLError(ctx, post.URL, post.ID)
		}
		return nil, models.NewInternalError(err)
	}

	return s.GetPost(ctx, post.ID, in.UserID)
}

// DeletePost removes a post. Unless Force is set, a post that still has
// comments or bookmarks is refused with a conflict listing both counts.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, "")
	if err != nil {
		return mapRepoError(err, "Post", in.PostID)
	}

	if post.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return models.NewInternalError(err)
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	if !in.Force {
		deps, err := s.postRepo.CountDependents(ctx, in.PostID)
		if err != nil {
			return models.NewInternalError(err)
		}
		if deps.Comments > 0 || deps.Bookmarks > 0 {
			return models.NewConflictError("Post has comments or bookmarks; pass force=true to delete them too", map[string]any{
				"comments":  deps.Comments,
				"bookmarks": deps.Bookmarks,
			})
		}
	}

	if err := s.postRepo.DeleteCascade(ctx, in.PostID); err != nil {
		return mapRepoError(err, "Post", in.PostID)
	}
	return nil
}

// CheckURL reports whether a live post already uses the normalised form of raw.
func (s *PostService) CheckURL(ctx context.Context, raw string) (URLCheck, error) {
	url, err := validation.NormalizeURL(raw)
	if err != nil {
		return URLCheck{}, validationErr(err)
	}
	existing, err := s.postRepo.FindByURL(ctx, url, 0)
	if err != nil {
		if repository.IsNotFound(err) {
			return URLCheck{}, nil
		}
		return URLCheck{}, models.NewInternalError(err)
	}
	id := existing.ID
	return URLCheck{Exists: true, PostID: &id}, nil
}

func (s *PostService) LikePost(ctx context.Context, userID string, postID uint) (LikeState, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return LikeState{}, err
	}
	created, err := s.postRepo.Like(ctx, userID, postID)
	if err != nil {
		return LikeState{}, models.NewInternalError(err)
	}
	if !created {
		return LikeState{}, models.NewConflictError("You already liked this post", nil)
	}
	return s.likeState(ctx, postID, true)
}

func (s *PostService) UnlikePost(ctx context.Context, userID string, postID uint) (LikeState, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return LikeState{}, err
	}
	removed, err := s.postRepo.Unlike(ctx, userID, postID)
	if err != nil {
		return LikeState{}, models.NewInternalError(err)
	}
	if !removed {
		return LikeState{}, &models.AppError{Code: models.CodeNotFound, Message: "You have not liked this post"}
	}
	return s.likeState(ctx, postID, false)
}

func (s *PostService) likeState(ctx context.Context, postID uint, liked bool) (LikeState, error) {
	count, err := s.postRepo.LikesCount(ctx, postID)
	if err != nil {
		return LikeState{}, models.NewInternalError(err)
	}
	return LikeState{Liked: liked, LikesCount: count}, nil
}

func (s *PostService) requirePost(ctx context.Context, postID uint) error {
	ok, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !ok {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

func (s *PostService) ensureURLAvailable(ctx context.Context, url string, excludeID uint) error {
	existing, err := s.postRepo.FindByURL(ctx, url, excludeID)
	if err == nil {
		return urlConflict(existing.ID)
	}
	if repository.IsNotFound(err) {
		return nil
	}
	return models.NewInternalError(err)
}

// duplicateURLError resolves the post that won an insert race on the url index.
func (s *PostService) duplicateURLError(ctx context.Context, url string, excludeID uint) error {
	existing, err := s.postRepo.FindByURL(ctx, url, excludeID)
	if err != nil {
		return models.NewConflictError("A post with this URL already exists", nil)
	}
	return urlConflict(existing.ID)
}

func urlConflict(existingID uint) error {
	return models.NewConflictError("A post with this URL already exists", map[string]any{
		"existing_post_id": existingID,
	})
}
