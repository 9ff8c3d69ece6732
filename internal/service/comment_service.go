package service

import (
	"context"
	"strings"

	"sharehub/internal/models"
	"sharehub/internal/notifications"
	"sharehub/internal/repository"
	"sharehub/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	isAdmin     func(ctx context.Context, userID string) (bool, error)
	chat        *ChatDispatcher
}

type CreateCommentInput struct {
	UserID   string
	PostID   uint
	ParentID *uint
	Content  string
}

type UpdateCommentInput struct {
	UserID    string
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    string
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID string) (bool, error),
	chat *ChatDispatcher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		isAdmin:     isAdmin,
		chat:        chat,
	}
}

// CreateComment adds a comment or a reply. A reply to a reply is attached to
// the top-level comment so threads stay one level deep.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, "")
	if err != nil {
		return nil, mapRepoError(err, "Post", in.PostID)
	}
	if err := validation.ValidateText("content", in.Content, true, validation.MaxCommentLength); err != nil {
		return nil, validationErr(err)
	}

	var parent *models.Comment
	parentID := in.ParentID
	if parentID != nil {
		parent, err = s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, models.NewValidationError("parent comment does not exist")
			}
			return nil, models.NewInternalError(err)
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("parent comment belongs to a different post")
		}
		if parent.ParentID != nil {
			root := *parent.ParentID
			parentID = &root
		}
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		ParentID: parentID,
		UserID:   in.UserID,
		Content:  in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, mapRepoError(err, "Comment", comment.ID)
	}

	s.notifyComment(ctx, post, parent, created)
	return created, nil
}

func (s *CommentService) notifyComment(ctx context.Context, post *models.Post, parent, comment *models.Comment) {
	name := displayName(comment.Author)
	base := s.chat.BaseURL()

	if post.UserID != comment.UserID {
		s.chat.send(ctx, comment.UserID, notifications.CommentMessage(base, post.ID, name, post.Title, comment.Content))
	}
	if parent != nil && parent.UserID != comment.UserID && parent.UserID != post.UserID {
		s.chat.send(ctx, comment.UserID, notifications.ReplyMessage(base, post.ID, name, post.Title, comment.Content))
	}
}

// ListThread returns the post's comments grouped into one-level threads.
func (s *CommentService) ListThread(ctx context.Context, postID uint) ([]*models.ThreadComment, error) {
	ok, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !ok {
		return nil, models.NewNotFoundError("Post", postID)
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return BuildThread(comments), nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, mapRepoError(err, "Comment", in.CommentID)
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}
	if err := validation.ValidateText("content", in.Content, true, validation.MaxCommentLength); err != nil {
		return nil, validationErr(err)
	}

	comment.Content = in.Content
	if err := s.commentRepo.UpdateContent(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	updated, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, mapRepoError(err, "Comment", comment.ID)
	}
	return updated, nil
}

// DeleteComment removes the comment and its replies and returns what was deleted.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, mapRepoError(err, "Comment", in.CommentID)
	}

	if comment.UserID != in.UserID {
		if s.isAdmin == nil {
			return nil, models.NewForbiddenError("You can only delete your own comments")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if !admin {
			return nil, models.NewForbiddenError("You can only delete your own comments")
		}
	}

	if err := s.commentRepo.DeleteWithReplies(ctx, in.CommentID); err != nil {
		return nil, mapRepoError(err, "Comment", in.CommentID)
	}
	return comment, nil
}

// ReactionResult is the comment's reaction map after a toggle.
type ReactionResult struct {
	CommentID uint               `json:"comment_id"`
	Reactions models.ReactionMap `json:"reactions"`
	Reacted   bool               `json:"reacted"`
}

// ToggleReaction adds userID's emoji reaction, or removes it when already present.
func (s *CommentService) ToggleReaction(ctx context.Context, userID string, commentID uint, emoji string) (ReactionResult, error) {
	emoji = strings.TrimSpace(emoji)
	if err := validation.ValidateEmoji(emoji); err != nil {
		return ReactionResult{}, validationErr(err)
	}

	m, reacted, err := s.commentRepo.ToggleReaction(ctx, commentID, emoji, userID)
	if err != nil {
		return ReactionResult{}, mapRepoError(err, "Comment", commentID)
	}
	return ReactionResult{CommentID: commentID, Reactions: m, Reacted: reacted}, nil
}
