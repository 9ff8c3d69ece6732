package service

import (
	"context"

	"sharehub/internal/models"
	"sharehub/internal/repository"
	"sharehub/internal/validation"
)

type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	postRepo     repository.PostRepository
}

type UpdateBookmarkInput struct {
	UserID     string
	BookmarkID uint
	IsRead     *bool
	Note       *string
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, postRepo repository.PostRepository) *BookmarkService {
	return &BookmarkService{bookmarkRepo: bookmarkRepo, postRepo: postRepo}
}

// ListBookmarks pages through the user's bookmarks. A nil read returns both states.
func (s *BookmarkService) ListBookmarks(ctx context.Context, userID string, read *bool, limit, offset int) (models.Page[*models.Bookmark], error) {
	items, err := s.bookmarkRepo.ListByUser(ctx, userID, read, limit, offset)
	if err != nil {
		return models.Page[*models.Bookmark]{}, models.NewInternalError(err)
	}
	return models.NewPage(items, limit, offset), nil
}

func (s *BookmarkService) CreateBookmark(ctx context.Context, userID string, postID uint, note string) (*models.Bookmark, error) {
	ok, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !ok {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if err := validation.ValidateText("note", note, false, validation.MaxNoteLength); err != nil {
		return nil, validationErr(err)
	}

	if existing, err := s.bookmarkRepo.GetByUserAndPost(ctx, userID, postID); err == nil {
		return nil, bookmarkConflict(existing.ID)
	} else if !repository.IsNotFound(err) {
		return nil, models.NewInternalError(err)
	}

	b := &models.Bookmark{UserID: userID, PostID: postID, Note: note}
	if err := s.bookmarkRepo.Create(ctx, b); err != nil {
		if repository.IsDuplicate(err) {
			if existing, lookupErr := s.bookmarkRepo.GetByUserAndPost(ctx, userID, postID); lookupErr == nil {
				return nil, bookmarkConflict(existing.ID)
			}
			return nil, models.NewConflictError("Post is already bookmarked", nil)
		}
		return nil, models.NewInternalError(err)
	}
	return b, nil
}

func (s *BookmarkService) UpdateBookmark(ctx context.Context, in UpdateBookmarkInput) (*models.Bookmark, error) {
	b, err := s.ownedBookmark(ctx, in.UserID, in.BookmarkID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.IsRead != nil {
		fields["is_read"] = *in.IsRead
	}
	if in.Note != nil {
		if err := validation.ValidateText("note", *in.Note, false, validation.MaxNoteLength); err != nil {
			return nil, validationErr(err)
		}
		fields["note"] = *in.Note
	}
	if len(fields) == 0 {
		return b, nil
	}

	if err := s.bookmarkRepo.Update(ctx, b.ID, fields); err != nil {
		return nil, models.NewInternalError(err)
	}
	updated, err := s.bookmarkRepo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, mapRepoError(err, "Bookmark", b.ID)
	}
	return updated, nil
}

func (s *BookmarkService) DeleteBookmark(ctx context.Context, userID string, bookmarkID uint) error {
	b, err := s.ownedBookmark(ctx, userID, bookmarkID)
	if err != nil {
		return err
	}
	return mapRepoError(s.bookmarkRepo.Delete(ctx, b.ID), "Bookmark", b.ID)
}

// DeleteBookmarkForPost removes the user's bookmark on postID.
func (s *BookmarkService) DeleteBookmarkForPost(ctx context.Context, userID string, postID uint) error {
	b, err := s.bookmarkRepo.GetByUserAndPost(ctx, userID, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return &models.AppError{Code: models.CodeNotFound, Message: "Post is not bookmarked"}
		}
		return models.NewInternalError(err)
	}
	return mapRepoError(s.bookmarkRepo.Delete(ctx, b.ID), "Bookmark", b.ID)
}

func (s *BookmarkService) ownedBookmark(ctx context.Context, userID string, id uint) (*models.Bookmark, error) {
	b, err := s.bookmarkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Bookmark", id)
	}
	if b.UserID != userID {
		return nil, models.NewForbiddenError("You can only manage your own bookmarks")
	}
	return b, nil
}

func bookmarkConflict(existingID uint) error {
	return models.NewConflictError("Post is already bookmarked", map[string]any{
		"existing_bookmark_id": existingID,
	})
}
