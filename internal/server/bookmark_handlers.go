package server

import (
	"sharehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createBookmarkRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

type updateBookmarkRequest struct {
	IsRead *bool   `json:"is_read"`
	Note   *string `json:"note" validate:"omitempty,max=2000"`
}

// GetBookmarks handles GET /api/bookmarks?read=true|false
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)

	var read *bool
	if raw := c.Query("read"); raw != "" {
		v := c.QueryBool("read")
		read = &v
	}

	result, err := s.bookmarkService.ListBookmarks(c.UserContext(), userIDFrom(c), read, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// CreateBookmark handles POST /api/posts/:id/bookmark
func (s *Server) CreateBookmark(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req createBookmarkRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return nil
		}
	}

	userID := userIDFrom(c)
	b, err := s.bookmarkService.CreateBookmark(ctx, userID, postID, req.Note)
	if err != nil {
		return respondError(c, err)
	}

	s.publishUserEvent(ctx, userID, EventBookmarkChanged, map[string]any{
		"post_id":    postID,
		"bookmarked": true,
	})
	return c.Status(fiber.StatusCreated).JSON(b)
}

// UpdateBookmark handles PATCH /api/bookmarks/:id
func (s *Server) UpdateBookmark(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateBookmarkRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	userID := userIDFrom(c)
	b, err := s.bookmarkService.UpdateBookmark(ctx, service.UpdateBookmarkInput{
		UserID:     userID,
		BookmarkID: id,
		IsRead:     req.IsRead,
		Note:       req.Note,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishUserEvent(ctx, userID, EventBookmarkChanged, map[string]any{
		"post_id":    b.PostID,
		"bookmarked": true,
		"is_read":    b.IsRead,
	})
	return c.JSON(b)
}

// DeleteBookmark handles DELETE /api/bookmarks/:id
func (s *Server) DeleteBookmark(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.bookmarkService.DeleteBookmark(c.UserContext(), userIDFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeletePostBookmark handles DELETE /api/posts/:id/bookmark
func (s *Server) DeletePostBookmark(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := userIDFrom(c)
	if err := s.bookmarkService.DeleteBookmarkForPost(ctx, userID, postID); err != nil {
		return respondError(c, err)
	}

	s.publishUserEvent(ctx, userID, EventBookmarkChanged, map[string]any{
		"post_id":    postID,
		"bookmarked": false,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
