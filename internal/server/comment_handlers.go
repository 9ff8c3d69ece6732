package server

import (
	"sharehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	Content  string `json:"content" validate:"required,max=10000"`
	ParentID *uint  `json:"parent_id"`
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

type reactionRequest struct {
	Emoji string `json:"emoji" validate:"required"`
}

// GetComments handles GET /api/posts/:id/comments and returns the thread.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	thread, err := s.commentService.ListThread(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(thread)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req createCommentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:   userIDFrom(c),
		PostID:   postID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventCommentCreated, map[string]any{
		"post_id":    postID,
		"comment_id": comment.ID,
		"parent_id":  comment.ParentID,
		"user_id":    comment.UserID,
	})
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateCommentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.UpdateComment(ctx, service.UpdateCommentInput{
		UserID:    userIDFrom(c),
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventCommentUpdated, map[string]any{
		"post_id":    comment.PostID,
		"comment_id": comment.ID,
	})
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{
		UserID:    userIDFrom(c),
		CommentID: commentID,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventCommentDeleted, map[string]any{
		"post_id":    comment.PostID,
		"comment_id": comment.ID,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleReaction handles POST /api/comments/:id/reactions
func (s *Server) ToggleReaction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req reactionRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	userID := userIDFrom(c)
	result, err := s.commentService.ToggleReaction(ctx, userID, commentID, req.Emoji)
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventCommentReaction, map[string]any{
		"comment_id": commentID,
		"user_id":    userID,
		"emoji":      req.Emoji,
		"reacted":    result.Reacted,
	})
	return c.JSON(result)
}
