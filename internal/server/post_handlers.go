package server

import (
	"time"

	"sharehub/internal/repository"
	"sharehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title   string   `json:"title" validate:"required,max=300"`
	URL     string   `json:"url" validate:"required,max=2048"`
	Content string   `json:"content" validate:"max=50000"`
	Tags    []string `json:"tags"`
}

// updatePostRequest uses pointers so absent keys leave fields unchanged.
type updatePostRequest struct {
	Title   *string   `json:"title" validate:"omitempty,max=300"`
	URL     *string   `json:"url" validate:"omitempty,max=2048"`
	Content *string   `json:"content" validate:"omitempty,max=50000"`
	Tags    *[]string `json:"tags"`
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)
	viewerID, _ := s.optionalUserID(c)

	result, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Filter: repository.PostFilter{
			Tag:      c.Query("tag"),
			AuthorID: c.Query("author"),
			Source:   c.Query("source"),
			Query:    c.Query("q"),
		},
		Limit:    page.Limit,
		Offset:   page.Offset,
		ViewerID: viewerID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.UserContext(), id, viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CheckPostURL handles GET /api/posts/check-url?url=...
func (s *Server) CheckPostURL(c *fiber.Ctx) error {
	result, err := s.postService.CheckURL(c.UserContext(), c.Query("url"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := userIDFrom(c)

	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:  userID,
		Title:   req.Title,
		URL:     req.URL,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventPostCreated, map[string]any{
		"post_id":    post.ID,
		"author_id":  post.UserID,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		UserID:  userIDFrom(c),
		PostID:  postID,
		Title:   req.Title,
		URL:     req.URL,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventPostUpdated, map[string]any{"post_id": post.ID})
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id?force=true
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	err = s.postService.DeletePost(ctx, service.DeletePostInput{
		UserID: userIDFrom(c),
		PostID: postID,
		Force:  c.QueryBool("force", false),
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventPostDeleted, map[string]any{"post_id": postID})
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := userIDFrom(c)

	state, err := s.postService.LikePost(ctx, userID, postID)
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventPostLiked, map[string]any{
		"post_id":     postID,
		"user_id":     userID,
		"likes_count": state.LikesCount,
	})
	return c.Status(fiber.StatusCreated).JSON(state)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := userIDFrom(c)

	state, err := s.postService.UnlikePost(ctx, userID, postID)
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventPostUnliked, map[string]any{
		"post_id":     postID,
		"user_id":     userID,
		"likes_count": state.LikesCount,
	})
	return c.JSON(state)
}
