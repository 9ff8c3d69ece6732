package server

import (
	"sharehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type feedRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	URL      string   `json:"url" validate:"required,max=2048"`
	Tags     []string `json:"tags"`
	IsActive *bool    `json:"is_active"`
}

func (r feedRequest) input() service.FeedInput {
	return service.FeedInput{Name: r.Name, URL: r.URL, Tags: r.Tags, IsActive: r.IsActive}
}

// GetFeeds handles GET /api/rss-feeds
func (s *Server) GetFeeds(c *fiber.Ctx) error {
	list, err := s.feedService.ListFeeds(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreateFeed handles POST /api/rss-feeds (admin)
func (s *Server) CreateFeed(c *fiber.Ctx) error {
	var req feedRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	feed, err := s.feedService.CreateFeed(c.UserContext(), userIDFrom(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(feed)
}

// UpdateFeed handles PUT /api/rss-feeds/:id (admin)
func (s *Server) UpdateFeed(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req feedRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	feed, err := s.feedService.UpdateFeed(c.UserContext(), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// DeleteFeed handles DELETE /api/rss-feeds/:id (admin)
func (s *Server) DeleteFeed(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.feedService.DeleteFeed(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FetchFeed handles POST /api/rss-feeds/:id/fetch and runs one ingestion.
func (s *Server) FetchFeed(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	result, err := s.feedService.FetchFeed(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
