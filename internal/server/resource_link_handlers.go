package server

import (
	"sharehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type resourceLinkRequest struct {
	ServiceName string `json:"service_name" validate:"required,max=64"`
	URL         string `json:"url" validate:"required,max=2048"`
}

// GetMyResourceLinks handles GET /api/resource-links
func (s *Server) GetMyResourceLinks(c *fiber.Ctx) error {
	links, err := s.linkService.ListLinks(c.UserContext(), userIDFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(links)
}

// CreateResourceLink handles POST /api/resource-links
func (s *Server) CreateResourceLink(c *fiber.Ctx) error {
	var req resourceLinkRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	link, err := s.linkService.CreateLink(c.UserContext(), service.ResourceLinkInput{
		UserID:      userIDFrom(c),
		ServiceName: req.ServiceName,
		URL:         req.URL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

// UpdateResourceLink handles PUT /api/resource-links/:id
func (s *Server) UpdateResourceLink(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req resourceLinkRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	link, err := s.linkService.UpdateLink(c.UserContext(), id, service.ResourceLinkInput{
		UserID:      userIDFrom(c),
		ServiceName: req.ServiceName,
		URL:         req.URL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(link)
}

// DeleteResourceLink handles DELETE /api/resource-links/:id
func (s *Server) DeleteResourceLink(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.linkService.DeleteLink(c.UserContext(), userIDFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
