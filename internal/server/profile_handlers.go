package server

import (
	"sharehub/internal/models"
	"sharehub/internal/repository"
	"sharehub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type updateProfileRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=32"`
	DisplayName string `json:"display_name" validate:"max=100"`
	AvatarURL   string `json:"avatar_url" validate:"max=2048"`
}

// GetMyProfile handles GET /api/profiles/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	p, err := s.profileService.GetProfile(c.UserContext(), userIDFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	p, err := s.profileService.UpsertProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:      userIDFrom(c),
		Username:    req.Username,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// GetProfile handles GET /api/profiles/:id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	p, err := s.profileService.GetProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// GetProfilePosts handles GET /api/profiles/:id/posts
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	authorID, ok := profileIDParam(c)
	if !ok {
		return nil
	}
	page := parsePagination(c, defaultPageSize)
	viewerID, _ := s.optionalUserID(c)

	result, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Filter:   repository.PostFilter{AuthorID: authorID},
		Limit:    page.Limit,
		Offset:   page.Offset,
		ViewerID: viewerID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetProfileResourceLinks handles GET /api/profiles/:id/resource-links
func (s *Server) GetProfileResourceLinks(c *fiber.Ctx) error {
	userID, ok := profileIDParam(c)
	if !ok {
		return nil
	}
	links, err := s.linkService.ListLinks(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(links)
}

// profileIDParam reads :id as a UUID, writing a 400 when it is not one.
func profileIDParam(c *fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid profile ID"))
		return "", false
	}
	return id.String(), true
}
