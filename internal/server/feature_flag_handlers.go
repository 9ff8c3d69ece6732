package server

import (
	"sharehub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags returns configured feature flags and evaluated state for current user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userIDFrom(c)),
	})
}

// FlagRequired hides the routes behind it with a 404 while the flag is off
// for the caller.
func (s *Server) FlagRequired(flag string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := userIDFrom(c)
		if userID == "" {
			userID, _ = s.optionalUserID(c)
		}
		if s.featureFlags == nil || !s.featureFlags.Enabled(flag, userID) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				&models.AppError{Code: models.CodeNotFound, Message: "Not found"})
		}
		return c.Next()
	}
}
