package server

import (
	"sharehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

const maxRankingLimit = 50

func rankingQuery(c *fiber.Ctx) service.RankingQuery {
	limit := c.QueryInt("limit", 10)
	if limit > maxRankingLimit {
		limit = maxRankingLimit
	}
	return service.RankingQuery{
		Period: c.Query("period"),
		By:     c.Query("by"),
		Limit:  limit,
	}
}

// GetTopPosts handles GET /api/rankings/posts
func (s *Server) GetTopPosts(c *fiber.Ctx) error {
	posts, err := s.rankingService.TopPosts(c.UserContext(), rankingQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetTopContributors handles GET /api/rankings/contributors
func (s *Server) GetTopContributors(c *fiber.Ctx) error {
	rows, err := s.rankingService.TopContributors(c.UserContext(), rankingQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GetTopTags handles GET /api/rankings/tags
func (s *Server) GetTopTags(c *fiber.Ctx) error {
	tags, err := s.rankingService.TopTags(c.UserContext(), rankingQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}
