package service

import (
	"context"
	"time"

	"sharehub/internal/cache"
	"sharehub/internal/models"
	"sharehub/internal/repository"
)

// Ranking periods.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

type RankingService struct {
	rankingRepo repository.RankingRepository
	now         func() time.Time
}

// RankingQuery selects one rankings result. Empty Period means week and empty
// By means likes.
type RankingQuery struct {
	Period string
	By     string
	Limit  int
}

func NewRankingService(rankingRepo repository.RankingRepository) *RankingService {
	return &RankingService{rankingRepo: rankingRepo, now: time.Now}
}

func (s *RankingService) TopPosts(ctx context.Context, q RankingQuery) ([]*models.Post, error) {
	since, err := s.resolve(&q)
	if err != nil {
		return nil, err
	}
	if q.By == "" {
		q.By = repository.RankByLikes
	}
	if q.By != repository.RankByLikes && q.By != repository.RankByComments {
		return nil, models.NewValidationError("by must be likes or comments")
	}

	var posts []*models.Post
	err = cache.Aside(ctx, cache.RankingsKey("posts", q.Period, q.By, q.Limit), &posts, cache.RankingsTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.rankingRepo.TopPosts(ctx, since, q.By, q.Limit)
		return fetchErr
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *RankingService) TopContributors(ctx context.Context, q RankingQuery) ([]models.Contributor, error) {
	since, err := s.resolve(&q)
	if err != nil {
		return nil, err
	}

	var rows []models.Contributor
	err = cache.Aside(ctx, cache.RankingsKey("contributors", q.Period, "posts", q.Limit), &rows, cache.RankingsTTL, func() error {
		var fetchErr error
		rows, fetchErr = s.rankingRepo.TopContributors(ctx, since, q.Limit)
		return fetchErr
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if rows == nil {
		rows = []models.Contributor{}
	}
	return rows, nil
}

func (s *RankingService) TopTags(ctx context.Context, q RankingQuery) ([]models.Tag, error) {
	since, err := s.resolve(&q)
	if err != nil {
		return nil, err
	}

	var tags []models.Tag
	err = cache.Aside(ctx, cache.RankingsKey("tags", q.Period, "posts", q.Limit), &tags, cache.RankingsTTL, func() error {
		var fetchErr error
		tags, fetchErr = s.rankingRepo.TopTags(ctx, since, q.Limit)
		return fetchErr
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}

// resolve fills defaults and returns the lower bound on post creation time.
// The zero time means no bound.
func (s *RankingService) resolve(q *RankingQuery) (time.Time, error) {
	if q.Period == "" {
		q.Period = PeriodWeek
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	switch q.Period {
	case PeriodWeek:
		return s.now().UTC().AddDate(0, 0, -7), nil
	case PeriodMonth:
		return s.now().UTC().AddDate(0, -1, 0), nil
	case PeriodAll:
		return time.Time{}, nil
	default:
		return time.Time{}, models.NewValidationError("period must be week, month or all")
	}
}
