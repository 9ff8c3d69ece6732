package service

import (
	"context"
	"errors"
	"strings"

	"sharehub/internal/feeds"
	"sharehub/internal/models"
	"sharehub/internal/repository"
	"sharehub/internal/validation"
)

const maxFeedNameLength = 100

type FeedService struct {
	feedRepo repository.RssFeedRepository
	ingester *feeds.Ingester
}

// FeedInput is the writable part of a feed configuration. A nil IsActive
// keeps the current value on update and means active on create.
type FeedInput struct {
	Name     string
	URL      string
	Tags     []string
	IsActive *bool
}

func NewFeedService(feedRepo repository.RssFeedRepository, ingester *feeds.Ingester) *FeedService {
	return &FeedService{feedRepo: feedRepo, ingester: ingester}
}

func (s *FeedService) ListFeeds(ctx context.Context) ([]*models.RssFeed, error) {
	list, err := s.feedRepo.List(ctx, false)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if list == nil {
		list = []*models.RssFeed{}
	}
	return list, nil
}

func (s *FeedService) CreateFeed(ctx context.Context, userID string, in FeedInput) (*models.RssFeed, error) {
	feed := &models.RssFeed{IsActive: true, CreatedBy: userID}
	if err := applyFeedInput(feed, in); err != nil {
		return nil, err
	}
	if err := s.feedRepo.Create(ctx, feed); err != nil {
		if repository.IsDuplicate(err) {
			return nil, models.NewConflictError("A feed with this URL already exists", nil)
		}
		return nil, models.NewInternalError(err)
	}
	return feed, nil
}

func (s *FeedService) UpdateFeed(ctx context.Context, id uint, in FeedInput) (*models.RssFeed, error) {
	feed, err := s.feedRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Feed", id)
	}
	if err := applyFeedInput(feed, in); err != nil {
		return nil, err
	}
	if err := s.feedRepo.Update(ctx, feed); err != nil {
		if repository.IsDuplicate(err) {
			return nil, models.NewConflictError("A feed with this URL already exists", nil)
		}
		return nil, models.NewInternalError(err)
	}
	return feed, nil
}

func (s *FeedService) DeleteFeed(ctx context.Context, id uint) error {
	return mapRepoError(s.feedRepo.Delete(ctx, id), "Feed", id)
}

// FetchFeed runs one synchronous ingestion of the feed.
func (s *FeedService) FetchFeed(ctx context.Context, id uint) (feeds.Result, error) {
	feed, err := s.feedRepo.GetByID(ctx, id)
	if err != nil {
		return feeds.Result{}, mapRepoError(err, "Feed", id)
	}
	if s.ingester == nil {
		return feeds.Result{}, models.NewInternalError(errors.New("feed ingestion is not configured"))
	}
	res, err := s.ingester.IngestFeed(ctx, feed)
	if err != nil {
		return res, &models.AppError{
			Code:    models.CodeInternal,
			Message: "Feed ingestion failed",
			Err:     err,
			Details: map[string]any{"created": res.Created, "skipped": res.Skipped},
		}
	}
	return res, nil
}

func applyFeedInput(feed *models.RssFeed, in FeedInput) error {
	name := strings.TrimSpace(in.Name)
	if err := validation.ValidateText("name", name, true, maxFeedNameLength); err != nil {
		return validationErr(err)
	}
	url, err := validation.NormalizeURL(in.URL)
	if err != nil {
		return validationErr(err)
	}
	tags, err := validation.NormalizeTags(in.Tags)
	if err != nil {
		return validationErr(err)
	}

	feed.Name = name
	feed.URL = url
	feed.Tags = tags
	if in.IsActive != nil {
		feed.IsActive = *in.IsActive
	}
	return nil
}
