package service

import (
	"context"

	"sharehub/internal/cache"
	"sharehub/internal/models"
	"sharehub/internal/repository"
)

const maxTagList = 200

type TagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// ListTags returns tags in use, most used first. The list is cached and
// dropped whenever rankings are invalidated.
func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := cache.Aside(ctx, cache.TagsKey, &tags, cache.TagsTTL, func() error {
		var fetchErr error
		tags, fetchErr = s.tagRepo.ListWithCounts(ctx, maxTagList)
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
