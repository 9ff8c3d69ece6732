package service

import (
	"context"
	"strings"

	"sharehub/internal/models"
	"sharehub/internal/repository"
	"sharehub/internal/validation"
)

// MaxResourceLinks caps how many links one user may keep.
const MaxResourceLinks = 20

type ResourceLinkService struct {
	linkRepo repository.ResourceLinkRepository
}

type ResourceLinkInput struct {
	UserID      string
	ServiceName string
	URL         string
}

func NewResourceLinkService(linkRepo repository.ResourceLinkRepository) *ResourceLinkService {
	return &ResourceLinkService{linkRepo: linkRepo}
}

func (s *ResourceLinkService) ListLinks(ctx context.Context, userID string) ([]*models.ResourceLink, error) {
	links, err := s.linkRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if links == nil {
		links = []*models.ResourceLink{}
	}
	return links, nil
}

func (s *ResourceLinkService) CreateLink(ctx context.Context, in ResourceLinkInput) (*models.ResourceLink, error) {
	name, url, err := normalizeLink(in)
	if err != nil {
		return nil, err
	}

	count, err := s.linkRepo.CountByUser(ctx, in.UserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if count >= MaxResourceLinks {
		return nil, models.NewValidationError("You can have at most 20 resource links")
	}

	link := &models.ResourceLink{UserID: in.UserID, ServiceName: name, URL: url}
	if err := s.linkRepo.Create(ctx, link); err != nil {
		if repository.IsDuplicate(err) {
			return nil, models.NewConflictError("You already added this link", nil)
		}
		return nil, models.NewInternalError(err)
	}
	return link, nil
}

func (s *ResourceLinkService) UpdateLink(ctx context.Context, id uint, in ResourceLinkInput) (*models.ResourceLink, error) {
	link, err := s.ownedLink(ctx, in.UserID, id)
	if err != nil {
		return nil, err
	}
	name, url, err := normalizeLink(in)
	if err != nil {
		return nil, err
	}

	link.ServiceName = name
	link.URL = url
	if err := s.linkRepo.Update(ctx, link); err != nil {
		if repository.IsDuplicate(err) {
			return nil, models.NewConflictError("You already added this link", nil)
		}
		return nil, models.NewInternalError(err)
	}
	return link, nil
}

func (s *ResourceLinkService) DeleteLink(ctx context.Context, userID string, id uint) error {
	if _, err := s.ownedLink(ctx, userID, id); err != nil {
		return err
	}
	if err := s.linkRepo.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *ResourceLinkService) ownedLink(ctx context.Context, userID string, id uint) (*models.ResourceLink, error) {
	link, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Resource link", id)
	}
	if link.UserID != userID {
		return nil, models.NewForbiddenError("You can only manage your own resource links")
	}
	return link, nil
}

func normalizeLink(in ResourceLinkInput) (string, string, error) {
	name := strings.TrimSpace(in.ServiceName)
	if err := validation.ValidateText("service_name", name, true, validation.MaxServiceNameLength); err != nil {
		return "", "", validationErr(err)
	}
	url, err := validation.NormalizeURL(in.URL)
	if err != nil {
		return "", "", validationErr(err)
	}
	return name, url, nil
}
