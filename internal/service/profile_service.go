package service

import (
	"context"
	"strings"

	"sharehub/internal/models"
	"sharehub/internal/repository"
	"sharehub/internal/validation"

	"github.com/google/uuid"
)

const maxDisplayNameLength = 100

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

type UpdateProfileInput struct {
	UserID      string
	Username    string
	DisplayName string
	AvatarURL   string
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.NewValidationError("Invalid profile ID")
	}
	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Profile", id)
	}
	return p, nil
}

// UpsertProfile creates the caller's profile or updates its editable fields.
func (s *ProfileService) UpsertProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if err := validation.ValidateUsername(username); err != nil {
		return nil, validationErr(err)
	}
	displayName := strings.TrimSpace(in.DisplayName)
	if err := validation.ValidateText("display_name", displayName, false, maxDisplayNameLength); err != nil {
		return nil, validationErr(err)
	}
	avatar := strings.TrimSpace(in.AvatarURL)
	if avatar != "" {
		normalized, err := validation.NormalizeURL(avatar)
		if err != nil {
			return nil, models.NewValidationError("avatar_url must be an absolute http(s) URL")
		}
		avatar = normalized
	}

	if existing, err := s.profileRepo.GetByUsername(ctx, username); err == nil && existing.ID != in.UserID {
		return nil, models.NewConflictError("Username is already taken", nil)
	} else if err != nil && !repository.IsNotFound(err) {
		return nil, models.NewInternalError(err)
	}

	p := &models.Profile{
		ID:          in.UserID,
		Username:    username,
		DisplayName: displayName,
		AvatarURL:   avatar,
	}
	if err := s.profileRepo.Upsert(ctx, p); err != nil {
		if repository.IsDuplicate(err) {
			return nil, models.NewConflictError("Username is already taken", nil)
		}
		return nil, models.NewInternalError(err)
	}
	return p, nil
}

// IsAdmin reports whether userID has a profile flagged as admin. A missing
// profile is not an error.
func (s *ProfileService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	p, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return p.IsAdmin, nil
}
