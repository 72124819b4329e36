package service

import (
	"context"
	"strings"

	"github.com/timedeposit/timedeposit/internal/model"
	"github.com/timedeposit/timedeposit/internal/repository"
	"github.com/timedeposit/timedeposit/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

func (s *ProfileService) ByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return s.profileRepo.ByUserID(ctx, userID)
}

// UpdateSettings changes the display name and the goal notification switch.
func (s *ProfileService) UpdateSettings(ctx context.Context, userID, name string, notifications bool) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	name = strings.TrimSpace(name)
	err := validation.ValidateName(name)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Name = name
	profile.NotificationsEnabled = notifications

	err = s.profileRepo.Update(ctx, profile)
	if err != nil {
		return nil, err
	}

	return profile, nil
}
