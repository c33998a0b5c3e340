package service

import (
	"context"
	"fmt"
	"strings"

	"campushub/internal/domain"
	"campushub/internal/repository"
)

// ProfileService reads and edits the non-security fields of a user.
type ProfileService interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
	Update(ctx context.Context, userID int64, profile domain.Profile) (*domain.User, error)
}

type profileService struct {
	users repository.UserRepository
}

func NewProfileService(users repository.UserRepository) ProfileService {
	return &profileService{users: users}
}

func (s *profileService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *profileService) Update(ctx context.Context, userID int64, profile domain.Profile) (*domain.User, error) {
	profile = domain.Profile{
		Name:      strings.TrimSpace(profile.Name),
		Username:  strings.TrimSpace(profile.Username),
		SRN:       strings.TrimSpace(profile.SRN),
		Semester:  strings.TrimSpace(profile.Semester),
		Bio:       strings.TrimSpace(profile.Bio),
		AvatarURL: strings.TrimSpace(profile.AvatarURL),
	}
	if profile.Name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	}
	if err := s.users.UpdateProfile(ctx, userID, profile); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// sanitizeUser drops the secret fields before a user leaves the service layer.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Profile:   user.Profile,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
