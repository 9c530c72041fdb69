package service

import (
	"context"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/repository"
)

// ProfileService handles business logic for user profiles
type ProfileService struct {
	userRepo repository.UserRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
	}
}

// GetByID retrieves a public profile by user id
func (s *ProfileService) GetByID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	return s.userRepo.GetByID(ctx, uid)
}

// Update saves the editable profile fields and returns the updated profile.
// Requests and memberships created earlier keep their snapshots.
func (s *ProfileService) Update(ctx context.Context, uid, displayName, photoURL, bio string, skills, interests []string) (*domain.UserProfile, error) {
	profile := &domain.UserProfile{
		UID:         uid,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		Bio:         bio,
		Skills:      skills,
		Interests:   interests,
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, uid)
}
