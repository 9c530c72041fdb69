package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/repository"
)

// OpportunityService handles business logic for opportunities
type OpportunityService struct {
	oppRepo  repository.OpportunityRepository
	userRepo repository.UserRepository
}

// NewOpportunityService creates a new OpportunityService
func NewOpportunityService(oppRepo repository.OpportunityRepository, userRepo repository.UserRepository) *OpportunityService {
	return &OpportunityService{
		oppRepo:  oppRepo,
		userRepo: userRepo,
	}
}

// Create posts a new opportunity. The creator becomes the owner and their
// current name and photo are denormalized onto the card.
func (s *OpportunityService) Create(ctx context.Context, ownerID, title, description string, requiredSkills, roles []string) (*domain.Opportunity, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	opp := &domain.Opportunity{
		ID:             uuid.NewString(),
		Title:          title,
		Description:    description,
		OwnerID:        owner.UID,
		OwnerName:      owner.DisplayName,
		OwnerPhotoURL:  owner.PhotoURL,
		RequiredSkills: requiredSkills,
		Roles:          roles,
		TeamMemberIDs:  []string{},
		TeamMembers:    []domain.TeamMember{},
	}

	if err := s.oppRepo.Create(ctx, opp); err != nil {
		return nil, err
	}

	return opp, nil
}

// GetByID retrieves an opportunity with its team
func (s *OpportunityService) GetByID(ctx context.Context, id string) (*domain.Opportunity, error) {
	return s.oppRepo.GetByID(ctx, id)
}

// List returns opportunity cards matching the explore filters
func (s *OpportunityService) List(ctx context.Context, filter repository.OpportunityFilter) ([]*domain.OpportunitySummary, error) {
	return s.oppRepo.List(ctx, filter)
}

// Delete removes an opportunity. Only the owner may delete; requests,
// membership, chat and files go with it.
func (s *OpportunityService) Delete(ctx context.Context, callerID, id string) error {
	opp, err := s.oppRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !opp.IsOwner(callerID) {
		return domain.ErrNotOwner
	}

	return s.oppRepo.Delete(ctx, id)
}
