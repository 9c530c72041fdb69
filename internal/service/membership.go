package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/repository"
)

// MembershipService is the single authority for join requests and team
// membership. Every mutation of who may access a project's private surfaces
// (chat, files) goes through here; handlers and other services never write
// membership state directly.
type MembershipService struct {
	requestRepo repository.RequestRepository
	oppRepo     repository.OpportunityRepository
	userRepo    repository.UserRepository
	events      *EventBus
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	requestRepo repository.RequestRepository,
	oppRepo repository.OpportunityRepository,
	userRepo repository.UserRepository,
	events *EventBus,
) *MembershipService {
	return &MembershipService{
		requestRepo: requestRepo,
		oppRepo:     oppRepo,
		userRepo:    userRepo,
		events:      events,
	}
}

// RequestJoin creates a pending join request for (requester, opportunity).
// The requester's name, photo and skills are snapshotted from their profile
// at call time; later profile edits do not change the request.
func (s *MembershipService) RequestJoin(ctx context.Context, requesterID, opportunityID string) (*domain.JoinRequest, error) {
	opp, err := s.oppRepo.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, err
	}

	// The owner and existing members have nothing to request
	if opp.IsOwner(requesterID) || opp.IsTeamMember(requesterID) {
		return nil, domain.ErrAlreadyMember
	}

	profile, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	req := &domain.JoinRequest{
		ID:                uuid.NewString(),
		OpportunityID:     opp.ID,
		OpportunityTitle:  opp.Title,
		OwnerID:           opp.OwnerID,
		RequesterID:       profile.UID,
		RequesterName:     profile.DisplayName,
		RequesterPhotoURL: profile.PhotoURL,
		RequesterSkills:   profile.Skills,
	}

	// The partial unique index turns a concurrent duplicate into ErrDuplicateRequest
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.events.Publish(Event{
		Type:             EventRequestCreated,
		OpportunityID:    opp.ID,
		OpportunityTitle: opp.Title,
		OwnerID:          opp.OwnerID,
		RequestID:        req.ID,
		RequesterID:      req.RequesterID,
		RequesterName:    req.RequesterName,
	})

	return req, nil
}

// Decide resolves a pending request. Only the opportunity owner may decide.
// The status flip and the membership insert commit in one transaction, so no
// reader ever observes an accepted request without the matching team member
// or vice versa. A lost race or a retry of an applied decision surfaces as
// ErrInvalidState, which callers treat as "already handled".
func (s *MembershipService) Decide(ctx context.Context, ownerID, requestID string, outcome domain.DecisionOutcome) (*domain.JoinRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if req.OwnerID != ownerID {
		return nil, domain.ErrNotOwner
	}

	decided, err := s.requestRepo.Decide(ctx, requestID, outcome)
	if err != nil {
		return nil, err
	}

	eventType := EventRequestDeclined
	if outcome == domain.OutcomeAccept {
		eventType = EventRequestAccepted
	}
	s.events.Publish(Event{
		Type:             eventType,
		OpportunityID:    decided.OpportunityID,
		OpportunityTitle: decided.OpportunityTitle,
		OwnerID:          decided.OwnerID,
		RequestID:        decided.ID,
		RequesterID:      decided.RequesterID,
		RequesterName:    decided.RequesterName,
	})

	return decided, nil
}

// Status returns the caller's relationship to an opportunity. Pure read,
// used by all consumers to gate access and render the right call-to-action.
func (s *MembershipService) Status(ctx context.Context, userID, opportunityID string) (domain.MembershipState, error) {
	opp, err := s.oppRepo.GetByID(ctx, opportunityID)
	if err != nil {
		return "", err
	}

	if opp.IsOwner(userID) {
		return domain.StateOwner, nil
	}
	if opp.IsTeamMember(userID) {
		return domain.StateMember, nil
	}

	pending, err := s.requestRepo.HasPending(ctx, opportunityID, userID)
	if err != nil {
		return "", err
	}
	if pending {
		return domain.StateRequested, nil
	}

	return domain.StateNone, nil
}

// ListPendingForOwner returns all pending requests across the owner's
// opportunities, oldest first
func (s *MembershipService) ListPendingForOwner(ctx context.Context, ownerID string) ([]*domain.JoinRequest, error) {
	return s.requestRepo.ListPendingByOwner(ctx, ownerID)
}

// RemoveMember lets the owner remove a user from the team
func (s *MembershipService) RemoveMember(ctx context.Context, ownerID, opportunityID, userID string) error {
	opp, err := s.oppRepo.GetByID(ctx, opportunityID)
	if err != nil {
		return err
	}

	if !opp.IsOwner(ownerID) {
		return domain.ErrNotOwner
	}
	if userID == opp.OwnerID {
		return domain.ErrNotOwner
	}

	if err := s.oppRepo.RemoveMember(ctx, opportunityID, userID); err != nil {
		return err
	}

	s.events.Publish(Event{
		Type:          EventMemberRemoved,
		OpportunityID: opp.ID,
		OwnerID:       opp.OwnerID,
		RequesterID:   userID,
	})

	return nil
}

// RequireMember returns nil only when the user is the owner or a team member.
// Chat and files use this as their access gate.
func (s *MembershipService) RequireMember(ctx context.Context, userID, opportunityID string) error {
	state, err := s.Status(ctx, userID, opportunityID)
	if err != nil {
		return err
	}
	if state != domain.StateOwner && state != domain.StateMember {
		return domain.ErrNotMember
	}
	return nil
}
