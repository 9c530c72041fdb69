package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/repository"
)

// ChatService handles the team chat of an opportunity. Access is gated by
// membership state: only the owner and team members read or write.
type ChatService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	membership  *MembershipService
	events      *EventBus
}

// NewChatService creates a new ChatService
func NewChatService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	membership *MembershipService,
	events *EventBus,
) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		membership:  membership,
		events:      events,
	}
}

// PostMessage stores a chat message with a snapshot of the sender's profile
func (s *ChatService) PostMessage(ctx context.Context, senderID, opportunityID, text string) (*domain.ChatMessage, error) {
	if err := s.membership.RequireMember(ctx, senderID, opportunityID); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		ID:             uuid.NewString(),
		OpportunityID:  opportunityID,
		SenderID:       sender.UID,
		SenderName:     sender.DisplayName,
		SenderPhotoURL: sender.PhotoURL,
		Text:           text,
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.events.Publish(Event{
		Type:          EventMessagePosted,
		OpportunityID: opportunityID,
		RequesterID:   sender.UID,
		RequesterName: sender.DisplayName,
	})

	return msg, nil
}

// ListMessages returns the chat history, oldest first
func (s *ChatService) ListMessages(ctx context.Context, callerID, opportunityID string) ([]*domain.ChatMessage, error) {
	if err := s.membership.RequireMember(ctx, callerID, opportunityID); err != nil {
		return nil, err
	}

	return s.messageRepo.ListByOpportunity(ctx, opportunityID)
}
