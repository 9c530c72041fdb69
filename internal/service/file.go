package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/repository"
)

// FileService handles the shared files of an opportunity. Like chat, it is
// gated by membership state. Only metadata is stored here; the bytes live in
// whatever storage produced the URL.
type FileService struct {
	fileRepo   repository.FileRepository
	userRepo   repository.UserRepository
	membership *MembershipService
	events     *EventBus
}

// NewFileService creates a new FileService
func NewFileService(
	fileRepo repository.FileRepository,
	userRepo repository.UserRepository,
	membership *MembershipService,
	events *EventBus,
) *FileService {
	return &FileService{
		fileRepo:   fileRepo,
		userRepo:   userRepo,
		membership: membership,
		events:     events,
	}
}

// AddFile registers an uploaded file for the team
func (s *FileService) AddFile(ctx context.Context, uploaderID, opportunityID, name, url string) (*domain.ProjectFile, error) {
	if err := s.membership.RequireMember(ctx, uploaderID, opportunityID); err != nil {
		return nil, err
	}

	uploader, err := s.userRepo.GetByID(ctx, uploaderID)
	if err != nil {
		return nil, err
	}

	file := &domain.ProjectFile{
		ID:            uuid.NewString(),
		OpportunityID: opportunityID,
		Name:          name,
		URL:           url,
		UploaderID:    uploader.UID,
		UploaderName:  uploader.DisplayName,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	s.events.Publish(Event{
		Type:          EventFileAdded,
		OpportunityID: opportunityID,
		RequesterID:   uploader.UID,
		RequesterName: uploader.DisplayName,
	})

	return file, nil
}

// ListFiles returns the team's files, newest first
func (s *FileService) ListFiles(ctx context.Context, callerID, opportunityID string) ([]*domain.ProjectFile, error) {
	if err := s.membership.RequireMember(ctx, callerID, opportunityID); err != nil {
		return nil, err
	}

	return s.fileRepo.ListByOpportunity(ctx, opportunityID)
}
