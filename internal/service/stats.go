package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStats represents dashboard counts for a user
type UserStats struct {
	UserID           string `json:"user_id"`
	OwnedProjects    int    `json:"owned_projects"`
	Memberships      int    `json:"memberships"`
	IncomingRequests int    `json:"incoming_requests"`
	OutgoingRequests int    `json:"outgoing_requests"`
}

// PlatformStats represents overall platform statistics
type PlatformStats struct {
	TotalUsers       int `json:"total_users"`
	TotalProjects    int `json:"total_projects"`
	TotalMemberships int `json:"total_memberships"`
	PendingRequests  int `json:"pending_requests"`
	AcceptedRequests int `json:"accepted_requests"`
	DeclinedRequests int `json:"declined_requests"`
}

// StatsService handles analytics queries
type StatsService struct {
	db *pgxpool.Pool
}

// NewStatsService creates a new StatsService
func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// GetStats returns overall platform statistics
func (s *StatsService) GetStats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM opportunities) AS total_projects,
			(SELECT COUNT(*) FROM opportunity_members) AS total_memberships,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending_requests,
			COUNT(CASE WHEN status = 'accepted' THEN 1 END) AS accepted_requests,
			COUNT(CASE WHEN status = 'declined' THEN 1 END) AS declined_requests
		FROM join_requests
	`

	if err := s.db.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.TotalProjects,
		&stats.TotalMemberships,
		&stats.PendingRequests,
		&stats.AcceptedRequests,
		&stats.DeclinedRequests,
	); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetUserStats returns dashboard counts for a specific user
func (s *StatsService) GetUserStats(ctx context.Context, userID string) (*UserStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM opportunities WHERE owner_id = $1) AS owned_projects,
			(SELECT COUNT(*) FROM opportunity_members WHERE user_id = $1) AS memberships,
			(SELECT COUNT(*) FROM join_requests WHERE owner_id = $1 AND status = 'pending') AS incoming_requests,
			(SELECT COUNT(*) FROM join_requests WHERE requester_id = $1 AND status = 'pending') AS outgoing_requests
	`

	stats := &UserStats{UserID: userID}
	if err := s.db.QueryRow(ctx, query, userID).Scan(
		&stats.OwnedProjects,
		&stats.Memberships,
		&stats.IncomingRequests,
		&stats.OutgoingRequests,
	); err != nil {
		return nil, err
	}

	return stats, nil
}
