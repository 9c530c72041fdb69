package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewup/crewup-api/internal/domain"
)

// RequestRepository реализует repository.RequestRepository для PostgreSQL
type RequestRepository struct {
	db *pgxpool.Pool
}

// NewRequestRepository создает новый экземпляр RequestRepository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create создает заявку в статусе pending.
// Частичный уникальный индекс по (opportunity_id, requester_id) WHERE status='pending'
// гарантирует, что из двух конкурентных заявок одной пары создастся ровно одна.
func (r *RequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	query := `
		INSERT INTO join_requests (request_id, opportunity_id, opportunity_title, owner_id, requester_id, requester_name, requester_photo_url, requester_skills, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	createdAt := time.Now()
	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.OpportunityID,
		req.OpportunityTitle,
		req.OwnerID,
		req.RequesterID,
		req.RequesterName,
		req.RequesterPhotoURL,
		req.RequesterSkills,
		domain.StatusPending,
		createdAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return domain.ErrDuplicateRequest
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return domain.ErrOpportunityNotFound
			}
		}
		return err
	}

	req.Status = domain.StatusPending
	req.CreatedAt = createdAt
	return nil
}

// GetByID получает заявку по ID
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.JoinRequest, error) {
	query := `
		SELECT request_id, opportunity_id, opportunity_title, owner_id, requester_id, requester_name, requester_photo_url, requester_skills, status, created_at, decided_at
		FROM join_requests
		WHERE request_id = $1
	`

	var req domain.JoinRequest
	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.OpportunityID,
		&req.OpportunityTitle,
		&req.OwnerID,
		&req.RequesterID,
		&req.RequesterName,
		&req.RequesterPhotoURL,
		&req.RequesterSkills,
		&req.Status,
		&req.CreatedAt,
		&req.DecidedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	return &req, nil
}

// Decide атомарно переводит pending-заявку в терминальный статус.
// Условие status='pending' в UPDATE — это compare-and-set: из конкурентных
// решений по одной заявке зафиксируется ровно одно, остальные получат
// ErrInvalidState. При принятии запись в состав команды идет в той же
// транзакции, поэтому статус заявки и членство меняются только вместе.
func (r *RequestRepository) Decide(ctx context.Context, requestID string, outcome domain.DecisionOutcome) (*domain.JoinRequest, error) {
	newStatus := domain.StatusDeclined
	if outcome == domain.OutcomeAccept {
		newStatus = domain.StatusAccepted
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	query := `
		UPDATE join_requests
		SET status = $1, decided_at = NOW()
		WHERE request_id = $2 AND status = $3
		RETURNING request_id, opportunity_id, opportunity_title, owner_id, requester_id, requester_name, requester_photo_url, requester_skills, status, created_at, decided_at
	`

	var req domain.JoinRequest
	err = tx.QueryRow(ctx, query, newStatus, requestID, domain.StatusPending).Scan(
		&req.ID,
		&req.OpportunityID,
		&req.OpportunityTitle,
		&req.OwnerID,
		&req.RequesterID,
		&req.RequesterName,
		&req.RequesterPhotoURL,
		&req.RequesterSkills,
		&req.Status,
		&req.CreatedAt,
		&req.DecidedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Либо заявки нет, либо она уже рассмотрена — различаем для вызывающего
			var status domain.RequestStatus
			checkErr := tx.QueryRow(ctx, `SELECT status FROM join_requests WHERE request_id = $1`, requestID).Scan(&status)
			if errors.Is(checkErr, pgx.ErrNoRows) {
				return nil, domain.ErrRequestNotFound
			}
			if checkErr != nil {
				return nil, checkErr
			}
			return nil, domain.ErrInvalidState
		}
		return nil, err
	}

	if outcome == domain.OutcomeAccept {
		memberQuery := `
			INSERT INTO opportunity_members (opportunity_id, user_id, display_name, photo_url)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (opportunity_id, user_id) DO NOTHING
		`
		_, err = tx.Exec(ctx, memberQuery, req.OpportunityID, req.RequesterID, req.RequesterName, req.RequesterPhotoURL)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &req, nil
}

// HasPending проверяет наличие нерассмотренной заявки пары (проект, пользователь)
func (r *RequestRepository) HasPending(ctx context.Context, opportunityID, userID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM join_requests
			WHERE opportunity_id = $1 AND requester_id = $2 AND status = $3
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, opportunityID, userID, domain.StatusPending).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// ListPendingByOwner возвращает все pending-заявки по проектам владельца, старые первыми
func (r *RequestRepository) ListPendingByOwner(ctx context.Context, ownerID string) ([]*domain.JoinRequest, error) {
	query := `
		SELECT request_id, opportunity_id, opportunity_title, owner_id, requester_id, requester_name, requester_photo_url, requester_skills, status, created_at, decided_at
		FROM join_requests
		WHERE owner_id = $1 AND status = $2
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, ownerID, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.JoinRequest
	for rows.Next() {
		var req domain.JoinRequest
		if err := rows.Scan(
			&req.ID,
			&req.OpportunityID,
			&req.OpportunityTitle,
			&req.OwnerID,
			&req.RequesterID,
			&req.RequesterName,
			&req.RequesterPhotoURL,
			&req.RequesterSkills,
			&req.Status,
			&req.CreatedAt,
			&req.DecidedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, &req)
	}

	// Return empty array instead of nil if no requests found
	if requests == nil {
		requests = []*domain.JoinRequest{}
	}

	return requests, rows.Err()
}
