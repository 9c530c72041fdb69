package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/repository"
)

// OpportunityRepository реализует repository.OpportunityRepository для PostgreSQL
type OpportunityRepository struct {
	db *pgxpool.Pool
}

// NewOpportunityRepository создает новый экземпляр OpportunityRepository
func NewOpportunityRepository(db *pgxpool.Pool) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

// Create создает новый проект
func (r *OpportunityRepository) Create(ctx context.Context, opp *domain.Opportunity) error {
	query := `
		INSERT INTO opportunities (opportunity_id, title, description, owner_id, owner_name, owner_photo_url, required_skills, roles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	createdAt := time.Now()
	_, err := r.db.Exec(ctx, query,
		opp.ID,
		opp.Title,
		opp.Description,
		opp.OwnerID,
		opp.OwnerName,
		opp.OwnerPhotoURL,
		opp.RequiredSkills,
		opp.Roles,
		createdAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return domain.ErrUserNotFound
		}
		return err
	}

	opp.CreatedAt = createdAt
	return nil
}

// GetByID получает проект вместе с составом команды
func (r *OpportunityRepository) GetByID(ctx context.Context, id string) (*domain.Opportunity, error) {
	query := `
		SELECT opportunity_id, title, description, owner_id, owner_name, owner_photo_url, required_skills, roles, created_at
		FROM opportunities
		WHERE opportunity_id = $1
	`

	var opp domain.Opportunity
	err := r.db.QueryRow(ctx, query, id).Scan(
		&opp.ID,
		&opp.Title,
		&opp.Description,
		&opp.OwnerID,
		&opp.OwnerName,
		&opp.OwnerPhotoURL,
		&opp.RequiredSkills,
		&opp.Roles,
		&opp.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOpportunityNotFound
		}
		return nil, err
	}

	// Получаем состав команды
	membersQuery := `
		SELECT user_id, display_name, photo_url, joined_at
		FROM opportunity_members
		WHERE opportunity_id = $1
		ORDER BY joined_at
	`

	rows, err := r.db.Query(ctx, membersQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.TeamMember{}
	memberIDs := []string{}
	for rows.Next() {
		var member domain.TeamMember
		if err := rows.Scan(&member.UserID, &member.DisplayName, &member.PhotoURL, &member.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
		memberIDs = append(memberIDs, member.UserID)
	}

	opp.TeamMembers = members
	opp.TeamMemberIDs = memberIDs

	return &opp, rows.Err()
}

// List возвращает карточки проектов по фильтру, новые первыми
func (r *OpportunityRepository) List(ctx context.Context, filter repository.OpportunityFilter) ([]*domain.OpportunitySummary, error) {
	query := `
		SELECT o.opportunity_id, o.title, o.description, o.owner_id, o.owner_name, o.owner_photo_url,
		       o.required_skills, o.roles, o.created_at,
		       (SELECT COUNT(*) FROM opportunity_members m WHERE m.opportunity_id = o.opportunity_id) AS team_size
		FROM opportunities o
		WHERE 1=1
	`

	args := []interface{}{}
	argNum := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (o.title ILIKE '%%' || $%d || '%%' OR o.description ILIKE '%%' || $%d || '%%')", argNum, argNum)
		args = append(args, filter.Search)
		argNum++
	}
	if filter.Skill != "" {
		query += fmt.Sprintf(" AND $%d = ANY(o.required_skills)", argNum)
		args = append(args, filter.Skill)
		argNum++
	}
	if filter.Role != "" {
		query += fmt.Sprintf(" AND $%d = ANY(o.roles)", argNum)
		args = append(args, filter.Role)
		argNum++
	}
	if filter.OwnerID != "" {
		query += fmt.Sprintf(" AND o.owner_id = $%d", argNum)
		args = append(args, filter.OwnerID)
		argNum++
	}
	if filter.MemberID != "" {
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM opportunity_members m WHERE m.opportunity_id = o.opportunity_id AND m.user_id = $%d)", argNum)
		args = append(args, filter.MemberID)
		argNum++
	}

	query += " ORDER BY o.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []*domain.OpportunitySummary
	for rows.Next() {
		var opp domain.OpportunitySummary
		if err := rows.Scan(
			&opp.ID,
			&opp.Title,
			&opp.Description,
			&opp.OwnerID,
			&opp.OwnerName,
			&opp.OwnerPhotoURL,
			&opp.RequiredSkills,
			&opp.Roles,
			&opp.CreatedAt,
			&opp.TeamSize,
		); err != nil {
			return nil, err
		}
		opps = append(opps, &opp)
	}

	// Return empty array instead of nil if nothing matched
	if opps == nil {
		opps = []*domain.OpportunitySummary{}
	}

	return opps, rows.Err()
}

// Delete удаляет проект; заявки, состав, чат и файлы удаляются каскадно
func (r *OpportunityRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM opportunities WHERE opportunity_id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrOpportunityNotFound
	}

	return nil
}

// RemoveMember исключает участника из команды
func (r *OpportunityRepository) RemoveMember(ctx context.Context, opportunityID, userID string) error {
	query := `DELETE FROM opportunity_members WHERE opportunity_id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, opportunityID, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNotMember
	}

	return nil
}
