package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewup/crewup-api/internal/domain"
)

// UserRepository реализует repository.UserRepository для PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create создает профиль вместе с хешем пароля
func (r *UserRepository) Create(ctx context.Context, profile *domain.UserProfile, passwordHash string) error {
	query := `
		INSERT INTO users (user_id, email, password_hash, display_name, photo_url, bio, skills, interests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		profile.UID,
		profile.Email,
		passwordHash,
		profile.DisplayName,
		profile.PhotoURL,
		profile.Bio,
		profile.Skills,
		profile.Interests,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return domain.ErrEmailExists
		}
		return err
	}

	return nil
}

// GetByID получает профиль по ID
func (r *UserRepository) GetByID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	query := `
		SELECT user_id, email, display_name, photo_url, bio, skills, interests
		FROM users
		WHERE user_id = $1
	`

	var profile domain.UserProfile
	err := r.db.QueryRow(ctx, query, uid).Scan(
		&profile.UID,
		&profile.Email,
		&profile.DisplayName,
		&profile.PhotoURL,
		&profile.Bio,
		&profile.Skills,
		&profile.Interests,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &profile, nil
}

// GetByEmail получает профиль и хеш пароля по email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, string, error) {
	query := `
		SELECT user_id, email, password_hash, display_name, photo_url, bio, skills, interests
		FROM users
		WHERE email = $1
	`

	var profile domain.UserProfile
	var passwordHash string
	err := r.db.QueryRow(ctx, query, email).Scan(
		&profile.UID,
		&profile.Email,
		&passwordHash,
		&profile.DisplayName,
		&profile.PhotoURL,
		&profile.Bio,
		&profile.Skills,
		&profile.Interests,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", domain.ErrUserNotFound
		}
		return nil, "", err
	}

	return &profile, passwordHash, nil
}

// UpdateProfile обновляет редактируемые поля профиля
func (r *UserRepository) UpdateProfile(ctx context.Context, profile *domain.UserProfile) error {
	query := `
		UPDATE users
		SET display_name = $1,
		    photo_url = $2,
		    bio = $3,
		    skills = $4,
		    interests = $5,
		    updated_at = NOW()
		WHERE user_id = $6
	`

	result, err := r.db.Exec(ctx, query,
		profile.DisplayName,
		profile.PhotoURL,
		profile.Bio,
		profile.Skills,
		profile.Interests,
		profile.UID,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
