package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewup/crewup-api/internal/domain"
)

// MessageRepository реализует repository.MessageRepository для PostgreSQL
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository создает новый экземпляр MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create сохраняет сообщение
func (r *MessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	query := `
		INSERT INTO messages (message_id, opportunity_id, sender_id, sender_name, sender_photo_url, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	createdAt := time.Now()
	_, err := r.db.Exec(ctx, query,
		msg.ID,
		msg.OpportunityID,
		msg.SenderID,
		msg.SenderName,
		msg.SenderPhotoURL,
		msg.Text,
		createdAt,
	)
	if err != nil {
		return err
	}

	msg.CreatedAt = createdAt
	return nil
}

// ListByOpportunity возвращает сообщения проекта, старые первыми
func (r *MessageRepository) ListByOpportunity(ctx context.Context, opportunityID string) ([]*domain.ChatMessage, error) {
	query := `
		SELECT message_id, opportunity_id, sender_id, sender_name, sender_photo_url, text, created_at
		FROM messages
		WHERE opportunity_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, opportunityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.OpportunityID,
			&msg.SenderID,
			&msg.SenderName,
			&msg.SenderPhotoURL,
			&msg.Text,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}

	if messages == nil {
		messages = []*domain.ChatMessage{}
	}

	return messages, rows.Err()
}
