package repository

import (
	"context"

	"github.com/crewup/crewup-api/internal/domain"
)

// OpportunityFilter задает параметры выборки проектов для страницы поиска
type OpportunityFilter struct {
	Search   string // Подстрока в названии или описании (без учета регистра)
	Skill    string // Требуемый навык
	Role     string // Требуемая роль
	OwnerID  string // Только проекты этого владельца
	MemberID string // Только проекты, где пользователь в команде
}

// UserRepository определяет методы для работы с профилями пользователей
type UserRepository interface {
	// Create создает профиль вместе с хешем пароля
	Create(ctx context.Context, profile *domain.UserProfile, passwordHash string) error

	// GetByID получает профиль по ID
	GetByID(ctx context.Context, uid string) (*domain.UserProfile, error)

	// GetByEmail получает профиль и хеш пароля по email (для логина)
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, string, error)

	// UpdateProfile обновляет редактируемые поля профиля
	UpdateProfile(ctx context.Context, profile *domain.UserProfile) error
}

// OpportunityRepository определяет методы для работы с проектами
type OpportunityRepository interface {
	// Create создает новый проект
	Create(ctx context.Context, opp *domain.Opportunity) error

	// GetByID получает проект вместе с составом команды
	GetByID(ctx context.Context, id string) (*domain.Opportunity, error)

	// List возвращает карточки проектов по фильтру, новые первыми
	List(ctx context.Context, filter OpportunityFilter) ([]*domain.OpportunitySummary, error)

	// Delete удаляет проект вместе с заявками, составом, чатом и файлами
	Delete(ctx context.Context, id string) error

	// RemoveMember исключает участника из команды
	RemoveMember(ctx context.Context, opportunityID, userID string) error
}

// RequestRepository определяет методы для работы с заявками на вступление.
// Decide — это CAS-примитив из которого собрана атомарность workflow:
// условное обновление статуса и запись в состав команды в одной транзакции.
type RequestRepository interface {
	// Create создает заявку в статусе pending
	Create(ctx context.Context, req *domain.JoinRequest) error

	// GetByID получает заявку по ID
	GetByID(ctx context.Context, id string) (*domain.JoinRequest, error)

	// Decide атомарно переводит pending-заявку в терминальный статус.
	// При принятии в той же транзакции добавляет заявителя в состав команды.
	// Если заявка уже рассмотрена, возвращает domain.ErrInvalidState.
	Decide(ctx context.Context, requestID string, outcome domain.DecisionOutcome) (*domain.JoinRequest, error)

	// HasPending проверяет наличие нерассмотренной заявки пары (проект, пользователь)
	HasPending(ctx context.Context, opportunityID, userID string) (bool, error)

	// ListPendingByOwner возвращает все pending-заявки по проектам владельца,
	// старые первыми (честный порядок рассмотрения)
	ListPendingByOwner(ctx context.Context, ownerID string) ([]*domain.JoinRequest, error)
}

// MessageRepository определяет методы для работы с командным чатом
type MessageRepository interface {
	// Create сохраняет сообщение
	Create(ctx context.Context, msg *domain.ChatMessage) error

	// ListByOpportunity возвращает сообщения проекта, старые первыми
	ListByOpportunity(ctx context.Context, opportunityID string) ([]*domain.ChatMessage, error)
}

// FileRepository определяет методы для работы с файлами проекта
type FileRepository interface {
	// Create сохраняет метаданные загруженного файла
	Create(ctx context.Context, file *domain.ProjectFile) error

	// ListByOpportunity возвращает файлы проекта, новые первыми
	ListByOpportunity(ctx context.Context, opportunityID string) ([]*domain.ProjectFile, error)
}
