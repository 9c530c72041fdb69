package domain

import "time"

// RequestStatus представляет статус заявки на вступление
type RequestStatus string

// Возможные статусы заявки. accepted и declined терминальны:
// из них нет переходов, decided_at выставляется ровно один раз.
const (
	StatusPending  RequestStatus = "pending"  // Заявка ждет решения владельца
	StatusAccepted RequestStatus = "accepted" // Владелец принял заявку
	StatusDeclined RequestStatus = "declined" // Владелец отклонил заявку
)

// DecisionOutcome представляет решение владельца по заявке
type DecisionOutcome string

// Возможные решения по заявке
const (
	OutcomeAccept  DecisionOutcome = "accept"
	OutcomeDecline DecisionOutcome = "decline"
)

// Valid проверяет, что исход решения один из допустимых
func (o DecisionOutcome) Valid() bool {
	return o == OutcomeAccept || o == OutcomeDecline
}

// JoinRequest представляет заявку пользователя на вступление в команду проекта.
// Имя, фото и навыки заявителя — снимок профиля на момент подачи заявки,
// последующие правки профиля заявку не меняют.
type JoinRequest struct {
	ID                string        `json:"id"`
	OpportunityID     string        `json:"opportunity_id"`
	OpportunityTitle  string        `json:"opportunity_title"`
	OwnerID           string        `json:"owner_id"`
	RequesterID       string        `json:"requester_id"`
	RequesterName     string        `json:"requester_name"`
	RequesterPhotoURL string        `json:"requester_photo_url"`
	RequesterSkills   []string      `json:"requester_skills"`
	Status            RequestStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	DecidedAt         *time.Time    `json:"decided_at,omitempty"`
}

// IsPending возвращает true если заявка еще не рассмотрена
func (r *JoinRequest) IsPending() bool {
	return r.Status == StatusPending
}
