package domain

import "time"

// MembershipState представляет отношение пользователя к проекту
type MembershipState string

// Возможные состояния пары (пользователь, проект)
const (
	StateNone      MembershipState = "NONE"      // Нет отношения к проекту
	StateOwner     MembershipState = "OWNER"     // Пользователь создал проект
	StateRequested MembershipState = "REQUESTED" // Есть нерассмотренная заявка
	StateMember    MembershipState = "MEMBER"    // Пользователь в составе команды
)

// Opportunity представляет опубликованный проект, ищущий участников
type Opportunity struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	OwnerID        string       `json:"owner_id"`
	OwnerName      string       `json:"owner_name"`
	OwnerPhotoURL  string       `json:"owner_photo_url"`
	RequiredSkills []string     `json:"required_skills"`
	Roles          []string     `json:"roles"`
	TeamMemberIDs  []string     `json:"team_member_ids"`
	TeamMembers    []TeamMember `json:"team_members"`
	CreatedAt      time.Time    `json:"created_at"`
}

// OpportunitySummary представляет сокращенную карточку проекта (используется в списках)
type OpportunitySummary struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	OwnerID        string    `json:"owner_id"`
	OwnerName      string    `json:"owner_name"`
	OwnerPhotoURL  string    `json:"owner_photo_url"`
	RequiredSkills []string  `json:"required_skills"`
	Roles          []string  `json:"roles"`
	TeamSize       int       `json:"team_size"`
	CreatedAt      time.Time `json:"created_at"`
}

// TeamMember представляет участника команды проекта (снимок профиля на момент принятия)
type TeamMember struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url"`
	JoinedAt    time.Time `json:"joined_at"`
}

// IsOwner проверяет, является ли пользователь владельцем проекта
func (o *Opportunity) IsOwner(userID string) bool {
	return o.OwnerID == userID
}

// IsTeamMember проверяет, входит ли пользователь в состав команды
func (o *Opportunity) IsTeamMember(userID string) bool {
	for _, id := range o.TeamMemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
