package domain

// UserProfile представляет публичный профиль пользователя
type UserProfile struct {
	UID         string   `json:"uid"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	PhotoURL    string   `json:"photo_url"`
	Bio         string   `json:"bio"`
	Skills      []string `json:"skills"`
	Interests   []string `json:"interests"`
}
