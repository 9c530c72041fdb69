package domain

import "time"

// ChatMessage представляет сообщение в командном чате проекта
type ChatMessage struct {
	ID             string    `json:"id"`
	OpportunityID  string    `json:"opportunity_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	SenderPhotoURL string    `json:"sender_photo_url"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}
