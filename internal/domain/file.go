package domain

import "time"

// ProjectFile представляет метаданные файла, загруженного командой проекта.
// Само содержимое хранится во внешнем хранилище, здесь только имя и ссылка.
type ProjectFile struct {
	ID            string    `json:"id"`
	OpportunityID string    `json:"opportunity_id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	UploaderID    string    `json:"uploader_id"`
	UploaderName  string    `json:"uploader_name"`
	CreatedAt     time.Time `json:"created_at"`
}
