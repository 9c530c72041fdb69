package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewup/crewup-api/internal/domain"
)

// FileRepository реализует repository.FileRepository для PostgreSQL
type FileRepository struct {
	db *pgxpool.Pool
}

// NewFileRepository создает новый экземпляр FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{db: db}
}

// Create сохраняет метаданные загруженного файла
func (r *FileRepository) Create(ctx context.Context, file *domain.ProjectFile) error {
	query := `
		INSERT INTO project_files (file_id, opportunity_id, name, url, uploader_id, uploader_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	createdAt := time.Now()
	_, err := r.db.Exec(ctx, query,
		file.ID,
		file.OpportunityID,
		file.Name,
		file.URL,
		file.UploaderID,
		file.UploaderName,
		createdAt,
	)
	if err != nil {
		return err
	}

	file.CreatedAt = createdAt
	return nil
}

// ListByOpportunity возвращает файлы проекта, новые первыми
func (r *FileRepository) ListByOpportunity(ctx context.Context, opportunityID string) ([]*domain.ProjectFile, error) {
	query := `
		SELECT file_id, opportunity_id, name, url, uploader_id, uploader_name, created_at
		FROM project_files
		WHERE opportunity_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, opportunityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*domain.ProjectFile
	for rows.Next() {
		var file domain.ProjectFile
		if err := rows.Scan(
			&file.ID,
			&file.OpportunityID,
			&file.Name,
			&file.URL,
			&file.UploaderID,
			&file.UploaderName,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		files = append(files, &file)
	}

	if files == nil {
		files = []*domain.ProjectFile{}
	}

	return files, rows.Err()
}
