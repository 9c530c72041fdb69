package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/middleware"
	"github.com/crewup/crewup-api/internal/service"
)

// FileHandler обрабатывает эндпоинты файлов проекта
type FileHandler struct {
	fileService *service.FileService
}

// NewFileHandler создает новый FileHandler
func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

// AddFileRequest представляет тело запроса на регистрацию загруженного файла
type AddFileRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FileResponse представляет ответ с файлом
type FileResponse struct {
	File *domain.ProjectFile `json:"file"`
}

// FilesResponse представляет ответ со списком файлов
type FilesResponse struct {
	Files []*domain.ProjectFile `json:"files"`
}

// AddFile обрабатывает POST /opportunities/{id}/files
func (h *FileHandler) AddFile(w http.ResponseWriter, r *http.Request) {
	var req AddFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.Name == "" || req.URL == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "name and url are required")
		return
	}

	opportunityID := chi.URLParam(r, "id")
	uploaderID := middleware.GetUserIDFromContext(r.Context())

	file, err := h.fileService.AddFile(r.Context(), uploaderID, opportunityID, req.Name, req.URL)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, FileResponse{File: file})
}

// ListFiles обрабатывает GET /opportunities/{id}/files
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	opportunityID := chi.URLParam(r, "id")
	callerID := middleware.GetUserIDFromContext(r.Context())

	files, err := h.fileService.ListFiles(r.Context(), callerID, opportunityID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, FilesResponse{Files: files})
}
