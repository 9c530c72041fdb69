package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/middleware"
	"github.com/crewup/crewup-api/internal/service"
)

// ProfileHandler обрабатывает эндпоинты профилей
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler создает новый ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// UpdateProfileRequest представляет тело запроса на обновление профиля
type UpdateProfileRequest struct {
	DisplayName string   `json:"display_name"`
	PhotoURL    string   `json:"photo_url"`
	Bio         string   `json:"bio"`
	Skills      []string `json:"skills"`
	Interests   []string `json:"interests"`
}

// ProfileResponse представляет ответ с профилем
type ProfileResponse struct {
	User *domain.UserProfile `json:"user"`
}

// GetOwn обрабатывает GET /profile
func (h *ProfileHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	profile, err := h.profileService.GetByID(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ProfileResponse{User: profile})
}

// Update обрабатывает PUT /profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.DisplayName == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "display_name is required")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	profile, err := h.profileService.Update(r.Context(), userID, req.DisplayName, req.PhotoURL, req.Bio, req.Skills, req.Interests)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ProfileResponse{User: profile})
}

// GetByID обрабатывает GET /users/{uid}
func (h *ProfileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "uid is required")
		return
	}

	profile, err := h.profileService.GetByID(r.Context(), uid)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ProfileResponse{User: profile})
}
