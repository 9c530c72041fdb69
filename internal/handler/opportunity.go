package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/middleware"
	"github.com/crewup/crewup-api/internal/repository"
	"github.com/crewup/crewup-api/internal/service"
)

// OpportunityHandler обрабатывает эндпоинты проектов
type OpportunityHandler struct {
	oppService        *service.OpportunityService
	membershipService *service.MembershipService
}

// NewOpportunityHandler создает новый OpportunityHandler
func NewOpportunityHandler(oppService *service.OpportunityService, membershipService *service.MembershipService) *OpportunityHandler {
	return &OpportunityHandler{
		oppService:        oppService,
		membershipService: membershipService,
	}
}

// CreateOpportunityRequest представляет тело запроса на создание проекта
type CreateOpportunityRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	Roles          []string `json:"roles"`
}

// OpportunityResponse представляет ответ с проектом
type OpportunityResponse struct {
	Opportunity *domain.Opportunity `json:"opportunity"`
}

// ListOpportunitiesResponse представляет ответ со списком карточек проектов
type ListOpportunitiesResponse struct {
	Opportunities []*domain.OpportunitySummary `json:"opportunities"`
}

// StatusResponse представляет ответ со статусом вызывающего относительно проекта
type StatusResponse struct {
	OpportunityID string                 `json:"opportunity_id"`
	UserID        string                 `json:"user_id"`
	State         domain.MembershipState `json:"state"`
}

// Create обрабатывает POST /opportunities
func (h *OpportunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOpportunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	// Валидация: проект создается с непустыми названием, описанием, навыками и ролями
	if req.Title == "" || req.Description == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "title and description are required")
		return
	}
	if len(req.RequiredSkills) == 0 || len(req.Roles) == 0 {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "required_skills and roles must not be empty")
		return
	}

	ownerID := middleware.GetUserIDFromContext(r.Context())

	opp, err := h.oppService.Create(r.Context(), ownerID, req.Title, req.Description, req.RequiredSkills, req.Roles)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, OpportunityResponse{Opportunity: opp})
}

// Get обрабатывает GET /opportunities/{id}
func (h *OpportunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	opp, err := h.oppService.GetByID(r.Context(), id)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, OpportunityResponse{Opportunity: opp})
}

// List обрабатывает GET /opportunities с фильтрами страницы поиска.
// mine=true ограничивает проектами вызывающего, member=true — проектами
// где вызывающий в команде (страница my-projects).
func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.OpportunityFilter{
		Search: q.Get("search"),
		Skill:  q.Get("skill"),
		Role:   q.Get("role"),
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	if q.Get("mine") == "true" {
		filter.OwnerID = userID
	}
	if q.Get("member") == "true" {
		filter.MemberID = userID
	}

	opps, err := h.oppService.List(r.Context(), filter)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ListOpportunitiesResponse{Opportunities: opps})
}

// Delete обрабатывает DELETE /opportunities/{id}
func (h *OpportunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	callerID := middleware.GetUserIDFromContext(r.Context())

	if err := h.oppService.Delete(r.Context(), callerID, id); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Status обрабатывает GET /opportunities/{id}/status
func (h *OpportunityHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.GetUserIDFromContext(r.Context())

	state, err := h.membershipService.Status(r.Context(), userID, id)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, StatusResponse{
		OpportunityID: id,
		UserID:        userID,
		State:         state,
	})
}

// RemoveMember обрабатывает DELETE /opportunities/{id}/members/{uid}
func (h *OpportunityHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	uid := chi.URLParam(r, "uid")
	callerID := middleware.GetUserIDFromContext(r.Context())

	if err := h.membershipService.RemoveMember(r.Context(), callerID, id, uid); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
