package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/middleware"
	"github.com/crewup/crewup-api/internal/service"
)

// RequestHandler обрабатывает эндпоинты заявок на вступление
type RequestHandler struct {
	membershipService *service.MembershipService
}

// NewRequestHandler создает новый RequestHandler
func NewRequestHandler(membershipService *service.MembershipService) *RequestHandler {
	return &RequestHandler{
		membershipService: membershipService,
	}
}

// JoinResponse представляет ответ на подачу заявки
type JoinResponse struct {
	Request *domain.JoinRequest `json:"request"`
}

// DecideRequest представляет тело запроса с решением владельца
type DecideRequest struct {
	Outcome domain.DecisionOutcome `json:"outcome"`
}

// DecideResponse представляет ответ на решение по заявке
type DecideResponse struct {
	Request *domain.JoinRequest `json:"request"`
}

// PendingRequestsResponse представляет ответ со списком нерассмотренных заявок
type PendingRequestsResponse struct {
	Requests []*domain.JoinRequest `json:"requests"`
	Count    int                   `json:"count"`
}

// Join обрабатывает POST /opportunities/{id}/join
func (h *RequestHandler) Join(w http.ResponseWriter, r *http.Request) {
	opportunityID := chi.URLParam(r, "id")
	requesterID := middleware.GetUserIDFromContext(r.Context())

	req, err := h.membershipService.RequestJoin(r.Context(), requesterID, opportunityID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, JoinResponse{Request: req})
}

// Decide обрабатывает POST /requests/{id}/decide
func (h *RequestHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if !req.Outcome.Valid() {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "outcome must be accept or decline")
		return
	}

	requestID := chi.URLParam(r, "id")
	ownerID := middleware.GetUserIDFromContext(r.Context())

	decided, err := h.membershipService.Decide(r.Context(), ownerID, requestID, req.Outcome)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, DecideResponse{Request: decided})
}

// ListPending обрабатывает GET /requests/pending — лента уведомлений владельца
func (h *RequestHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	requests, err := h.membershipService.ListPendingForOwner(r.Context(), ownerID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, PendingRequestsResponse{
		Requests: requests,
		Count:    len(requests),
	})
}
