package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/middleware"
	"github.com/crewup/crewup-api/internal/service"
)

// ChatHandler обрабатывает эндпоинты командного чата
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler создает новый ChatHandler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// PostMessageRequest представляет тело запроса на отправку сообщения
type PostMessageRequest struct {
	Text string `json:"text"`
}

// MessageResponse представляет ответ с сообщением
type MessageResponse struct {
	Message *domain.ChatMessage `json:"message"`
}

// MessagesResponse представляет ответ с историей чата
type MessagesResponse struct {
	Messages []*domain.ChatMessage `json:"messages"`
}

// PostMessage обрабатывает POST /opportunities/{id}/messages
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.Text == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "text is required")
		return
	}

	opportunityID := chi.URLParam(r, "id")
	senderID := middleware.GetUserIDFromContext(r.Context())

	msg, err := h.chatService.PostMessage(r.Context(), senderID, opportunityID, req.Text)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, MessageResponse{Message: msg})
}

// ListMessages обрабатывает GET /opportunities/{id}/messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	opportunityID := chi.URLParam(r, "id")
	callerID := middleware.GetUserIDFromContext(r.Context())

	messages, err := h.chatService.ListMessages(r.Context(), callerID, opportunityID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MessagesResponse{Messages: messages})
}
