package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crewup/crewup-api/internal/middleware"
	"github.com/crewup/crewup-api/internal/service"
)

// StreamHandler отдает события workflow как server-sent events.
// Живые обновления — это удобство для UI, а не источник истины:
// клиент при переподключении перечитывает состояние обычными запросами.
type StreamHandler struct {
	events *service.EventBus
}

// NewStreamHandler создает новый StreamHandler
func NewStreamHandler(events *service.EventBus) *StreamHandler {
	return &StreamHandler{
		events: events,
	}
}

// Notifications обрабатывает GET /notifications/stream — события по проектам вызывающего
func (h *StreamHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	ch, cancel := h.events.SubscribeOwner(ownerID)
	defer cancel()

	h.stream(w, r, ch)
}

// Opportunity обрабатывает GET /opportunities/{id}/stream — события одного проекта
func (h *StreamHandler) Opportunity(w http.ResponseWriter, r *http.Request) {
	opportunityID := chi.URLParam(r, "id")

	ch, cancel := h.events.SubscribeOpportunity(opportunityID)
	defer cancel()

	h.stream(w, r, ch)
}

// stream пишет события в соединение до его закрытия клиентом
func (h *StreamHandler) stream(w http.ResponseWriter, r *http.Request, ch <-chan service.Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		RespondWithError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Комментарий-пинг держит соединение живым через прокси
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
