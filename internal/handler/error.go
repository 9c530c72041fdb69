package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/crewup/crewup-api/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы.
// Код берется из domain.MapErrorToCode, здесь остается только выбор статуса.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.MapErrorToCode(err)

	switch {
	case err == domain.ErrAlreadyMember, err == domain.ErrDuplicateRequest,
		err == domain.ErrInvalidState, err == domain.ErrEmailExists:
		RespondWithError(w, r, http.StatusConflict, string(code), err.Error())
	case err == domain.ErrNotOwner, err == domain.ErrNotMember:
		RespondWithError(w, r, http.StatusForbidden, string(code), err.Error())
	case err == domain.ErrInvalidCredentials:
		RespondWithError(w, r, http.StatusUnauthorized, string(code), err.Error())
	case err == domain.ErrUserNotFound, err == domain.ErrOpportunityNotFound,
		err == domain.ErrRequestNotFound, err == domain.ErrNotFound:
		RespondWithError(w, r, http.StatusNotFound, string(code), "resource not found")
	case err == domain.ErrUnauthorized, err == domain.ErrInvalidToken:
		RespondWithError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
