package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewup/crewup-api/internal/domain"
)

func TestHandleError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"already member", domain.ErrAlreadyMember, http.StatusConflict, "ALREADY_MEMBER"},
		{"duplicate request", domain.ErrDuplicateRequest, http.StatusConflict, "DUPLICATE_REQUEST"},
		{"invalid state", domain.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
		{"email exists", domain.ErrEmailExists, http.StatusConflict, "EMAIL_EXISTS"},
		{"not owner", domain.ErrNotOwner, http.StatusForbidden, "NOT_OWNER"},
		{"not member", domain.ErrNotMember, http.StatusForbidden, "NOT_MEMBER"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"opportunity not found", domain.ErrOpportunityNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"request not found", domain.ErrRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(w, r, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)

			var resp ErrorResponse
			err := json.NewDecoder(w.Body).Decode(&resp)
			require.NoError(t, err)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}
