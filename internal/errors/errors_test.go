package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing token", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"bad token", ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"wrong role", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"unknown email", ErrUserNotFound, http.StatusUnauthorized, "USER_NOT_FOUND"},
		{"wrong password", ErrWrongPassword, http.StatusUnauthorized, "WRONG_PASSWORD"},
		{"duplicate email", ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN"},
		{"wrapped duplicate email", fmt.Errorf("register: %w", ErrEmailTaken), http.StatusBadRequest, "EMAIL_TAKEN"},
		{"missing workout", ErrWorkoutNotFound, http.StatusNotFound, "WORKOUT_NOT_FOUND"},
		{"zero amount", ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"no storage", ErrStorageUnavailable, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
		{"bad upload", fmt.Errorf("upload photo: %w", ErrUnsupportedImage), http.StatusBadRequest, "UNSUPPORTED_IMAGE"},
		{"oauth sync", fmt.Errorf("create user: %w", ErrOAuthSyncFailed), http.StatusInternalServerError, "OAUTH_SYNC_FAILED"},
		{"anything else", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, httpErr.Message, httpErr.ToErrorResponse().Error)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalMessage(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal server error", httpErr.Message)
}
