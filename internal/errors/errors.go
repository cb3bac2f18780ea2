package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized is returned when a request carries no bearer token.
	ErrUnauthorized = errors.New("Unauthorized")
	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("Invalid token")
	// ErrForbidden is returned when an authenticated user lacks the required role.
	ErrForbidden = errors.New("Forbidden")
	// ErrUserNotFound is returned when no user matches the given email or id.
	ErrUserNotFound = errors.New("user not found, please register")
	// ErrWrongPassword is returned when the password does not match the stored hash.
	ErrWrongPassword = errors.New("wrong password")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrWorkoutNotFound is returned when a workout id does not exist.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrInvalidAmount is returned when a water amount is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidWeight is returned when a body weight is out of range.
	ErrInvalidWeight = errors.New("weight must be between 0 and 999.99")
	// ErrInvalidLanguage is returned for an unsupported language code.
	ErrInvalidLanguage = errors.New("language must be one of pt, en, es")
	// ErrStorageUnavailable is returned when photo uploads are not configured.
	ErrStorageUnavailable = errors.New("photo storage is not configured")
	// ErrUnsupportedImage is returned for photo uploads of an unknown type.
	ErrUnsupportedImage = errors.New("photo must be a jpeg, png, webp or gif image")
	// ErrOAuthSyncFailed is returned when an external identity cannot be synced.
	ErrOAuthSyncFailed = errors.New("failed to sync oauth user")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are
// matched with errors.Is; anything unknown becomes a 500.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusUnauthorized, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrWrongPassword):
		return NewHTTPError(http.StatusUnauthorized, ErrWrongPassword.Error(), "WRONG_PASSWORD")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidRefreshToken.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrWorkoutNotFound):
		return NewHTTPError(http.StatusNotFound, ErrWorkoutNotFound.Error(), "WORKOUT_NOT_FOUND")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidAmount.Error(), "INVALID_AMOUNT")
	case errors.Is(err, ErrInvalidWeight):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidWeight.Error(), "INVALID_WEIGHT")
	case errors.Is(err, ErrInvalidLanguage):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidLanguage.Error(), "INVALID_LANGUAGE")
	case errors.Is(err, ErrStorageUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, ErrStorageUnavailable.Error(), "STORAGE_UNAVAILABLE")
	case errors.Is(err, ErrUnsupportedImage):
		return NewHTTPError(http.StatusBadRequest, ErrUnsupportedImage.Error(), "UNSUPPORTED_IMAGE")
	case errors.Is(err, ErrOAuthSyncFailed):
		return NewHTTPError(http.StatusInternalServerError, ErrOAuthSyncFailed.Error(), "OAUTH_SYNC_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
