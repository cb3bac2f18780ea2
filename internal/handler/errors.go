package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"kelfit/internal/auth"
	"kelfit/internal/errors"
)

// respondError turns a service error into the JSON error body. Server-side
// failures are logged with the request logger and hidden from the client.
func respondError(c echo.Context, err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().
			Err(err).
			Str("path", c.Path()).
			Msg("request failed")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func invalidBody() *echo.HTTPError {
	return badRequest("invalid request body", "INVALID_REQUEST")
}

func validationFailed(err error) *echo.HTTPError {
	return badRequest(err.Error(), "VALIDATION_ERROR")
}

// bindAndValidate decodes the request into req and runs the validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return invalidBody()
	}
	if err := c.Validate(req); err != nil {
		return validationFailed(err)
	}
	return nil
}

// currentUserID returns the id of the authenticated caller.
func currentUserID(c echo.Context) (uint, error) {
	claims, ok := auth.CurrentClaims(c)
	if !ok {
		return 0, respondError(c, errors.ErrUnauthorized)
	}
	return claims.UserID, nil
}

// SuccessResponse is returned by write endpoints without a payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func success(c echo.Context) error {
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
