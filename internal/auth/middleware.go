package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "kelfit/internal/errors"
	"kelfit/internal/model"
)

// ContextKey is where the verified *Claims live on the echo context.
const ContextKey = "user"

// UserLookup loads the persisted user behind a token.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// Middleware verifies the bearer token of every request it guards and stores
// the decoded claims under ContextKey. Only access tokens are accepted. A
// missing header yields 401 Unauthorized; a bad, expired, revoked or
// refresh token yields 401 Invalid token.
func Middleware(jwtService *JWTService, tokens TokenRegistry) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			claims, err := jwtService.ValidateAccessToken(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
			}
			if tokens != nil && revoked(c.Request().Context(), tokens, claims) {
				return nil, fmt.Errorf("%w: token revoked", apperrors.ErrInvalidToken)
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, apperrors.ErrInvalidToken) {
				return newHTTPError(apperrors.ErrInvalidToken)
			}
			return newHTTPError(apperrors.ErrUnauthorized)
		},
	})
}

// revoked reports whether the token itself or the session it was minted
// under has been logged out.
func revoked(ctx context.Context, tokens TokenRegistry, claims *Claims) bool {
	if tokens.AccessRevoked(ctx, claims.ID) {
		return true
	}
	return claims.SessionID != "" && tokens.AccessRevoked(ctx, claims.SessionID)
}

// RequireAdmin allows the request only when the token carries the admin role
// and the persisted user still holds it.
func RequireAdmin(users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := CurrentClaims(c)
			if !ok {
				return newHTTPError(apperrors.ErrUnauthorized)
			}
			if !claims.IsAdmin() {
				return newHTTPError(apperrors.ErrForbidden)
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return newHTTPError(apperrors.ErrForbidden)
				}
				return newHTTPError(err)
			}
			if !user.IsAdmin() {
				return newHTTPError(apperrors.ErrForbidden)
			}
			return next(c)
		}
	}
}

// CurrentClaims returns the claims stored by Middleware.
func CurrentClaims(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	return claims, ok && claims != nil
}

// BearerToken returns the raw token of the Authorization header, if any.
func BearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get(echo.HeaderAuthorization)
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

func newHTTPError(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
