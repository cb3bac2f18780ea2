package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kelfit/internal/auth"
	"kelfit/internal/cache"
	apperrors "kelfit/internal/errors"
	"kelfit/internal/model"
	"kelfit/internal/repository"
)

const bcryptCost = 10

// pgUniqueViolation is the Postgres SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (accessToken, refreshToken string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	GoogleSync(ctx context.Context, googleID, email, name string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken, accessToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokens     auth.TokenRegistry
	cache      *cache.Client
}

// NewAuthService creates a new authentication service. cache may be nil.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokens auth.TokenRegistry, cache *cache.Client) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokens:     tokens,
		cache:      cache,
	}
}

// Register creates a member with a hashed password and signs them in.
func (s *authService) Register(ctx context.Context, email, password, name string) (string, string, *model.User, error) {
	email = normalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", "", nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(name),
		Role:         model.RoleUser,
		Language:     model.LanguagePT,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if isDuplicateKey(err) {
			return "", "", nil, apperrors.ErrEmailTaken
		}
		return "", "", nil, fmt.Errorf("create user: %w", err)
	}
	s.cache.Delete(ctx, statsCacheKey)

	return s.issueTokens(ctx, user)
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, apperrors.ErrUserNotFound
		}
		return "", "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, apperrors.ErrWrongPassword
	}

	return s.issueTokens(ctx, user)
}

// GoogleSync signs in a user authenticated by Google, creating the row on
// first sight. Every failure is reported as ErrOAuthSyncFailed.
func (s *authService) GoogleSync(ctx context.Context, googleID, email, name string) (string, string, *model.User, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{
			Email:        email,
			PasswordHash: model.OAuthPasswordMarker,
			Name:         strings.TrimSpace(name),
			Role:         model.RoleUser,
			Language:     model.LanguagePT,
			GoogleID:     googleID,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", "", nil, fmt.Errorf("%w: create user: %v", apperrors.ErrOAuthSyncFailed, err)
		}
		s.cache.Delete(ctx, statsCacheKey)
	case err != nil:
		return "", "", nil, fmt.Errorf("%w: find user: %v", apperrors.ErrOAuthSyncFailed, err)
	case user.GoogleID == "" && googleID != "":
		user.GoogleID = googleID
		if err := s.userRepo.Update(ctx, user); err != nil {
			return "", "", nil, fmt.Errorf("%w: link account: %v", apperrors.ErrOAuthSyncFailed, err)
		}
	}

	access, refresh, user, err := s.issueTokens(ctx, user)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %v", apperrors.ErrOAuthSyncFailed, err)
	}
	return access, refresh, user, nil
}

// RefreshToken validates a refresh token and returns a new access token
// carrying the user's current role.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	session, err := s.tokens.LookupRefresh(ctx, claims.ID)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	if session.UserID != claims.UserID || session.Email != claims.Email {
		return "", apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user, claims.ID)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the refresh token and every access token minted under it.
// An access token from another session is blacklisted individually.
func (s *authService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	session, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}
	if err := s.tokens.RevokeRefresh(ctx, session.ID); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	// no access token of this session outlives the access TTL
	if err := s.tokens.RevokeAccess(ctx, session.ID, s.jwtService.AccessTTL()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	if accessToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil || claims.ExpiresAt == nil {
		// already unusable
		return nil
	}
	if claims.SessionID == session.ID {
		return nil
	}
	if err := s.tokens.RevokeAccess(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (string, string, *model.User, error) {
	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user, tokenID)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.tokens.RegisterRefresh(ctx, tokenID, user.ID, user.Email, s.jwtService.RefreshTTL()); err != nil {
		return "", "", nil, fmt.Errorf("register refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isDuplicateKey reports whether err is a unique constraint violation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
