package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"kelfit/internal/model"
)

const (
	// DefaultAccessTokenExpiry is used when no access TTL is configured.
	DefaultAccessTokenExpiry = 24 * time.Hour
	// DefaultRefreshTokenExpiry is used when no refresh TTL is configured.
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
)

// Token types carried in the typ claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType is returned when a valid token is presented where the
// other kind is expected.
var ErrWrongTokenType = errors.New("wrong token type")

// Claims represents JWT claims.
type Claims struct {
	UserID    uint       `json:"id"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	Type      string     `json:"typ"`
	SessionID string     `json:"sid,omitempty"` // refresh token ID an access token was minted under
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token was issued to an admin.
func (c *Claims) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
// Non-positive TTLs fall back to the defaults.
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenExpiry
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenExpiry
	}
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL returns the lifetime of access tokens.
func (s *JWTService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the lifetime of refresh tokens.
func (s *JWTService) RefreshTTL() time.Duration { return s.refreshTTL }

// GenerateAccessToken generates a new access token for the user, bound to
// the refresh session it was issued under.
func (s *JWTService) GenerateAccessToken(user *model.User, sessionID string) (string, error) {
	_, token, err := s.sign(user, TokenTypeAccess, sessionID, s.accessTTL)
	return token, err
}

// GenerateRefreshToken generates a new refresh token for the user.
// The refresh token ID is returned separately for storage in Redis.
func (s *JWTService) GenerateRefreshToken(user *model.User) (tokenID string, token string, err error) {
	return s.sign(user, TokenTypeRefresh, "", s.refreshTTL)
}

func (s *JWTService) sign(user *model.User, typ, sessionID string, ttl time.Duration) (string, string, error) {
	now := s.now()
	tokenID := generateTokenID()
	claims := &Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Type:      typ,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return tokenID, signed, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// ValidateAccessToken validates a token and requires it to be an access token.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validateType(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates a token and requires it to be a refresh token.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validateType(tokenString, TokenTypeRefresh)
}

func (s *JWTService) validateType(tokenString, typ string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}
	if claims.ID == "" {
		return nil, errors.New("token ID not found")
	}
	return claims, nil
}

// generateTokenID generates a unique token ID.
func generateTokenID() string {
	return uuid.New().String()
}
