package auth

import (
	"context"
	"errors"
	"time"

	"kelfit/internal/cache"
)

// ErrRefreshNotRegistered is returned for refresh tokens that were never
// issued, have expired or were revoked by logout.
var ErrRefreshNotRegistered = errors.New("refresh token not registered")

// TokenRegistry tracks issued refresh tokens and revoked access tokens by jti.
type TokenRegistry interface {
	RegisterRefresh(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error
	LookupRefresh(ctx context.Context, tokenID string) (RefreshSession, error)
	RevokeRefresh(ctx context.Context, tokenID string) error
	RevokeAccess(ctx context.Context, tokenID string, ttl time.Duration) error
	AccessRevoked(ctx context.Context, tokenID string) bool
}

// RefreshSession is what the registry remembers about a refresh token.
type RefreshSession struct {
	UserID   uint      `json:"user_id"`
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issued_at"`
}

// TokenStore is the redis-backed TokenRegistry. It inherits the cache's
// fail-safe behaviour: with redis down no refresh token resolves and no
// access token reads as revoked.
type TokenStore struct {
	cache *cache.Client
	now   func() time.Time
}

var _ TokenRegistry = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache, now: time.Now}
}

func refreshKey(tokenID string) string {
	return "auth:refresh:" + tokenID
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

// RegisterRefresh records a freshly issued refresh token for ttl.
func (s *TokenStore) RegisterRefresh(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	if tokenID == "" || userID == 0 {
		return errors.New("refresh token needs an id and a user")
	}
	s.cache.SetJSON(ctx, refreshKey(tokenID), RefreshSession{
		UserID:   userID,
		Email:    email,
		IssuedAt: s.now().UTC(),
	}, ttl)
	return nil
}

// LookupRefresh returns the session behind a registered refresh token.
func (s *TokenStore) LookupRefresh(ctx context.Context, tokenID string) (RefreshSession, error) {
	var session RefreshSession
	if !s.cache.GetJSON(ctx, refreshKey(tokenID), &session) || session.UserID == 0 {
		return RefreshSession{}, ErrRefreshNotRegistered
	}
	return session, nil
}

// RevokeRefresh forgets a refresh token. Unknown ids are ignored.
func (s *TokenStore) RevokeRefresh(ctx context.Context, tokenID string) error {
	s.cache.Delete(ctx, refreshKey(tokenID))
	return nil
}

// RevokeAccess marks an access token as revoked for the rest of its
// lifetime. Tokens that have already expired are not recorded.
func (s *TokenStore) RevokeAccess(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.cache.Set(ctx, revokedKey(tokenID), []byte("1"), ttl)
	return nil
}

// AccessRevoked reports whether the access token was revoked by logout.
func (s *TokenStore) AccessRevoked(ctx context.Context, tokenID string) bool {
	_, revoked := s.cache.Get(ctx, revokedKey(tokenID))
	return revoked
}
