package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kelfit/internal/auth"
	apperrors "kelfit/internal/errors"
	"kelfit/internal/model"
)

const testSecret = "test-secret"

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(testSecret, time.Hour, 24*time.Hour)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// assignID mimics the database filling in the primary key on insert.
func assignID(id uint) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = id
	}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository, *MockTokenRegistry)
		expectedError error
	}{
		{
			name:  "successful registration",
			email: "new@example.com",
			setupMock: func(m *MockUserRepository, tok *MockTokenRegistry) {
				m.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Role == model.RoleUser && u.Language == model.LanguagePT &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
				})).Run(assignID(7)).Return(nil)
				tok.On("RegisterRefresh", mock.Anything, mock.Anything, uint(7), "new@example.com", 24*time.Hour).Return(nil)
			},
		},
		{
			name:  "email normalised before lookup",
			email: "  New@Example.COM ",
			setupMock: func(m *MockUserRepository, tok *MockTokenRegistry) {
				m.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Run(assignID(8)).Return(nil)
				tok.On("RegisterRefresh", mock.Anything, mock.Anything, uint(8), "new@example.com", mock.Anything).Return(nil)
			},
		},
		{
			name:  "existing email",
			email: "taken@example.com",
			setupMock: func(m *MockUserRepository, _ *MockTokenRegistry) {
				m.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{ID: 1, Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:  "concurrent insert wins the race",
			email: "race@example.com",
			setupMock: func(m *MockUserRepository, _ *MockTokenRegistry) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:  "postgres unique violation",
			email: "race@example.com",
			setupMock: func(m *MockUserRepository, _ *MockTokenRegistry) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(&pgconn.PgError{Code: "23505"})
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokens := new(MockTokenRegistry)
			tt.setupMock(mockRepo, mockTokens)

			jwtService := newTestJWT()
			svc := NewAuthService(mockRepo, jwtService, mockTokens, nil)
			access, refresh, user, err := svc.Register(context.Background(), tt.email, "secret1", " Maria ")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, access)
				assert.Empty(t, refresh)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Maria", user.Name)
				claims, err := jwtService.ValidateAccessToken(access)
				require.NoError(t, err)
				assert.Equal(t, user.ID, claims.UserID)
				assert.Equal(t, model.RoleUser, claims.Role)
				assert.NotEmpty(t, refresh)
			}

			mockRepo.AssertExpectations(t)
			mockTokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_NewUserInvalidatesStats(t *testing.T) {
	t.Run("register", func(t *testing.T) {
		client, mr := newTestCache(t)
		require.NoError(t, mr.Set(statsCacheKey, "{}"))

		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenRegistry)
		mockRepo.On("FindByEmail", mock.Anything, "s@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Run(assignID(12)).Return(nil)
		mockTokens.On("RegisterRefresh", mock.Anything, mock.Anything, uint(12), "s@example.com", mock.Anything).Return(nil)

		svc := NewAuthService(mockRepo, newTestJWT(), mockTokens, client)
		_, _, _, err := svc.Register(context.Background(), "s@example.com", "secret1", "S")

		require.NoError(t, err)
		assert.False(t, mr.Exists(statsCacheKey))
	})

	t.Run("first google sync", func(t *testing.T) {
		client, mr := newTestCache(t)
		require.NoError(t, mr.Set(statsCacheKey, "{}"))

		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenRegistry)
		mockRepo.On("FindByEmail", mock.Anything, "g@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Run(assignID(13)).Return(nil)
		mockTokens.On("RegisterRefresh", mock.Anything, mock.Anything, uint(13), "g@example.com", mock.Anything).Return(nil)

		svc := NewAuthService(mockRepo, newTestJWT(), mockTokens, client)
		_, _, _, err := svc.GoogleSync(context.Background(), "google-1", "g@example.com", "G")

		require.NoError(t, err)
		assert.False(t, mr.Exists(statsCacheKey))
	})

	t.Run("login keeps cached stats", func(t *testing.T) {
		client, mr := newTestCache(t)
		require.NoError(t, mr.Set(statsCacheKey, "{}"))

		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenRegistry)
		mockRepo.On("FindByEmail", mock.Anything, "ana@example.com").Return(&model.User{
			ID: 3, Email: "ana@example.com", PasswordHash: hashPassword(t, "right"),
		}, nil)
		mockTokens.On("RegisterRefresh", mock.Anything, mock.Anything, uint(3), "ana@example.com", mock.Anything).Return(nil)

		svc := NewAuthService(mockRepo, newTestJWT(), mockTokens, client)
		_, _, _, err := svc.Login(context.Background(), "ana@example.com", "right")

		require.NoError(t, err)
		assert.True(t, mr.Exists(statsCacheKey))
	})
}

func TestAuthService_Login(t *testing.T) {
	stored := &model.User{ID: 3, Email: "ana@example.com", PasswordHash: hashPassword(t, "right"), Role: model.RoleAdmin}

	tests := []struct {
		name          string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenRegistry)
		expectedError error
		internal      bool
	}{
		{
			name:     "successful login",
			password: "right",
			setupMock: func(m *MockUserRepository, tok *MockTokenRegistry) {
				m.On("FindByEmail", mock.Anything, "ana@example.com").Return(stored, nil)
				tok.On("RegisterRefresh", mock.Anything, mock.Anything, uint(3), "ana@example.com", mock.Anything).Return(nil)
			},
		},
		{
			name:     "unknown email",
			password: "right",
			setupMock: func(m *MockUserRepository, _ *MockTokenRegistry) {
				m.On("FindByEmail", mock.Anything, "ana@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:     "wrong password",
			password: "wrong",
			setupMock: func(m *MockUserRepository, _ *MockTokenRegistry) {
				m.On("FindByEmail", mock.Anything, "ana@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrWrongPassword,
		},
		{
			name:     "oauth account never matches a password",
			password: model.OAuthPasswordMarker,
			setupMock: func(m *MockUserRepository, _ *MockTokenRegistry) {
				m.On("FindByEmail", mock.Anything, "ana@example.com").Return(&model.User{
					ID: 4, Email: "ana@example.com", PasswordHash: model.OAuthPasswordMarker,
				}, nil)
			},
			expectedError: apperrors.ErrWrongPassword,
		},
		{
			name:     "database failure",
			password: "right",
			setupMock: func(m *MockUserRepository, _ *MockTokenRegistry) {
				m.On("FindByEmail", mock.Anything, "ana@example.com").Return(nil, errors.New("connection refused"))
			},
			internal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokens := new(MockTokenRegistry)
			tt.setupMock(mockRepo, mockTokens)

			jwtService := newTestJWT()
			svc := NewAuthService(mockRepo, jwtService, mockTokens, nil)
			access, refresh, user, err := svc.Login(context.Background(), "ana@example.com", tt.password)

			switch {
			case tt.internal:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, apperrors.ErrUserNotFound)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, access)
				assert.Empty(t, refresh)
				assert.Nil(t, user)
			default:
				require.NoError(t, err)
				claims, err := jwtService.ValidateAccessToken(access)
				require.NoError(t, err)
				assert.Equal(t, model.RoleAdmin, claims.Role)
				assert.Equal(t, "ana@example.com", claims.Email)
				assert.NotEmpty(t, refresh)
			}

			mockRepo.AssertExpectations(t)
			mockTokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_GoogleSync(t *testing.T) {
	t.Run("creates user on first sync", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenRegistry)
		mockRepo.On("FindByEmail", mock.Anything, "g@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.PasswordHash == model.OAuthPasswordMarker && u.GoogleID == "google-123" && u.Role == model.RoleUser
		})).Run(assignID(11)).Return(nil)
		mockTokens.On("RegisterRefresh", mock.Anything, mock.Anything, uint(11), "g@example.com", mock.Anything).Return(nil)

		svc := NewAuthService(mockRepo, newTestJWT(), mockTokens, nil)
		access, _, user, err := svc.GoogleSync(context.Background(), "google-123", "g@example.com", "Gabi")

		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.Equal(t, uint(11), user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("reuses existing user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenRegistry)
		existing := &model.User{ID: 5, Email: "g@example.com", GoogleID: "google-123", Role: model.RoleUser}
		mockRepo.On("FindByEmail", mock.Anything, "g@example.com").Return(existing, nil)
		mockTokens.On("RegisterRefresh", mock.Anything, mock.Anything, uint(5), "g@example.com", mock.Anything).Return(nil)

		svc := NewAuthService(mockRepo, newTestJWT(), mockTokens, nil)
		_, _, user, err := svc.GoogleSync(context.Background(), "google-123", "g@example.com", "Gabi")

		require.NoError(t, err)
		assert.Same(t, existing, user)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("links google id to password account", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenRegistry)
		existing := &model.User{ID: 6, Email: "g@example.com", Role: model.RoleUser}
		mockRepo.On("FindByEmail", mock.Anything, "g@example.com").Return(existing, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.GoogleID == "google-123"
		})).Return(nil)
		mockTokens.On("RegisterRefresh", mock.Anything, mock.Anything, uint(6), "g@example.com", mock.Anything).Return(nil)

		svc := NewAuthService(mockRepo, newTestJWT(), mockTokens, nil)
		_, _, _, err := svc.GoogleSync(context.Background(), "google-123", "g@example.com", "Gabi")

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("failure is reported as sync failure", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "g@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		svc := NewAuthService(mockRepo, newTestJWT(), new(MockTokenRegistry), nil)
		_, _, user, err := svc.GoogleSync(context.Background(), "google-123", "g@example.com", "Gabi")

		assert.ErrorIs(t, err, apperrors.ErrOAuthSyncFailed)
		assert.Nil(t, user)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := newTestJWT()
	user := &model.User{ID: 9, Email: "r@example.com", Role: model.RoleAdmin}
	tokenID, refresh, err := jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)

	t.Run("issues access token with persisted role", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenRegistry)
		mockTokens.On("LookupRefresh", mock.Anything, tokenID).Return(auth.RefreshSession{UserID: 9, Email: "r@example.com"}, nil)
		// demoted since the refresh token was issued
		mockRepo.On("FindByID", mock.Anything, uint(9)).Return(&model.User{ID: 9, Email: "r@example.com", Role: model.RoleUser}, nil)

		svc := NewAuthService(mockRepo, jwtService, mockTokens, nil)
		access, err := svc.RefreshToken(context.Background(), refresh)

		require.NoError(t, err)
		claims, err := jwtService.ValidateAccessToken(access)
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, claims.Role)
		assert.Equal(t, tokenID, claims.SessionID)
	})

	t.Run("unregistered token", func(t *testing.T) {
		mockTokens := new(MockTokenRegistry)
		mockTokens.On("LookupRefresh", mock.Anything, tokenID).Return(auth.RefreshSession{}, auth.ErrRefreshNotRegistered)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokens, nil)
		_, err := svc.RefreshToken(context.Background(), refresh)

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("token for another user", func(t *testing.T) {
		mockTokens := new(MockTokenRegistry)
		mockTokens.On("LookupRefresh", mock.Anything, tokenID).Return(auth.RefreshSession{UserID: 10, Email: "r@example.com"}, nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokens, nil)
		_, err := svc.RefreshToken(context.Background(), refresh)

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenRegistry), nil)
		_, err := svc.RefreshToken(context.Background(), "not-a-jwt")

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		access, err := jwtService.GenerateAccessToken(user, tokenID)
		require.NoError(t, err)

		mockTokens := new(MockTokenRegistry)
		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokens, nil)
		_, err = svc.RefreshToken(context.Background(), access)

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		mockTokens.AssertNotCalled(t, "LookupRefresh", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := newTestJWT()
	user := &model.User{ID: 2, Email: "l@example.com", Role: model.RoleUser}
	refreshID, refresh, err := jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)
	sameSession, err := jwtService.GenerateAccessToken(user, refreshID)
	require.NoError(t, err)
	otherSession, err := jwtService.GenerateAccessToken(user, "other-session")
	require.NoError(t, err)
	otherClaims, err := jwtService.ValidateAccessToken(otherSession)
	require.NoError(t, err)

	t.Run("revokes refresh and its session", func(t *testing.T) {
		mockTokens := new(MockTokenRegistry)
		mockTokens.On("RevokeRefresh", mock.Anything, refreshID).Return(nil)
		mockTokens.On("RevokeAccess", mock.Anything, refreshID, time.Hour).Return(nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokens, nil)
		require.NoError(t, svc.Logout(context.Background(), refresh, sameSession))
		mockTokens.AssertExpectations(t)
		mockTokens.AssertNumberOfCalls(t, "RevokeAccess", 1)
	})

	t.Run("blacklists access token of another session", func(t *testing.T) {
		mockTokens := new(MockTokenRegistry)
		mockTokens.On("RevokeRefresh", mock.Anything, refreshID).Return(nil)
		mockTokens.On("RevokeAccess", mock.Anything, refreshID, time.Hour).Return(nil)
		mockTokens.On("RevokeAccess", mock.Anything, otherClaims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 0 && ttl <= time.Hour
		})).Return(nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokens, nil)
		require.NoError(t, svc.Logout(context.Background(), refresh, otherSession))
		mockTokens.AssertExpectations(t)
	})

	t.Run("without access token", func(t *testing.T) {
		mockTokens := new(MockTokenRegistry)
		mockTokens.On("RevokeRefresh", mock.Anything, refreshID).Return(nil)
		mockTokens.On("RevokeAccess", mock.Anything, refreshID, time.Hour).Return(nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokens, nil)
		require.NoError(t, svc.Logout(context.Background(), refresh, ""))
		mockTokens.AssertNumberOfCalls(t, "RevokeAccess", 1)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenRegistry), nil)
		err := svc.Logout(context.Background(), "bogus", sameSession)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("access token in place of refresh token", func(t *testing.T) {
		mockTokens := new(MockTokenRegistry)
		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokens, nil)
		err := svc.Logout(context.Background(), sameSession, "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		mockTokens.AssertNotCalled(t, "RevokeRefresh", mock.Anything, mock.Anything)
	})
}
