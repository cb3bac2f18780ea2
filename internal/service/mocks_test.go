package service

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"kelfit/internal/auth"
	"kelfit/internal/model"
	"kelfit/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockWorkoutRepository is a mock implementation of WorkoutRepository.
type MockWorkoutRepository struct {
	mock.Mock
}

func (m *MockWorkoutRepository) List(ctx context.Context, category model.WorkoutCategory) ([]model.Workout, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Workout), args.Error(1)
}

func (m *MockWorkoutRepository) FindByID(ctx context.Context, id uint) (*model.Workout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workout), args.Error(1)
}

func (m *MockWorkoutRepository) Create(ctx context.Context, workout *model.Workout) error {
	args := m.Called(ctx, workout)
	return args.Error(0)
}

func (m *MockWorkoutRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkoutRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkoutRepository) ListExercises(ctx context.Context, workoutID uint) ([]model.Exercise, error) {
	args := m.Called(ctx, workoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Exercise), args.Error(1)
}

func (m *MockWorkoutRepository) CreateExercises(ctx context.Context, exercises []model.Exercise) error {
	args := m.Called(ctx, exercises)
	return args.Error(0)
}

// Transaction runs fn against the mock itself.
func (m *MockWorkoutRepository) Transaction(ctx context.Context, fn func(repository.WorkoutRepository) error) error {
	return fn(m)
}

// MockProgressRepository is a mock implementation of ProgressRepository.
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) ListByUser(ctx context.Context, userID uint) ([]model.Progress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Progress), args.Error(1)
}

func (m *MockProgressRepository) AddWater(ctx context.Context, userID uint, date string, amount int) error {
	args := m.Called(ctx, userID, date, amount)
	return args.Error(0)
}

func (m *MockProgressRepository) SetWeight(ctx context.Context, userID uint, date string, weight decimal.Decimal) error {
	args := m.Called(ctx, userID, date, weight)
	return args.Error(0)
}

func (m *MockProgressRepository) SetWorkoutCompleted(ctx context.Context, userID uint, date string, workoutID uint) error {
	args := m.Called(ctx, userID, date, workoutID)
	return args.Error(0)
}

// MockTokenRegistry is a mock implementation of auth.TokenRegistry.
type MockTokenRegistry struct {
	mock.Mock
}

func (m *MockTokenRegistry) RegisterRefresh(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenRegistry) LookupRefresh(ctx context.Context, tokenID string) (auth.RefreshSession, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(auth.RefreshSession), args.Error(1)
}

func (m *MockTokenRegistry) RevokeRefresh(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenRegistry) RevokeAccess(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenRegistry) AccessRevoked(ctx context.Context, tokenID string) bool {
	args := m.Called(ctx, tokenID)
	return args.Bool(0)
}

// MockPhotoStore is a mock implementation of PhotoStore.
type MockPhotoStore struct {
	mock.Mock
}

func (m *MockPhotoStore) PutPhoto(ctx context.Context, userID uint, contentType string, r io.Reader, size int64) (string, error) {
	args := m.Called(ctx, userID, contentType, r, size)
	return args.String(0), args.Error(1)
}
