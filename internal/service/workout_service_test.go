package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kelfit/internal/model"
)

// MockChallengeRepository is a mock implementation of ChallengeRepository.
type MockChallengeRepository struct {
	mock.Mock
}

func (m *MockChallengeRepository) List(ctx context.Context) ([]model.Challenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) CreateBatch(ctx context.Context, challenges []model.Challenge) error {
	args := m.Called(ctx, challenges)
	return args.Error(0)
}

func (m *MockChallengeRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestWorkoutService_ListCachesPerCategory(t *testing.T) {
	client, mr := newTestCache(t)
	repo := new(MockWorkoutRepository)
	repo.On("List", mock.Anything, model.CategoryGym).Return([]model.Workout{{ID: 1, Name: "A", Category: model.CategoryGym}}, nil).Once()
	repo.On("List", mock.Anything, model.WorkoutCategory("")).Return([]model.Workout{{ID: 1}, {ID: 2}}, nil).Once()

	svc := NewWorkoutService(repo, new(MockChallengeRepository), client)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		gym, err := svc.List(ctx, model.CategoryGym)
		require.NoError(t, err)
		assert.Len(t, gym, 1)

		all, err := svc.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	}

	assert.True(t, mr.Exists("workouts:Gym"))
	assert.True(t, mr.Exists("workouts:all"))
	repo.AssertExpectations(t)
}

func TestWorkoutService_CreateAndDeleteInvalidate(t *testing.T) {
	client, mr := newTestCache(t)
	repo := new(MockWorkoutRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Workout")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Workout).ID = 42
	}).Return(nil)
	repo.On("Delete", mock.Anything, uint(42)).Return(nil)

	svc := NewWorkoutService(repo, new(MockChallengeRepository), client)
	ctx := context.Background()

	require.NoError(t, mr.Set("workouts:all", "[]"))
	require.NoError(t, mr.Set(statsCacheKey, "{}"))

	created, err := svc.Create(ctx, &model.Workout{ID: 7, Name: "New", Type: "A", Category: model.CategoryHome})
	require.NoError(t, err)
	assert.Equal(t, uint(42), created.ID)
	assert.False(t, mr.Exists("workouts:all"))
	assert.False(t, mr.Exists(statsCacheKey))

	require.NoError(t, mr.Set("workouts:Home", "[]"))
	require.NoError(t, svc.Delete(ctx, 42))
	assert.False(t, mr.Exists("workouts:Home"))
	repo.AssertExpectations(t)
}

func TestWorkoutService_ExercisesAndChallenges(t *testing.T) {
	repo := new(MockWorkoutRepository)
	challenges := new(MockChallengeRepository)
	repo.On("ListExercises", mock.Anything, uint(3)).Return([]model.Exercise{{Name: "Squat"}}, nil)
	challenges.On("List", mock.Anything).Return([]model.Challenge{{Title: "7 days"}}, nil)

	svc := NewWorkoutService(repo, challenges, nil)

	exercises, err := svc.Exercises(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Squat", exercises[0].Name)

	list, err := svc.Challenges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7 days", list[0].Title)
}
