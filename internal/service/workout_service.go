package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"kelfit/internal/cache"
	apperrors "kelfit/internal/errors"
	"kelfit/internal/model"
	"kelfit/internal/repository"
)

const workoutCacheTTL = 10 * time.Minute

// WorkoutService serves the workout catalogue.
type WorkoutService interface {
	List(ctx context.Context, category model.WorkoutCategory) ([]model.Workout, error)
	Exercises(ctx context.Context, workoutID uint) ([]model.Exercise, error)
	Challenges(ctx context.Context) ([]model.Challenge, error)
	Create(ctx context.Context, workout *model.Workout) (*model.Workout, error)
	Delete(ctx context.Context, id uint) error
}

type workoutService struct {
	workouts   repository.WorkoutRepository
	challenges repository.ChallengeRepository
	cache      *cache.Client
}

// NewWorkoutService creates a new workout service.
func NewWorkoutService(workouts repository.WorkoutRepository, challenges repository.ChallengeRepository, cache *cache.Client) WorkoutService {
	return &workoutService{workouts: workouts, challenges: challenges, cache: cache}
}

func workoutListKey(category model.WorkoutCategory) string {
	if category == "" {
		return "workouts:all"
	}
	return "workouts:" + string(category)
}

// List returns workouts ordered by order_index, optionally filtered by category.
func (s *workoutService) List(ctx context.Context, category model.WorkoutCategory) ([]model.Workout, error) {
	key := workoutListKey(category)

	var cached []model.Workout
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	workouts, err := s.workouts.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	s.cache.SetJSON(ctx, key, workouts, workoutCacheTTL)
	return workouts, nil
}

func (s *workoutService) Exercises(ctx context.Context, workoutID uint) ([]model.Exercise, error) {
	exercises, err := s.workouts.ListExercises(ctx, workoutID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

func (s *workoutService) Challenges(ctx context.Context) ([]model.Challenge, error) {
	challenges, err := s.challenges.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return challenges, nil
}

func (s *workoutService) Create(ctx context.Context, workout *model.Workout) (*model.Workout, error) {
	workout.ID = 0
	if err := s.workouts.Create(ctx, workout); err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}
	s.invalidate(ctx)
	return workout, nil
}

// Delete removes a workout and its exercises. Missing ids succeed.
func (s *workoutService) Delete(ctx context.Context, id uint) error {
	if err := s.workouts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *workoutService) invalidate(ctx context.Context) {
	s.cache.Delete(ctx,
		workoutListKey(""),
		workoutListKey(model.CategoryHome),
		workoutListKey(model.CategoryGym),
		statsCacheKey,
	)
}

// findWorkout maps a missing workout to ErrWorkoutNotFound.
func findWorkout(ctx context.Context, repo repository.WorkoutRepository, id uint) (*model.Workout, error) {
	workout, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("find workout: %w", err)
	}
	return workout, nil
}
