package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "kelfit/internal/errors"
	"kelfit/internal/model"
	"kelfit/internal/repository"
)

// ProgressService records daily water intake, weight and completed workouts.
// All writes target today's row, keyed by the UTC date.
type ProgressService interface {
	List(ctx context.Context, userID uint) ([]model.Progress, error)
	AddWater(ctx context.Context, userID uint, amount int) error
	LogWeight(ctx context.Context, userID uint, weight decimal.Decimal) error
	CompleteWorkout(ctx context.Context, userID, workoutID uint) error
}

type progressService struct {
	progress repository.ProgressRepository
	workouts repository.WorkoutRepository
	now      func() time.Time
}

// NewProgressService creates a new progress service using the wall clock.
func NewProgressService(progress repository.ProgressRepository, workouts repository.WorkoutRepository) ProgressService {
	return NewProgressServiceWithClock(progress, workouts, time.Now)
}

// NewProgressServiceWithClock creates a progress service that reads today's
// date from now.
func NewProgressServiceWithClock(progress repository.ProgressRepository, workouts repository.WorkoutRepository, now func() time.Time) ProgressService {
	return &progressService{progress: progress, workouts: workouts, now: now}
}

func (s *progressService) today() string {
	return model.DateKey(s.now())
}

// List returns the user's rows, newest first.
func (s *progressService) List(ctx context.Context, userID uint) ([]model.Progress, error) {
	rows, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return rows, nil
}

// AddWater adds amount millilitres to today's total.
func (s *progressService) AddWater(ctx context.Context, userID uint, amount int) error {
	if amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	if err := s.progress.AddWater(ctx, userID, s.today(), amount); err != nil {
		return fmt.Errorf("add water: %w", err)
	}
	return nil
}

// LogWeight stores today's body weight.
func (s *progressService) LogWeight(ctx context.Context, userID uint, weight decimal.Decimal) error {
	if !validBodyMetric(&weight) {
		return apperrors.ErrInvalidWeight
	}
	if err := s.progress.SetWeight(ctx, userID, s.today(), weight.Round(2)); err != nil {
		return fmt.Errorf("log weight: %w", err)
	}
	return nil
}

// CompleteWorkout marks workoutID as today's completed workout.
func (s *progressService) CompleteWorkout(ctx context.Context, userID, workoutID uint) error {
	if _, err := findWorkout(ctx, s.workouts, workoutID); err != nil {
		return err
	}
	if err := s.progress.SetWorkoutCompleted(ctx, userID, s.today(), workoutID); err != nil {
		return fmt.Errorf("complete workout: %w", err)
	}
	return nil
}
