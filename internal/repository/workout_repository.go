package repository

import (
	"context"

	"gorm.io/gorm"

	"kelfit/internal/model"
)

// WorkoutRepository defines workout and exercise persistence operations.
type WorkoutRepository interface {
	List(ctx context.Context, category model.WorkoutCategory) ([]model.Workout, error)
	FindByID(ctx context.Context, id uint) (*model.Workout, error)
	Create(ctx context.Context, workout *model.Workout) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	ListExercises(ctx context.Context, workoutID uint) ([]model.Exercise, error)
	CreateExercises(ctx context.Context, exercises []model.Exercise) error
	Transaction(ctx context.Context, fn func(WorkoutRepository) error) error
}

type workoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new workout repository.
func NewWorkoutRepository(db *gorm.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

// List returns workouts ordered by order_index. An empty category lists all.
func (r *workoutRepository) List(ctx context.Context, category model.WorkoutCategory) ([]model.Workout, error) {
	q := r.db.WithContext(ctx).Order("order_index ASC").Order("id ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	workouts := []model.Workout{}
	if err := q.Find(&workouts).Error; err != nil {
		return nil, err
	}
	return workouts, nil
}

// FindByID finds a workout by ID.
func (r *workoutRepository) FindByID(ctx context.Context, id uint) (*model.Workout, error) {
	var workout model.Workout
	if err := r.db.WithContext(ctx).First(&workout, id).Error; err != nil {
		return nil, err
	}
	return &workout, nil
}

// Create creates a new workout.
func (r *workoutRepository) Create(ctx context.Context, workout *model.Workout) error {
	return r.db.WithContext(ctx).Create(workout).Error
}

// Delete removes a workout and its exercises. Deleting a missing id is not an error.
func (r *workoutRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", id).Delete(&model.Exercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Workout{}, id).Error
	})
}

// Count returns the number of workouts.
func (r *workoutRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Workout{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// ListExercises returns the exercises of a workout ordered by order_index.
func (r *workoutRepository) ListExercises(ctx context.Context, workoutID uint) ([]model.Exercise, error) {
	exercises := []model.Exercise{}
	if err := r.db.WithContext(ctx).
		Where("workout_id = ?", workoutID).
		Order("order_index ASC").Order("id ASC").
		Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

// CreateExercises inserts exercises in batches.
func (r *workoutRepository) CreateExercises(ctx context.Context, exercises []model.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(exercises, 100).Error
}

// Transaction runs fn against a repository bound to a single transaction.
// The transaction is rolled back when fn returns an error.
func (r *workoutRepository) Transaction(ctx context.Context, fn func(WorkoutRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&workoutRepository{db: tx})
	})
}
