package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kelfit/internal/model"
)

// ProgressRepository defines progress persistence operations. Every write is
// a single insert-or-update statement keyed on (user_id, date).
type ProgressRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]model.Progress, error)
	AddWater(ctx context.Context, userID uint, date string, amount int) error
	SetWeight(ctx context.Context, userID uint, date string, weight decimal.Decimal) error
	SetWorkoutCompleted(ctx context.Context, userID uint, date string, workoutID uint) error
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new progress repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

var progressKey = []clause.Column{{Name: "user_id"}, {Name: "date"}}

// ListByUser returns the user's rows, newest date first.
func (r *progressRepository) ListByUser(ctx context.Context, userID uint) ([]model.Progress, error) {
	rows := []model.Progress{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AddWater inserts the day's row with amount or adds amount to the stored
// total, atomically.
func (r *progressRepository) AddWater(ctx context.Context, userID uint, date string, amount int) error {
	now := time.Now()
	row := &model.Progress{UserID: userID, Date: date, WaterIntake: amount, CreatedAt: now, UpdatedAt: now}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: progressKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"water_intake": r.accumulate("water_intake"),
			"updated_at":   now,
		}),
	}).Create(row).Error
}

// SetWeight records the day's body weight, replacing an earlier value.
func (r *progressRepository) SetWeight(ctx context.Context, userID uint, date string, weight decimal.Decimal) error {
	now := time.Now()
	row := &model.Progress{
		UserID:    userID,
		Date:      date,
		Weight:    decimal.NullDecimal{Decimal: weight, Valid: true},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   progressKey,
		DoUpdates: clause.AssignmentColumns([]string{"weight", "updated_at"}),
	}).Create(row).Error
}

// SetWorkoutCompleted records the workout completed on that day.
func (r *progressRepository) SetWorkoutCompleted(ctx context.Context, userID uint, date string, workoutID uint) error {
	now := time.Now()
	row := &model.Progress{
		UserID:             userID,
		Date:               date,
		WorkoutCompletedID: &workoutID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   progressKey,
		DoUpdates: clause.AssignmentColumns([]string{"workout_completed_id", "updated_at"}),
	}).Create(row).Error
}

// accumulate builds "stored + incoming" for the conflict branch in the
// current dialect.
func (r *progressRepository) accumulate(column string) clause.Expr {
	if r.db.Dialector.Name() == "mysql" {
		return gorm.Expr(column + " + VALUES(" + column + ")")
	}
	return gorm.Expr("progress." + column + " + excluded." + column)
}
