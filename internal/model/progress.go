package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the format of Progress.Date.
const DateLayout = "2006-01-02"

// Progress accumulates one member's tracking data for one calendar day.
// The (user_id, date) pair is unique.
type Progress struct {
	ID                 uint                `json:"id" gorm:"primaryKey"`
	UserID             uint                `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_date"`
	Date               string              `json:"date" gorm:"size:10;not null;uniqueIndex:idx_progress_user_date"`
	WaterIntake        int                 `json:"water_intake" gorm:"not null;default:0"`
	Weight             decimal.NullDecimal `json:"weight" gorm:"type:decimal(5,2)"`
	WorkoutCompletedID *uint               `json:"workout_completed_id,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// TableName keeps the table name singular across backends.
func (Progress) TableName() string {
	return "progress"
}

// DateKey returns the progress date key for t in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
