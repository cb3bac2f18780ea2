package model

import "time"

// WorkoutCategory tells where a workout is meant to be done.
type WorkoutCategory string

const (
	CategoryHome WorkoutCategory = "Home"
	CategoryGym  WorkoutCategory = "Gym"
)

// Workout is a training session made of ordered exercises.
type Workout struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Type        string          `json:"type" gorm:"size:10;not null"` // A, B, C
	Category    WorkoutCategory `json:"category" gorm:"size:10;not null;index"`
	VideoURL    string          `json:"video_url" gorm:"size:512"`
	Duration    string          `json:"duration" gorm:"size:50"`
	Series      string          `json:"series" gorm:"size:50"`
	Description string          `json:"description" gorm:"type:text"`
	Tips        string          `json:"tips" gorm:"type:text"`
	OrderIndex  int             `json:"order_index" gorm:"not null;default:0;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Exercises []Exercise `json:"-" gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE"`
}

// Exercise belongs to a workout.
type Exercise struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	WorkoutID   uint      `json:"workout_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	VideoURL    string    `json:"video_url" gorm:"size:512"`
	Description string    `json:"description" gorm:"type:text"`
	Tips        string    `json:"tips" gorm:"type:text"`
	OrderIndex  int       `json:"order_index" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Challenge is a multi-day goal shown to members.
type Challenge struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	DurationDays int       `json:"duration_days" gorm:"not null;default:7"`
	OrderIndex   int       `json:"order_index" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
}
