package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kelfit/internal/model"
)

// ConfigRepository defines app_config persistence operations.
type ConfigRepository interface {
	All(ctx context.Context) ([]model.AppConfig, error)
	Upsert(ctx context.Context, key, value string) error
	InsertIfAbsent(ctx context.Context, key, value string) error
}

type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a new config repository.
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

// All returns every config row ordered by key.
func (r *configRepository) All(ctx context.Context) ([]model.AppConfig, error) {
	rows := []model.AppConfig{}
	if err := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert writes value under key; the last write wins.
func (r *configRepository) Upsert(ctx context.Context, key, value string) error {
	row := &model.AppConfig{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(row).Error
}

// InsertIfAbsent writes value only when key has no row yet.
func (r *configRepository) InsertIfAbsent(ctx context.Context, key, value string) error {
	row := &model.AppConfig{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(row).Error
}
