package repository

import (
	"context"

	"gorm.io/gorm"

	"kelfit/internal/model"
)

// ChallengeRepository defines challenge persistence operations.
type ChallengeRepository interface {
	List(ctx context.Context) ([]model.Challenge, error)
	CreateBatch(ctx context.Context, challenges []model.Challenge) error
	Count(ctx context.Context) (int64, error)
}

type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository creates a new challenge repository.
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) List(ctx context.Context) ([]model.Challenge, error) {
	challenges := []model.Challenge{}
	if err := r.db.WithContext(ctx).Order("order_index ASC").Order("id ASC").Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *challengeRepository) CreateBatch(ctx context.Context, challenges []model.Challenge) error {
	if len(challenges) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(challenges, 100).Error
}

func (r *challengeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Challenge{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
