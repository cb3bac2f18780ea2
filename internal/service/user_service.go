package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kelfit/internal/cache"
	apperrors "kelfit/internal/errors"
	"kelfit/internal/model"
	"kelfit/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// maxBodyMetric bounds weight and height, matching their decimal(5,2) columns.
var maxBodyMetric = decimal.RequireFromString("999.99")

// PhotoStore uploads profile photos and returns their public URL.
type PhotoStore interface {
	PutPhoto(ctx context.Context, userID uint, contentType string, r io.Reader, size int64) (string, error)
}

// ProfileUpdate holds the fields a member may change. Nil fields are left as is.
type ProfileUpdate struct {
	Name     *string
	Language *model.Language
	Goal     *string
	Weight   *decimal.Decimal
	Height   *decimal.Decimal
}

// UserService exposes the member's own profile.
type UserService interface {
	GetProfile(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error)
	UploadPhoto(ctx context.Context, id uint, contentType string, r io.Reader, size int64) (*model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	cache  *cache.Client
	photos PhotoStore
}

// NewUserService builds a UserService with repository and cache. photos may
// be nil, in which case uploads fail with ErrStorageUnavailable.
func NewUserService(repo repository.UserRepository, cache *cache.Client, photos PhotoStore) UserService {
	return &userService{repo: repo, cache: cache, photos: photos}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) GetProfile(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error) {
	if update.Language != nil && !update.Language.Valid() {
		return nil, apperrors.ErrInvalidLanguage
	}
	if !validBodyMetric(update.Weight) || !validBodyMetric(update.Height) {
		return nil, apperrors.ErrInvalidWeight
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && strings.TrimSpace(*update.Name) != "" {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Language != nil {
		user.Language = *update.Language
	}
	if update.Goal != nil {
		user.Goal = strings.TrimSpace(*update.Goal)
	}
	if update.Weight != nil {
		user.Weight = decimal.NewNullDecimal(update.Weight.Round(2))
	}
	if update.Height != nil {
		user.Height = decimal.NewNullDecimal(update.Height.Round(2))
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

func (s *userService) UploadPhoto(ctx context.Context, id uint, contentType string, r io.Reader, size int64) (*model.User, error) {
	if s.photos == nil {
		return nil, apperrors.ErrStorageUnavailable
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.photos.PutPhoto(ctx, id, contentType, r, size)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	user.PhotoURL = url
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

func (s *userService) find(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func validBodyMetric(v *decimal.Decimal) bool {
	if v == nil {
		return true
	}
	return v.IsPositive() && v.LessThanOrEqual(maxBodyMetric)
}
