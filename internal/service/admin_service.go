package service

import (
	"context"
	"fmt"
	"time"

	"kelfit/internal/cache"
	"kelfit/internal/repository"
)

const (
	statsCacheKey = "admin:stats"
	statsCacheTTL = time.Minute
)

// Stats are the headline counts shown on the admin dashboard.
type Stats struct {
	Users    int64 `json:"users"`
	Workouts int64 `json:"workouts"`
}

// AdminService computes dashboard statistics.
type AdminService interface {
	Stats(ctx context.Context) (*Stats, error)
	RefreshStats(ctx context.Context) (*Stats, error)
}

type adminService struct {
	users    repository.UserRepository
	workouts repository.WorkoutRepository
	cache    *cache.Client
}

// NewAdminService creates a new admin service.
func NewAdminService(users repository.UserRepository, workouts repository.WorkoutRepository, cache *cache.Client) AdminService {
	return &adminService{users: users, workouts: workouts, cache: cache}
}

// Stats returns cached counts, computing them on a miss.
func (s *adminService) Stats(ctx context.Context) (*Stats, error) {
	var cached Stats
	if s.cache.GetJSON(ctx, statsCacheKey, &cached) {
		return &cached, nil
	}
	return s.RefreshStats(ctx)
}

// RefreshStats recounts users and workouts and caches the result.
func (s *adminService) RefreshStats(ctx context.Context) (*Stats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	workouts, err := s.workouts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count workouts: %w", err)
	}

	stats := &Stats{Users: users, Workouts: workouts}
	s.cache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL)
	return stats, nil
}
