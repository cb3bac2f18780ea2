package service

import (
	"context"
	"fmt"
	"time"

	"kelfit/internal/cache"
	"kelfit/internal/repository"
)

const (
	configCacheKey = "config:all"
	configCacheTTL = time.Hour
)

// ConfigService reads and writes the public site configuration.
type ConfigService interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	Warm(ctx context.Context) error
}

type configService struct {
	repo  repository.ConfigRepository
	cache *cache.Client
}

// NewConfigService creates a new config service.
func NewConfigService(repo repository.ConfigRepository, cache *cache.Client) ConfigService {
	return &configService{repo: repo, cache: cache}
}

// GetAll returns every key mapped to its value.
func (s *configService) GetAll(ctx context.Context) (map[string]string, error) {
	var cached map[string]string
	if s.cache.GetJSON(ctx, configCacheKey, &cached) && cached != nil {
		return cached, nil
	}
	return s.load(ctx)
}

// Set upserts one key. The last write wins.
func (s *configService) Set(ctx context.Context, key, value string) error {
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return fmt.Errorf("upsert config %q: %w", key, err)
	}
	s.cache.Delete(ctx, configCacheKey)
	return nil
}

// Warm reloads the configuration into the cache.
func (s *configService) Warm(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

func (s *configService) load(ctx context.Context) (map[string]string, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	s.cache.SetJSON(ctx, configCacheKey, values, configCacheTTL)
	return values, nil
}
