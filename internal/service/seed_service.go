package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kelfit/internal/config"
	"kelfit/internal/model"
	"kelfit/internal/repository"
)

// SeedReport summarises what a seed run created.
type SeedReport struct {
	AdminCreated      bool
	WorkoutsCreated   int
	ExercisesCreated  int
	ChallengesCreated int
	ConfigKeys        int
}

// SeedService populates an empty database. Every step is guarded by an
// existence check so running it again changes nothing.
type SeedService interface {
	Seed(ctx context.Context) (*SeedReport, error)
}

type seedService struct {
	admin      config.AdminConfig
	users      repository.UserRepository
	workouts   repository.WorkoutRepository
	challenges repository.ChallengeRepository
	configs    repository.ConfigRepository
}

// NewSeedService creates a new seed service.
func NewSeedService(
	admin config.AdminConfig,
	users repository.UserRepository,
	workouts repository.WorkoutRepository,
	challenges repository.ChallengeRepository,
	configs repository.ConfigRepository,
) SeedService {
	return &seedService{
		admin:      admin,
		users:      users,
		workouts:   workouts,
		challenges: challenges,
		configs:    configs,
	}
}

func (s *seedService) Seed(ctx context.Context) (*SeedReport, error) {
	report := &SeedReport{}

	created, err := s.seedAdmin(ctx)
	if err != nil {
		return nil, err
	}
	report.AdminCreated = created

	if report.WorkoutsCreated, report.ExercisesCreated, err = s.seedWorkouts(ctx); err != nil {
		return nil, err
	}
	if report.ChallengesCreated, err = s.seedChallenges(ctx); err != nil {
		return nil, err
	}

	for _, kv := range defaultConfig {
		if err := s.configs.InsertIfAbsent(ctx, kv.key, kv.value); err != nil {
			return nil, fmt.Errorf("seed config %q: %w", kv.key, err)
		}
		report.ConfigKeys++
	}

	return report, nil
}

// seedAdmin creates the configured admin unless the email is taken or no
// password is configured.
func (s *seedService) seedAdmin(ctx context.Context) (bool, error) {
	email := normalizeEmail(s.admin.Email)
	if email == "" || s.admin.Password == "" {
		return false, nil
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.admin.Password), bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	name := s.admin.Name
	if name == "" {
		name = "Admin"
	}
	admin := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         model.RoleAdmin,
		Language:     model.LanguagePT,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

func (s *seedService) seedWorkouts(ctx context.Context) (int, int, error) {
	n, err := s.workouts.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count workouts: %w", err)
	}
	if n > 0 {
		return 0, 0, nil
	}

	workouts, exercises := 0, 0
	// all or nothing, so a failed run is retried in full by the next one
	err = s.workouts.Transaction(ctx, func(repo repository.WorkoutRepository) error {
		for _, sample := range sampleWorkouts {
			workout := sample.workout
			if err := repo.Create(ctx, &workout); err != nil {
				return fmt.Errorf("create workout %q: %w", workout.Name, err)
			}

			rows := make([]model.Exercise, len(sample.exercises))
			for i, e := range sample.exercises {
				e.WorkoutID = workout.ID
				e.OrderIndex = i + 1
				rows[i] = e
			}
			if err := repo.CreateExercises(ctx, rows); err != nil {
				return fmt.Errorf("create exercises for %q: %w", workout.Name, err)
			}
			workouts++
			exercises += len(rows)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return workouts, exercises, nil
}

func (s *seedService) seedChallenges(ctx context.Context) (int, error) {
	n, err := s.challenges.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count challenges: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	rows := make([]model.Challenge, len(sampleChallenges))
	copy(rows, sampleChallenges)
	if err := s.challenges.CreateBatch(ctx, rows); err != nil {
		return 0, fmt.Errorf("create challenges: %w", err)
	}
	return len(rows), nil
}
