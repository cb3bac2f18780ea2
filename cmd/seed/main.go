package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"kelfit/internal/config"
	"kelfit/internal/db"
	"kelfit/internal/logger"
	"kelfit/internal/repository"
	"kelfit/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(cfg.Environment)
	log.Info().Msg("Starting seed script...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := run(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed database")
	}

	log.Info().
		Bool("admin_created", report.AdminCreated).
		Int("workouts_created", report.WorkoutsCreated).
		Int("exercises_created", report.ExercisesCreated).
		Int("challenges_created", report.ChallengesCreated).
		Int("config_keys", report.ConfigKeys).
		Msg("Seed completed successfully!")
}

// run migrates the configured database and seeds it.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*service.SeedReport, error) {
	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if err := db.Migrate(gormDB); err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("Database migrations completed")

	seeder := service.NewSeedService(
		cfg.Admin,
		repository.NewUserRepository(gormDB),
		repository.NewWorkoutRepository(gormDB),
		repository.NewChallengeRepository(gormDB),
		repository.NewConfigRepository(gormDB),
	)
	return seeder.Seed(ctx)
}
