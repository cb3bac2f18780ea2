package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"kelfit/docs"
	"kelfit/internal/auth"
	"kelfit/internal/cache"
	"kelfit/internal/config"
	"kelfit/internal/db"
	"kelfit/internal/handler"
	"kelfit/internal/jobs"
	"kelfit/internal/logger"
	"kelfit/internal/repository"
	"kelfit/internal/router"
	"kelfit/internal/service"
	"kelfit/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Kelfit API
// @version 1.0
// @description Fitness tracking API with workouts, daily progress, profiles and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(cfg.Environment)

	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("database init")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.Redis)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, caching and token revocation degraded")
	}
	cancelPing()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	workoutRepo := repository.NewWorkoutRepository(gormDB)
	challengeRepo := repository.NewChallengeRepository(gormDB)
	configRepo := repository.NewConfigRepository(gormDB)
	progressRepo := repository.NewProgressRepository(gormDB)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	report, err := service.NewSeedService(cfg.Admin, userRepo, workoutRepo, challengeRepo, configRepo).Seed(seedCtx)
	cancelSeed()
	if err != nil {
		log.Fatal().Err(err).Msg("seed database")
	}
	log.Info().
		Bool("admin", report.AdminCreated).
		Int("workouts", report.WorkoutsCreated).
		Int("challenges", report.ChallengesCreated).
		Msg("database ready")

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.Security.JWTSecret, cfg.Security.AccessTTL, cfg.Security.RefreshTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	var photos service.PhotoStore
	if cfg.Storage.Endpoint != "" {
		objectStore, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("object storage init")
		}
		bucketCtx, cancelBucket := context.WithTimeout(context.Background(), 5*time.Second)
		if err := objectStore.EnsureBucket(bucketCtx); err != nil {
			log.Warn().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("bucket check failed")
		}
		cancelBucket()
		photos = objectStore
	} else {
		log.Info().Msg("storage endpoint not set, photo uploads disabled")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, cacheClient)
	userService := service.NewUserService(userRepo, cacheClient, photos)
	workoutService := service.NewWorkoutService(workoutRepo, challengeRepo, cacheClient)
	configService := service.NewConfigService(configRepo, cacheClient)
	progressService := service.NewProgressService(progressRepo, workoutRepo)
	adminService := service.NewAdminService(userRepo, workoutRepo, cacheClient)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, log, router.Security{
		JWT:    jwtService,
		Tokens: tokenStore,
		Users:  userRepo,
	}, router.Handlers{
		Health:   handler.NewHealthHandler(gormDB, cfg.Environment),
		Auth:     handler.NewAuthHandler(authService),
		Config:   handler.NewConfigHandler(configService),
		Workouts: handler.NewWorkoutHandler(workoutService),
		Progress: handler.NewProgressHandler(progressService),
		Users:    handler.NewUserHandler(userService),
		Admin:    handler.NewAdminHandler(adminService),
	})

	if host := swaggerHost(cfg.SwaggerHost); host != "" {
		docs.SwaggerInfo.Host = host
	}

	scheduler := jobs.NewScheduler(cfg.Jobs, adminService, configService, log)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("start scheduler")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      e,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Str("swagger", "/swagger/index.html").Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	scheduler.Stop(shutdownCtx)
	if err := cacheClient.Close(); err != nil {
		log.Error().Err(err).Msg("close redis")
	}
	if err := db.Close(gormDB); err != nil {
		log.Error().Err(err).Msg("close database")
	}
	log.Info().Msg("server stopped")
}

// swaggerHost strips the scheme from a configured public URL.
func swaggerHost(raw string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(raw), "https://"), "http://")
	return strings.TrimSuffix(host, "/")
}
