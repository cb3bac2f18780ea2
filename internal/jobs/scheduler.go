package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"kelfit/internal/config"
	"kelfit/internal/service"
)

const jobTimeout = 30 * time.Second

// Scheduler runs the periodic cache refresh jobs.
type Scheduler struct {
	cron    *cron.Cron
	cfg     config.JobsConfig
	admin   service.AdminService
	configs service.ConfigService
	log     zerolog.Logger
}

func NewScheduler(cfg config.JobsConfig, admin service.AdminService, configs service.ConfigService, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:    c,
		cfg:     cfg,
		admin:   admin,
		configs: configs,
		log:     log,
	}
}

// Start registers the jobs and starts the cron loop. An empty spec disables
// that job.
func (s *Scheduler) Start() error {
	if s.cfg.StatsSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.StatsSpec, s.refreshStats); err != nil {
			return err
		}
	}
	if s.cfg.ConfigSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.ConfigSpec, s.warmConfig); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) refreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	stats, err := s.admin.RefreshStats(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("refresh stats failed")
		return
	}
	s.log.Debug().Int64("users", stats.Users).Int64("workouts", stats.Workouts).Msg("stats refreshed")
}

func (s *Scheduler) warmConfig() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.configs.Warm(ctx); err != nil {
		s.log.Error().Err(err).Msg("warm config failed")
	}
}
