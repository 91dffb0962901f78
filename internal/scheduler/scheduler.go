package scheduler

import (
	"context"
	"log/slog"
	"time"

	"vialmedia/internal/pkg/config"
	"vialmedia/internal/usecase"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the recurring jobs: the expiry scan and the support status
// sweep. Schedules come from configuration in six-field cron syntax.
type Scheduler struct {
	cron   *cron.Cron
	cfg    config.JobsConfig
	expiry usecase.ExpiryCommands
	status usecase.StatusCommands
}

func New(cfg config.JobsConfig, expiry usecase.ExpiryCommands, status usecase.StatusCommands) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		cfg:    cfg,
		expiry: expiry,
		status: status,
	}
}

func (s *Scheduler) Start() error {
	if err := s.registerJobs(); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("scheduler started",
		"expiry_scan", s.cfg.ExpiryScanSchedule,
		"status_sweep", s.cfg.StatusSweepSchedule)
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) registerJobs() error {
	if _, err := s.cron.AddFunc(s.cfg.ExpiryScanSchedule, s.runExpiryScan); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.StatusSweepSchedule, s.runStatusSweep); err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) runExpiryScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.expiry.Scan(ctx)
	if err != nil {
		slog.Error("expiry scan failed", "error", err)
		return
	}
	slog.Info("expiry scan finished",
		"processed", result.Processed,
		"created", result.Created,
		"duplicates", result.Duplicates,
		"errors", result.Errors)
}

func (s *Scheduler) runStatusSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.status.Sweep(ctx)
	if err != nil {
		slog.Error("support status sweep failed", "error", err)
		return
	}
	slog.Info("support status sweep finished",
		"checked", result.Checked,
		"updated", result.Updated,
		"errors", result.Errors)
}
