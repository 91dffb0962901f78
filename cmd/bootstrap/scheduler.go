package bootstrap

import (
	"context"
	"log/slog"

	"vialmedia/internal/pkg/config"
	"vialmedia/internal/scheduler"
	"vialmedia/internal/usecase"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewScheduler,
	),
	fx.Invoke(
		registerScheduler,
	),
)

func NewScheduler(cfg config.Config, expiry usecase.ExpiryCommands, status usecase.StatusCommands) *scheduler.Scheduler {
	return scheduler.New(cfg.Jobs, expiry, status)
}

func registerScheduler(lc fx.Lifecycle, cfg config.Config, s *scheduler.Scheduler) {
	if !cfg.Jobs.SchedulerEnabled {
		slog.Info("scheduler disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return s.Start()
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
}
