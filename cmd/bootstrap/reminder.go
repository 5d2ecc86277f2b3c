package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"barber-booking/internal/observability/metrics"
	"barber-booking/internal/pkg/clock"
	"barber-booking/internal/pkg/config"
	"barber-booking/internal/reminder"
	"barber-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var ReminderModule = fx.Module("reminder",
	fx.Provide(
		NewReminderService,
	),
	fx.Invoke(StartReminders),
)

func NewReminderService(
	bookings shared.BookingStore,
	catalogReader shared.CatalogReader,
	notifier shared.Notifier,
	clk clock.Clock,
	loc *time.Location,
	m *metrics.ReminderMetrics,
	logger *slog.Logger,
) *reminder.Service {
	return reminder.NewService(bookings, catalogReader, notifier, clk, loc, m, logger)
}

func StartReminders(lc fx.Lifecycle, cfg config.Config, loc *time.Location, svc *reminder.Service, logger *slog.Logger) error {
	if !cfg.Reminder.Enabled {
		logger.Info("Daily reminders disabled")
		return nil
	}
	scheduler, err := reminder.NewScheduler(cfg.Reminder, loc, svc, logger)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			scheduler.Start()
			logger.Info("Daily reminders scheduled", "spec", cfg.Reminder.Spec, "next", scheduler.Next())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		},
	})
	return nil
}
