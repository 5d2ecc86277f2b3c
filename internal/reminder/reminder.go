// Package reminder sends users a note about their bookings of the day.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/observability/metrics"
	"barber-booking/internal/pkg/clock"
	"barber-booking/internal/pkg/config"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const runTimeout = 5 * time.Minute

type Service struct {
	bookings shared.BookingStore
	catalog  shared.CatalogReader
	notifier shared.Notifier
	clock    clock.Clock
	loc      *time.Location
	metrics  *metrics.ReminderMetrics
	logger   *slog.Logger
}

func NewService(
	bookings shared.BookingStore,
	catalogReader shared.CatalogReader,
	notifier shared.Notifier,
	clk clock.Clock,
	loc *time.Location,
	m *metrics.ReminderMetrics,
	logger *slog.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		bookings: bookings,
		catalog:  catalogReader,
		notifier: notifier,
		clock:    clk,
		loc:      loc,
		metrics:  m,
		logger:   logger,
	}
}

// SendDailyReminders notifies every user with an active booking today, one
// message per user. A failed delivery does not stop the others.
func (s *Service) SendDailyReminders(ctx context.Context) (int, error) {
	today := clock.Today(s.clock, s.loc)
	list, err := s.bookings.ListBookingsForDate(ctx, today)
	if err != nil {
		s.metrics.ObserveRun("failed")
		return 0, errs.Wrap(err, "list bookings for reminders")
	}

	names := map[uuid.UUID]string{}
	if services, err := s.catalog.ListServices(ctx); err == nil {
		for _, svc := range services {
			names[svc.ID] = svc.Name
		}
	} else {
		s.logger.WarnContext(ctx, "reminders sent without service names", "error", err)
	}

	byUser := map[int64][]*booking.Booking{}
	var users []int64
	for _, b := range list {
		if !b.IsActive() {
			continue
		}
		if _, seen := byUser[b.UserID()]; !seen {
			users = append(users, b.UserID())
		}
		byUser[b.UserID()] = append(byUser[b.UserID()], b)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	sent := 0
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			s.metrics.ObserveRun("aborted")
			return sent, err
		}
		text := message(byUser[userID], names)
		if err := s.notifier.Notify(ctx, userID, text); err != nil {
			s.metrics.ObserveSent("failed")
			s.logger.WarnContext(ctx, "failed to send reminder", "user_id", userID, "error", err)
			continue
		}
		s.metrics.ObserveSent("sent")
		sent++
	}

	s.metrics.ObserveRun("ok")
	s.logger.InfoContext(ctx, "daily reminders sent", "date", today.String(), "users", len(users), "sent", sent)
	return sent, nil
}

func message(list []*booking.Booking, names map[uuid.UUID]string) string {
	sort.Slice(list, func(i, j int) bool { return list[i].At().Before(list[j].At()) })
	text := "Reminder: you have a booking today."
	if len(list) > 1 {
		text = "Reminder: you have bookings today."
	}
	for _, b := range list {
		t := b.At().Time
		name := names[b.ServiceID()]
		if name == "" {
			text += fmt.Sprintf("\n%02d:%02d", t.Hour, t.Minute)
			continue
		}
		text += fmt.Sprintf("\n%02d:%02d %s", t.Hour, t.Minute, name)
	}
	return text
}

// Scheduler runs SendDailyReminders on a cron spec in the business time zone.
type Scheduler struct {
	cron   *cron.Cron
	svc    *Service
	logger *slog.Logger
}

func NewScheduler(cfg config.ReminderConfig, loc *time.Location, svc *Service, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		svc:    svc,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(cfg.Spec, s.run); err != nil {
		return nil, errs.Wrapf(err, "invalid reminder schedule %q", cfg.Spec)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if _, err := s.svc.SendDailyReminders(ctx); err != nil {
		s.logger.Error("daily reminders failed", "error", err)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("reminder scheduler started", "entries", len(s.cron.Entries()))
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports when the job fires next.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
