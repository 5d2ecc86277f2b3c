package commands

import (
	"context"
	"fmt"
	"log/slog"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/infra"
	"barber-booking/internal/pkg/clock"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../mock/commands_mock.go -package=mock

var (
	ErrBookingNotFound         = errs.New("booking not found")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type CancelResult string

const (
	CancelResultCancelled        CancelResult = "cancelled"
	CancelResultAlreadyCancelled CancelResult = "already_cancelled"
)

type BookingCommands interface {
	// CancelOwnBooking cancels a booking of userID. Bookings of other users
	// are reported as ErrBookingNotFound.
	CancelOwnBooking(ctx context.Context, userID int64, bookingID uuid.UUID) (CancelResult, error)
	// CancelBooking cancels any booking and tells its owner.
	CancelBooking(ctx context.Context, bookingID uuid.UUID) (CancelResult, error)
}

type bookingCommandsImpl struct {
	bookings shared.BookingStore
	notifier shared.Notifier
	clock    clock.Clock
	logger   *slog.Logger
}

func NewBookingCommands(bookings shared.BookingStore, notifier shared.Notifier, clk clock.Clock, logger *slog.Logger) BookingCommands {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookingCommandsImpl{
		bookings: bookings,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

func (c *bookingCommandsImpl) CancelOwnBooking(ctx context.Context, userID int64, bookingID uuid.UUID) (CancelResult, error) {
	b, err := c.load(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if !b.OwnedBy(userID) {
		return "", ErrBookingNotFound
	}
	return c.cancel(ctx, b)
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID) (CancelResult, error) {
	b, err := c.load(ctx, bookingID)
	if err != nil {
		return "", err
	}
	res, err := c.cancel(ctx, b)
	if err != nil || res != CancelResultCancelled || c.notifier == nil {
		return res, err
	}

	text := fmt.Sprintf("Your booking on %s at %02d:%02d was cancelled by the barbershop.",
		b.Date(), b.At().Time.Hour, b.At().Time.Minute)
	if err := c.notifier.Notify(ctx, b.UserID(), text); err != nil {
		c.logger.WarnContext(ctx, "failed to notify user about cancellation",
			"booking_id", b.ID(),
			"user_id", b.UserID(),
			"error", err)
	}
	return res, nil
}

func (c *bookingCommandsImpl) load(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := c.bookings.GetBooking(ctx, id)
	if infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrBookingNotFound)
	}
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return b, nil
}

func (c *bookingCommandsImpl) cancel(ctx context.Context, b *booking.Booking) (CancelResult, error) {
	if !b.IsActive() {
		return CancelResultAlreadyCancelled, nil
	}
	changed, err := c.bookings.CancelBooking(ctx, b.ID(), c.clock.Now())
	if infra.IsKind(err, infra.KindNotFound) {
		return "", errs.Mark(err, ErrBookingNotFound)
	}
	if err != nil {
		return "", errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !changed {
		return CancelResultAlreadyCancelled, nil
	}
	c.logger.InfoContext(ctx, "booking cancelled", "booking_id", b.ID(), "user_id", b.UserID())
	return CancelResultCancelled, nil
}
