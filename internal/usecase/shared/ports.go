// Package shared declares the collaborators the use cases depend on.
package shared

import (
	"context"
	"time"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/domain/catalog"
	"barber-booking/internal/domain/conversation"
	"barber-booking/internal/domain/vacation"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=../mock/ports_mock.go -package=mock

type CatalogReader interface {
	ListServices(ctx context.Context) ([]catalog.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (catalog.Service, error)
	ListProviders(ctx context.Context) ([]catalog.Provider, error)
	GetProvider(ctx context.Context, id uuid.UUID) (catalog.Provider, error)
}

type BookingStore interface {
	BookingExists(ctx context.Context, providerID uuid.UUID, at civil.DateTime) (bool, error)
	// CreateBooking fails with booking.ErrSlotTaken when the provider is no
	// longer free at the booking's date-time.
	CreateBooking(ctx context.Context, b *booking.Booking) error
	CancelBooking(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	ListBookingsForDate(ctx context.Context, d civil.Date) ([]*booking.Booking, error)
	ListBookingsForUser(ctx context.Context, userID int64, limit, offset int) ([]*booking.Booking, error)
	CountBookingsForUser(ctx context.Context, userID int64) (int, error)
}

type VacationStore interface {
	ListVacations(ctx context.Context, providerID uuid.UUID) ([]vacation.Interval, error)
	ListVacationsOn(ctx context.Context, d civil.Date) ([]vacation.Interval, error)
	CreateVacation(ctx context.Context, iv vacation.Interval) error
}

type SessionStore interface {
	Load(ctx context.Context, userID int64) (*conversation.Session, error)
	Save(ctx context.Context, sess *conversation.Session) error
	Delete(ctx context.Context, userID int64) error
}

type OperatorDirectory interface {
	IsOperator(ctx context.Context, userID int64) bool
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, text string) error
}

// StaticOperators is an OperatorDirectory backed by a fixed id list.
type StaticOperators map[int64]struct{}

func NewStaticOperators(ids []int64) StaticOperators {
	out := make(StaticOperators, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func (s StaticOperators) IsOperator(_ context.Context, userID int64) bool {
	_, ok := s[userID]
	return ok
}
