package booking

import (
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var (
	ErrSlotTaken     = errors.New("slot is no longer available")
	ErrNotFound      = errors.New("booking not found")
	ErrInvalidSlot   = errors.New("invalid booking date-time")
	ErrInvalidUser   = errors.New("invalid user id")
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Booking reserves a slot at a civil date-time in the business time zone.
// A nil provider means any provider.
type Booking struct {
	id         uuid.UUID
	userID     int64
	serviceID  uuid.UUID
	providerID *uuid.UUID
	at         civil.DateTime
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
}

func NewBooking(userID int64, serviceID uuid.UUID, providerID *uuid.UUID, at civil.DateTime) (*Booking, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}
	if !at.IsValid() {
		return nil, ErrInvalidSlot
	}
	return &Booking{
		id:         uuid.New(),
		userID:     userID,
		serviceID:  serviceID,
		providerID: providerID,
		at:         at,
		status:     StatusActive,
	}, nil
}

func ReconstructBooking(
	id uuid.UUID,
	userID int64,
	serviceID uuid.UUID,
	providerID *uuid.UUID,
	at civil.DateTime,
	status Status,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		userID:     userID,
		serviceID:  serviceID,
		providerID: providerID,
		at:         at,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Cancel moves the booking to cancelled. It reports false when the booking
// was already cancelled.
func (b *Booking) Cancel(now time.Time) bool {
	if b.status == StatusCancelled {
		return false
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return true
}

func (b *Booking) IsActive() bool {
	return b.status == StatusActive
}

// Occupies reports whether the booking holds providerID at exactly at.
func (b *Booking) Occupies(providerID uuid.UUID, at civil.DateTime) bool {
	return b.IsActive() && b.providerID != nil && *b.providerID == providerID && b.at == at
}

func (b *Booking) OwnedBy(userID int64) bool {
	return b.userID == userID
}

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) UserID() int64          { return b.userID }
func (b *Booking) ServiceID() uuid.UUID   { return b.serviceID }
func (b *Booking) ProviderID() *uuid.UUID { return b.providerID }
func (b *Booking) At() civil.DateTime     { return b.at }
func (b *Booking) Date() civil.Date       { return b.at.Date }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time   { return b.updatedAt }
