//go:build unit

package conversation_test

import (
	"context"
	"sync"
	"time"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/domain/catalog"
	conv "barber-booking/internal/domain/conversation"
	"barber-booking/internal/domain/vacation"
	"barber-booking/internal/infra"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type memCatalog struct {
	mu        sync.Mutex
	services  []catalog.Service
	providers []catalog.Provider
}

func (c *memCatalog) ListServices(context.Context) ([]catalog.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]catalog.Service(nil), c.services...), nil
}

func (c *memCatalog) GetService(_ context.Context, id uuid.UUID) (catalog.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.services {
		if s.ID == id {
			return s, nil
		}
	}
	return catalog.Service{}, infra.WrapRepoErr(infra.KindNotFound, "service not found", nil)
}

func (c *memCatalog) ListProviders(context.Context) ([]catalog.Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]catalog.Provider(nil), c.providers...), nil
}

func (c *memCatalog) GetProvider(_ context.Context, id uuid.UUID) (catalog.Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.providers {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Provider{}, infra.WrapRepoErr(infra.KindNotFound, "provider not found", nil)
}

func (c *memCatalog) removeService(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.services {
		if s.ID == id {
			c.services = append(c.services[:i], c.services[i+1:]...)
			return
		}
	}
}

// memBookings enforces the active (provider, date-time) uniqueness the way
// the database index does.
type memBookings struct {
	mu    sync.Mutex
	items []*booking.Booking
}

func (s *memBookings) BookingExists(_ context.Context, providerID uuid.UUID, at civil.DateTime) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.items {
		if b.Occupies(providerID, at) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memBookings) CreateBooking(_ context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ProviderID() != nil {
		for _, o := range s.items {
			if o.Occupies(*b.ProviderID(), b.At()) {
				return booking.ErrSlotTaken
			}
		}
	}
	s.items = append(s.items, b)
	return nil
}

func (s *memBookings) CancelBooking(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.items {
		if b.ID() == id {
			return b.Cancel(now), nil
		}
	}
	return false, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
}

func (s *memBookings) GetBooking(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.items {
		if b.ID() == id {
			return b, nil
		}
	}
	return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
}

func (s *memBookings) ListBookingsForDate(_ context.Context, d civil.Date) ([]*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*booking.Booking
	for _, b := range s.items {
		if b.IsActive() && b.Date() == d {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memBookings) ListBookingsForUser(_ context.Context, userID int64, limit, offset int) ([]*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*booking.Booking
	for _, b := range s.items {
		if b.OwnedBy(userID) {
			out = append(out, b)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memBookings) CountBookingsForUser(_ context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.items {
		if b.OwnedBy(userID) {
			n++
		}
	}
	return n, nil
}

func (s *memBookings) all() []*booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*booking.Booking(nil), s.items...)
}

type memVacations struct {
	mu    sync.Mutex
	items []vacation.Interval
}

func (s *memVacations) ListVacations(_ context.Context, providerID uuid.UUID) ([]vacation.Interval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []vacation.Interval
	for _, iv := range s.items {
		if iv.ProviderID == providerID {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (s *memVacations) ListVacationsOn(_ context.Context, d civil.Date) ([]vacation.Interval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []vacation.Interval
	for _, iv := range s.items {
		if iv.Contains(d) {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (s *memVacations) CreateVacation(_ context.Context, iv vacation.Interval) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, iv)
	return nil
}

type memSessions struct {
	mu    sync.Mutex
	items map[int64]conv.Session
}

func newMemSessions() *memSessions {
	return &memSessions{items: map[int64]conv.Session{}}
}

func (s *memSessions) Load(_ context.Context, userID int64) (*conv.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[userID]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *memSessions) Save(_ context.Context, sess *conv.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sess.UserID] = *sess
	return nil
}

func (s *memSessions) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
	return nil
}

func (s *memSessions) get(userID int64) (conv.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[userID]
	return sess, ok
}
