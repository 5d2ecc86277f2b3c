// Package availability decides which providers can take a slot.
package availability

import (
	"barber-booking/internal/domain/booking"
	"barber-booking/internal/domain/catalog"
	"barber-booking/internal/domain/vacation"

	"cloud.google.com/go/civil"
)

// FreeProviders returns the candidates with no active booking at exactly at
// and no vacation covering at's date. Input order is kept.
func FreeProviders(
	at civil.DateTime,
	candidates []catalog.Provider,
	bookings []*booking.Booking,
	vacations []vacation.Interval,
) []catalog.Provider {
	free := make([]catalog.Provider, 0, len(candidates))
	for _, p := range candidates {
		if vacation.Blocks(vacations, p.ID, at.Date) {
			continue
		}
		if occupied(bookings, p, at) {
			continue
		}
		free = append(free, p)
	}
	return free
}

func occupied(bookings []*booking.Booking, p catalog.Provider, at civil.DateTime) bool {
	for _, b := range bookings {
		if b.Occupies(p.ID, at) {
			return true
		}
	}
	return false
}
