package usecase

import (
	"context"

	"barber-booking/internal/domain/availability"
	"barber-booking/internal/domain/catalog"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/usecase/shared"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var ErrAvailabilityUnavailable = errs.New("availability could not be resolved")

// Availability is the provider picture for one service at one instant.
type Availability struct {
	// ProvidersExist is false when no provider is registered at all, in which
	// case bookings go to any provider without a provider step.
	ProvidersExist bool
	Candidates     []catalog.Provider
	Free           []catalog.Provider
}

func (a Availability) IsFree(providerID uuid.UUID) (catalog.Provider, bool) {
	for _, p := range a.Free {
		if p.ID == providerID {
			return p, true
		}
	}
	return catalog.Provider{}, false
}

type AvailabilityResolver interface {
	Resolve(ctx context.Context, serviceID uuid.UUID, at civil.DateTime) (Availability, error)
}

type availabilityResolverImpl struct {
	catalog   shared.CatalogReader
	bookings  shared.BookingStore
	vacations shared.VacationStore
}

func NewAvailabilityResolver(
	catalogReader shared.CatalogReader,
	bookings shared.BookingStore,
	vacations shared.VacationStore,
) AvailabilityResolver {
	return &availabilityResolverImpl{
		catalog:   catalogReader,
		bookings:  bookings,
		vacations: vacations,
	}
}

func (r *availabilityResolverImpl) Resolve(ctx context.Context, serviceID uuid.UUID, at civil.DateTime) (Availability, error) {
	providers, err := r.catalog.ListProviders(ctx)
	if err != nil {
		return Availability{}, errs.Mark(err, ErrAvailabilityUnavailable)
	}
	if len(providers) == 0 {
		return Availability{}, nil
	}

	candidates := catalog.Candidates(serviceID, providers)
	if len(candidates) == 0 {
		return Availability{ProvidersExist: true}, nil
	}

	bookings, err := r.bookings.ListBookingsForDate(ctx, at.Date)
	if err != nil {
		return Availability{}, errs.Mark(err, ErrAvailabilityUnavailable)
	}
	vacations, err := r.vacations.ListVacationsOn(ctx, at.Date)
	if err != nil {
		return Availability{}, errs.Mark(err, ErrAvailabilityUnavailable)
	}

	return Availability{
		ProvidersExist: true,
		Candidates:     candidates,
		Free:           availability.FreeProviders(at, candidates, bookings, vacations),
	}, nil
}
