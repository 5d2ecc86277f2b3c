package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrNameTooLong     = errors.New("name is too long (max 255 characters)")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrInvalidDuration = errors.New("duration must be positive")
)

const MaxNameLength = 255

// Service is a bookable offering. Price is in minor currency units.
type Service struct {
	ID          uuid.UUID
	Name        string
	Price       int64
	DurationMin int
	Description string
}

func NewService(id uuid.UUID, name string, price int64, durationMin int, description string) (Service, error) {
	if err := validateName(name); err != nil {
		return Service{}, err
	}
	if price < 0 {
		return Service{}, ErrNegativePrice
	}
	if durationMin <= 0 {
		return Service{}, ErrInvalidDuration
	}
	return Service{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Price:       price,
		DurationMin: durationMin,
		Description: description,
	}, nil
}

// Provider performs services. An empty ServiceIDs set means the provider
// takes any service.
type Provider struct {
	ID          uuid.UUID
	Name        string
	Description string
	ServiceIDs  []uuid.UUID
}

func NewProvider(id uuid.UUID, name, description string, serviceIDs []uuid.UUID) (Provider, error) {
	if err := validateName(name); err != nil {
		return Provider{}, err
	}
	return Provider{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: description,
		ServiceIDs:  serviceIDs,
	}, nil
}

func (p Provider) CanPerform(serviceID uuid.UUID) bool {
	if len(p.ServiceIDs) == 0 {
		return true
	}
	for _, id := range p.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// Candidates keeps the providers able to perform serviceID, preserving order.
func Candidates(serviceID uuid.UUID, providers []Provider) []Provider {
	out := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.CanPerform(serviceID) {
			out = append(out, p)
		}
	}
	return out
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// FormatPrice renders an amount in minor units with two decimals.
func FormatPrice(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
