package vacation

import (
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var (
	ErrEndBeforeStart = errors.New("vacation end date is before start date")
	ErrInvalidDate    = errors.New("invalid vacation date")
)

// Interval blocks a provider on every day from Start to End inclusive.
type Interval struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	Start      civil.Date
	End        civil.Date
	CreatedAt  time.Time
}

func NewInterval(providerID uuid.UUID, start, end civil.Date) (Interval, error) {
	if !start.IsValid() || !end.IsValid() {
		return Interval{}, ErrInvalidDate
	}
	if end.Before(start) {
		return Interval{}, ErrEndBeforeStart
	}
	return Interval{
		ID:         uuid.New(),
		ProviderID: providerID,
		Start:      start,
		End:        end,
	}, nil
}

func (i Interval) Contains(d civil.Date) bool {
	return !d.Before(i.Start) && !d.After(i.End)
}

// Days is the inclusive length of the interval.
func (i Interval) Days() int {
	return i.End.DaysSince(i.Start) + 1
}

// Blocks reports whether any interval of providerID contains d.
func Blocks(intervals []Interval, providerID uuid.UUID, d civil.Date) bool {
	for _, iv := range intervals {
		if iv.ProviderID == providerID && iv.Contains(d) {
			return true
		}
	}
	return false
}
