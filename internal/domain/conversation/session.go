package conversation

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Selection is what the user has picked so far.
type Selection struct {
	ServiceID           *uuid.UUID  `json:"service_id,omitempty"`
	ServiceName         string      `json:"service_name,omitempty"`
	ServicePrice        int64       `json:"service_price,omitempty"`
	Date                *civil.Date `json:"date,omitempty"`
	Time                *civil.Time `json:"time,omitempty"`
	ProviderID          *uuid.UUID  `json:"provider_id,omitempty"`
	ProviderName        string      `json:"provider_name,omitempty"`
	ProviderStepSkipped bool        `json:"provider_step_skipped,omitempty"`
	CalendarMonth       *civil.Date `json:"calendar_month,omitempty"`
	VacationStart       *civil.Date `json:"vacation_start,omitempty"`
	VacationEnd         *civil.Date `json:"vacation_end,omitempty"`
}

// Session is the per-user conversation. There is at most one per user.
type Session struct {
	UserID    int64     `json:"user_id"`
	Flow      Flow      `json:"flow"`
	State     State     `json:"state"`
	Selection Selection `json:"selection"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(userID int64, flow Flow, now time.Time) *Session {
	return &Session{
		UserID:    userID,
		Flow:      flow,
		State:     InitialState(flow),
		UpdatedAt: now,
	}
}

// Move advances the session along an edge of the transition table.
func (s *Session) Move(kind EventKind, to State, now time.Time) error {
	if !CanMove(s.State, kind, to) {
		return ErrInvalidTransition
	}
	s.State = to
	s.UpdatedAt = now
	return nil
}

func (s *Session) Done() bool {
	return s.State == StateIdle
}

// ResetFrom clears the fields collected at state and every later step, so
// that re-entering state keeps only upstream choices.
func (sel *Selection) ResetFrom(state State) {
	switch state {
	case StateChoosingService:
		sel.ServiceID = nil
		sel.ServiceName = ""
		sel.ServicePrice = 0
		fallthrough
	case StateChoosingDate:
		sel.Date = nil
		sel.CalendarMonth = nil
		fallthrough
	case StateChoosingTime:
		sel.Time = nil
		fallthrough
	case StateChoosingProvider:
		sel.ProviderID = nil
		sel.ProviderName = ""
		sel.ProviderStepSkipped = false

	case StateVacationProvider:
		sel.ProviderID = nil
		sel.ProviderName = ""
		fallthrough
	case StateChoosingStartDate:
		sel.VacationStart = nil
		sel.CalendarMonth = nil
		fallthrough
	case StateChoosingEndDate:
		sel.VacationEnd = nil
	}
}

// DateTime joins the chosen date and time. ok is false until both are set.
func (sel Selection) DateTime() (civil.DateTime, bool) {
	if sel.Date == nil || sel.Time == nil {
		return civil.DateTime{}, false
	}
	return civil.DateTime{Date: *sel.Date, Time: *sel.Time}, true
}
