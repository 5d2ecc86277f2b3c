package conversation

import (
	"fmt"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/domain/calendar"
	conv "barber-booking/internal/domain/conversation"
	"barber-booking/internal/domain/vacation"

	"cloud.google.com/go/civil"
)

type Outcome string

const (
	OutcomeNone          Outcome = ""
	OutcomeBooked        Outcome = "booked"
	OutcomeVacationSaved Outcome = "vacation_saved"
	OutcomeDiscarded     Outcome = "discarded"
	OutcomeCancelled     Outcome = "cancelled"
	OutcomeRejected      Outcome = "rejected"
	OutcomeFailed        Outcome = "failed"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Fields named by notices.
const (
	FieldService   = "service"
	FieldDate      = "date"
	FieldTime      = "time"
	FieldProvider  = "provider"
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
	FieldSession   = "session"
	FieldInput     = "input"
)

// Notice tells the user why an input was not accepted, or what happened.
type Notice struct {
	Level NoticeLevel
	Field string
	Text  string
}

// Option is one choice at the current step. Picking it sends Event.
type Option struct {
	Label string
	Event conv.Event
}

type Summary struct {
	ServiceName   string
	Price         int64
	Date          *civil.Date
	Time          *civil.Time
	ProviderName  string
	AnyProvider   bool
	VacationStart *civil.Date
	VacationEnd   *civil.Date
}

// Reply is everything a transport needs to render one step.
type Reply struct {
	Flow      conv.Flow
	State     conv.State
	Text      string
	Notice    *Notice
	Options   []Option
	Calendar  *calendar.Grid
	Summary   *Summary
	CanGoBack bool
	CanCancel bool
	Outcome   Outcome
	Booking   *booking.Booking
	Vacation  *vacation.Interval
}

func (r *Reply) withNotice(level NoticeLevel, field, text string) *Reply {
	r.Notice = &Notice{Level: level, Field: field, Text: text}
	return r
}

// FormatTime renders a slot as HH:MM.
func FormatTime(t civil.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func summaryOf(sel conv.Selection) *Summary {
	return &Summary{
		ServiceName:   sel.ServiceName,
		Price:         sel.ServicePrice,
		Date:          sel.Date,
		Time:          sel.Time,
		ProviderName:  sel.ProviderName,
		AnyProvider:   sel.ProviderID == nil,
		VacationStart: sel.VacationStart,
		VacationEnd:   sel.VacationEnd,
	}
}
