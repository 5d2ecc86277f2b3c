package request

import (
	"fmt"
	"time"

	conv "barber-booking/internal/domain/conversation"
	"barber-booking/internal/pkg/errs"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

const timeLayout = "15:04"

// FieldError reports which request field could not be turned into an event.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

var errRequired = errs.New("is required")

// ConversationEventRequest is the JSON form of a conversation event. The same
// shape is returned in reply options so clients can post a choice back as is.
type ConversationEventRequest struct {
	Type       string     `json:"type" binding:"required,oneof=start service_chosen month_shown date_chosen time_chosen provider_chosen confirmed discarded cancelled back"`
	Flow       string     `json:"flow,omitempty"`
	ServiceID  *uuid.UUID `json:"serviceId,omitempty"`
	ProviderID *uuid.UUID `json:"providerId,omitempty"`
	Date       string     `json:"date,omitempty"`
	Time       string     `json:"time,omitempty"`
}

func (r ConversationEventRequest) ToEvent() (conv.Event, error) {
	switch conv.EventKind(r.Type) {
	case conv.KindStart:
		switch conv.Flow(r.Flow) {
		case conv.FlowBooking, conv.FlowVacation:
			return conv.Start{Flow: conv.Flow(r.Flow)}, nil
		case "":
			return conv.Start{Flow: conv.FlowBooking}, nil
		}
		return nil, &FieldError{Field: "flow", Err: fmt.Errorf("unknown flow %q", r.Flow)}
	case conv.KindServiceChosen:
		if r.ServiceID == nil {
			return nil, &FieldError{Field: "serviceId", Err: errRequired}
		}
		return conv.ServiceChosen{ServiceID: *r.ServiceID}, nil
	case conv.KindMonthShown:
		d, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		return conv.MonthShown{Reference: d}, nil
	case conv.KindDateChosen:
		d, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		return conv.DateChosen{Date: d}, nil
	case conv.KindTimeChosen:
		if r.Time == "" {
			return nil, &FieldError{Field: "time", Err: errRequired}
		}
		t, err := time.Parse(timeLayout, r.Time)
		if err != nil {
			return nil, &FieldError{Field: "time", Err: err}
		}
		return conv.TimeChosen{Time: civil.TimeOf(t)}, nil
	case conv.KindProviderChosen:
		return conv.ProviderChosen{ProviderID: r.ProviderID}, nil
	case conv.KindConfirmed:
		return conv.Confirmed{}, nil
	case conv.KindDiscarded:
		return conv.Discarded{}, nil
	case conv.KindCancelled:
		return conv.Cancelled{}, nil
	case conv.KindBack:
		return conv.Back{}, nil
	}
	return nil, &FieldError{Field: "type", Err: fmt.Errorf("unknown event type %q", r.Type)}
}

// EventRequestFrom is the inverse of ToEvent.
func EventRequestFrom(ev conv.Event) ConversationEventRequest {
	out := ConversationEventRequest{Type: string(ev.Kind())}
	switch e := ev.(type) {
	case conv.Start:
		out.Flow = string(e.Flow)
	case conv.ServiceChosen:
		id := e.ServiceID
		out.ServiceID = &id
	case conv.MonthShown:
		out.Date = e.Reference.String()
	case conv.DateChosen:
		out.Date = e.Date.String()
	case conv.TimeChosen:
		out.Time = fmt.Sprintf("%02d:%02d", e.Time.Hour, e.Time.Minute)
	case conv.ProviderChosen:
		out.ProviderID = e.ProviderID
	}
	return out
}

func parseDate(s string) (civil.Date, error) {
	if s == "" {
		return civil.Date{}, &FieldError{Field: "date", Err: errRequired}
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, &FieldError{Field: "date", Err: err}
	}
	return d, nil
}
