package conversation

import (
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type EventKind string

const (
	KindStart          EventKind = "start"
	KindServiceChosen  EventKind = "service_chosen"
	KindMonthShown     EventKind = "month_shown"
	KindDateChosen     EventKind = "date_chosen"
	KindTimeChosen     EventKind = "time_chosen"
	KindProviderChosen EventKind = "provider_chosen"
	KindConfirmed      EventKind = "confirmed"
	KindDiscarded      EventKind = "discarded"
	KindCancelled      EventKind = "cancelled"
	KindBack           EventKind = "back"
)

// Event is a decoded user input. Transports build events; nothing past them
// looks at raw strings.
type Event interface {
	Kind() EventKind
}

type Start struct{ Flow Flow }

type ServiceChosen struct{ ServiceID uuid.UUID }

// MonthShown asks for the calendar around Reference.
type MonthShown struct{ Reference civil.Date }

type DateChosen struct{ Date civil.Date }

type TimeChosen struct{ Time civil.Time }

// ProviderChosen with a nil ProviderID selects any provider.
type ProviderChosen struct{ ProviderID *uuid.UUID }

type Confirmed struct{}

type Discarded struct{}

type Cancelled struct{}

type Back struct{}

func (Start) Kind() EventKind          { return KindStart }
func (ServiceChosen) Kind() EventKind  { return KindServiceChosen }
func (MonthShown) Kind() EventKind     { return KindMonthShown }
func (DateChosen) Kind() EventKind     { return KindDateChosen }
func (TimeChosen) Kind() EventKind     { return KindTimeChosen }
func (ProviderChosen) Kind() EventKind { return KindProviderChosen }
func (Confirmed) Kind() EventKind      { return KindConfirmed }
func (Discarded) Kind() EventKind      { return KindDiscarded }
func (Cancelled) Kind() EventKind      { return KindCancelled }
func (Back) Kind() EventKind           { return KindBack }
