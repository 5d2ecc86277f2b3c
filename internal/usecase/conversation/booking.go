package conversation

import (
	"context"
	"fmt"
	"time"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/domain/calendar"
	"barber-booking/internal/domain/catalog"
	conv "barber-booking/internal/domain/conversation"
	"barber-booking/internal/infra"
	"barber-booking/internal/observability/metrics"
	"barber-booking/internal/pkg/clock"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/usecase"
	"barber-booking/internal/usecase/shared"

	"cloud.google.com/go/civil"
)

// Settings carries the business calendar the conversations run on.
type Settings struct {
	Location *time.Location
	Slots    []civil.Time
}

// BookingConversation walks a user from service choice to a committed booking.
type BookingConversation struct {
	catalog  shared.CatalogReader
	bookings shared.BookingStore
	resolver usecase.AvailabilityResolver
	clock    clock.Clock
	settings Settings
	metrics  *metrics.ConversationMetrics
}

func NewBookingConversation(
	catalogReader shared.CatalogReader,
	bookings shared.BookingStore,
	resolver usecase.AvailabilityResolver,
	clk clock.Clock,
	settings Settings,
	m *metrics.ConversationMetrics,
) *BookingConversation {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &BookingConversation{
		catalog:  catalogReader,
		bookings: bookings,
		resolver: resolver,
		clock:    clk,
		settings: settings,
		metrics:  m,
	}
}

func (c *BookingConversation) start(ctx context.Context, userID int64) (*Reply, *conv.Session, error) {
	services, err := c.catalog.ListServices(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(services) == 0 {
		r := &Reply{Flow: conv.FlowBooking, State: conv.StateIdle, Outcome: OutcomeRejected}
		return r.withNotice(NoticeInfo, FieldService, "No services are available right now."), nil, nil
	}

	sess := conv.NewSession(userID, conv.FlowBooking, c.clock.Now())
	r := c.base(sess)
	c.serviceOptions(r, services)
	return r, sess, nil
}

func (c *BookingConversation) handle(ctx context.Context, sess *conv.Session, ev conv.Event) (*Reply, error) {
	switch e := ev.(type) {
	case conv.ServiceChosen:
		return c.chooseService(ctx, sess, e)
	case conv.MonthShown:
		return c.showMonth(ctx, sess, e)
	case conv.DateChosen:
		return c.chooseDate(ctx, sess, e)
	case conv.TimeChosen:
		return c.chooseTime(ctx, sess, e)
	case conv.ProviderChosen:
		return c.chooseProvider(ctx, sess, e)
	case conv.Confirmed:
		return c.commit(ctx, sess)
	case conv.Discarded:
		if err := sess.Move(conv.KindDiscarded, conv.StateIdle, c.clock.Now()); err != nil {
			return nil, err
		}
		r := c.base(sess)
		r.Text = "Booking discarded. Nothing was saved."
		r.Outcome = OutcomeDiscarded
		return r, nil
	case conv.Back:
		return c.back(ctx, sess)
	}
	return nil, conv.ErrInvalidTransition
}

func (c *BookingConversation) chooseService(ctx context.Context, sess *conv.Session, e conv.ServiceChosen) (*Reply, error) {
	svc, err := c.catalog.GetService(ctx, e.ServiceID)
	if infra.IsKind(err, infra.KindNotFound) {
		return c.reject(ctx, sess, FieldService, "This service is not offered. Choose one from the list.")
	}
	if err != nil {
		return nil, err
	}

	sel := &sess.Selection
	sel.ServiceID = &svc.ID
	sel.ServiceName = svc.Name
	sel.ServicePrice = svc.Price
	if err := sess.Move(conv.KindServiceChosen, conv.StateChoosingDate, c.clock.Now()); err != nil {
		return nil, err
	}
	return c.prompt(ctx, sess)
}

func (c *BookingConversation) showMonth(ctx context.Context, sess *conv.Session, e conv.MonthShown) (*Reply, error) {
	if !e.Reference.IsValid() {
		return c.reject(ctx, sess, FieldDate, "Unknown month.")
	}
	ref := e.Reference
	sess.Selection.CalendarMonth = &ref
	if err := sess.Move(conv.KindMonthShown, sess.State, c.clock.Now()); err != nil {
		return nil, err
	}
	return c.prompt(ctx, sess)
}

func (c *BookingConversation) chooseDate(ctx context.Context, sess *conv.Session, e conv.DateChosen) (*Reply, error) {
	today := clock.Today(c.clock, c.settings.Location)
	if !e.Date.IsValid() || !calendar.Selectable(e.Date, today, calendar.Bounds{}) {
		return c.reject(ctx, sess, FieldDate, "This date is in the past. Choose another date.")
	}

	d := e.Date
	sess.Selection.Date = &d
	sess.Selection.CalendarMonth = &d
	if err := sess.Move(conv.KindDateChosen, conv.StateChoosingTime, c.clock.Now()); err != nil {
		return nil, err
	}
	return c.prompt(ctx, sess)
}

func (c *BookingConversation) chooseTime(ctx context.Context, sess *conv.Session, e conv.TimeChosen) (*Reply, error) {
	sel := &sess.Selection
	if !containsTime(c.offeredSlots(*sel.Date), e.Time) {
		return c.reject(ctx, sess, FieldTime, "This time is not available. Choose one of the offered times.")
	}

	t := e.Time
	sel.Time = &t
	at, _ := sel.DateTime()
	avail, err := c.resolver.Resolve(ctx, *sel.ServiceID, at)
	if err != nil {
		return nil, err
	}

	if !avail.ProvidersExist {
		sel.ProviderID = nil
		sel.ProviderName = ""
		sel.ProviderStepSkipped = true
		if err := sess.Move(conv.KindTimeChosen, conv.StateConfirmingBooking, c.clock.Now()); err != nil {
			return nil, err
		}
		return c.prompt(ctx, sess)
	}

	if err := sess.Move(conv.KindTimeChosen, conv.StateChoosingProvider, c.clock.Now()); err != nil {
		return nil, err
	}
	r := c.base(sess)
	c.providerOptions(r, avail)
	return r, nil
}

func (c *BookingConversation) chooseProvider(ctx context.Context, sess *conv.Session, e conv.ProviderChosen) (*Reply, error) {
	sel := &sess.Selection
	if e.ProviderID == nil {
		sel.ProviderID = nil
		sel.ProviderName = ""
		if err := sess.Move(conv.KindProviderChosen, conv.StateConfirmingBooking, c.clock.Now()); err != nil {
			return nil, err
		}
		return c.prompt(ctx, sess)
	}

	at, _ := sel.DateTime()
	avail, err := c.resolver.Resolve(ctx, *sel.ServiceID, at)
	if err != nil {
		return nil, err
	}
	p, ok := avail.IsFree(*e.ProviderID)
	if !ok {
		r := c.base(sess)
		c.providerOptions(r, avail)
		return r.withNotice(NoticeWarning, FieldProvider, "This barber is not available at the chosen time."), nil
	}

	sel.ProviderID = &p.ID
	sel.ProviderName = p.Name
	if err := sess.Move(conv.KindProviderChosen, conv.StateConfirmingBooking, c.clock.Now()); err != nil {
		return nil, err
	}
	return c.prompt(ctx, sess)
}

// commit writes the booking if the slot is still free. A concrete provider is
// re-resolved first, so bookings and vacations saved since the provider step
// both count. Nothing is written on any rejection path.
func (c *BookingConversation) commit(ctx context.Context, sess *conv.Session) (*Reply, error) {
	sel := &sess.Selection
	at, ok := sel.DateTime()
	if !ok || sel.ServiceID == nil {
		return c.restart(ctx, sess, "Your selection is incomplete. Let's start over.")
	}

	svc, err := c.catalog.GetService(ctx, *sel.ServiceID)
	if infra.IsKind(err, infra.KindNotFound) {
		return c.restart(ctx, sess, "This service is no longer offered. Please choose again.")
	}
	if err != nil {
		return nil, err
	}

	if !at.After(clock.Local(c.clock, c.settings.Location)) {
		sel.ResetFrom(conv.StateChoosingTime)
		if err := sess.Move(conv.KindConfirmed, conv.StateChoosingTime, c.clock.Now()); err != nil {
			return nil, err
		}
		r, err := c.prompt(ctx, sess)
		if err != nil {
			return nil, err
		}
		return r.withNotice(NoticeWarning, FieldTime, "This time has already passed. Choose another time."), nil
	}

	if pid := sel.ProviderID; pid != nil {
		avail, err := c.resolver.Resolve(ctx, svc.ID, at)
		if err != nil {
			return nil, err
		}
		if _, free := avail.IsFree(*pid); !free {
			c.metrics.ObserveCommit("conflict")
			return c.conflict(ctx, sess)
		}
	}

	b, err := booking.NewBooking(sess.UserID, svc.ID, sel.ProviderID, at)
	if err != nil {
		return nil, err
	}

	err = c.bookings.CreateBooking(ctx, b)
	switch {
	case errs.Is(err, booking.ErrSlotTaken):
		c.metrics.ObserveCommit("conflict")
		return c.conflict(ctx, sess)
	case infra.IsKind(err, infra.KindForeignKeyViolated):
		c.metrics.ObserveCommit("stale")
		return c.restart(ctx, sess, "Your selection is no longer valid. Please choose again.")
	case err != nil:
		c.metrics.ObserveCommit("failed")
		return nil, err
	}
	c.metrics.ObserveCommit("created")

	summary := summaryOf(*sel)
	summary.ServiceName = svc.Name
	summary.Price = svc.Price
	if err := sess.Move(conv.KindConfirmed, conv.StateIdle, c.clock.Now()); err != nil {
		return nil, err
	}
	r := c.base(sess)
	r.Text = "Your booking is confirmed."
	r.Outcome = OutcomeBooked
	r.Booking = b
	r.Summary = summary
	return r, nil
}

func (c *BookingConversation) conflict(ctx context.Context, sess *conv.Session) (*Reply, error) {
	to, field := conv.StateChoosingProvider, FieldProvider
	if sess.Selection.ProviderStepSkipped {
		to, field = conv.StateChoosingTime, FieldTime
	}
	sess.Selection.ResetFrom(to)
	if err := sess.Move(conv.KindConfirmed, to, c.clock.Now()); err != nil {
		return nil, err
	}
	r, err := c.prompt(ctx, sess)
	if err != nil {
		return nil, err
	}
	return r.withNotice(NoticeWarning, field, "Sorry, this slot is no longer available. Please choose again."), nil
}

func (c *BookingConversation) restart(ctx context.Context, sess *conv.Session, text string) (*Reply, error) {
	sess.Selection.ResetFrom(conv.StateChoosingService)
	if err := sess.Move(conv.KindConfirmed, conv.StateChoosingService, c.clock.Now()); err != nil {
		return nil, err
	}
	r, err := c.prompt(ctx, sess)
	if err != nil {
		return nil, err
	}
	return r.withNotice(NoticeWarning, FieldService, text), nil
}

func (c *BookingConversation) back(ctx context.Context, sess *conv.Session) (*Reply, error) {
	var to conv.State
	switch sess.State {
	case conv.StateChoosingDate:
		to = conv.StateChoosingService
	case conv.StateChoosingTime:
		to = conv.StateChoosingDate
	case conv.StateChoosingProvider:
		to = conv.StateChoosingTime
	case conv.StateConfirmingBooking:
		to = conv.StateChoosingProvider
		if sess.Selection.ProviderStepSkipped {
			to = conv.StateChoosingTime
		}
	default:
		return nil, conv.ErrInvalidTransition
	}
	if err := sess.Move(conv.KindBack, to, c.clock.Now()); err != nil {
		return nil, err
	}
	sess.Selection.ResetFrom(to)
	return c.prompt(ctx, sess)
}

func (c *BookingConversation) reject(ctx context.Context, sess *conv.Session, field, text string) (*Reply, error) {
	r, err := c.prompt(ctx, sess)
	if err != nil {
		return nil, err
	}
	return r.withNotice(NoticeWarning, field, text), nil
}

// prompt renders the current step of sess.
func (c *BookingConversation) prompt(ctx context.Context, sess *conv.Session) (*Reply, error) {
	r := c.base(sess)
	sel := sess.Selection
	today := clock.Today(c.clock, c.settings.Location)

	switch sess.State {
	case conv.StateChoosingService:
		services, err := c.catalog.ListServices(ctx)
		if err != nil {
			return nil, err
		}
		c.serviceOptions(r, services)

	case conv.StateChoosingDate:
		ref := today
		if sel.CalendarMonth != nil {
			ref = *sel.CalendarMonth
		}
		grid := calendar.Render(ref, today, calendar.Bounds{})
		r.Text = fmt.Sprintf("%s: choose a date.", sel.ServiceName)
		r.Calendar = &grid

	case conv.StateChoosingTime:
		slots := c.offeredSlots(*sel.Date)
		r.Text = fmt.Sprintf("%s: choose a time.", sel.Date)
		if len(slots) == 0 {
			r.Text = fmt.Sprintf("No time left on %s. Go back and choose another date.", sel.Date)
		}
		for _, t := range slots {
			r.Options = append(r.Options, Option{Label: FormatTime(t), Event: conv.TimeChosen{Time: t}})
		}

	case conv.StateChoosingProvider:
		at, _ := sel.DateTime()
		avail, err := c.resolver.Resolve(ctx, *sel.ServiceID, at)
		if err != nil {
			return nil, err
		}
		c.providerOptions(r, avail)

	case conv.StateConfirmingBooking:
		r.Text = "Please confirm your booking."
		r.Summary = summaryOf(sel)
		r.Options = []Option{
			{Label: "Confirm", Event: conv.Confirmed{}},
			{Label: "Discard", Event: conv.Discarded{}},
		}
	}
	return r, nil
}

func (c *BookingConversation) base(sess *conv.Session) *Reply {
	return &Reply{
		Flow:      conv.FlowBooking,
		State:     sess.State,
		CanGoBack: sess.State != conv.StateChoosingService && !sess.Done(),
		CanCancel: !sess.Done(),
	}
}

func (c *BookingConversation) serviceOptions(r *Reply, services []catalog.Service) {
	r.Text = "Choose a service."
	r.Options = make([]Option, 0, len(services))
	for _, s := range services {
		r.Options = append(r.Options, Option{
			Label: fmt.Sprintf("%s (%s)", s.Name, catalog.FormatPrice(s.Price)),
			Event: conv.ServiceChosen{ServiceID: s.ID},
		})
	}
}

func (c *BookingConversation) providerOptions(r *Reply, avail usecase.Availability) {
	r.Text = "Choose a barber."
	if len(avail.Free) == 0 {
		r.Text = "All barbers are busy at this time. You can book with any available barber."
	}
	r.Options = make([]Option, 0, len(avail.Free)+1)
	for _, p := range avail.Free {
		id := p.ID
		r.Options = append(r.Options, Option{Label: p.Name, Event: conv.ProviderChosen{ProviderID: &id}})
	}
	r.Options = append(r.Options, Option{Label: "Any barber", Event: conv.ProviderChosen{}})
}

// offeredSlots lists the configured slots on d that are still in the future.
func (c *BookingConversation) offeredSlots(d civil.Date) []civil.Time {
	now := clock.Local(c.clock, c.settings.Location)
	out := make([]civil.Time, 0, len(c.settings.Slots))
	for _, t := range c.settings.Slots {
		if (civil.DateTime{Date: d, Time: t}).After(now) {
			out = append(out, t)
		}
	}
	return out
}

func containsTime(slots []civil.Time, t civil.Time) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}
