package conversation

import (
	"context"
	"fmt"
	"time"

	"barber-booking/internal/domain/calendar"
	"barber-booking/internal/domain/catalog"
	conv "barber-booking/internal/domain/conversation"
	"barber-booking/internal/domain/vacation"
	"barber-booking/internal/infra"
	"barber-booking/internal/observability/metrics"
	"barber-booking/internal/pkg/clock"
	"barber-booking/internal/usecase/shared"

	"cloud.google.com/go/civil"
)

// VacationScheduler lets an operator block a provider for a date range.
type VacationScheduler struct {
	catalog   shared.CatalogReader
	vacations shared.VacationStore
	operators shared.OperatorDirectory
	clock     clock.Clock
	loc       *time.Location
	metrics   *metrics.ConversationMetrics
}

func NewVacationScheduler(
	catalogReader shared.CatalogReader,
	vacations shared.VacationStore,
	operators shared.OperatorDirectory,
	clk clock.Clock,
	loc *time.Location,
	m *metrics.ConversationMetrics,
) *VacationScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &VacationScheduler{
		catalog:   catalogReader,
		vacations: vacations,
		operators: operators,
		clock:     clk,
		loc:       loc,
		metrics:   m,
	}
}

func (v *VacationScheduler) start(ctx context.Context, userID int64) (*Reply, *conv.Session, error) {
	if !v.operators.IsOperator(ctx, userID) {
		r := &Reply{Flow: conv.FlowVacation, State: conv.StateIdle, Outcome: OutcomeRejected}
		return r.withNotice(NoticeWarning, FieldInput, "Only operators can schedule vacations."), nil, nil
	}

	providers, err := v.catalog.ListProviders(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(providers) == 0 {
		r := &Reply{Flow: conv.FlowVacation, State: conv.StateIdle, Outcome: OutcomeRejected}
		return r.withNotice(NoticeInfo, FieldProvider, "No barbers are registered."), nil, nil
	}

	sess := conv.NewSession(userID, conv.FlowVacation, v.clock.Now())
	r := v.base(sess)
	v.providerOptions(r, providers)
	return r, sess, nil
}

func (v *VacationScheduler) handle(ctx context.Context, sess *conv.Session, ev conv.Event) (*Reply, error) {
	switch e := ev.(type) {
	case conv.ProviderChosen:
		return v.chooseProvider(ctx, sess, e)
	case conv.MonthShown:
		if !e.Reference.IsValid() {
			return v.reject(ctx, sess, FieldDate, "Unknown month.")
		}
		ref := e.Reference
		sess.Selection.CalendarMonth = &ref
		if err := sess.Move(conv.KindMonthShown, sess.State, v.clock.Now()); err != nil {
			return nil, err
		}
		return v.prompt(ctx, sess)
	case conv.DateChosen:
		if sess.State == conv.StateChoosingStartDate {
			return v.chooseStart(ctx, sess, e.Date)
		}
		return v.chooseEnd(ctx, sess, e.Date)
	case conv.Confirmed:
		return v.commit(ctx, sess)
	case conv.Discarded:
		if err := sess.Move(conv.KindDiscarded, conv.StateIdle, v.clock.Now()); err != nil {
			return nil, err
		}
		r := v.base(sess)
		r.Text = "Vacation discarded. Nothing was saved."
		r.Outcome = OutcomeDiscarded
		return r, nil
	case conv.Back:
		return v.back(ctx, sess)
	}
	return nil, conv.ErrInvalidTransition
}

func (v *VacationScheduler) chooseProvider(ctx context.Context, sess *conv.Session, e conv.ProviderChosen) (*Reply, error) {
	if e.ProviderID == nil {
		return v.reject(ctx, sess, FieldProvider, "Choose a specific barber.")
	}
	p, err := v.catalog.GetProvider(ctx, *e.ProviderID)
	if infra.IsKind(err, infra.KindNotFound) {
		return v.reject(ctx, sess, FieldProvider, "This barber is not registered.")
	}
	if err != nil {
		return nil, err
	}

	sess.Selection.ProviderID = &p.ID
	sess.Selection.ProviderName = p.Name
	if err := sess.Move(conv.KindProviderChosen, conv.StateChoosingStartDate, v.clock.Now()); err != nil {
		return nil, err
	}
	return v.prompt(ctx, sess)
}

func (v *VacationScheduler) chooseStart(ctx context.Context, sess *conv.Session, d civil.Date) (*Reply, error) {
	today := clock.Today(v.clock, v.loc)
	if !d.IsValid() || d.Before(today) {
		return v.reject(ctx, sess, FieldStartDate, "The start date cannot be in the past.")
	}
	sess.Selection.VacationStart = &d
	sess.Selection.CalendarMonth = &d
	if err := sess.Move(conv.KindDateChosen, conv.StateChoosingEndDate, v.clock.Now()); err != nil {
		return nil, err
	}
	return v.prompt(ctx, sess)
}

func (v *VacationScheduler) chooseEnd(ctx context.Context, sess *conv.Session, d civil.Date) (*Reply, error) {
	today := clock.Today(v.clock, v.loc)
	start := *sess.Selection.VacationStart
	if !d.IsValid() || d.Before(start) || d.Before(today) {
		return v.reject(ctx, sess, FieldEndDate, "The end date cannot be before the start date.")
	}
	sess.Selection.VacationEnd = &d
	if err := sess.Move(conv.KindDateChosen, conv.StateConfirmingVacation, v.clock.Now()); err != nil {
		return nil, err
	}
	return v.prompt(ctx, sess)
}

// commit saves the interval. The start date is checked against today again
// since the session may have outlived the day it was picked on.
func (v *VacationScheduler) commit(ctx context.Context, sess *conv.Session) (*Reply, error) {
	sel := sess.Selection
	if sel.ProviderID == nil || sel.VacationStart == nil || sel.VacationEnd == nil {
		return nil, conv.ErrInvalidTransition
	}
	if sel.VacationStart.Before(clock.Today(v.clock, v.loc)) {
		sess.Selection.ResetFrom(conv.StateChoosingStartDate)
		if err := sess.Move(conv.KindConfirmed, conv.StateChoosingStartDate, v.clock.Now()); err != nil {
			return nil, err
		}
		r, err := v.prompt(ctx, sess)
		if err != nil {
			return nil, err
		}
		return r.withNotice(NoticeWarning, FieldStartDate, "The start date is now in the past. Choose the dates again."), nil
	}

	iv, err := vacation.NewInterval(*sel.ProviderID, *sel.VacationStart, *sel.VacationEnd)
	if err != nil {
		return v.reject(ctx, sess, FieldEndDate, "The vacation dates are not valid.")
	}
	iv.CreatedAt = v.clock.Now()

	err = v.vacations.CreateVacation(ctx, iv)
	if infra.IsKind(err, infra.KindForeignKeyViolated) {
		if err := sess.Move(conv.KindConfirmed, conv.StateIdle, v.clock.Now()); err != nil {
			return nil, err
		}
		r := v.base(sess)
		r.Outcome = OutcomeRejected
		return r.withNotice(NoticeWarning, FieldProvider, "This barber no longer exists. Nothing was saved."), nil
	}
	if err != nil {
		return nil, err
	}
	v.metrics.ObserveVacation()

	if err := sess.Move(conv.KindConfirmed, conv.StateIdle, v.clock.Now()); err != nil {
		return nil, err
	}
	r := v.base(sess)
	r.Text = fmt.Sprintf("Vacation for %s saved: %s to %s.", sel.ProviderName, iv.Start, iv.End)
	r.Outcome = OutcomeVacationSaved
	r.Vacation = &iv
	r.Summary = summaryOf(sel)
	return r, nil
}

func (v *VacationScheduler) back(ctx context.Context, sess *conv.Session) (*Reply, error) {
	var to conv.State
	switch sess.State {
	case conv.StateChoosingStartDate:
		to = conv.StateVacationProvider
	case conv.StateChoosingEndDate:
		to = conv.StateChoosingStartDate
	case conv.StateConfirmingVacation:
		to = conv.StateChoosingEndDate
	default:
		return nil, conv.ErrInvalidTransition
	}
	if err := sess.Move(conv.KindBack, to, v.clock.Now()); err != nil {
		return nil, err
	}
	sess.Selection.ResetFrom(to)
	return v.prompt(ctx, sess)
}

func (v *VacationScheduler) reject(ctx context.Context, sess *conv.Session, field, text string) (*Reply, error) {
	r, err := v.prompt(ctx, sess)
	if err != nil {
		return nil, err
	}
	return r.withNotice(NoticeWarning, field, text), nil
}

func (v *VacationScheduler) prompt(ctx context.Context, sess *conv.Session) (*Reply, error) {
	r := v.base(sess)
	sel := sess.Selection
	today := clock.Today(v.clock, v.loc)

	switch sess.State {
	case conv.StateVacationProvider:
		providers, err := v.catalog.ListProviders(ctx)
		if err != nil {
			return nil, err
		}
		v.providerOptions(r, providers)

	case conv.StateChoosingStartDate:
		ref := today
		if sel.CalendarMonth != nil {
			ref = *sel.CalendarMonth
		}
		grid := calendar.Render(ref, today, calendar.Bounds{})
		r.Text = fmt.Sprintf("%s: choose the first day of the vacation.", sel.ProviderName)
		r.Calendar = &grid

	case conv.StateChoosingEndDate:
		ref := *sel.VacationStart
		if sel.CalendarMonth != nil {
			ref = *sel.CalendarMonth
		}
		grid := calendar.Render(ref, today, calendar.Bounds{Min: sel.VacationStart})
		r.Text = fmt.Sprintf("%s: choose the last day of the vacation.", sel.ProviderName)
		r.Calendar = &grid

	case conv.StateConfirmingVacation:
		r.Text = "Please confirm the vacation."
		r.Summary = summaryOf(sel)
		r.Options = []Option{
			{Label: "Confirm", Event: conv.Confirmed{}},
			{Label: "Discard", Event: conv.Discarded{}},
		}
	}
	return r, nil
}

func (v *VacationScheduler) base(sess *conv.Session) *Reply {
	return &Reply{
		Flow:      conv.FlowVacation,
		State:     sess.State,
		CanGoBack: sess.State != conv.StateVacationProvider && !sess.Done(),
		CanCancel: !sess.Done(),
	}
}

func (v *VacationScheduler) providerOptions(r *Reply, providers []catalog.Provider) {
	r.Text = "Choose a barber."
	r.Options = make([]Option, 0, len(providers))
	for _, p := range providers {
		id := p.ID
		r.Options = append(r.Options, Option{Label: p.Name, Event: conv.ProviderChosen{ProviderID: &id}})
	}
}
