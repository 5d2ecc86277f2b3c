//go:build unit

package conversation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"barber-booking/internal/domain/calendar"
	"barber-booking/internal/domain/catalog"
	conv "barber-booking/internal/domain/conversation"
	"barber-booking/internal/domain/vacation"
	"barber-booking/internal/observability/metrics"
	"barber-booking/internal/pkg/clock"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/usecase"
	"barber-booking/internal/usecase/conversation"
	"barber-booking/internal/usecase/mock"
	"barber-booking/internal/usecase/shared"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const operatorID int64 = 1000

var (
	haircut = catalog.Service{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "Haircut", Price: 150000, DurationMin: 60}
	shave   = catalog.Service{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Name: "Shave", Price: 80000, DurationMin: 30}

	providerA = catalog.Provider{ID: uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"), Name: "Anna"}
	providerB = catalog.Provider{ID: uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"), Name: "Boris"}
)

type harness struct {
	svc       *conversation.Service
	catalog   *memCatalog
	bookings  *memBookings
	vacations *memVacations
	sessions  *memSessions
	clock     *clock.MockClock
}

func hourlySlots() []civil.Time {
	var slots []civil.Time
	for h := 10; h <= 19; h++ {
		slots = append(slots, civil.Time{Hour: h})
	}
	return slots
}

func newHarness(t *testing.T, now time.Time, providers ...catalog.Provider) *harness {
	t.Helper()

	h := &harness{
		catalog:   &memCatalog{services: []catalog.Service{haircut, shave}, providers: providers},
		bookings:  &memBookings{},
		vacations: &memVacations{},
		sessions:  newMemSessions(),
		clock:     clock.NewMockClock(now),
	}
	m := metrics.NewConversationMetrics(prometheus.NewRegistry())
	resolver := usecase.NewAvailabilityResolver(h.catalog, h.bookings, h.vacations)
	bookingFlow := conversation.NewBookingConversation(h.catalog, h.bookings, resolver, h.clock,
		conversation.Settings{Location: time.UTC, Slots: hourlySlots()}, m)
	vacationFlow := conversation.NewVacationScheduler(h.catalog, h.vacations,
		shared.NewStaticOperators([]int64{operatorID}), h.clock, time.UTC, m)
	h.svc = conversation.NewService(h.sessions, bookingFlow, vacationFlow, h.clock, m, nil)
	return h
}

func (h *harness) send(t *testing.T, userID int64, ev conv.Event) *conversation.Reply {
	t.Helper()
	r, err := h.svc.Handle(context.Background(), userID, ev)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

// toConfirm drives a user up to the confirmation step for the given slot.
func (h *harness) toConfirm(t *testing.T, userID int64, d civil.Date, tm civil.Time, provider *uuid.UUID) *conversation.Reply {
	t.Helper()
	h.send(t, userID, conv.Start{Flow: conv.FlowBooking})
	h.send(t, userID, conv.ServiceChosen{ServiceID: haircut.ID})
	h.send(t, userID, conv.DateChosen{Date: d})
	r := h.send(t, userID, conv.TimeChosen{Time: tm})
	if r.State == conv.StateChoosingProvider {
		r = h.send(t, userID, conv.ProviderChosen{ProviderID: provider})
	}
	require.Equal(t, conv.StateConfirmingBooking, r.State)
	return r
}

func labels(opts []conversation.Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Label)
	}
	return out
}

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func at(h int) civil.Time {
	return civil.Time{Hour: h}
}

func TestBooking_SkipsProviderStepWhenNoProvidersExist(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	today := day(2026, time.October, 19)
	const user int64 = 1

	r := h.send(t, user, conv.Start{Flow: conv.FlowBooking})
	assert.Equal(t, conv.StateChoosingService, r.State)
	assert.Equal(t, []string{"Haircut (1500.00)", "Shave (800.00)"}, labels(r.Options))
	assert.False(t, r.CanGoBack)

	r = h.send(t, user, conv.ServiceChosen{ServiceID: haircut.ID})
	assert.Equal(t, conv.StateChoosingDate, r.State)
	require.NotNil(t, r.Calendar)
	assert.Equal(t, calendar.YearMonth{Year: 2026, Month: time.October}, r.Calendar.Month)

	r = h.send(t, user, conv.DateChosen{Date: today})
	assert.Equal(t, conv.StateChoosingTime, r.State)
	assert.Equal(t, []string{"11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00", "18:00", "19:00"}, labels(r.Options))

	r = h.send(t, user, conv.TimeChosen{Time: at(14)})
	assert.Equal(t, conv.StateConfirmingBooking, r.State)
	require.NotNil(t, r.Summary)
	assert.True(t, r.Summary.AnyProvider)
	assert.Equal(t, "Haircut", r.Summary.ServiceName)

	r = h.send(t, user, conv.Confirmed{})
	assert.Equal(t, conversation.OutcomeBooked, r.Outcome)
	assert.Equal(t, conv.StateIdle, r.State)
	require.NotNil(t, r.Booking)
	assert.Nil(t, r.Booking.ProviderID())
	assert.Equal(t, civil.DateTime{Date: today, Time: at(14)}, r.Booking.At())

	assert.Len(t, h.bookings.all(), 1)
	_, ok := h.sessions.get(user)
	assert.False(t, ok, "finished session must be dropped")
}

func TestBooking_RejectsPastDate(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	const user int64 = 2

	h.send(t, user, conv.Start{Flow: conv.FlowBooking})
	h.send(t, user, conv.ServiceChosen{ServiceID: haircut.ID})

	r := h.send(t, user, conv.DateChosen{Date: day(2026, time.October, 18)})

	assert.Equal(t, conv.StateChoosingDate, r.State)
	require.NotNil(t, r.Notice)
	assert.Equal(t, conversation.FieldDate, r.Notice.Field)
	assert.Equal(t, conversation.NoticeWarning, r.Notice.Level)
	require.NotNil(t, r.Calendar)

	sess, ok := h.sessions.get(user)
	require.True(t, ok)
	assert.Equal(t, conv.StateChoosingDate, sess.State)
	assert.Nil(t, sess.Selection.Date)
}

func TestBooking_VacationHidesProvider(t *testing.T) {
	h := newHarness(t, time.Date(2024, time.May, 30, 9, 0, 0, 0, time.UTC), providerA, providerB)
	iv, err := vacation.NewInterval(providerA.ID, day(2024, time.June, 1), day(2024, time.June, 10))
	require.NoError(t, err)
	require.NoError(t, h.vacations.CreateVacation(context.Background(), iv))
	const user int64 = 3

	h.send(t, user, conv.Start{Flow: conv.FlowBooking})
	h.send(t, user, conv.ServiceChosen{ServiceID: haircut.ID})
	h.send(t, user, conv.DateChosen{Date: day(2024, time.June, 5)})

	r := h.send(t, user, conv.TimeChosen{Time: at(12)})
	assert.Equal(t, conv.StateChoosingProvider, r.State)
	assert.Equal(t, []string{"Boris", "Any barber"}, labels(r.Options))

	r = h.send(t, user, conv.ProviderChosen{ProviderID: &providerA.ID})
	assert.Equal(t, conv.StateChoosingProvider, r.State)
	require.NotNil(t, r.Notice)
	assert.Equal(t, conversation.FieldProvider, r.Notice.Field)

	h.send(t, user, conv.Back{})
	h.send(t, user, conv.Back{})
	h.send(t, user, conv.DateChosen{Date: day(2024, time.June, 11)})
	r = h.send(t, user, conv.TimeChosen{Time: at(12)})
	assert.Equal(t, []string{"Anna", "Boris", "Any barber"}, labels(r.Options))
}

func TestBooking_SecondUserGetsConflict(t *testing.T) {
	h := newHarness(t, time.Date(2024, time.June, 28, 9, 0, 0, 0, time.UTC), providerA, providerB)
	slot := day(2024, time.July, 1)

	h.toConfirm(t, 1, slot, at(10), &providerB.ID)
	h.toConfirm(t, 2, slot, at(10), &providerB.ID)

	r := h.send(t, 1, conv.Confirmed{})
	require.Equal(t, conversation.OutcomeBooked, r.Outcome)

	r = h.send(t, 2, conv.Confirmed{})
	assert.Equal(t, conversation.OutcomeNone, r.Outcome)
	assert.Equal(t, conv.StateChoosingProvider, r.State)
	require.NotNil(t, r.Notice)
	assert.Equal(t, conversation.FieldProvider, r.Notice.Field)
	assert.Contains(t, r.Notice.Text, "no longer available")
	assert.Equal(t, []string{"Anna", "Any barber"}, labels(r.Options))

	assert.Len(t, h.bookings.all(), 1)
	sess, ok := h.sessions.get(2)
	require.True(t, ok)
	assert.Nil(t, sess.Selection.ProviderID)
	assert.NotNil(t, sess.Selection.Time)
}

func TestBooking_VacationSavedBeforeConfirmation(t *testing.T) {
	h := newHarness(t, time.Date(2024, time.May, 30, 9, 0, 0, 0, time.UTC), providerA, providerB)
	const user int64 = 7

	h.toConfirm(t, user, day(2024, time.June, 5), at(12), &providerA.ID)

	iv, err := vacation.NewInterval(providerA.ID, day(2024, time.June, 1), day(2024, time.June, 10))
	require.NoError(t, err)
	require.NoError(t, h.vacations.CreateVacation(context.Background(), iv))

	r := h.send(t, user, conv.Confirmed{})
	assert.Equal(t, conversation.OutcomeNone, r.Outcome)
	assert.Equal(t, conv.StateChoosingProvider, r.State)
	require.NotNil(t, r.Notice)
	assert.Equal(t, conversation.FieldProvider, r.Notice.Field)
	assert.Contains(t, r.Notice.Text, "no longer available")
	assert.Equal(t, []string{"Boris", "Any barber"}, labels(r.Options))
	assert.Empty(t, h.bookings.all())

	r = h.send(t, user, conv.ProviderChosen{ProviderID: &providerB.ID})
	require.Equal(t, conv.StateConfirmingBooking, r.State)
	r = h.send(t, user, conv.Confirmed{})
	assert.Equal(t, conversation.OutcomeBooked, r.Outcome)
	require.Len(t, h.bookings.all(), 1)
	assert.Equal(t, providerB.ID, *h.bookings.all()[0].ProviderID())
}

func TestBooking_ConcurrentCommitsPersistOnce(t *testing.T) {
	h := newHarness(t, time.Date(2024, time.June, 28, 9, 0, 0, 0, time.UTC), providerA, providerB)
	slot := day(2024, time.July, 1)

	const users = 16
	for u := int64(1); u <= users; u++ {
		h.toConfirm(t, u, slot, at(15), &providerA.ID)
	}

	replies := make([]*conversation.Reply, users)
	var wg sync.WaitGroup
	for u := int64(1); u <= users; u++ {
		wg.Add(1)
		go func(u int64) {
			defer wg.Done()
			r, err := h.svc.Handle(context.Background(), u, conv.Confirmed{})
			assert.NoError(t, err)
			replies[u-1] = r
		}(u)
	}
	wg.Wait()

	booked, conflicts := 0, 0
	for _, r := range replies {
		require.NotNil(t, r)
		switch {
		case r.Outcome == conversation.OutcomeBooked:
			booked++
		case r.Notice != nil && r.Notice.Field == conversation.FieldProvider:
			conflicts++
		}
	}
	assert.Equal(t, 1, booked)
	assert.Equal(t, users-1, conflicts)
	assert.Len(t, h.bookings.all(), 1)
}

func TestBooking_AnyProviderBookingsCoexist(t *testing.T) {
	h := newHarness(t, time.Date(2024, time.June, 28, 9, 0, 0, 0, time.UTC), providerA)
	slot := day(2024, time.July, 1)

	h.toConfirm(t, 1, slot, at(11), nil)
	h.toConfirm(t, 2, slot, at(11), nil)

	assert.Equal(t, conversation.OutcomeBooked, h.send(t, 1, conv.Confirmed{}).Outcome)
	assert.Equal(t, conversation.OutcomeBooked, h.send(t, 2, conv.Confirmed{}).Outcome)
	assert.Len(t, h.bookings.all(), 2)
}

func TestBooking_ConflictWithoutProvidersReturnsToTime(t *testing.T) {
	h := newHarness(t, time.Date(2024, time.June, 28, 9, 0, 0, 0, time.UTC))
	slot := day(2024, time.July, 1)
	h.toConfirm(t, 1, slot, at(11), nil)

	// A provider appears and takes the slot before the commit.
	h.catalog.providers = []catalog.Provider{providerA}
	sess, _ := h.sessions.get(1)
	sess.Selection.ProviderID = &providerA.ID
	require.NoError(t, h.sessions.Save(context.Background(), &sess))
	h.toConfirm(t, 2, slot, at(11), &providerA.ID)
	require.Equal(t, conversation.OutcomeBooked, h.send(t, 2, conv.Confirmed{}).Outcome)

	r := h.send(t, 1, conv.Confirmed{})
	assert.Equal(t, conv.StateChoosingTime, r.State)
	require.NotNil(t, r.Notice)
	assert.Equal(t, conversation.FieldTime, r.Notice.Field)
	assert.Len(t, h.bookings.all(), 1)
}

func TestBooking_PastSlotAtConfirmation(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	h.toConfirm(t, 1, day(2026, time.October, 19), at(11), nil)

	h.clock.Add(time.Hour)
	r := h.send(t, 1, conv.Confirmed{})

	assert.Equal(t, conv.StateChoosingTime, r.State)
	require.NotNil(t, r.Notice)
	assert.Equal(t, conversation.FieldTime, r.Notice.Field)
	assert.NotContains(t, labels(r.Options), "11:00")
	assert.Empty(t, h.bookings.all())
}

func TestBooking_ServiceRemovedBeforeConfirmation(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	h.toConfirm(t, 1, day(2026, time.October, 20), at(12), nil)

	h.catalog.removeService(haircut.ID)
	r := h.send(t, 1, conv.Confirmed{})

	assert.Equal(t, conv.StateChoosingService, r.State)
	assert.Equal(t, []string{"Shave (800.00)"}, labels(r.Options))
	require.NotNil(t, r.Notice)
	assert.Equal(t, conversation.FieldService, r.Notice.Field)
	assert.Empty(t, h.bookings.all())
}

func TestBooking_TimeMustBeOffered(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	h.send(t, 1, conv.Start{Flow: conv.FlowBooking})
	h.send(t, 1, conv.ServiceChosen{ServiceID: haircut.ID})
	h.send(t, 1, conv.DateChosen{Date: day(2026, time.October, 19)})

	tests := []struct {
		name string
		tm   civil.Time
	}{
		{name: "already passed today", tm: at(10)},
		{name: "outside working hours", tm: at(21)},
		{name: "between slots", tm: civil.Time{Hour: 12, Minute: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := h.send(t, 1, conv.TimeChosen{Time: tt.tm})
			assert.Equal(t, conv.StateChoosingTime, r.State)
			require.NotNil(t, r.Notice)
			assert.Equal(t, conversation.FieldTime, r.Notice.Field)
		})
	}
}

func TestBooking_UnknownServiceRejected(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	h.send(t, 1, conv.Start{Flow: conv.FlowBooking})

	r := h.send(t, 1, conv.ServiceChosen{ServiceID: uuid.New()})

	assert.Equal(t, conv.StateChoosingService, r.State)
	require.NotNil(t, r.Notice)
	assert.Equal(t, conversation.FieldService, r.Notice.Field)
}

func TestBooking_MonthNavigation(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	h.send(t, 1, conv.Start{Flow: conv.FlowBooking})
	h.send(t, 1, conv.ServiceChosen{ServiceID: haircut.ID})

	r := h.send(t, 1, conv.MonthShown{Reference: day(2026, time.November, 19)})
	assert.Equal(t, conv.StateChoosingDate, r.State)
	require.NotNil(t, r.Calendar)
	assert.Equal(t, calendar.YearMonth{Year: 2026, Month: time.November}, r.Calendar.Month)

	sess, _ := h.sessions.get(1)
	require.NotNil(t, sess.Selection.CalendarMonth)
	assert.Equal(t, day(2026, time.November, 19), *sess.Selection.CalendarMonth)
}

func TestBooking_BackClearsDownstreamChoices(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	h.toConfirm(t, 1, day(2026, time.October, 20), at(12), nil)

	r := h.send(t, 1, conv.Back{})
	assert.Equal(t, conv.StateChoosingTime, r.State, "provider step was skipped")

	r = h.send(t, 1, conv.Back{})
	assert.Equal(t, conv.StateChoosingDate, r.State)

	sess, _ := h.sessions.get(1)
	assert.Nil(t, sess.Selection.Date)
	assert.Nil(t, sess.Selection.Time)
	assert.False(t, sess.Selection.ProviderStepSkipped)
	assert.NotNil(t, sess.Selection.ServiceID)
}

func TestBooking_Discard(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	h.toConfirm(t, 1, day(2026, time.October, 20), at(12), nil)

	r := h.send(t, 1, conv.Discarded{})

	assert.Equal(t, conversation.OutcomeDiscarded, r.Outcome)
	assert.Empty(t, h.bookings.all())
	_, ok := h.sessions.get(1)
	assert.False(t, ok)
}

func TestService_CancelFromAnyStep(t *testing.T) {
	steps := []func(h *harness){
		func(h *harness) {},
		func(h *harness) { h.send(t, 1, conv.ServiceChosen{ServiceID: haircut.ID}) },
		func(h *harness) {
			h.send(t, 1, conv.ServiceChosen{ServiceID: haircut.ID})
			h.send(t, 1, conv.DateChosen{Date: day(2026, time.October, 20)})
		},
	}
	for i, step := range steps {
		h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
		h.send(t, 1, conv.Start{Flow: conv.FlowBooking})
		step(h)

		r := h.send(t, 1, conv.Cancelled{})

		assert.Equal(t, conversation.OutcomeCancelled, r.Outcome, "step %d", i)
		assert.Equal(t, conv.StateIdle, r.State)
		_, ok := h.sessions.get(1)
		assert.False(t, ok)
	}
}

func TestService_EventNotValidForStep(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	h.send(t, 1, conv.Start{Flow: conv.FlowBooking})

	r := h.send(t, 1, conv.TimeChosen{Time: at(14)})

	assert.Equal(t, conv.StateChoosingService, r.State)
	require.NotNil(t, r.Notice)
	assert.Equal(t, conversation.FieldInput, r.Notice.Field)
	assert.NotEmpty(t, r.Options)
}

func TestService_NoActiveConversation(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))

	r := h.send(t, 9, conv.Confirmed{})

	assert.Equal(t, conv.StateIdle, r.State)
	require.NotNil(t, r.Notice)
	assert.Equal(t, conversation.FieldSession, r.Notice.Field)
	assert.Empty(t, h.bookings.all())
}

func TestService_StartWithoutServices(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	h.catalog.services = nil

	r := h.send(t, 1, conv.Start{Flow: conv.FlowBooking})

	assert.Equal(t, conv.StateIdle, r.State)
	assert.Equal(t, conversation.OutcomeRejected, r.Outcome)
	_, ok := h.sessions.get(1)
	assert.False(t, ok)
}

func TestService_CollaboratorFailure(t *testing.T) {
	boom := errors.New("redis: connection refused")

	t.Run("session load fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := mock.NewMockSessionStore(ctrl)
		sessions.EXPECT().Load(gomock.Any(), int64(1)).Return(nil, boom)
		sessions.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

		svc := newMockedService(t, ctrl, sessions, nil)
		r, err := svc.Handle(context.Background(), 1, conv.Confirmed{})

		require.Error(t, err)
		assert.True(t, errs.Is(err, conversation.ErrCollaboratorUnavailable))
		require.NotNil(t, r)
		assert.Equal(t, conversation.OutcomeFailed, r.Outcome)
		assert.Equal(t, conversation.FieldSession, r.Notice.Field)
	})

	t.Run("booking store fails on commit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := mock.NewMockSessionStore(ctrl)
		bookings := mock.NewMockBookingStore(ctrl)

		d, tm := day(2026, time.October, 20), at(12)
		sess := conv.NewSession(1, conv.FlowBooking, time.Now())
		sess.State = conv.StateConfirmingBooking
		sess.Selection = conv.Selection{ServiceID: &haircut.ID, ServiceName: haircut.Name, Date: &d, Time: &tm, ProviderStepSkipped: true}

		sessions.EXPECT().Load(gomock.Any(), int64(1)).Return(sess, nil)
		bookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).Return(boom)
		sessions.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

		svc := newMockedService(t, ctrl, sessions, bookings)
		r, err := svc.Handle(context.Background(), 1, conv.Confirmed{})

		require.Error(t, err)
		assert.True(t, errs.Is(err, conversation.ErrCollaboratorUnavailable))
		assert.ErrorContains(t, err, "connection refused")
		assert.Equal(t, conversation.OutcomeFailed, r.Outcome)
	})
}

func newMockedService(t *testing.T, ctrl *gomock.Controller, sessions shared.SessionStore, bookings shared.BookingStore) *conversation.Service {
	t.Helper()
	if bookings == nil {
		bookings = mock.NewMockBookingStore(ctrl)
	}
	cat := &memCatalog{services: []catalog.Service{haircut}}
	vacations := mock.NewMockVacationStore(ctrl)
	clk := clock.NewMockClock(time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC))
	resolver := usecase.NewAvailabilityResolver(cat, bookings, vacations)
	bookingFlow := conversation.NewBookingConversation(cat, bookings, resolver, clk,
		conversation.Settings{Location: time.UTC, Slots: hourlySlots()}, nil)
	vacationFlow := conversation.NewVacationScheduler(cat, vacations, shared.NewStaticOperators(nil), clk, time.UTC, nil)
	return conversation.NewService(sessions, bookingFlow, vacationFlow, clk, nil, nil)
}
