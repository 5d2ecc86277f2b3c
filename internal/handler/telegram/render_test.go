//go:build unit

package telegram

import (
	"strings"
	"testing"
	"time"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/domain/calendar"
	conv "barber-booking/internal/domain/conversation"
	"barber-booking/internal/usecase/conversation"
	"barber-booking/internal/usecase/queries"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReply_Calendar(t *testing.T) {
	today := civil.Date{Year: 2026, Month: time.October, Day: 19}
	grid := calendar.Render(today, today, calendar.Bounds{})

	msg := RenderReply(&conversation.Reply{
		Flow:      conv.FlowBooking,
		State:     conv.StateChoosingDate,
		Text:      "Choose a date",
		Calendar:  &grid,
		CanGoBack: true,
		CanCancel: true,
	})

	rows := msg.Keyboard.InlineKeyboard
	// year row, month row, weekday header, weeks, back/cancel
	require.Len(t, rows, 3+len(grid.Weeks)+1)
	assert.Equal(t, "2026", rows[0][1].Text)
	assert.Equal(t, "October", rows[1][1].Text)
	assert.Equal(t, EncodeEvent(conv.MonthShown{Reference: civil.Date{Year: 2026, Month: time.November, Day: 19}}), *rows[1][2].CallbackData)

	for _, week := range rows[3 : 3+len(grid.Weeks)] {
		assert.Len(t, week, 7)
	}

	var selectable, blocked int
	for _, week := range rows[3 : 3+len(grid.Weeks)] {
		for _, btn := range week {
			switch {
			case strings.HasPrefix(*btn.CallbackData, codeDate+":"):
				selectable++
			case btn.Text == "·":
				blocked++
			}
		}
	}
	assert.Equal(t, 13, selectable, "Oct 19..31")
	assert.Equal(t, 18, blocked, "Oct 1..18")

	nav := rows[len(rows)-1]
	require.Len(t, nav, 2)
	assert.Equal(t, codeBack, *nav[0].CallbackData)
	assert.Equal(t, codeCancel, *nav[1].CallbackData)
}

func TestRenderReply_NoticeAndOptions(t *testing.T) {
	msg := RenderReply(&conversation.Reply{
		Text:    "Choose a barber",
		Notice:  &conversation.Notice{Level: conversation.NoticeWarning, Field: conversation.FieldProvider, Text: "Anna is busy at that time."},
		Options: []conversation.Option{{Label: "Any barber", Event: conv.ProviderChosen{}}},
	})

	assert.Equal(t, "⚠️ Anna is busy at that time.\n\nChoose a barber", msg.Text)
	require.Len(t, msg.Keyboard.InlineKeyboard, 1)
	assert.Equal(t, "pv:", *msg.Keyboard.InlineKeyboard[0][0].CallbackData)
}

func TestRenderReply_FinalReplyHasNoButtons(t *testing.T) {
	msg := RenderReply(&conversation.Reply{State: conv.StateIdle, Text: "You are booked!", Outcome: conversation.OutcomeBooked})

	assert.False(t, msg.HasKeyboard())
	assert.NotNil(t, msg.Keyboard.InlineKeyboard)
}

func TestRenderBookingPage(t *testing.T) {
	active, cancelled := uuid.New(), uuid.New()
	at := civil.DateTime{Date: civil.Date{Year: 2026, Month: time.October, Day: 20}, Time: civil.Time{Hour: 11}}

	msg := RenderBookingPage(&queries.BookingPage{
		Items: []queries.BookingItem{
			{ID: active, At: at, ServiceName: "Haircut", ProviderName: "Anna", Status: booking.StatusActive},
			{ID: cancelled, At: at, ServiceName: "Shave", ProviderName: queries.AnyProviderLabel, Status: booking.StatusCancelled},
		},
		Page: 2, PageSize: 5, Total: 12, TotalPages: 3,
	})

	assert.Contains(t, msg.Text, "20.10.2026 11:00, Haircut, Anna")
	assert.Contains(t, msg.Text, "✖ 20.10.2026 11:00, Shave, Any provider")

	rows := msg.Keyboard.InlineKeyboard
	require.Len(t, rows, 2, "one cancel button and the page row")
	assert.Equal(t, encodeCancelBooking(active), *rows[0][0].CallbackData)

	pages := rows[1]
	require.Len(t, pages, 3)
	assert.Equal(t, encodeBookingsPage(1), *pages[0].CallbackData)
	assert.Equal(t, "2/3", pages[1].Text)
	assert.Equal(t, encodeBookingsPage(3), *pages[2].CallbackData)
}

func TestRenderBookingPage_Empty(t *testing.T) {
	msg := RenderBookingPage(&queries.BookingPage{Page: 1, PageSize: 5})

	assert.Contains(t, msg.Text, "no bookings")
	assert.False(t, msg.HasKeyboard())
}
