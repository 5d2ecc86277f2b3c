package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/domain/calendar"
	conv "barber-booking/internal/domain/conversation"
	"barber-booking/internal/usecase/conversation"
	"barber-booking/internal/usecase/queries"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	labelBack   = "🔙 Back"
	labelCancel = "❌ Cancel"
)

// Message is a rendered reply: text plus an inline keyboard, which may be empty.
type Message struct {
	Text     string
	Keyboard tgbotapi.InlineKeyboardMarkup
}

// HasKeyboard reports whether the message carries any buttons.
func (m Message) HasKeyboard() bool {
	return len(m.Keyboard.InlineKeyboard) > 0
}

// RenderReply lays a conversation reply out for Telegram.
func RenderReply(r *conversation.Reply) Message {
	var b strings.Builder
	if r.Notice != nil {
		b.WriteString(noticePrefix(r.Notice.Level))
		b.WriteString(r.Notice.Text)
		if r.Text != "" {
			b.WriteString("\n\n")
		}
	}
	b.WriteString(r.Text)

	var rows [][]tgbotapi.InlineKeyboardButton
	if r.Calendar != nil {
		rows = append(rows, calendarRows(*r.Calendar)...)
	}
	for _, o := range r.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(o.Label, EncodeEvent(o.Event)),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if r.CanGoBack {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(labelBack, EncodeEvent(conv.Back{})))
	}
	if r.CanCancel {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(labelCancel, EncodeEvent(conv.Cancelled{})))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return Message{Text: b.String(), Keyboard: keyboard(rows)}
}

func noticePrefix(level conversation.NoticeLevel) string {
	switch level {
	case conversation.NoticeWarning:
		return "⚠️ "
	case conversation.NoticeError:
		return "❗ "
	}
	return ""
}

func calendarRows(g calendar.Grid) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(g.Weeks)+3)

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« "+strconv.Itoa(g.Nav.PrevYear.Year), EncodeEvent(conv.MonthShown{Reference: g.Nav.PrevYear})),
		tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(g.Month.Year), codeNoop),
		tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(g.Nav.NextYear.Year)+" »", EncodeEvent(conv.MonthShown{Reference: g.Nav.NextYear})),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("‹", EncodeEvent(conv.MonthShown{Reference: g.Nav.PrevMonth})),
		tgbotapi.NewInlineKeyboardButtonData(g.Month.Month.String(), codeNoop),
		tgbotapi.NewInlineKeyboardButtonData("›", EncodeEvent(conv.MonthShown{Reference: g.Nav.NextMonth})),
	))

	header := make([]tgbotapi.InlineKeyboardButton, 0, len(calendar.WeekdayLabels))
	for _, wd := range calendar.WeekdayLabels {
		header = append(header, tgbotapi.NewInlineKeyboardButtonData(wd, codeNoop))
	}
	rows = append(rows, header)

	for _, week := range g.Weeks {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(week))
		for _, cell := range week {
			switch {
			case cell.Blank:
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", codeNoop))
			case cell.Selectable:
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(
					strconv.Itoa(cell.Date.Day), EncodeEvent(conv.DateChosen{Date: cell.Date})))
			default:
				row = append(row, tgbotapi.NewInlineKeyboardButtonData("·", codeNoop))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderBookingPage lists one page of a user's bookings with cancel buttons
// for the active ones and page navigation.
func RenderBookingPage(p *queries.BookingPage) Message {
	if p.Total == 0 {
		return Message{Text: "You have no bookings yet. Send /book to make one."}
	}

	var b strings.Builder
	b.WriteString("Your bookings:\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range p.Items {
		when := fmt.Sprintf("%02d.%02d.%d %02d:%02d",
			it.At.Date.Day, int(it.At.Date.Month), it.At.Date.Year, it.At.Time.Hour, it.At.Time.Minute)
		mark := "🗓"
		if it.Status != booking.StatusActive {
			mark = "✖"
		}
		fmt.Fprintf(&b, "\n%s %s, %s, %s", mark, when, it.ServiceName, it.ProviderName)
		if it.Status == booking.StatusActive {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("❌ Cancel "+when, encodeCancelBooking(it.ID)),
			))
		}
	}

	if p.TotalPages > 1 {
		var nav []tgbotapi.InlineKeyboardButton
		if p.Page > 1 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", encodeBookingsPage(p.Page-1)))
		}
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", p.Page, p.TotalPages), codeNoop))
		if p.Page < p.TotalPages {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", encodeBookingsPage(p.Page+1)))
		}
		rows = append(rows, nav)
	}
	return Message{Text: b.String(), Keyboard: keyboard(rows)}
}

func keyboard(rows [][]tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	if rows == nil {
		rows = [][]tgbotapi.InlineKeyboardButton{}
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
