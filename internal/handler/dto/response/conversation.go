package response

import (
	"fmt"

	"barber-booking/internal/domain/calendar"
	"barber-booking/internal/domain/catalog"
	reqdto "barber-booking/internal/handler/dto/request"
	"barber-booking/internal/usecase/conversation"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type CalendarCellResponse struct {
	Date       string `json:"date,omitempty"`
	Day        int    `json:"day,omitempty"`
	Blank      bool   `json:"blank,omitempty"`
	Selectable bool   `json:"selectable"`
}

type CalendarNavResponse struct {
	PrevYear  string `json:"prevYear"`
	PrevMonth string `json:"prevMonth"`
	NextMonth string `json:"nextMonth"`
	NextYear  string `json:"nextYear"`
}

type CalendarResponse struct {
	Month    string                   `json:"month"`
	Weekdays []string                 `json:"weekdays"`
	Weeks    [][]CalendarCellResponse `json:"weeks"`
	Nav      CalendarNavResponse      `json:"nav"`
}

type NoticeResponse struct {
	Level string `json:"level"`
	Field string `json:"field,omitempty"`
	Text  string `json:"text"`
}

type OptionResponse struct {
	Label string                          `json:"label"`
	Event reqdto.ConversationEventRequest `json:"event"`
}

type SummaryResponse struct {
	ServiceName   string `json:"serviceName,omitempty"`
	Price         string `json:"price,omitempty"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	ProviderName  string `json:"providerName,omitempty"`
	VacationStart string `json:"vacationStart,omitempty"`
	VacationEnd   string `json:"vacationEnd,omitempty"`
}

type ReplyResponse struct {
	Flow       string            `json:"flow,omitempty"`
	State      string            `json:"state"`
	Text       string            `json:"text,omitempty"`
	Notice     *NoticeResponse   `json:"notice,omitempty"`
	Options    []OptionResponse  `json:"options"`
	Calendar   *CalendarResponse `json:"calendar,omitempty"`
	Summary    *SummaryResponse  `json:"summary,omitempty"`
	CanGoBack  bool              `json:"canGoBack"`
	CanCancel  bool              `json:"canCancel"`
	Outcome    string            `json:"outcome,omitempty"`
	BookingID  *uuid.UUID        `json:"bookingId,omitempty"`
	VacationID *uuid.UUID        `json:"vacationId,omitempty"`
}

func FromGrid(g calendar.Grid) *CalendarResponse {
	out := &CalendarResponse{
		Month:    g.Month.String(),
		Weekdays: calendar.WeekdayLabels[:],
		Weeks:    make([][]CalendarCellResponse, 0, len(g.Weeks)),
		Nav: CalendarNavResponse{
			PrevYear:  g.Nav.PrevYear.String(),
			PrevMonth: g.Nav.PrevMonth.String(),
			NextMonth: g.Nav.NextMonth.String(),
			NextYear:  g.Nav.NextYear.String(),
		},
	}
	for _, week := range g.Weeks {
		row := make([]CalendarCellResponse, 0, len(week))
		for _, cell := range week {
			if cell.Blank {
				row = append(row, CalendarCellResponse{Blank: true})
				continue
			}
			row = append(row, CalendarCellResponse{
				Date:       cell.Date.String(),
				Day:        cell.Date.Day,
				Selectable: cell.Selectable,
			})
		}
		out.Weeks = append(out.Weeks, row)
	}
	return out
}

func FromReply(r *conversation.Reply) *ReplyResponse {
	out := &ReplyResponse{
		Flow:      string(r.Flow),
		State:     string(r.State),
		Text:      r.Text,
		Options:   make([]OptionResponse, 0, len(r.Options)),
		CanGoBack: r.CanGoBack,
		CanCancel: r.CanCancel,
		Outcome:   string(r.Outcome),
	}
	if r.Notice != nil {
		out.Notice = &NoticeResponse{Level: string(r.Notice.Level), Field: r.Notice.Field, Text: r.Notice.Text}
	}
	for _, o := range r.Options {
		out.Options = append(out.Options, OptionResponse{Label: o.Label, Event: reqdto.EventRequestFrom(o.Event)})
	}
	if r.Calendar != nil {
		out.Calendar = FromGrid(*r.Calendar)
	}
	if s := r.Summary; s != nil {
		out.Summary = &SummaryResponse{
			ServiceName:   s.ServiceName,
			Date:          dateString(s.Date),
			ProviderName:  s.ProviderName,
			VacationStart: dateString(s.VacationStart),
			VacationEnd:   dateString(s.VacationEnd),
		}
		if s.ServiceName != "" {
			out.Summary.Price = catalog.FormatPrice(s.Price)
			if s.AnyProvider {
				out.Summary.ProviderName = "Any barber"
			}
		}
		if s.Time != nil {
			out.Summary.Time = fmt.Sprintf("%02d:%02d", s.Time.Hour, s.Time.Minute)
		}
	}
	if r.Booking != nil {
		id := r.Booking.ID()
		out.BookingID = &id
	}
	if r.Vacation != nil {
		id := r.Vacation.ID
		out.VacationID = &id
	}
	return out
}

func dateString(d *civil.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
