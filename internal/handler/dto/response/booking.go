package response

import (
	"fmt"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/usecase/queries"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type DayItemResponse struct {
	BookingID   uuid.UUID `json:"bookingId"`
	UserID      int64     `json:"userId"`
	Time        string    `json:"time"`
	ServiceName string    `json:"serviceName"`
	Price       int64     `json:"price"`
}

type ProviderGroupResponse struct {
	ProviderID   *uuid.UUID        `json:"providerId,omitempty"`
	ProviderName string            `json:"providerName"`
	Items        []DayItemResponse `json:"items"`
}

type DayViewResponse struct {
	Date   string                  `json:"date"`
	Groups []ProviderGroupResponse `json:"groups"`
}

type BookingItemResponse struct {
	ID           uuid.UUID `json:"id"`
	At           string    `json:"at"`
	ServiceName  string    `json:"serviceName"`
	Price        int64     `json:"price"`
	ProviderName string    `json:"providerName"`
	Status       string    `json:"status"`
}

type BookingPageResponse struct {
	Items      []BookingItemResponse `json:"items"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"totalPages"`
}

type CancelBookingResponse struct {
	ID     uuid.UUID `json:"id"`
	Result string    `json:"result"`
}

// civilConverters render civil values the way the API documents them.
var civilConverters = copier.Option{
	DeepCopy: true,
	Converters: []copier.TypeConverter{
		{
			SrcType: civil.Date{},
			DstType: copier.String,
			Fn:      func(src any) (any, error) { return src.(civil.Date).String(), nil },
		},
		{
			SrcType: civil.Time{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				t := src.(civil.Time)
				return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute), nil
			},
		},
		{
			SrcType: civil.DateTime{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				dt := src.(civil.DateTime)
				return fmt.Sprintf("%sT%02d:%02d", dt.Date, dt.Time.Hour, dt.Time.Minute), nil
			},
		},
		{
			SrcType: booking.Status(""),
			DstType: copier.String,
			Fn:      func(src any) (any, error) { return string(src.(booking.Status)), nil },
		},
	},
}

func FromDayView(v *queries.DayView) (*DayViewResponse, error) {
	out := &DayViewResponse{Groups: []ProviderGroupResponse{}}
	if err := copier.CopyWithOption(out, v, civilConverters); err != nil {
		return nil, err
	}
	return out, nil
}

func FromBookingPage(p *queries.BookingPage) (*BookingPageResponse, error) {
	out := &BookingPageResponse{Items: []BookingItemResponse{}}
	if err := copier.CopyWithOption(out, p, civilConverters); err != nil {
		return nil, err
	}
	return out, nil
}
