package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	conv "barber-booking/internal/domain/conversation"
	"barber-booking/internal/pkg/errs"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Callback data is "kind:arg" and must fit in 64 bytes.
const (
	codeStart    = "st"
	codeService  = "sv"
	codeMonth    = "mo"
	codeDate     = "dt"
	codeTime     = "tm"
	codeProvider = "pv"
	codeConfirm  = "ok"
	codeDiscard  = "no"
	codeCancel   = "x"
	codeBack     = "bk"

	// not conversation events
	codeNoop          = "nop"
	codeCancelBooking = "cb"
	codeBookingsPage  = "pg"
)

const timeLayout = "15:04"

var ErrBadCallback = errs.New("malformed callback data")

// Action is a decoded callback that is not a conversation event.
type Action struct {
	Kind      string
	BookingID uuid.UUID
	Page      int
}

// EncodeEvent renders ev as callback data.
func EncodeEvent(ev conv.Event) string {
	switch e := ev.(type) {
	case conv.Start:
		return codeStart + ":" + string(e.Flow)
	case conv.ServiceChosen:
		return codeService + ":" + e.ServiceID.String()
	case conv.MonthShown:
		return codeMonth + ":" + e.Reference.String()
	case conv.DateChosen:
		return codeDate + ":" + e.Date.String()
	case conv.TimeChosen:
		return codeTime + ":" + fmt.Sprintf("%02d:%02d", e.Time.Hour, e.Time.Minute)
	case conv.ProviderChosen:
		if e.ProviderID == nil {
			return codeProvider + ":"
		}
		return codeProvider + ":" + e.ProviderID.String()
	case conv.Confirmed:
		return codeConfirm
	case conv.Discarded:
		return codeDiscard
	case conv.Cancelled:
		return codeCancel
	case conv.Back:
		return codeBack
	}
	return codeNoop
}

func encodeCancelBooking(id uuid.UUID) string {
	return codeCancelBooking + ":" + id.String()
}

func encodeBookingsPage(page int) string {
	return codeBookingsPage + ":" + strconv.Itoa(page)
}

// Decode parses callback data. Exactly one of the results is non-nil when err is nil.
func Decode(data string) (conv.Event, *Action, error) {
	code, arg, _ := strings.Cut(data, ":")
	switch code {
	case codeStart:
		f := conv.Flow(arg)
		if !f.IsValid() {
			return nil, nil, errs.Wrapf(ErrBadCallback, "unknown flow %q", arg)
		}
		return conv.Start{Flow: f}, nil, nil
	case codeService:
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, nil, errs.Wrapf(ErrBadCallback, "service id %q", arg)
		}
		return conv.ServiceChosen{ServiceID: id}, nil, nil
	case codeMonth:
		d, err := civil.ParseDate(arg)
		if err != nil {
			return nil, nil, errs.Wrapf(ErrBadCallback, "month reference %q", arg)
		}
		return conv.MonthShown{Reference: d}, nil, nil
	case codeDate:
		d, err := civil.ParseDate(arg)
		if err != nil {
			return nil, nil, errs.Wrapf(ErrBadCallback, "date %q", arg)
		}
		return conv.DateChosen{Date: d}, nil, nil
	case codeTime:
		t, err := time.Parse(timeLayout, arg)
		if err != nil {
			return nil, nil, errs.Wrapf(ErrBadCallback, "time %q", arg)
		}
		return conv.TimeChosen{Time: civil.TimeOf(t)}, nil, nil
	case codeProvider:
		if arg == "" {
			return conv.ProviderChosen{}, nil, nil
		}
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, nil, errs.Wrapf(ErrBadCallback, "provider id %q", arg)
		}
		return conv.ProviderChosen{ProviderID: &id}, nil, nil
	case codeConfirm:
		return conv.Confirmed{}, nil, nil
	case codeDiscard:
		return conv.Discarded{}, nil, nil
	case codeCancel:
		return conv.Cancelled{}, nil, nil
	case codeBack:
		return conv.Back{}, nil, nil
	case codeNoop:
		return nil, &Action{Kind: codeNoop}, nil
	case codeCancelBooking:
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, nil, errs.Wrapf(ErrBadCallback, "booking id %q", arg)
		}
		return nil, &Action{Kind: codeCancelBooking, BookingID: id}, nil
	case codeBookingsPage:
		page, err := strconv.Atoi(arg)
		if err != nil || page < 1 {
			return nil, nil, errs.Wrapf(ErrBadCallback, "page %q", arg)
		}
		return nil, &Action{Kind: codeBookingsPage, Page: page}, nil
	}
	return nil, nil, errs.Wrapf(ErrBadCallback, "unknown kind %q", code)
}
