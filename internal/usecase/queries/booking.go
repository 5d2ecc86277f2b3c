package queries

import (
	"context"
	"sort"
	"time"

	"barber-booking/internal/domain/booking"
	"barber-booking/internal/domain/calendar"
	"barber-booking/internal/domain/catalog"
	"barber-booking/internal/pkg/clock"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/usecase/shared"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../mock/queries_mock.go -package=mock

var ErrQueryFailed = errs.New("query failed")

const (
	DefaultPageSize  = 5
	AnyProviderLabel = "Any provider"
	unknownService   = "Unknown service"
)

// DayItem is one booking in an operator's day view.
type DayItem struct {
	BookingID   uuid.UUID  `json:"booking_id"`
	UserID      int64      `json:"user_id"`
	Time        civil.Time `json:"time"`
	ServiceName string     `json:"service_name"`
	Price       int64      `json:"price"`
}

type ProviderGroup struct {
	ProviderID   *uuid.UUID `json:"provider_id,omitempty"`
	ProviderName string     `json:"provider_name"`
	Items        []DayItem  `json:"items"`
}

type DayView struct {
	Date   civil.Date      `json:"date"`
	Groups []ProviderGroup `json:"groups"`
}

type BookingItem struct {
	ID           uuid.UUID      `json:"id"`
	At           civil.DateTime `json:"at"`
	ServiceName  string         `json:"service_name"`
	Price        int64          `json:"price"`
	ProviderName string         `json:"provider_name"`
	Status       booking.Status `json:"status"`
}

type BookingPage struct {
	Items      []BookingItem `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

type BookingQueries interface {
	// DayView lists the active bookings of d grouped by provider. Providers
	// keep catalog order and the any-provider group comes last.
	DayView(ctx context.Context, d civil.Date) (*DayView, error)
	// UserBookings pages through a user's bookings newest first. Page is 1-based.
	UserBookings(ctx context.Context, userID int64, page int) (*BookingPage, error)
	// Calendar renders month for date picking with past days blocked. The
	// zero month means the current one.
	Calendar(ctx context.Context, month calendar.YearMonth) calendar.Grid
}

type bookingQueriesImpl struct {
	catalog  shared.CatalogReader
	bookings shared.BookingStore
	clock    clock.Clock
	loc      *time.Location
	pageSize int
}

func NewBookingQueries(catalogReader shared.CatalogReader, bookings shared.BookingStore, clk clock.Clock, loc *time.Location, pageSize int) BookingQueries {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if loc == nil {
		loc = time.UTC
	}
	return &bookingQueriesImpl{
		catalog:  catalogReader,
		bookings: bookings,
		clock:    clk,
		loc:      loc,
		pageSize: pageSize,
	}
}

func (q *bookingQueriesImpl) DayView(ctx context.Context, d civil.Date) (*DayView, error) {
	list, err := q.bookings.ListBookingsForDate(ctx, d)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	services, providers, err := q.lookups(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].At().Before(list[j].At()) })

	byProvider := make(map[uuid.UUID][]DayItem)
	var anyProvider []DayItem
	for _, b := range list {
		if !b.IsActive() {
			continue
		}
		svc := services[b.ServiceID()]
		item := DayItem{
			BookingID:   b.ID(),
			UserID:      b.UserID(),
			Time:        b.At().Time,
			ServiceName: svc.Name,
			Price:       svc.Price,
		}
		if item.ServiceName == "" {
			item.ServiceName = unknownService
		}
		if pid := b.ProviderID(); pid != nil {
			byProvider[*pid] = append(byProvider[*pid], item)
		} else {
			anyProvider = append(anyProvider, item)
		}
	}

	view := &DayView{Date: d, Groups: []ProviderGroup{}}
	for _, p := range providers {
		items, ok := byProvider[p.ID]
		if !ok {
			continue
		}
		id := p.ID
		view.Groups = append(view.Groups, ProviderGroup{ProviderID: &id, ProviderName: p.Name, Items: items})
		delete(byProvider, p.ID)
	}
	// Bookings of providers missing from the catalog still show up.
	for _, items := range byProvider {
		anyProvider = append(anyProvider, items...)
	}
	if len(anyProvider) > 0 {
		sort.SliceStable(anyProvider, func(i, j int) bool { return secondOfDay(anyProvider[i].Time) < secondOfDay(anyProvider[j].Time) })
		view.Groups = append(view.Groups, ProviderGroup{ProviderName: AnyProviderLabel, Items: anyProvider})
	}
	return view, nil
}

func (q *bookingQueriesImpl) UserBookings(ctx context.Context, userID int64, page int) (*BookingPage, error) {
	if page < 1 {
		page = 1
	}
	total, err := q.bookings.CountBookingsForUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	out := &BookingPage{
		Items:      []BookingItem{},
		Page:       page,
		PageSize:   q.pageSize,
		Total:      total,
		TotalPages: (total + q.pageSize - 1) / q.pageSize,
	}
	if total == 0 || (page-1)*q.pageSize >= total {
		return out, nil
	}

	list, err := q.bookings.ListBookingsForUser(ctx, userID, q.pageSize, (page-1)*q.pageSize)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	services, providers, err := q.lookups(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(providers))
	for _, p := range providers {
		names[p.ID] = p.Name
	}

	for _, b := range list {
		svc := services[b.ServiceID()]
		item := BookingItem{
			ID:           b.ID(),
			At:           b.At(),
			ServiceName:  svc.Name,
			Price:        svc.Price,
			ProviderName: AnyProviderLabel,
			Status:       b.Status(),
		}
		if item.ServiceName == "" {
			item.ServiceName = unknownService
		}
		if pid := b.ProviderID(); pid != nil {
			if name, ok := names[*pid]; ok {
				item.ProviderName = name
			}
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (q *bookingQueriesImpl) Calendar(_ context.Context, month calendar.YearMonth) calendar.Grid {
	today := clock.Today(q.clock, q.loc)
	if !month.IsValid() {
		return calendar.Render(today, today, calendar.Bounds{})
	}
	return calendar.Render(month.Clamp(today.Day), today, calendar.Bounds{})
}

func (q *bookingQueriesImpl) lookups(ctx context.Context) (map[uuid.UUID]catalog.Service, []catalog.Provider, error) {
	services, err := q.catalog.ListServices(ctx)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrQueryFailed)
	}
	providers, err := q.catalog.ListProviders(ctx)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrQueryFailed)
	}
	byID := make(map[uuid.UUID]catalog.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}
	return byID, providers, nil
}

func secondOfDay(t civil.Time) int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}
